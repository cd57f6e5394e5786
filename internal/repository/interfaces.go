package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ndelacroix/habitude/pkg/entity"
)

type UsersRepositoryI interface {
	// Looks up user by name. Name is the only identity the app knows
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Lists every user, oldest account first
	FindAll(ctx context.Context) ([]*entity.User, error)
	// Creates user with default balances unless it already exists, then returns it
	Upsert(ctx context.Context, name string) (*entity.User, error)
	// Adds delta (possibly negative) to user's currency
	AddCurrency(ctx context.Context, uid uuid.UUID, delta int) error
	// Atomically trades 10 currency for 1 joker. Reports whether the guard passed
	SpendCurrencyOnJoker(ctx context.Context, uid uuid.UUID) (bool, error)
	// Atomically consumes one joker. Reports whether the guard passed
	SpendJoker(ctx context.Context, uid uuid.UUID) (bool, error)
	// Raises stored level to level if it is currently lower; never lowers it
	RaiseLevel(ctx context.Context, uid uuid.UUID, level int) error
	// Zeroes currency and jokers for every user (maintenance)
	ResetBalances(ctx context.Context) error
}

type DailyLogsRepositoryI interface {
	// Searches the log covering the calendar day starting at dayStart
	FindByUserAndDay(ctx context.Context, uid uuid.UUID, dayStart time.Time) (*entity.DailyLog, error)
	// Provides up to limit most recent logs, newest first
	RecentByUser(ctx context.Context, uid uuid.UUID, limit int) ([]entity.DailyLog, error)
	// Inserts a new log row and fills in its ID
	Create(ctx context.Context, log *entity.DailyLog) error
	// Rewrites the five flags of an existing log by ID
	UpdateFlags(ctx context.Context, log *entity.DailyLog) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
