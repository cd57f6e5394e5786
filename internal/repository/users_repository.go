package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/pkg/cleanup"
	"github.com/ndelacroix/habitude/pkg/entity"
)

const jokerCost = 10

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(cfg DBConfig) *UsersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for usersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing usersRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &UsersRepository{
		conn: pool,
	}
}

func NewUsersRepoWithConn(conn PgConnection) *UsersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	var user entity.User
	row := ur.conn.QueryRow(ctx, `SELECT id, name, level, currency, jokers, created_at FROM users WHERE name = $1;`, name)
	if err := row.Scan(&user.ID, &user.Name, &user.Level, &user.Currency, &user.Jokers, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by name error: " + err.Error())
	}
	return &user, nil
}

func (ur *UsersRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := ur.conn.Query(ctx, `SELECT id, name, level, currency, jokers, created_at FROM users ORDER BY created_at;`)
	if err != nil {
		return nil, errors.New("listing users error: " + err.Error())
	}
	defer rows.Close()
	users := make([]*entity.User, 0)
	for rows.Next() {
		u := entity.User{}
		err = rows.Scan(&u.ID, &u.Name, &u.Level, &u.Currency, &u.Jokers, &u.CreatedAt)
		if err != nil {
			return nil, errors.New("user row parsing error: " + err.Error())
		}
		users = append(users, &u)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning users: " + rows.Err().Error())
	}
	return users, nil
}

// Upsert creates the user with level 1 and empty balances if the name is
// free, then returns the stored row either way.
func (ur *UsersRepository) Upsert(ctx context.Context, name string) (*entity.User, error) {
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (name) VALUES ($1) ON CONFLICT (name) DO NOTHING;`, name)
	if err != nil {
		return nil, errors.New("upserting user error: " + err.Error())
	}
	return ur.FindByName(ctx, name)
}

func (ur *UsersRepository) AddCurrency(ctx context.Context, uid uuid.UUID, delta int) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET currency = currency + $1 WHERE id = $2;`, delta, uid)
	if err != nil {
		return errors.New("adjusting currency error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

// SpendCurrencyOnJoker performs the joker purchase in one statement so the
// balance guard and the trade can't be split by a concurrent writer.
func (ur *UsersRepository) SpendCurrencyOnJoker(ctx context.Context, uid uuid.UUID) (bool, error) {
	ct, err := ur.conn.Exec(
		ctx,
		`UPDATE users SET currency = currency - $1, jokers = jokers + 1 WHERE id = $2 AND currency >= $1;`,
		jokerCost,
		uid,
	)
	if err != nil {
		return false, errors.New("buying joker error: " + err.Error())
	}
	return ct.RowsAffected() == 1, nil
}

func (ur *UsersRepository) SpendJoker(ctx context.Context, uid uuid.UUID) (bool, error) {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET jokers = jokers - 1 WHERE id = $1 AND jokers >= 1;`, uid)
	if err != nil {
		return false, errors.New("spending joker error: " + err.Error())
	}
	return ct.RowsAffected() == 1, nil
}

// RaiseLevel only moves the level up. Zero rows affected means the stored
// level was already at least level, which is not an error.
func (ur *UsersRepository) RaiseLevel(ctx context.Context, uid uuid.UUID, level int) error {
	_, err := ur.conn.Exec(ctx, `UPDATE users SET level = $1 WHERE id = $2 AND level < $1;`, level, uid)
	if err != nil {
		return errors.New("raising level error: " + err.Error())
	}
	return nil
}

func (ur *UsersRepository) ResetBalances(ctx context.Context) error {
	_, err := ur.conn.Exec(ctx, `UPDATE users SET currency = 0, jokers = 0;`)
	if err != nil {
		return errors.New("resetting balances error: " + err.Error())
	}
	return nil
}

// pgErrCode extracts the postgres error code if err wraps a PgError.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
