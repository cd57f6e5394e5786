package service

import (
	"context"
	"time"

	"github.com/ndelacroix/habitude/internal/stats"
	"github.com/ndelacroix/habitude/pkg/entity"
)

type UpsertUserRequest struct {
	Name string `validate:"required,alphanum_underscore,min=2,max=100"`
}

// UserStats is the derived view-model attached to a user on reads.
type UserStats struct {
	CurrentStreak int                 `json:"currentStreak"`
	Totals        stats.Totals        `json:"totals"`
	Badges        []stats.Badge       `json:"badges"`
	Weekly        []stats.WeeklyPoint `json:"weeklyStats"`
}

type UserWithStats struct {
	entity.User
	Stats UserStats `json:"stats"`
}

// PurchaseResult reports a joker purchase. A refusal for lack of points is a
// declined result, not an error.
type PurchaseResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// JokerResult reports a joker redemption the same way.
type JokerResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UserServiceI interface {
	// Fetches user with the derived stats view-model. Pure read, no side effects
	GetWithStats(ctx context.Context, name string) (*UserWithStats, error)
	// Lists every user enriched with stats, for the user-selection screen
	ListWithStats(ctx context.Context) ([]*UserWithStats, error)
	// Builds the 30-day analytics series for the user
	GetMonthlyStats(ctx context.Context, name string) (*stats.MonthlyStats, error)
	// Trades 10 currency for a joker; declines without failing when points are short
	BuyJoker(ctx context.Context, name string) (*PurchaseResult, error)
	// Validates the name and creates the user if absent (seed path)
	Upsert(ctx context.Context, req *UpsertUserRequest) (*entity.User, error)
	// Zeroes every user's currency and jokers (maintenance path)
	ResetAllBalances(ctx context.Context) error
}

type HabitLogServiceI interface {
	// Flips one habit flag for the day, paying or revoking currency on the
	// perfect-day boundary, then reconciles the user's level
	Toggle(ctx context.Context, name string, habit entity.Habit, day time.Time) error
	// Consumes a joker to force one habit true for the day. Never touches currency
	UseJoker(ctx context.Context, name string, habit entity.Habit, day time.Time) (*JokerResult, error)
}
