package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/pkg/entity"
)

// In-memory repositories faithful enough to check the currency, joker and
// level invariants without a database.

type usersRepoFake struct {
	users map[string]*entity.User
	// when set, every call fails with this error
	failWith error
}

func newUsersRepoFake() *usersRepoFake {
	return &usersRepoFake{users: map[string]*entity.User{}}
}

func (f *usersRepoFake) add(name string, level, currency, jokers int) *entity.User {
	u := &entity.User{
		ID:        uuid.New(),
		Name:      name,
		Level:     level,
		Currency:  currency,
		Jokers:    jokers,
		CreatedAt: time.Now(),
	}
	f.users[name] = u
	return u
}

func (f *usersRepoFake) byID(uid uuid.UUID) *entity.User {
	for _, u := range f.users {
		if u.ID == uid {
			return u
		}
	}
	return nil
}

func (f *usersRepoFake) FindByName(ctx context.Context, name string) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[name]
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *usersRepoFake) FindAll(ctx context.Context) ([]*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	all := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		copied := *u
		all = append(all, &copied)
	}
	return all, nil
}

func (f *usersRepoFake) Upsert(ctx context.Context, name string) (*entity.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.users[name]; ok {
		copied := *u
		return &copied, nil
	}
	copied := *f.add(name, 1, 0, 0)
	return &copied, nil
}

func (f *usersRepoFake) AddCurrency(ctx context.Context, uid uuid.UUID, delta int) error {
	if f.failWith != nil {
		return f.failWith
	}
	u := f.byID(uid)
	if u == nil {
		return errorvalues.ErrUserNotFound
	}
	u.Currency += delta
	return nil
}

func (f *usersRepoFake) SpendCurrencyOnJoker(ctx context.Context, uid uuid.UUID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	u := f.byID(uid)
	if u == nil || u.Currency < 10 {
		return false, nil
	}
	u.Currency -= 10
	u.Jokers++
	return true, nil
}

func (f *usersRepoFake) SpendJoker(ctx context.Context, uid uuid.UUID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	u := f.byID(uid)
	if u == nil || u.Jokers < 1 {
		return false, nil
	}
	u.Jokers--
	return true, nil
}

func (f *usersRepoFake) RaiseLevel(ctx context.Context, uid uuid.UUID, level int) error {
	if f.failWith != nil {
		return f.failWith
	}
	u := f.byID(uid)
	if u == nil {
		return errorvalues.ErrUserNotFound
	}
	if u.Level < level {
		u.Level = level
	}
	return nil
}

func (f *usersRepoFake) ResetBalances(ctx context.Context) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		u.Currency = 0
		u.Jokers = 0
	}
	return nil
}

type logsRepoFake struct {
	logs     []*entity.DailyLog
	nextID   int64
	failWith error
}

func newLogsRepoFake() *logsRepoFake {
	return &logsRepoFake{nextID: 1}
}

func (f *logsRepoFake) seed(uid uuid.UUID, day time.Time, habits ...entity.Habit) *entity.DailyLog {
	l := &entity.DailyLog{ID: f.nextID, UserID: uid, Date: entity.DayOf(day)}
	f.nextID++
	for _, h := range habits {
		l.SetFlag(h, true)
	}
	f.logs = append(f.logs, l)
	return l
}

func (f *logsRepoFake) FindByUserAndDay(ctx context.Context, uid uuid.UUID, dayStart time.Time) (*entity.DailyLog, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, l := range f.logs {
		if l.UserID == uid && entity.DayOf(l.Date).Equal(entity.DayOf(dayStart)) {
			copied := *l
			return &copied, nil
		}
	}
	return nil, errorvalues.ErrLogNotFound
}

func (f *logsRepoFake) RecentByUser(ctx context.Context, uid uuid.UUID, limit int) ([]entity.DailyLog, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	recent := make([]entity.DailyLog, 0)
	for _, l := range f.logs {
		if l.UserID == uid {
			recent = append(recent, *l)
		}
	}
	// newest first, as the store orders them
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (f *logsRepoFake) Create(ctx context.Context, l *entity.DailyLog) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, err := f.FindByUserAndDay(ctx, l.UserID, l.Date); err == nil {
		return errorvalues.ErrLogExists
	}
	l.ID = f.nextID
	f.nextID++
	copied := *l
	f.logs = append(f.logs, &copied)
	return nil
}

func (f *logsRepoFake) UpdateFlags(ctx context.Context, l *entity.DailyLog) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, stored := range f.logs {
		if stored.ID == l.ID {
			stored.Sport = l.Sport
			stored.Nutrition = l.Nutrition
			stored.Reading = l.Reading
			stored.Work = l.Work
			stored.Meditation = l.Meditation
			return nil
		}
	}
	return errorvalues.ErrLogNotFound
}
