package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/internal/repository"
	"github.com/ndelacroix/habitude/internal/stats"
	"github.com/ndelacroix/habitude/pkg/entity"
	"github.com/ndelacroix/habitude/pkg/keylock"
)

// HabitLogService owns the log-mutating operations. Every mutation runs
// under the per-user lock shared with UserService, which closes the
// read-modify-write race on concurrent toggles of the same day.
type HabitLogService struct {
	usersRepo repository.UsersRepositoryI
	logsRepo  repository.DailyLogsRepositoryI
	userLocks *keylock.KeyLock
}

func NewHabitLogService(usersRepo repository.UsersRepositoryI, logsRepo repository.DailyLogsRepositoryI, userLocks *keylock.KeyLock) *HabitLogService {
	if usersRepo == nil || logsRepo == nil || userLocks == nil {
		log.Fatal("on habit log service provided nil dependencies")
	}
	return &HabitLogService{
		usersRepo: usersRepo,
		logsRepo:  logsRepo,
		userLocks: userLocks,
	}
}

func (hs *HabitLogService) Toggle(ctx context.Context, name string, habit entity.Habit, day time.Time) error {
	unlock := hs.userLocks.Lock(name)
	defer unlock()
	user, err := hs.usersRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return err
		}
		return errors.New("users repository error: " + err.Error())
	}
	dayStart := entity.DayOf(day)
	l, err := hs.logsRepo.FindByUserAndDay(ctx, user.ID, dayStart)
	if err != nil && !errors.Is(err, errorvalues.ErrLogNotFound) {
		return errors.New("daily logs repository error: " + err.Error())
	}
	if l == nil {
		// First toggle of the day creates the row with the single flag set.
		// One flag out of five can't make a perfect day, so no currency moves
		fresh := entity.DailyLog{UserID: user.ID, Date: dayStart}
		fresh.SetFlag(habit, true)
		if err := hs.logsRepo.Create(ctx, &fresh); err != nil {
			return errors.New("daily logs repository error: " + err.Error())
		}
		return hs.reconcileLevel(ctx, user.ID, user.Level)
	}

	wasPerfect := l.IsPerfect()
	l.SetFlag(habit, !l.Flag(habit))
	if err := hs.logsRepo.UpdateFlags(ctx, l); err != nil {
		return errors.New("daily logs repository error: " + err.Error())
	}
	// Currency moves only on the perfect/non-perfect edge
	switch isPerfect := l.IsPerfect(); {
	case !wasPerfect && isPerfect:
		err = hs.usersRepo.AddCurrency(ctx, user.ID, 1)
	case wasPerfect && !isPerfect:
		err = hs.usersRepo.AddCurrency(ctx, user.ID, -1)
	}
	if err != nil {
		return errors.New("users repository error: " + err.Error())
	}
	return hs.reconcileLevel(ctx, user.ID, user.Level)
}

func (hs *HabitLogService) UseJoker(ctx context.Context, name string, habit entity.Habit, day time.Time) (*JokerResult, error) {
	unlock := hs.userLocks.Lock(name)
	defer unlock()
	user, err := hs.usersRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	spent, err := hs.usersRepo.SpendJoker(ctx, user.ID)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	if !spent {
		return &JokerResult{Success: false, Message: "Aucun Joker disponible !"}, nil
	}
	// The joker forces the flag true but never pays currency, even when the
	// day becomes perfect. Assisted completion stays outside the reward economy
	dayStart := entity.DayOf(day)
	l, err := hs.logsRepo.FindByUserAndDay(ctx, user.ID, dayStart)
	if err != nil && !errors.Is(err, errorvalues.ErrLogNotFound) {
		return nil, errors.New("daily logs repository error: " + err.Error())
	}
	if l == nil {
		fresh := entity.DailyLog{UserID: user.ID, Date: dayStart}
		fresh.SetFlag(habit, true)
		if err := hs.logsRepo.Create(ctx, &fresh); err != nil {
			return nil, errors.New("daily logs repository error: " + err.Error())
		}
	} else {
		l.SetFlag(habit, true)
		if err := hs.logsRepo.UpdateFlags(ctx, l); err != nil {
			return nil, errors.New("daily logs repository error: " + err.Error())
		}
	}
	if err := hs.reconcileLevel(ctx, user.ID, user.Level); err != nil {
		return nil, err
	}
	return &JokerResult{Success: true}, nil
}

// reconcileLevel raises the stored level to match the XP formula after a
// log mutation. It never lowers a level: backfilled or corrected history
// must not take progress away.
func (hs *HabitLogService) reconcileLevel(ctx context.Context, uid uuid.UUID, storedLevel int) error {
	logs, err := hs.logsRepo.RecentByUser(ctx, uid, stats.LogWindow)
	if err != nil {
		return errors.New("daily logs repository error: " + err.Error())
	}
	level := stats.LevelFor(stats.CountTotals(logs))
	if level <= storedLevel {
		return nil
	}
	if err := hs.usersRepo.RaiseLevel(ctx, uid, level); err != nil {
		return errors.New("users repository error: " + err.Error())
	}
	return nil
}
