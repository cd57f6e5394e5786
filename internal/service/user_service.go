package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/internal/repository"
	"github.com/ndelacroix/habitude/internal/stats"
	"github.com/ndelacroix/habitude/pkg/entity"
	"github.com/ndelacroix/habitude/pkg/keylock"
)

type UserService struct {
	usersRepo repository.UsersRepositoryI
	logsRepo  repository.DailyLogsRepositoryI
	userLocks *keylock.KeyLock
}

func NewUserService(usersRepo repository.UsersRepositoryI, logsRepo repository.DailyLogsRepositoryI, userLocks *keylock.KeyLock) *UserService {
	if usersRepo == nil || logsRepo == nil || userLocks == nil {
		log.Fatal("on user service provided nil dependencies")
	}
	return &UserService{
		usersRepo: usersRepo,
		logsRepo:  logsRepo,
		userLocks: userLocks,
	}
}

func (us *UserService) GetWithStats(ctx context.Context, name string) (*UserWithStats, error) {
	user, err := us.usersRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	logs, err := us.logsRepo.RecentByUser(ctx, user.ID, stats.LogWindow)
	if err != nil {
		return nil, errors.New("daily logs repository error: " + err.Error())
	}
	today := time.Now()
	totals := stats.CountTotals(logs)
	streak := stats.CurrentStreak(logs, today)
	return &UserWithStats{
		User: *user,
		Stats: UserStats{
			CurrentStreak: streak,
			Totals:        totals,
			Badges:        stats.BadgesFor(totals, streak, user.Level),
			Weekly:        stats.WeeklySeries(logs, today),
		},
	}, nil
}

func (us *UserService) ListWithStats(ctx context.Context) ([]*UserWithStats, error) {
	users, err := us.usersRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	enriched := make([]*UserWithStats, 0, len(users))
	for _, u := range users {
		uws, err := us.GetWithStats(ctx, u.Name)
		if err != nil {
			// A user deleted between the list and the per-user read just drops out
			if errors.Is(err, errorvalues.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		enriched = append(enriched, uws)
	}
	return enriched, nil
}

func (us *UserService) GetMonthlyStats(ctx context.Context, name string) (*stats.MonthlyStats, error) {
	user, err := us.usersRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	logs, err := us.logsRepo.RecentByUser(ctx, user.ID, stats.LogWindow)
	if err != nil {
		return nil, errors.New("daily logs repository error: " + err.Error())
	}
	monthly := stats.MonthlySeries(logs, time.Now())
	return &monthly, nil
}

func (us *UserService) BuyJoker(ctx context.Context, name string) (*PurchaseResult, error) {
	unlock := us.userLocks.Lock(name)
	defer unlock()
	user, err := us.usersRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	bought, err := us.usersRepo.SpendCurrencyOnJoker(ctx, user.ID)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	if !bought {
		return &PurchaseResult{Success: false, Message: "Pas assez de points !"}, nil
	}
	return &PurchaseResult{Success: true}, nil
}

func (us *UserService) Upsert(ctx context.Context, req *UpsertUserRequest) (*entity.User, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	user, err := us.usersRepo.Upsert(ctx, req.Name)
	if err != nil {
		return nil, errors.New("users repository error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) ResetAllBalances(ctx context.Context) error {
	err := us.usersRepo.ResetBalances(ctx)
	if err != nil {
		return errors.New("users repository error: " + err.Error())
	}
	return nil
}
