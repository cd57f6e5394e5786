package service_test

import (
	"context"
	"testing"
	"time"

	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/internal/service"
	"github.com/ndelacroix/habitude/pkg/entity"
	"github.com/ndelacroix/habitude/pkg/keylock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHabitLogFixture() (*service.HabitLogService, *usersRepoFake, *logsRepoFake) {
	usersRepo := newUsersRepoFake()
	logsRepo := newLogsRepoFake()
	return service.NewHabitLogService(usersRepo, logsRepo, keylock.New()), usersRepo, logsRepo
}

func TestToggleCreatesLogLazily(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 0)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	err := serv.Toggle(ctx, "Lucas", entity.HabitSport, day)
	require.NoError(t, err)

	l, err := logsRepo.FindByUserAndDay(ctx, user.ID, day)
	require.NoError(t, err)
	assert.True(t, l.Sport)
	assert.Equal(t, 1, l.CompletedCount())
	// A one-flag fresh day can't be perfect, so no currency is paid
	assert.Equal(t, 0, usersRepo.users["Lucas"].Currency)
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 0)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	logsRepo.seed(user.ID, day, entity.HabitReading)
	ctx := context.Background()

	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitSport, day))
	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitSport, day))

	l, err := logsRepo.FindByUserAndDay(ctx, user.ID, day)
	require.NoError(t, err)
	assert.False(t, l.Sport)
	assert.True(t, l.Reading)
	assert.Equal(t, 0, usersRepo.users["Lucas"].Currency)
}

func TestToggleCurrencyOnPerfectEdges(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 0)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	logsRepo.seed(user.ID, day,
		entity.HabitSport, entity.HabitNutrition, entity.HabitReading, entity.HabitWork)
	ctx := context.Background()

	// 4/5 -> 5/5 crosses into perfect: +1
	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitMeditation, day))
	assert.Equal(t, 1, usersRepo.users["Lucas"].Currency)

	// 5/5 -> 4/5 crosses back out: -1
	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitSport, day))
	assert.Equal(t, 0, usersRepo.users["Lucas"].Currency)

	// 4/5 -> 3/5 stays imperfect: no change
	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitWork, day))
	assert.Equal(t, 0, usersRepo.users["Lucas"].Currency)
}

func TestToggleUnknownUser(t *testing.T) {
	serv, _, _ := newHabitLogFixture()
	err := serv.Toggle(context.Background(), "Personne", entity.HabitSport, time.Now())
	assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
}

func TestToggleRaisesLevel(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 0)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	// 9 XP on the books, the next completion is the tenth
	logsRepo.seed(user.ID, day.AddDate(0, 0, -2), entity.AllHabits[:]...)
	logsRepo.seed(user.ID, day.AddDate(0, 0, -1),
		entity.HabitSport, entity.HabitNutrition, entity.HabitReading, entity.HabitWork)
	ctx := context.Background()

	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitSport, day))
	assert.Equal(t, 2, usersRepo.users["Lucas"].Level)

	// Dropping back to 9 XP must not lower the level
	require.NoError(t, serv.Toggle(ctx, "Lucas", entity.HabitSport, day))
	assert.Equal(t, 2, usersRepo.users["Lucas"].Level)
}

func TestUseJokerNeverPaysCurrency(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 3, 1)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	logsRepo.seed(user.ID, day,
		entity.HabitSport, entity.HabitNutrition, entity.HabitReading, entity.HabitWork)
	ctx := context.Background()

	result, err := serv.UseJoker(ctx, "Lucas", entity.HabitMeditation, day)
	require.NoError(t, err)
	assert.True(t, result.Success)

	l, err := logsRepo.FindByUserAndDay(ctx, user.ID, day)
	require.NoError(t, err)
	assert.True(t, l.IsPerfect())
	// Day became perfect through a joker: joker gone, currency untouched
	assert.Equal(t, 0, usersRepo.users["Lucas"].Jokers)
	assert.Equal(t, 3, usersRepo.users["Lucas"].Currency)
}

func TestUseJokerCreatesMissingLog(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 2)
	day := time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	result, err := serv.UseJoker(ctx, "Lucas", entity.HabitReading, day)
	require.NoError(t, err)
	assert.True(t, result.Success)

	l, err := logsRepo.FindByUserAndDay(ctx, user.ID, day)
	require.NoError(t, err)
	assert.True(t, l.Reading)
	assert.Equal(t, 1, usersRepo.users["Lucas"].Jokers)
}

func TestUseJokerDeclinedWithoutJokers(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	usersRepo.add("Lucas", 1, 50, 0)
	ctx := context.Background()

	result, err := serv.UseJoker(ctx, "Lucas", entity.HabitSport, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Aucun Joker disponible !", result.Message)
	// Declined redemption writes nothing
	assert.Empty(t, logsRepo.logs)
	assert.Equal(t, 50, usersRepo.users["Lucas"].Currency)
}

func TestUseJokerIdempotentOnCompletedHabit(t *testing.T) {
	serv, usersRepo, logsRepo := newHabitLogFixture()
	user := usersRepo.add("Lucas", 1, 0, 2)
	day := time.Date(2025, time.March, 19, 0, 0, 0, 0, time.UTC)
	logsRepo.seed(user.ID, day, entity.HabitSport)
	ctx := context.Background()

	result, err := serv.UseJoker(ctx, "Lucas", entity.HabitSport, day)
	require.NoError(t, err)
	// Forcing an already-true flag still consumes the joker
	assert.True(t, result.Success)
	assert.Equal(t, 1, usersRepo.users["Lucas"].Jokers)

	l, err := logsRepo.FindByUserAndDay(ctx, user.ID, day)
	require.NoError(t, err)
	assert.True(t, l.Sport)
	assert.Equal(t, 1, l.CompletedCount())
}
