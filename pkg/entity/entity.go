package entity

import (
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
)

// Habit is the closed set of trackable habit keys.
type Habit string

const (
	HabitSport      Habit = "sport"
	HabitNutrition  Habit = "nutrition"
	HabitReading    Habit = "reading"
	HabitWork       Habit = "work"
	HabitMeditation Habit = "meditation"
)

// AllHabits lists the habits in dashboard order.
var AllHabits = [5]Habit{HabitSport, HabitNutrition, HabitReading, HabitWork, HabitMeditation}

// ParseHabit validates a habit key coming from the outside (path values, request bodies).
func ParseHabit(s string) (Habit, error) {
	switch Habit(s) {
	case HabitSport, HabitNutrition, HabitReading, HabitWork, HabitMeditation:
		return Habit(s), nil
	}
	return "", errorvalues.ErrInvalidHabit
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	Currency  int       `json:"currency"`
	Jokers    int       `json:"jokers"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyLog holds the five habit flags for one user and one calendar day.
// Date is always normalized to midnight. There is at most one log per
// (user, day).
type DailyLog struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"uid"`
	Date       time.Time `json:"date"`
	Sport      bool      `json:"sport"`
	Nutrition  bool      `json:"nutrition"`
	Reading    bool      `json:"reading"`
	Work       bool      `json:"work"`
	Meditation bool      `json:"meditation"`
}

func (l *DailyLog) Flag(h Habit) bool {
	switch h {
	case HabitSport:
		return l.Sport
	case HabitNutrition:
		return l.Nutrition
	case HabitReading:
		return l.Reading
	case HabitWork:
		return l.Work
	case HabitMeditation:
		return l.Meditation
	}
	return false
}

func (l *DailyLog) SetFlag(h Habit, v bool) {
	switch h {
	case HabitSport:
		l.Sport = v
	case HabitNutrition:
		l.Nutrition = v
	case HabitReading:
		l.Reading = v
	case HabitWork:
		l.Work = v
	case HabitMeditation:
		l.Meditation = v
	}
}

func (l *DailyLog) CompletedCount() int {
	count := 0
	for _, h := range AllHabits {
		if l.Flag(h) {
			count++
		}
	}
	return count
}

// IsPerfect reports whether all five habits are done. Perfect days are what
// earn currency and feed the streak.
func (l *DailyLog) IsPerfect() bool {
	return l.Sport && l.Nutrition && l.Reading && l.Work && l.Meditation
}

// DayOf truncates a timestamp to its midnight boundary, the canonical form
// for DailyLog dates.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
