// Package stats holds the pure derivations over a user's daily logs:
// streaks, totals, badges, level and the chart series. Functions take an
// already-fetched log window (newest first) and do no I/O, so they stay
// testable without a database.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/ndelacroix/habitude/pkg/entity"
)

// LogWindow is how many recent logs the action layer feeds into the
// derivations. A year of history is enough for every formula below.
const LogWindow = 365

type Totals struct {
	Sport       int `json:"sport"`
	Nutrition   int `json:"nutrition"`
	Reading     int `json:"reading"`
	Work        int `json:"work"`
	Meditation  int `json:"meditation"`
	PerfectDays int `json:"perfectDays"`
}

// XP counts every completed habit as one experience point.
func (t Totals) XP() int {
	return t.Sport + t.Nutrition + t.Reading + t.Work + t.Meditation
}

type Badge struct {
	ID     string `json:"id"`
	Icon   string `json:"icon"`
	Label  string `json:"label"`
	Earned bool   `json:"earned"`
}

type WeeklyPoint struct {
	Day        string `json:"day"`
	Completion int    `json:"completion"`
}

type CategoryCount struct {
	Subject  string `json:"subject"`
	Count    int    `json:"count"`
	FullMark int    `json:"full_mark"`
}

type DailyScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

type MonthlyStats struct {
	Radar []CategoryCount `json:"radar"`
	Line  []DailyScore    `json:"line"`
}

// CurrentStreak counts consecutive perfect days walking the logs newest to
// oldest. An imperfect log dated today is skipped rather than breaking the
// run: the day isn't over yet, so yesterday's streak survives.
func CurrentStreak(logs []entity.DailyLog, today time.Time) int {
	day := entity.DayOf(today)
	streak := 0
	for i := range logs {
		if logs[i].IsPerfect() {
			streak++
			continue
		}
		if entity.DayOf(logs[i].Date).Equal(day) {
			continue
		}
		break
	}
	return streak
}

// CountTotals tallies per-habit completions and perfect days over the
// supplied window.
func CountTotals(logs []entity.DailyLog) Totals {
	var t Totals
	for i := range logs {
		if logs[i].Sport {
			t.Sport++
		}
		if logs[i].Nutrition {
			t.Nutrition++
		}
		if logs[i].Reading {
			t.Reading++
		}
		if logs[i].Work {
			t.Work++
		}
		if logs[i].Meditation {
			t.Meditation++
		}
		if logs[i].IsPerfect() {
			t.PerfectDays++
		}
	}
	return t
}

// LevelFor maps accumulated XP to a level: 0-9 XP is level 1, 10-19 is
// level 2 and so on.
func LevelFor(t Totals) int {
	return t.XP()/10 + 1
}

// BadgesFor evaluates the fixed badge catalog. Badges are independent of
// each other; level is the stored user level.
func BadgesFor(t Totals, streak, level int) []Badge {
	return []Badge{
		{ID: "fire", Icon: "Flame", Label: "On Fire (7j)", Earned: streak >= 7},
		{ID: "athlete", Icon: "Dumbbell", Label: "Athlète (10x)", Earned: t.Sport >= 10},
		{ID: "erudit", Icon: "BookOpen", Label: "Erudit (30x)", Earned: t.Reading >= 30},
		{ID: "master", Icon: "Lock", Label: "Maitre (Lvl 20)", Earned: level >= 20},
	}
}

// Weekday letters as shown on the dashboard, Sunday first.
var weekdayLetters = [7]string{"D", "L", "M", "M", "J", "V", "S"}

// French month abbreviations for the analytics line chart labels.
var monthLabels = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// WeeklySeries produces the seven dashboard bars for today-6 .. today,
// oldest first. A day with no log scores 0.
func WeeklySeries(logs []entity.DailyLog, today time.Time) []WeeklyPoint {
	byDay := indexByDay(logs)
	day := entity.DayOf(today)
	points := make([]WeeklyPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		points = append(points, WeeklyPoint{
			Day:        weekdayLetters[d.Weekday()],
			Completion: completionPercent(byDay, d),
		})
	}
	return points
}

// MonthlySeries builds the analytics page data over the trailing 30 days
// including today: per-category radar counts and a 30-point daily
// completion line, oldest first.
func MonthlySeries(logs []entity.DailyLog, today time.Time) MonthlyStats {
	day := entity.DayOf(today)
	windowStart := day.AddDate(0, 0, -29)

	var t Totals
	for i := range logs {
		if entity.DayOf(logs[i].Date).Before(windowStart) {
			continue
		}
		if logs[i].Sport {
			t.Sport++
		}
		if logs[i].Nutrition {
			t.Nutrition++
		}
		if logs[i].Reading {
			t.Reading++
		}
		if logs[i].Work {
			t.Work++
		}
		if logs[i].Meditation {
			t.Meditation++
		}
	}

	byDay := indexByDay(logs)
	line := make([]DailyScore, 0, 30)
	for i := 29; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		line = append(line, DailyScore{
			Date:  fmt.Sprintf("%02d %s", d.Day(), monthLabels[d.Month()-1]),
			Score: completionPercent(byDay, d),
		})
	}

	return MonthlyStats{
		Radar: []CategoryCount{
			{Subject: "Sport", Count: t.Sport, FullMark: 30},
			{Subject: "Nutrition", Count: t.Nutrition, FullMark: 30},
			{Subject: "Lecture", Count: t.Reading, FullMark: 30},
			{Subject: "Travail", Count: t.Work, FullMark: 30},
			{Subject: "Médit.", Count: t.Meditation, FullMark: 30},
		},
		Line: line,
	}
}

func indexByDay(logs []entity.DailyLog) map[string]*entity.DailyLog {
	byDay := make(map[string]*entity.DailyLog, len(logs))
	for i := range logs {
		byDay[dayKey(logs[i].Date)] = &logs[i]
	}
	return byDay
}

func completionPercent(byDay map[string]*entity.DailyLog, d time.Time) int {
	l, ok := byDay[dayKey(d)]
	if !ok {
		return 0
	}
	return int(math.Round(float64(l.CompletedCount()) / 5 * 100))
}

func dayKey(t time.Time) string {
	return entity.DayOf(t).Format("2006-01-02")
}
