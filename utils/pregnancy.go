package utils

import (
	"errors"
	"math"
	"time"
)

// GestationDays is the standard pregnancy length used for all derivations.
const GestationDays = 280 // 40 weeks

// Assumed week when the user only knows the trimester.
var trimesterMidweek = map[int]int{1: 7, 2: 20, 3: 33}

// Stage is the consistent triple written to the profile after onboarding.
type Stage struct {
	CurrentWeek    int
	TrimesterStage int
	DueDate        time.Time
}

// ErrNoStageInput means neither a due date nor a trimester was supplied.
// That is a caller bug; the UI is expected to require one of the two.
var ErrNoStageInput = errors.New("either a due date or a trimester is required")

// DateOnly drops the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StageFromDueDate derives the current week and trimester from a known due
// date. ok is false when the date falls outside the gestation window (already
// overdue, or more than 280 days out) — a deliberate rejection, not a clamp;
// callers should prompt for re-entry rather than guess.
func StageFromDueDate(dueDate, today time.Time) (week, trimester int, ok bool) {
	daysRemaining := int(math.Round(DateOnly(dueDate).Sub(DateOnly(today)).Hours() / 24))
	if daysRemaining < 0 || daysRemaining > GestationDays {
		return 0, 0, false
	}
	daysPregnant := GestationDays - daysRemaining
	week = daysPregnant/7 + 1
	if week > 40 {
		week = 40 // due today: day 280 still counts as week 40
	}
	return week, TrimesterForWeek(week), true
}

// TrimesterForWeek maps a week in 1..40 to its trimester. The switch happens
// at the start of the new range: week 13 is still trimester 1, week 14 is
// trimester 2, week 27 is trimester 3.
func TrimesterForWeek(week int) int {
	switch {
	case week <= 13:
		return 1
	case week <= 26:
		return 2
	default:
		return 3
	}
}

// StageFromTrimester estimates the current week and due date from a picked
// trimester. A weekHint in 1..40 is taken as ground truth and overrides the
// midpoint assumption; anything else falls back to the trimester midpoint
// (week 20 for an unrecognized trimester). The caller keeps the picked
// trimester verbatim — it is not re-derived from the estimated week.
func StageFromTrimester(trimester, weekHint int, today time.Time) (week int, dueDate time.Time) {
	week = weekHint
	if week < 1 || week > 40 {
		var found bool
		if week, found = trimesterMidweek[trimester]; !found {
			week = 20
		}
	}
	dueDate = DateOnly(today).AddDate(0, 0, (40-week)*7)
	return week, dueDate
}

// ResolveStage dispatches between the two derivations. A due date always wins
// over a trimester pick; the trimester estimate is a fallback for users who do
// not know their date. ok=false with a nil error is the Unknown outcome (due
// date outside the gestation window).
func ResolveStage(dueDate *time.Time, trimester, weekHint int, today time.Time) (Stage, bool, error) {
	if dueDate != nil {
		week, tri, ok := StageFromDueDate(*dueDate, today)
		if !ok {
			return Stage{}, false, nil
		}
		return Stage{CurrentWeek: week, TrimesterStage: tri, DueDate: DateOnly(*dueDate)}, true, nil
	}
	if trimester >= 1 && trimester <= 3 {
		week, due := StageFromTrimester(trimester, weekHint, today)
		return Stage{CurrentWeek: week, TrimesterStage: trimester, DueDate: due}, true, nil
	}
	return Stage{}, false, ErrNoStageInput
}

// ProgressPercent is the display progress through the 40 weeks.
func ProgressPercent(week int) float64 {
	if week < 1 {
		return 0
	}
	if week > 40 {
		week = 40
	}
	return math.Round(float64(week)/40*1000) / 10
}

func TrimesterLabel(trimester int) string {
	switch trimester {
	case 1:
		return "First trimester"
	case 2:
		return "Second trimester"
	case 3:
		return "Third trimester"
	default:
		return ""
	}
}
