package schedule

import (
	"sort"
	"time"

	"github.com/interclass/tournament-system/models"
)

// periodWindow holds a period's local-hour bounds, start inclusive, end
// exclusive. Evening ends at 6, which is earlier than its start: the
// window wraps past midnight and every function below special-cases it.
type periodWindow struct {
	startHour int
	endHour   int
}

var periodWindows = map[models.Period]periodWindow{
	models.PeriodMorning:   {startHour: 6, endHour: 12},
	models.PeriodMidday:    {startHour: 12, endHour: 14},
	models.PeriodAfternoon: {startHour: 14, endHour: 18},
	models.PeriodEvening:   {startHour: 18, endHour: 6},
}

// PeriodForHour maps a local hour (0-23) to the period containing it.
// The four windows partition the day, so every hour has exactly one.
func PeriodForHour(hour int) models.Period {
	switch {
	case hour >= 6 && hour < 12:
		return models.PeriodMorning
	case hour >= 12 && hour < 14:
		return models.PeriodMidday
	case hour >= 14 && hour < 18:
		return models.PeriodAfternoon
	default:
		return models.PeriodEvening
	}
}

// IsCurrentlyInPeriod reports whether now falls inside the period's
// window.
func IsCurrentlyInPeriod(period models.Period, now time.Time) bool {
	w, ok := periodWindows[period]
	if !ok {
		return false
	}
	hour := now.Hour()
	if period == models.PeriodEvening {
		return hour >= w.startHour || hour < w.endHour
	}
	return hour >= w.startHour && hour < w.endHour
}

// HasPeriodPassed reports whether the period's window has already closed
// relative to now's hour. For evening that is only true during the
// daytime gap between 06:00 and 18:00, after the overnight window ends
// and before the next one opens.
func HasPeriodPassed(period models.Period, now time.Time) bool {
	w, ok := periodWindows[period]
	if !ok {
		return false
	}
	hour := now.Hour()
	if period == models.PeriodEvening {
		return hour >= w.endHour && hour < w.startHour
	}
	return hour >= w.endHour
}

// CanActivateGame decides whether a scheduled game is eligible to start.
// Without an assigned period the game activates at its exact scheduled
// time. With one, the scheduled day must be today and the period must be
// open right now.
func CanActivateGame(assignedPeriod *models.Period, scheduledAt, now time.Time) bool {
	if assignedPeriod == nil {
		return !scheduledAt.After(now)
	}
	return SameLocalDay(scheduledAt, now) && IsCurrentlyInPeriod(*assignedPeriod, now)
}

// ShouldCancelGame decides whether a still-scheduled game has missed its
// window. Games without an assigned period are never auto-canceled.
func ShouldCancelGame(assignedPeriod *models.Period, scheduledAt, now time.Time) bool {
	if assignedPeriod == nil {
		return false
	}
	sy, sm, sd := scheduledAt.In(now.Location()).Date()
	scheduledDay := time.Date(sy, sm, sd, 0, 0, 0, 0, now.Location())
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	if scheduledDay.Before(today) {
		return true
	}
	return HasPeriodPassed(*assignedPeriod, now)
}

// SameLocalDay reports whether a and b fall on the same calendar day in
// b's location.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BoundaryInstants returns every period start and end for the calendar
// day containing ref, sorted and deduplicated. The evening end lands at
// 06:00 on the following day.
func BoundaryInstants(ref time.Time) []time.Time {
	y, m, d := ref.Date()
	loc := ref.Location()
	at := func(dayOffset, hour int) time.Time {
		return time.Date(y, m, d+dayOffset, hour, 0, 0, 0, loc)
	}

	seen := make(map[time.Time]struct{})
	instants := make([]time.Time, 0, 8)
	for period, w := range periodWindows {
		start := at(0, w.startHour)
		end := at(0, w.endHour)
		if period == models.PeriodEvening {
			end = at(1, w.endHour)
		}
		for _, t := range []time.Time{start, end} {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				instants = append(instants, t)
			}
		}
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	return instants
}
