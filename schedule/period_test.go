package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interclass/tournament-system/models"
)

func localTime(hour, minute int) time.Time {
	return time.Date(2026, 4, 20, hour, minute, 0, 0, time.UTC)
}

func TestPeriodForHour_PartitionsTheDay(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		period := PeriodForHour(hour)
		switch {
		case hour >= 6 && hour < 12:
			assert.Equalf(t, models.PeriodMorning, period, "hour %d", hour)
		case hour >= 12 && hour < 14:
			assert.Equalf(t, models.PeriodMidday, period, "hour %d", hour)
		case hour >= 14 && hour < 18:
			assert.Equalf(t, models.PeriodAfternoon, period, "hour %d", hour)
		default:
			assert.Equalf(t, models.PeriodEvening, period, "hour %d", hour)
		}

		// Exactly one period claims each hour.
		claimed := 0
		for _, p := range []models.Period{models.PeriodMorning, models.PeriodMidday, models.PeriodAfternoon, models.PeriodEvening} {
			if IsCurrentlyInPeriod(p, localTime(hour, 0)) {
				claimed++
			}
		}
		assert.Equalf(t, 1, claimed, "hour %d should belong to exactly one period", hour)
	}
}

func TestIsCurrentlyInPeriod_EveningWrapsMidnight(t *testing.T) {
	assert.True(t, IsCurrentlyInPeriod(models.PeriodEvening, localTime(23, 30)))
	assert.True(t, IsCurrentlyInPeriod(models.PeriodEvening, localTime(0, 15)))
	assert.True(t, IsCurrentlyInPeriod(models.PeriodEvening, localTime(5, 59)))
	assert.False(t, IsCurrentlyInPeriod(models.PeriodEvening, localTime(6, 0)))
	assert.False(t, IsCurrentlyInPeriod(models.PeriodEvening, localTime(12, 0)))
}

func TestHasPeriodPassed(t *testing.T) {
	assert.False(t, HasPeriodPassed(models.PeriodMorning, localTime(11, 59)))
	assert.True(t, HasPeriodPassed(models.PeriodMorning, localTime(12, 0)))
	assert.True(t, HasPeriodPassed(models.PeriodMidday, localTime(15, 0)))

	// The overnight window only counts as passed during the daytime gap.
	assert.True(t, HasPeriodPassed(models.PeriodEvening, localTime(7, 0)))
	assert.True(t, HasPeriodPassed(models.PeriodEvening, localTime(17, 59)))
	assert.False(t, HasPeriodPassed(models.PeriodEvening, localTime(18, 0)))
	assert.False(t, HasPeriodPassed(models.PeriodEvening, localTime(2, 0)))
	assert.False(t, HasPeriodPassed(models.PeriodEvening, localTime(5, 59)))
}

// A 10:00 morning game is activatable at 11:00 and cancelable at 13:00
// the same day.
func TestMorningGameActivationWindow(t *testing.T) {
	morning := models.PeriodMorning
	scheduledAt := localTime(10, 0)

	assert.True(t, CanActivateGame(&morning, scheduledAt, localTime(11, 0)))
	assert.False(t, CanActivateGame(&morning, scheduledAt, localTime(13, 0)))

	assert.False(t, ShouldCancelGame(&morning, scheduledAt, localTime(11, 0)))
	assert.True(t, ShouldCancelGame(&morning, scheduledAt, localTime(13, 0)))
}

func TestCanActivateGame_WithoutPeriodUsesExactTime(t *testing.T) {
	scheduledAt := localTime(10, 0)
	assert.False(t, CanActivateGame(nil, scheduledAt, localTime(9, 59)))
	assert.True(t, CanActivateGame(nil, scheduledAt, localTime(10, 0)))
	assert.True(t, CanActivateGame(nil, scheduledAt, localTime(16, 0)))
}

func TestCanActivateGame_RequiresSameDay(t *testing.T) {
	morning := models.PeriodMorning
	yesterday := localTime(10, 0).AddDate(0, 0, -1)
	assert.False(t, CanActivateGame(&morning, yesterday, localTime(11, 0)))
}

func TestShouldCancelGame(t *testing.T) {
	morning := models.PeriodMorning

	// Never without an assigned period.
	assert.False(t, ShouldCancelGame(nil, localTime(10, 0).AddDate(0, 0, -3), localTime(13, 0)))

	// A game scheduled on an earlier day is always stale.
	yesterday := localTime(10, 0).AddDate(0, 0, -1)
	assert.True(t, ShouldCancelGame(&morning, yesterday, localTime(7, 0)))

	// Same day, window still open.
	assert.False(t, ShouldCancelGame(&morning, localTime(10, 0), localTime(11, 30)))
}

func TestShouldCancelGame_EveningGameNextMorning(t *testing.T) {
	evening := models.PeriodEvening
	scheduledAt := localTime(19, 0)
	nextMorning := localTime(8, 0).AddDate(0, 0, 1)
	assert.True(t, ShouldCancelGame(&evening, scheduledAt, nextMorning),
		"an evening game from yesterday should be stale the next morning")

	// Shortly after midnight the overnight window itself is still open.
	pastMidnight := localTime(1, 0).AddDate(0, 0, 1)
	assert.True(t, IsCurrentlyInPeriod(evening, pastMidnight))
}

// Timestamps scanned back from storage are in UTC while the sweep clock
// runs in the venue timezone. East of UTC an early morning game lands on
// the previous UTC day and must still count as scheduled today.
func TestShouldCancelGame_ScheduledTimeStoredInUTC(t *testing.T) {
	morning := models.PeriodMorning
	venue := time.FixedZone("UTC+9", 9*60*60)

	// 06:30 on April 20 at the venue, 21:30 on April 19 in UTC.
	scheduledAt := time.Date(2026, 4, 19, 21, 30, 0, 0, time.UTC)
	now := time.Date(2026, 4, 20, 7, 0, 0, 0, venue)

	assert.False(t, ShouldCancelGame(&morning, scheduledAt, now),
		"a game scheduled today at the venue is not stale")
	assert.True(t, CanActivateGame(&morning, scheduledAt, now))

	// The same UTC timestamp one venue day later really is stale.
	dayAfter := now.AddDate(0, 0, 1)
	assert.True(t, ShouldCancelGame(&morning, scheduledAt, dayAfter))
}

func TestSameLocalDay(t *testing.T) {
	assert.True(t, SameLocalDay(localTime(0, 0), localTime(23, 59)))
	assert.False(t, SameLocalDay(localTime(23, 59), localTime(0, 0).AddDate(0, 0, 1)))
}

func TestBoundaryInstants(t *testing.T) {
	ref := localTime(9, 30)
	instants := BoundaryInstants(ref)
	require.Len(t, instants, 5)

	expected := []time.Time{
		localTime(6, 0),
		localTime(12, 0),
		localTime(14, 0),
		localTime(18, 0),
		localTime(6, 0).AddDate(0, 0, 1),
	}
	assert.Equal(t, expected, instants)

	for i := 1; i < len(instants); i++ {
		assert.True(t, instants[i-1].Before(instants[i]), "instants should be strictly increasing")
	}
}
