package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/interclass/tournament-system/lifecycle"
	"github.com/interclass/tournament-system/models"
)

const (
	// MaxGameMinutes is the hard ceiling on a game session's reported
	// playing time. The same ceiling applies to every modality.
	MaxGameMinutes = 120

	// DefaultMinuteTolerance is the accepted drift between a manually
	// entered event minute and the computed game clock.
	DefaultMinuteTolerance = 5
)

var (
	ErrGameNotStarted   = errors.New("game has not started yet")
	ErrGameTimeExceeded = errors.New("game time exceeds the maximum allowed")
	ErrEventsNotAllowed = errors.New("game status does not allow timeline events")
)

// pausedDuration sums every recorded pause for the game. An open
// interval counts up to now.
func pausedDuration(intervals []models.PauseInterval, now time.Time) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		end := now
		if iv.EndedAt != nil {
			end = *iv.EndedAt
		}
		if end.After(iv.StartedAt) {
			total += end.Sub(iv.StartedAt)
		}
	}
	return total
}

// PausedMinutes reports the total paused time in whole minutes, open
// intervals included.
func PausedMinutes(intervals []models.PauseInterval, now time.Time) int {
	return int(pausedDuration(intervals, now) / time.Minute)
}

// rawElapsedMinutes is the unclamped playing time in whole minutes.
func rawElapsedMinutes(scheduledAt time.Time, intervals []models.PauseInterval, now time.Time) int {
	if now.Before(scheduledAt) {
		return 0
	}
	playing := now.Sub(scheduledAt) - pausedDuration(intervals, now)
	if playing < 0 {
		return 0
	}
	return int(playing / time.Minute)
}

// ElapsedMinutes returns the playing minutes elapsed for the game, net
// of paused time, clamped to MaxGameMinutes.
func ElapsedMinutes(scheduledAt time.Time, intervals []models.PauseInterval, now time.Time) int {
	minutes := rawElapsedMinutes(scheduledAt, intervals, now)
	if minutes > MaxGameMinutes {
		return MaxGameMinutes
	}
	return minutes
}

// CanAddEvent checks whether a timeline event may be recorded right now
// and, if so, suggests the current game minute for it. Finished games
// accept late corrections, which is why the status gate here is wider
// than lifecycle.CanAddEvents.
func CanAddEvent(status models.GameStatus, scheduledAt time.Time, intervals []models.PauseInterval, now time.Time) (int, error) {
	if !lifecycle.CanAddEvents(status) && status != models.StatusFinished {
		return 0, fmt.Errorf("%w: %s", ErrEventsNotAllowed, status)
	}
	if now.Before(scheduledAt) {
		return 0, ErrGameNotStarted
	}
	if rawElapsedMinutes(scheduledAt, intervals, now) > MaxGameMinutes {
		return 0, ErrGameTimeExceeded
	}
	return ElapsedMinutes(scheduledAt, intervals, now), nil
}

// MinuteWarning describes a manual event minute that drifted outside the
// tolerance. It is advisory: the caller may still accept the minute.
type MinuteWarning struct {
	AutoMinute   int    `json:"auto_minute"`
	ManualMinute int    `json:"manual_minute"`
	Message      string `json:"message"`
}

// ValidateManualMinute compares a manually entered minute against the
// computed one. It returns nil when the drift is within tolerance.
func ValidateManualMinute(auto, manual, tolerance int) *MinuteWarning {
	diff := manual - auto
	if diff < 0 {
		diff = -diff
	}
	if diff <= tolerance {
		return nil
	}
	w := &MinuteWarning{AutoMinute: auto, ManualMinute: manual}
	if manual > auto+tolerance {
		w.Message = fmt.Sprintf("minute %d is in the future: game clock reads %d", manual, auto)
	} else {
		w.Message = fmt.Sprintf("minute %d differs from the game clock (%d) by more than %d minutes", manual, auto, tolerance)
	}
	return w
}
