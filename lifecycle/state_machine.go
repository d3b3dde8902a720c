package lifecycle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/interclass/tournament-system/models"
)

// transitions is the full legality table for a game's status. Finished
// and canceled are terminal: they have empty entries.
var transitions = map[models.GameStatus][]models.GameStatus{
	models.StatusScheduled:  {models.StatusInProgress, models.StatusCanceled},
	models.StatusInProgress: {models.StatusPaused, models.StatusFinished, models.StatusCanceled},
	models.StatusPaused:     {models.StatusInProgress, models.StatusFinished, models.StatusCanceled},
	models.StatusFinished:   {},
	models.StatusCanceled:   {},
}

// InvalidTransitionError reports a status change outside the table,
// carrying the targets that would have been legal from the same state.
type InvalidTransitionError struct {
	From    models.GameStatus
	To      models.GameStatus
	Allowed []models.GameStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	if len(allowed) == 0 {
		return fmt.Sprintf("invalid transition %s -> %s: %s is terminal", e.From, e.To, e.From)
	}
	return fmt.Sprintf("invalid transition %s -> %s: allowed targets are %s", e.From, e.To, strings.Join(allowed, ", "))
}

// CanTransition reports whether from -> to is in the table. A
// self-transition is never legal.
func CanTransition(from, to models.GameStatus) bool {
	if from == to {
		return false
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the legal target statuses for the given state,
// sorted for stable output. Terminal states yield an empty slice.
func AllowedTargets(from models.GameStatus) []models.GameStatus {
	entry := transitions[from]
	out := make([]models.GameStatus, len(entry))
	copy(out, entry)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidateTransition checks legality and, when legal, returns the
// transition record the caller should apply and persist. It has no side
// effects of its own.
func ValidateTransition(gameID int, from, to models.GameStatus, at time.Time, actorID *int, reason *string) (*models.TransitionRecord, error) {
	if !CanTransition(from, to) {
		return nil, &InvalidTransitionError{From: from, To: to, Allowed: AllowedTargets(from)}
	}
	return &models.TransitionRecord{
		GameID:  gameID,
		From:    from,
		To:      to,
		At:      at,
		ActorID: actorID,
		Reason:  reason,
	}, nil
}

// CanEdit reports whether the game's fixture data (teams, schedule) may
// still be changed. Only scheduled games are editable.
func CanEdit(status models.GameStatus) bool {
	return status == models.StatusScheduled
}

// CanUpdateScore allows score corrections while playing, while paused,
// and after the final whistle.
func CanUpdateScore(status models.GameStatus) bool {
	switch status {
	case models.StatusInProgress, models.StatusPaused, models.StatusFinished:
		return true
	}
	return false
}

// CanAddEvents allows timeline events only while the game session is live.
func CanAddEvents(status models.GameStatus) bool {
	return status == models.StatusInProgress || status == models.StatusPaused
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(status models.GameStatus) bool {
	return status == models.StatusFinished || status == models.StatusCanceled
}
