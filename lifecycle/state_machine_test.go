package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interclass/tournament-system/models"
)

var allStatuses = []models.GameStatus{
	models.StatusScheduled,
	models.StatusInProgress,
	models.StatusPaused,
	models.StatusFinished,
	models.StatusCanceled,
}

func TestCanTransition_Table(t *testing.T) {
	legal := map[models.GameStatus][]models.GameStatus{
		models.StatusScheduled:  {models.StatusInProgress, models.StatusCanceled},
		models.StatusInProgress: {models.StatusPaused, models.StatusFinished, models.StatusCanceled},
		models.StatusPaused:     {models.StatusInProgress, models.StatusFinished, models.StatusCanceled},
		models.StatusFinished:   {},
		models.StatusCanceled:   {},
	}

	for _, from := range allStatuses {
		allowed := make(map[models.GameStatus]bool)
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range allStatuses {
			got := CanTransition(from, to)
			assert.Equalf(t, allowed[to], got, "transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_SelfIsNeverLegal(t *testing.T) {
	for _, status := range allStatuses {
		assert.Falsef(t, CanTransition(status, status), "self-transition for %s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusFinished))
	assert.True(t, IsTerminal(models.StatusCanceled))
	assert.False(t, IsTerminal(models.StatusScheduled))
	assert.False(t, IsTerminal(models.StatusInProgress))
	assert.False(t, IsTerminal(models.StatusPaused))
}

func TestAllowedTargets_SortedAndComplete(t *testing.T) {
	targets := AllowedTargets(models.StatusInProgress)
	require.Len(t, targets, 3)
	for i := 1; i < len(targets); i++ {
		assert.True(t, targets[i-1] < targets[i], "targets should be sorted")
	}

	assert.Empty(t, AllowedTargets(models.StatusFinished))
	assert.Empty(t, AllowedTargets(models.StatusCanceled))
}

func TestValidateTransition_ReturnsRecord(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	actor := 7
	reason := "kickoff"

	record, err := ValidateTransition(42, models.StatusScheduled, models.StatusInProgress, at, &actor, &reason)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 42, record.GameID)
	assert.Equal(t, models.StatusScheduled, record.From)
	assert.Equal(t, models.StatusInProgress, record.To)
	assert.Equal(t, at, record.At)
	require.NotNil(t, record.ActorID)
	assert.Equal(t, 7, *record.ActorID)
	require.NotNil(t, record.Reason)
	assert.Equal(t, "kickoff", *record.Reason)
}

func TestValidateTransition_IllegalReportsAllowed(t *testing.T) {
	record, err := ValidateTransition(1, models.StatusScheduled, models.StatusFinished, time.Now(), nil, nil)
	assert.Nil(t, record)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusScheduled, invalid.From)
	assert.Equal(t, models.StatusFinished, invalid.To)
	assert.ElementsMatch(t,
		[]models.GameStatus{models.StatusInProgress, models.StatusCanceled},
		invalid.Allowed)
	assert.Contains(t, invalid.Error(), "allowed targets are")
}

func TestValidateTransition_TerminalErrorMessage(t *testing.T) {
	_, err := ValidateTransition(1, models.StatusFinished, models.StatusInProgress, time.Now(), nil, nil)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "terminal")
}

func TestEditAndScoreGates(t *testing.T) {
	assert.True(t, CanEdit(models.StatusScheduled))
	assert.False(t, CanEdit(models.StatusInProgress))
	assert.False(t, CanEdit(models.StatusFinished))

	assert.True(t, CanUpdateScore(models.StatusInProgress))
	assert.True(t, CanUpdateScore(models.StatusPaused))
	assert.True(t, CanUpdateScore(models.StatusFinished))
	assert.False(t, CanUpdateScore(models.StatusScheduled))
	assert.False(t, CanUpdateScore(models.StatusCanceled))

	assert.True(t, CanAddEvents(models.StatusInProgress))
	assert.True(t, CanAddEvents(models.StatusPaused))
	assert.False(t, CanAddEvents(models.StatusScheduled))
	assert.False(t, CanAddEvents(models.StatusCanceled))
}
