package fixtures

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interclass/tournament-system/models"
)

func namedTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{ID: i + 1, Name: fmt.Sprintf("Team %d", i+1)}
	}
	return teams
}

func TestGenerateGroupStage_PairCount(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	for _, n := range []int{2, 3, 4, 5, 8} {
		games, err := GenerateGroupStage(namedTeams(n), "futsal", "A", start, nil)
		require.NoErrorf(t, err, "%d teams", n)
		assert.Lenf(t, games, n*(n-1)/2, "%d teams", n)
	}
}

func TestGenerateGroupStage_EveryPairExactlyOnce(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	games, err := GenerateGroupStage(namedTeams(5), "futsal", "A", start, nil)
	require.NoError(t, err)

	seen := make(map[[2]int]int)
	for _, g := range games {
		a, b := g.Team1ID, g.Team2ID
		assert.NotEqual(t, a, b, "a team cannot play itself")
		if a > b {
			a, b = b, a
		}
		seen[[2]int{a, b}]++
	}
	for pair, count := range seen {
		assert.Equalf(t, 1, count, "pair %v", pair)
	}
	assert.Len(t, seen, 10)
}

func TestGenerateGroupStage_HourlySlots(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	period := models.PeriodMorning
	games, err := GenerateGroupStage(namedTeams(3), "volleyball", "B", start, &period)
	require.NoError(t, err)
	require.Len(t, games, 3)

	for k, g := range games {
		assert.Equal(t, start.Add(time.Duration(k)*time.Hour), g.ScheduledAt)
		assert.Equal(t, models.StageGroup, g.Stage)
		assert.Equal(t, models.StatusScheduled, g.Status)
		assert.Equal(t, "volleyball", g.Modality)
		assert.Equal(t, "B", g.Category)
		require.NotNil(t, g.Period)
		assert.Equal(t, models.PeriodMorning, *g.Period)
	}
}

func TestGenerateGroupStage_TooFewTeams(t *testing.T) {
	start := time.Now()
	for _, n := range []int{0, 1} {
		_, err := GenerateGroupStage(namedTeams(n), "futsal", "A", start, nil)
		var insufficient *InsufficientDataError
		require.ErrorAsf(t, err, &insufficient, "%d teams", n)
	}
}
