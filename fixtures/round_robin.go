package fixtures

import (
	"time"

	"github.com/interclass/tournament-system/models"
)

// fixtureSpacing separates consecutive generated fixtures on the clock.
const fixtureSpacing = time.Hour

// GenerateGroupStage builds a single round-robin for one group: every
// unordered pair of teams exactly once, n*(n-1)/2 fixtures in total,
// the k-th scheduled at start + k hours. The returned games carry no
// IDs; the caller persists them.
func GenerateGroupStage(teams []models.Team, modality, category string, start time.Time, period *models.Period) ([]models.Game, error) {
	if len(teams) < 2 {
		return nil, &InsufficientDataError{Reason: "a group needs at least 2 teams for a round-robin"}
	}

	games := make([]models.Game, 0, len(teams)*(len(teams)-1)/2)
	k := 0
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			games = append(games, models.Game{
				Team1ID:     teams[i].ID,
				Team2ID:     teams[j].ID,
				Modality:    modality,
				Category:    category,
				Stage:       models.StageGroup,
				ScheduledAt: start.Add(time.Duration(k) * fixtureSpacing),
				Period:      period,
				Status:      models.StatusScheduled,
			})
			k++
		}
	}
	return games, nil
}
