package fixtures

import (
	"fmt"
	"sort"
	"time"

	"github.com/interclass/tournament-system/models"
)

// SemifinalPair names the two teams of one semifinal fixture.
type SemifinalPair struct {
	Team1ID int
	Team2ID int
}

// SeedSemifinalsFromGroups crosses the top two of each group: group-A
// winner against group-B runner-up and vice versa. Both tables must
// already be ranked and hold at least two rows.
func SeedSemifinalsFromGroups(groupA, groupB []models.StandingRow) ([2]SemifinalPair, error) {
	if len(groupA) < 2 || len(groupB) < 2 {
		return [2]SemifinalPair{}, &InsufficientDataError{
			Reason: fmt.Sprintf("each group needs at least 2 qualified teams, got %d and %d", len(groupA), len(groupB)),
		}
	}
	return [2]SemifinalPair{
		{Team1ID: groupA[0].TeamID, Team2ID: groupB[1].TeamID},
		{Team1ID: groupB[0].TeamID, Team2ID: groupA[1].TeamID},
	}, nil
}

// SeedSemifinalsUngrouped seeds a modality without group labels: teams
// ordered by name, first against fourth and second against third.
func SeedSemifinalsUngrouped(teams []models.Team) ([2]SemifinalPair, error) {
	if len(teams) < 4 {
		return [2]SemifinalPair{}, &InsufficientDataError{
			Reason: fmt.Sprintf("an ungrouped modality needs at least 4 teams, got %d", len(teams)),
		}
	}
	ordered := make([]models.Team, len(teams))
	copy(ordered, teams)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	return [2]SemifinalPair{
		{Team1ID: ordered[0].ID, Team2ID: ordered[3].ID},
		{Team1ID: ordered[1].ID, Team2ID: ordered[2].ID},
	}, nil
}

// BuildSemifinals turns two pairings into scheduled fixtures, the second
// one hour after the first.
func BuildSemifinals(pairs [2]SemifinalPair, modality, category string, start time.Time, period *models.Period) []models.Game {
	games := make([]models.Game, 0, 2)
	for k, p := range pairs {
		games = append(games, models.Game{
			Team1ID:     p.Team1ID,
			Team2ID:     p.Team2ID,
			Modality:    modality,
			Category:    category,
			Stage:       models.StageSemifinal,
			ScheduledAt: start.Add(time.Duration(k) * fixtureSpacing),
			Period:      period,
			Status:      models.StatusScheduled,
		})
	}
	return games
}

// WinnerOf extracts the winning team of a finished knockout game. A
// level score is rejected: knockout games cannot end in a tie.
func WinnerOf(game models.Game) (int, error) {
	switch {
	case game.ScoreTeam1 > game.ScoreTeam2:
		return game.Team1ID, nil
	case game.ScoreTeam2 > game.ScoreTeam1:
		return game.Team2ID, nil
	default:
		return 0, &TieNotAllowedError{GameID: game.ID, Score1: game.ScoreTeam1, Score2: game.ScoreTeam2}
	}
}

// GenerateFinal builds the final from two finished semifinals.
func GenerateFinal(semi1, semi2 models.Game, modality, category string, start time.Time, period *models.Period) (*models.Game, error) {
	for _, semi := range []models.Game{semi1, semi2} {
		if semi.Stage != models.StageSemifinal {
			return nil, &InsufficientDataError{Reason: fmt.Sprintf("game %d is not a semifinal", semi.ID)}
		}
		if semi.Status != models.StatusFinished {
			return nil, &InsufficientDataError{Reason: fmt.Sprintf("semifinal %d is not finished", semi.ID)}
		}
	}

	winner1, err := WinnerOf(semi1)
	if err != nil {
		return nil, err
	}
	winner2, err := WinnerOf(semi2)
	if err != nil {
		return nil, err
	}

	return &models.Game{
		Team1ID:     winner1,
		Team2ID:     winner2,
		Modality:    modality,
		Category:    category,
		Stage:       models.StageFinal,
		ScheduledAt: start,
		Period:      period,
		Status:      models.StatusScheduled,
	}, nil
}
