package services

import (
	"context"
	"fmt"

	"github.com/interclass/tournament-system/fixtures"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
	"github.com/interclass/tournament-system/standings"
)

type StandingsService interface {
	// Table computes the ranking table for one (modality, category,
	// group-label) from its finished group-stage games.
	Table(ctx context.Context, modality, category, groupLabel string) ([]models.StandingRow, error)
	// Qualified returns the top n rows of the group's table. Advancing
	// requires results: until the group's round-robin is fully played
	// the call fails with an InsufficientDataError.
	Qualified(ctx context.Context, modality, category, groupLabel string, n int) ([]models.StandingRow, error)
}

type standingsService struct {
	gameRepo repositories.GameRepository
	teamRepo repositories.TeamRepository
}

func NewStandingsService(gameRepo repositories.GameRepository, teamRepo repositories.TeamRepository) StandingsService {
	return &standingsService{gameRepo: gameRepo, teamRepo: teamRepo}
}

func (s *standingsService) Table(ctx context.Context, modality, category, groupLabel string) ([]models.StandingRow, error) {
	allTeams, err := s.teamRepo.ListByModalityCategory(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for %s/%s: %w", modality, category, err)
	}

	groupTeams := make([]models.Team, 0, len(allTeams))
	for _, t := range allTeams {
		if t.GroupLabel != nil && *t.GroupLabel == groupLabel {
			groupTeams = append(groupTeams, *t)
		}
	}

	games, err := s.gameRepo.ListFinishedGroupGames(ctx, modality, category, groupLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished group games for %s/%s/%s: %w", modality, category, groupLabel, err)
	}

	dereferenced := make([]models.Game, len(games))
	for i, g := range games {
		dereferenced[i] = *g
	}
	return standings.Calculate(groupTeams, dereferenced), nil
}

func (s *standingsService) Qualified(ctx context.Context, modality, category, groupLabel string, n int) ([]models.StandingRow, error) {
	rows, err := s.Table(ctx, modality, category, groupLabel)
	if err != nil {
		return nil, err
	}

	// A freshly generated group produces an all-zero table ordered by
	// team ID. Seeding knockouts from that would be arbitrary, so nobody
	// qualifies before every round-robin game is finished.
	required := len(rows) - 1
	for _, row := range rows {
		if row.GamesPlayed < required {
			return nil, &fixtures.InsufficientDataError{
				Reason: fmt.Sprintf("group %s round-robin is not complete: team %d has played %d of %d games",
					groupLabel, row.TeamID, row.GamesPlayed, required),
			}
		}
	}
	return standings.Qualified(rows, n), nil
}
