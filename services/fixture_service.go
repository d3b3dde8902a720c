package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/interclass/tournament-system/fixtures"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
)

// qualifiedPerGroup is how many teams advance from each group to the
// knockout rounds.
const qualifiedPerGroup = 2

// StageStarts carries the caller-supplied start time of each stage for
// GenerateAll.
type StageStarts struct {
	Group     time.Time `json:"group"`
	Semifinal time.Time `json:"semifinal"`
	Final     time.Time `json:"final"`
}

// GenerateAllResult reports what one orchestrated run could produce.
// Stages whose inputs are not ready yet are listed in Pending rather
// than failing the whole run.
type GenerateAllResult struct {
	GroupGames []*models.Game `json:"group_games"`
	Semifinals []*models.Game `json:"semifinals"`
	Final      *models.Game   `json:"final,omitempty"`
	Pending    []string       `json:"pending,omitempty"`
}

type FixtureService interface {
	GenerateGroupStage(ctx context.Context, modality, category string, start time.Time, period *models.Period) ([]*models.Game, error)
	GenerateSemifinals(ctx context.Context, modality, category string, start time.Time, period *models.Period) ([]*models.Game, error)
	GenerateSemifinalsManual(ctx context.Context, modality, category string, pairs [2]fixtures.SemifinalPair, start time.Time, period *models.Period) ([]*models.Game, error)
	GenerateFinal(ctx context.Context, modality, category string, start time.Time, period *models.Period) (*models.Game, error)
	GenerateAll(ctx context.Context, modality, category string, starts StageStarts, period *models.Period) (*GenerateAllResult, error)
}

type fixtureService struct {
	gameRepo     repositories.GameRepository
	teamRepo     repositories.TeamRepository
	standingsSvc StandingsService
	logger       *slog.Logger
}

func NewFixtureService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	standingsSvc StandingsService,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		gameRepo:     gameRepo,
		teamRepo:     teamRepo,
		standingsSvc: standingsSvc,
		logger:       logger,
	}
}

// GenerateGroupStage builds one round-robin per group label of the
// modality/category. Groups share the same start time; fixtures within
// a group are spaced an hour apart.
func (s *fixtureService) GenerateGroupStage(ctx context.Context, modality, category string, start time.Time, period *models.Period) ([]*models.Game, error) {
	labels, err := s.teamRepo.ListGroupLabels(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list group labels for %s/%s: %w", modality, category, err)
	}
	if len(labels) == 0 {
		return nil, &fixtures.InsufficientDataError{Reason: fmt.Sprintf("%s/%s has no grouped teams", modality, category)}
	}

	allTeams, err := s.teamRepo.ListByModalityCategory(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for %s/%s: %w", modality, category, err)
	}

	created := make([]*models.Game, 0)
	for _, label := range labels {
		groupTeams := make([]models.Team, 0)
		for _, t := range allTeams {
			if t.GroupLabel != nil && *t.GroupLabel == label {
				groupTeams = append(groupTeams, *t)
			}
		}
		games, err := fixtures.GenerateGroupStage(groupTeams, modality, category, start, period)
		if err != nil {
			return nil, err
		}
		for i := range games {
			if createErr := s.gameRepo.Create(ctx, nil, &games[i]); createErr != nil {
				return nil, fmt.Errorf("failed to persist group fixture: %w", createErr)
			}
			created = append(created, &games[i])
		}
		s.logger.Info("group stage generated",
			slog.String("modality", modality),
			slog.String("category", category),
			slog.String("group", label),
			slog.Int("fixtures", len(games)))
	}
	return created, nil
}

// GenerateSemifinals seeds the semifinals. Grouped modalities cross the
// top two of exactly two groups; ungrouped ones pair the four teams by
// name order.
func (s *fixtureService) GenerateSemifinals(ctx context.Context, modality, category string, start time.Time, period *models.Period) ([]*models.Game, error) {
	labels, err := s.teamRepo.ListGroupLabels(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list group labels for %s/%s: %w", modality, category, err)
	}

	var pairs [2]fixtures.SemifinalPair
	if len(labels) > 0 {
		if len(labels) != 2 {
			return nil, &fixtures.InsufficientDataError{
				Reason: fmt.Sprintf("semifinal seeding needs exactly two groups, %s/%s has %d", modality, category, len(labels)),
			}
		}
		qualA, err := s.standingsSvc.Qualified(ctx, modality, category, labels[0], qualifiedPerGroup)
		if err != nil {
			return nil, err
		}
		qualB, err := s.standingsSvc.Qualified(ctx, modality, category, labels[1], qualifiedPerGroup)
		if err != nil {
			return nil, err
		}
		pairs, err = fixtures.SeedSemifinalsFromGroups(qualA, qualB)
		if err != nil {
			return nil, err
		}
	} else {
		allTeams, err := s.teamRepo.ListByModalityCategory(ctx, modality, category)
		if err != nil {
			return nil, fmt.Errorf("failed to list teams for %s/%s: %w", modality, category, err)
		}
		teams := make([]models.Team, len(allTeams))
		for i, t := range allTeams {
			teams[i] = *t
		}
		pairs, err = fixtures.SeedSemifinalsUngrouped(teams)
		if err != nil {
			return nil, err
		}
	}

	return s.persistSemifinals(ctx, pairs, modality, category, start, period)
}

// GenerateSemifinalsManual accepts two explicit pairings and skips the
// seeding logic entirely. All four teams must exist, be distinct, and
// belong to the modality/category.
func (s *fixtureService) GenerateSemifinalsManual(ctx context.Context, modality, category string, pairs [2]fixtures.SemifinalPair, start time.Time, period *models.Period) ([]*models.Game, error) {
	ids := []int{pairs[0].Team1ID, pairs[0].Team2ID, pairs[1].Team1ID, pairs[1].Team2ID}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("%w: team %d appears twice in the semifinal pairings", ErrValidationFailed, id)
		}
		seen[id] = true

		team, err := s.teamRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, id)
			}
			return nil, err
		}
		if team.Modality != modality || team.Category != category {
			return nil, fmt.Errorf("%w: team %d", ErrTeamWrongModality, id)
		}
	}

	return s.persistSemifinals(ctx, pairs, modality, category, start, period)
}

func (s *fixtureService) persistSemifinals(ctx context.Context, pairs [2]fixtures.SemifinalPair, modality, category string, start time.Time, period *models.Period) ([]*models.Game, error) {
	games := fixtures.BuildSemifinals(pairs, modality, category, start, period)
	created := make([]*models.Game, 0, len(games))
	for i := range games {
		if err := s.gameRepo.Create(ctx, nil, &games[i]); err != nil {
			return nil, fmt.Errorf("failed to persist semifinal fixture: %w", err)
		}
		created = append(created, &games[i])
	}
	s.logger.Info("semifinals generated",
		slog.String("modality", modality),
		slog.String("category", category))
	return created, nil
}

// GenerateFinal pairs the winners of the two finished semifinals. A
// semifinal that ended level is rejected: the tie must be resolved (by
// score correction) before a final can exist.
func (s *fixtureService) GenerateFinal(ctx context.Context, modality, category string, start time.Time, period *models.Period) (*models.Game, error) {
	semis, err := s.gameRepo.ListByStage(ctx, modality, category, models.StageSemifinal)
	if err != nil {
		return nil, fmt.Errorf("failed to list semifinals for %s/%s: %w", modality, category, err)
	}

	finished := make([]models.Game, 0, 2)
	for _, g := range semis {
		if g.Status == models.StatusFinished {
			finished = append(finished, *g)
		}
	}
	if len(finished) != 2 {
		return nil, &fixtures.InsufficientDataError{
			Reason: fmt.Sprintf("the final needs exactly two finished semifinals, %s/%s has %d", modality, category, len(finished)),
		}
	}

	final, err := fixtures.GenerateFinal(finished[0], finished[1], modality, category, start, period)
	if err != nil {
		return nil, err
	}
	if err := s.gameRepo.Create(ctx, nil, final); err != nil {
		return nil, fmt.Errorf("failed to persist final fixture: %w", err)
	}
	s.logger.Info("final generated",
		slog.String("modality", modality),
		slog.String("category", category),
		slog.Int("game_id", final.ID))
	return final, nil
}

// GenerateAll orchestrates whatever stages are generable right now:
// group stage (skipped outright for ungrouped modalities), then
// semifinals, then the final. A stage whose inputs are not ready, such
// as a final awaiting semifinal results, is reported as pending instead
// of failing the stages already created.
func (s *fixtureService) GenerateAll(ctx context.Context, modality, category string, starts StageStarts, period *models.Period) (*GenerateAllResult, error) {
	result := &GenerateAllResult{}

	labels, err := s.teamRepo.ListGroupLabels(ctx, modality, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list group labels for %s/%s: %w", modality, category, err)
	}

	if len(labels) > 0 {
		groupGames, err := s.GenerateGroupStage(ctx, modality, category, starts.Group, period)
		if err != nil {
			return nil, err
		}
		result.GroupGames = groupGames
	}

	semis, err := s.GenerateSemifinals(ctx, modality, category, starts.Semifinal, period)
	var insufficient *fixtures.InsufficientDataError
	if err != nil {
		if errors.As(err, &insufficient) {
			result.Pending = append(result.Pending, fmt.Sprintf("semifinals: %s", insufficient.Reason))
			return result, nil
		}
		return nil, err
	}
	result.Semifinals = semis

	final, err := s.GenerateFinal(ctx, modality, category, starts.Final, period)
	if err != nil {
		if errors.As(err, &insufficient) {
			result.Pending = append(result.Pending, fmt.Sprintf("final: %s", insufficient.Reason))
			return result, nil
		}
		return nil, err
	}
	result.Final = final
	return result, nil
}
