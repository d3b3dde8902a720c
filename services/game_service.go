package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/interclass/tournament-system/lifecycle"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
	"github.com/interclass/tournament-system/schedule"
	"golang.org/x/sync/errgroup"
)

// Notifier receives applied transitions for live fanout. Nil disables it.
type Notifier interface {
	GameTransitioned(game *models.Game, to models.GameStatus)
}

// GameTimeInfo is the elapsed-minute summary for one game session.
type GameTimeInfo struct {
	GameID         int               `json:"game_id"`
	Status         models.GameStatus `json:"status"`
	ElapsedMinutes int               `json:"elapsed_minutes"`
	PausedMinutes  int               `json:"paused_minutes"`
	PausedNow      bool              `json:"paused_now"`
	MaxMinutes     int               `json:"max_minutes"`
}

// EventInput describes a timeline event to record. ManualMinute, when
// set, overrides the computed game-clock minute.
type EventInput struct {
	Type         models.GameEventType `json:"type"`
	TeamID       int                  `json:"team_id"`
	Player       string               `json:"player"`
	ManualMinute *int                 `json:"manual_minute,omitempty"`
}

// CreateGameInput is the manual single-game creation path, used outside
// fixture generation.
type CreateGameInput struct {
	Team1ID     int            `json:"team1_id"`
	Team2ID     int            `json:"team2_id"`
	Modality    string         `json:"modality"`
	Category    string         `json:"category"`
	Stage       models.Stage   `json:"stage"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Period      *models.Period `json:"period,omitempty"`
}

type GameService interface {
	// ApplyTransition moves one game through the lifecycle state
	// machine, opening or closing pause intervals as a side effect of
	// entering or leaving the paused state.
	ApplyTransition(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error)
	CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error)
	// Reschedule moves a game that has not started yet to a new time
	// slot. Anything past the scheduled state is locked.
	Reschedule(ctx context.Context, gameID int, scheduledAt time.Time, period *models.Period) (*models.Game, error)
	GetGameDetail(ctx context.Context, gameID int) (*models.Game, error)
	GameTime(ctx context.Context, gameID int) (*GameTimeInfo, error)
	UpdateScore(ctx context.Context, gameID, scoreTeam1, scoreTeam2 int) error
	RecordEvent(ctx context.Context, gameID int, input EventInput) (*models.GameEvent, *schedule.MinuteWarning, error)
}

type gameService struct {
	gameRepo  repositories.GameRepository
	teamRepo  repositories.TeamRepository
	pauseRepo repositories.PauseRepository
	clock     schedule.Clock
	logger    *slog.Logger
	notifier  Notifier
}

func NewGameService(
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	pauseRepo repositories.PauseRepository,
	clock schedule.Clock,
	logger *slog.Logger,
	notifier Notifier,
) GameService {
	return &gameService{
		gameRepo:  gameRepo,
		teamRepo:  teamRepo,
		pauseRepo: pauseRepo,
		clock:     clock,
		logger:    logger,
		notifier:  notifier,
	}
}

func (s *gameService) ApplyTransition(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, err
	}

	now := s.clock.Now()
	record, err := lifecycle.ValidateTransition(gameID, game.Status, to, now, actorID, reason)
	if err != nil {
		return nil, err
	}

	if err := s.gameRepo.UpdateStatus(ctx, gameID, game.Status, to); err != nil {
		if errors.Is(err, repositories.ErrGameStatusConflict) || errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrStaleOrMissingGame, gameID)
		}
		return nil, err
	}

	// Pause bookkeeping follows the status change: entering paused opens
	// an interval, leaving it closes the open one.
	if to == models.StatusPaused {
		if _, pauseErr := s.pauseRepo.Open(ctx, gameID, now); pauseErr != nil && !errors.Is(pauseErr, repositories.ErrPauseAlreadyOpen) {
			s.logger.Error("failed to open pause interval", slog.Int("game_id", gameID), slog.Any("error", pauseErr))
		}
	} else if game.Status == models.StatusPaused {
		if _, pauseErr := s.pauseRepo.Close(ctx, gameID, now); pauseErr != nil && !errors.Is(pauseErr, repositories.ErrNoOpenPause) {
			s.logger.Error("failed to close pause interval", slog.Int("game_id", gameID), slog.Any("error", pauseErr))
		}
	}

	if s.notifier != nil {
		s.notifier.GameTransitioned(game, to)
	}
	return record, nil
}

func (s *gameService) CreateGame(ctx context.Context, input CreateGameInput) (*models.Game, error) {
	if input.Team1ID == input.Team2ID {
		return nil, ErrTeamsIdentical
	}
	for _, teamID := range []int{input.Team1ID, input.Team2ID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, teamID)
			}
			return nil, err
		}
		if team.Modality != input.Modality || team.Category != input.Category {
			return nil, fmt.Errorf("%w: team %d", ErrTeamWrongModality, teamID)
		}
	}

	game := &models.Game{
		Team1ID:     input.Team1ID,
		Team2ID:     input.Team2ID,
		Modality:    input.Modality,
		Category:    input.Category,
		Stage:       input.Stage,
		ScheduledAt: input.ScheduledAt,
		Period:      input.Period,
		Status:      models.StatusScheduled,
	}
	if err := s.gameRepo.Create(ctx, nil, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) Reschedule(ctx context.Context, gameID int, scheduledAt time.Time, period *models.Period) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, err
	}
	if !lifecycle.CanEdit(game.Status) {
		return nil, fmt.Errorf("%w: status %s", ErrGameNotEditable, game.Status)
	}

	if err := s.gameRepo.UpdateSchedule(ctx, gameID, scheduledAt, period); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, fmt.Errorf("failed to reschedule game %d: %w", gameID, err)
	}

	game.ScheduledAt = scheduledAt
	game.Period = period
	return game, nil
}

// GetGameDetail loads the game with its teams, events and pause
// intervals fetched in parallel.
func (s *gameService) GetGameDetail(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.gameRepo.ListEvents(gCtx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load events for game %d: %w", gameID, err)
		}
		game.Events = events
		return nil
	})
	g.Go(func() error {
		intervals, err := s.pauseRepo.ListByGame(gCtx, gameID)
		if err != nil {
			return fmt.Errorf("failed to load pause intervals for game %d: %w", gameID, err)
		}
		game.PauseIntervals = intervals
		return nil
	})
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gCtx, game.Team1ID)
		if err != nil {
			return fmt.Errorf("failed to load team %d: %w", game.Team1ID, err)
		}
		game.Team1 = team
		return nil
	})
	g.Go(func() error {
		team, err := s.teamRepo.GetByID(gCtx, game.Team2ID)
		if err != nil {
			return fmt.Errorf("failed to load team %d: %w", game.Team2ID, err)
		}
		game.Team2 = team
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *gameService) GameTime(ctx context.Context, gameID int) (*GameTimeInfo, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, err
	}
	intervals, err := s.pauseRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pause intervals for game %d: %w", gameID, err)
	}

	now := s.clock.Now()
	return &GameTimeInfo{
		GameID:         gameID,
		Status:         game.Status,
		ElapsedMinutes: schedule.ElapsedMinutes(game.ScheduledAt, intervals, now),
		PausedMinutes:  schedule.PausedMinutes(intervals, now),
		PausedNow:      game.Status == models.StatusPaused,
		MaxMinutes:     schedule.MaxGameMinutes,
	}, nil
}

func (s *gameService) UpdateScore(ctx context.Context, gameID, scoreTeam1, scoreTeam2 int) error {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return err
	}
	if !lifecycle.CanUpdateScore(game.Status) {
		return fmt.Errorf("%w: status %s", ErrScoreNotEditable, game.Status)
	}
	if scoreTeam1 < 0 || scoreTeam2 < 0 {
		return fmt.Errorf("%w: scores must not be negative", ErrValidationFailed)
	}
	return s.gameRepo.UpdateScore(ctx, gameID, scoreTeam1, scoreTeam2)
}

// RecordEvent stores a timeline event gated by the game clock. A manual
// minute outside the tolerance is still recorded; the returned warning
// lets the caller surface the discrepancy.
func (s *gameService) RecordEvent(ctx context.Context, gameID int, input EventInput) (*models.GameEvent, *schedule.MinuteWarning, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, nil, fmt.Errorf("%w: game %d", ErrGameNotFound, gameID)
		}
		return nil, nil, err
	}
	if input.TeamID != game.Team1ID && input.TeamID != game.Team2ID {
		return nil, nil, fmt.Errorf("%w: team %d is not playing game %d", ErrValidationFailed, input.TeamID, gameID)
	}

	intervals, err := s.pauseRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pause intervals for game %d: %w", gameID, err)
	}

	now := s.clock.Now()
	autoMinute, err := schedule.CanAddEvent(game.Status, game.ScheduledAt, intervals, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	minute := autoMinute
	var warning *schedule.MinuteWarning
	if input.ManualMinute != nil {
		minute = *input.ManualMinute
		warning = schedule.ValidateManualMinute(autoMinute, minute, schedule.DefaultMinuteTolerance)
	}

	event := &models.GameEvent{
		GameID: gameID,
		Type:   input.Type,
		Minute: minute,
		TeamID: input.TeamID,
		Player: input.Player,
	}
	if err := s.gameRepo.AddEvent(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("failed to record event for game %d: %w", gameID, err)
	}
	return event, warning, nil
}
