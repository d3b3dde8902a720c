package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/interclass/tournament-system/lifecycle"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
	"github.com/interclass/tournament-system/schedule"
)

// OverdueAfter is the safety ceiling: a game still running this long
// after its scheduled start is force-finished by the sweep.
const OverdueAfter = 2 * time.Hour

// rescheduleOffset is how far past midnight the daily timer rebuild
// fires.
const rescheduleOffset = time.Minute

// Notifier receives successful automatic transitions. Implementations
// must not block; a nil notifier is allowed.
type Notifier interface {
	GameTransitioned(game *models.Game, to models.GameStatus)
}

// TournamentScheduler moves games through their lifecycle without
// manual intervention: it activates scheduled games whose period is
// open, cancels those whose period has passed, and force-finishes games
// running past the safety ceiling. One instance runs per deployment.
type TournamentScheduler struct {
	gameRepo  repositories.GameRepository
	pauseRepo repositories.PauseRepository
	clock     schedule.Clock
	logger    *slog.Logger
	notifier  Notifier

	mu         sync.Mutex
	running    bool
	timers     map[time.Time]*time.Timer
	reschedule *time.Timer
}

func New(gameRepo repositories.GameRepository, pauseRepo repositories.PauseRepository, clock schedule.Clock, logger *slog.Logger, notifier Notifier) *TournamentScheduler {
	return &TournamentScheduler{
		gameRepo:  gameRepo,
		pauseRepo: pauseRepo,
		clock:     clock,
		logger:    logger,
		notifier:  notifier,
		timers:    make(map[time.Time]*time.Timer),
	}
}

// Start runs one immediate sweep and arms a timer for every future
// period boundary of today and tomorrow. Calling Start on a running
// scheduler is a no-op.
func (s *TournamentScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("scheduler starting")
	s.ForceExecution(context.Background())
	s.armTimers()
}

// Stop cancels every outstanding timer. No callbacks fire afterwards.
func (s *TournamentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.clearTimersLocked()
	s.logger.Info("scheduler stopped")
}

func (s *TournamentScheduler) clearTimersLocked() {
	for instant, timer := range s.timers {
		timer.Stop()
		delete(s.timers, instant)
	}
	if s.reschedule != nil {
		s.reschedule.Stop()
		s.reschedule = nil
	}
}

// armTimers computes the period boundaries for today and tomorrow and
// arms one timer per instant still in the future, plus the daily
// rebuild shortly after midnight.
func (s *TournamentScheduler) armTimers() {
	now := s.clock.Now()

	instants := schedule.BoundaryInstants(now)
	instants = append(instants, schedule.BoundaryInstants(now.AddDate(0, 0, 1))...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}

	armed := 0
	for _, instant := range instants {
		if !instant.After(now) {
			continue
		}
		if _, ok := s.timers[instant]; ok {
			continue
		}
		boundary := instant
		s.timers[boundary] = time.AfterFunc(boundary.Sub(now), func() {
			s.onBoundary(boundary)
		})
		armed++
	}

	y, m, d := now.Date()
	nextRebuild := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(rescheduleOffset)
	s.reschedule = time.AfterFunc(nextRebuild.Sub(now), s.onNewDay)

	s.logger.Info("scheduler timers armed",
		slog.Int("boundaries", armed),
		slog.Time("next_rebuild", nextRebuild))
}

func (s *TournamentScheduler) onBoundary(instant time.Time) {
	s.mu.Lock()
	delete(s.timers, instant)
	running := s.running
	s.mu.Unlock()
	if !running {
		return
	}
	s.logger.Info("period boundary reached", slog.Time("boundary", instant))
	s.ForceExecution(context.Background())
}

// onNewDay drops every outstanding timer and rebuilds the set for the
// new today/tomorrow window.
func (s *TournamentScheduler) onNewDay() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.clearTimersLocked()
	s.mu.Unlock()

	s.logger.Info("scheduler rescheduling for new day")
	s.ForceExecution(context.Background())
	s.armTimers()
}

// ForceExecution runs one full sweep: activation, cancellation and
// overdue finalization. Sweeps are idempotent over persisted state, so
// running one twice back-to-back changes nothing the second time, and
// overlapping sweeps converge. A failure on one game is logged and
// never stalls the rest.
func (s *TournamentScheduler) ForceExecution(ctx context.Context) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("sweep panicked", slog.Any("panic", p))
		}
	}()

	now := s.clock.Now()

	s.sweepScheduled(ctx, now)
	s.sweepOverdue(ctx, now)
}

// sweepScheduled walks every scheduled game once, activating those
// whose window is open and canceling those whose window has passed.
func (s *TournamentScheduler) sweepScheduled(ctx context.Context, now time.Time) {
	candidates, err := s.gameRepo.List(ctx, repositories.GameFilter{
		Statuses: []models.GameStatus{models.StatusScheduled},
	})
	if err != nil {
		s.logger.Error("sweep: listing scheduled games failed", slog.Any("error", err))
		return
	}

	for _, game := range candidates {
		switch {
		case schedule.CanActivateGame(game.Period, game.ScheduledAt, now):
			s.transition(ctx, game, models.StatusInProgress, now, "period open")
		case schedule.ShouldCancelGame(game.Period, game.ScheduledAt, now):
			s.transition(ctx, game, models.StatusCanceled, now, "period passed")
		}
	}
}

// sweepOverdue force-finishes games still running past the ceiling.
func (s *TournamentScheduler) sweepOverdue(ctx context.Context, now time.Time) {
	cutoff := now.Add(-OverdueAfter)
	overdue, err := s.gameRepo.List(ctx, repositories.GameFilter{
		Statuses: []models.GameStatus{models.StatusInProgress, models.StatusPaused},
		To:       &cutoff,
	})
	if err != nil {
		s.logger.Error("sweep: listing overdue games failed", slog.Any("error", err))
		return
	}

	for _, game := range overdue {
		s.transition(ctx, game, models.StatusFinished, now, "overdue ceiling")
	}
}

// transition applies one guarded status change. Races with another
// sweep or a manual operator surface as a status conflict and are
// skipped quietly: the game already moved.
func (s *TournamentScheduler) transition(ctx context.Context, game *models.Game, to models.GameStatus, now time.Time, cause string) {
	if !lifecycle.CanTransition(game.Status, to) {
		s.logger.Warn("sweep: transition no longer legal",
			slog.Int("game_id", game.ID),
			slog.String("from", string(game.Status)),
			slog.String("to", string(to)))
		return
	}

	err := s.gameRepo.UpdateStatus(ctx, game.ID, game.Status, to)
	switch {
	case err == nil:
		// Force-finishing a paused game must settle its clock too, or
		// the open interval keeps accruing paused time forever.
		if game.Status == models.StatusPaused {
			if _, pauseErr := s.pauseRepo.Close(ctx, game.ID, now); pauseErr != nil && !errors.Is(pauseErr, repositories.ErrNoOpenPause) {
				s.logger.Error("sweep: failed to close pause interval",
					slog.Int("game_id", game.ID),
					slog.Any("error", pauseErr))
			}
		}
		s.logger.Info("sweep: game transitioned",
			slog.Int("game_id", game.ID),
			slog.String("from", string(game.Status)),
			slog.String("to", string(to)),
			slog.String("cause", cause))
		if s.notifier != nil {
			s.notifier.GameTransitioned(game, to)
		}
	case errors.Is(err, repositories.ErrGameStatusConflict), errors.Is(err, repositories.ErrGameNotFound):
		// Stale or missing game: skip this one, keep sweeping.
		s.logger.Warn("sweep: game skipped",
			slog.Int("game_id", game.ID),
			slog.Any("error", err))
	default:
		s.logger.Error("sweep: transition failed",
			slog.Int("game_id", game.ID),
			slog.String("to", string(to)),
			slog.Any("error", err))
	}
}
