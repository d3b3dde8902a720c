package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/repositories"
)

// Function-field mocks: a test assigns only the calls it expects, any
// other call panics with a nil function, which is a test bug anyway.

type mockGameRepo struct {
	CreateFunc                 func(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error
	GetByIDFunc                func(ctx context.Context, id int) (*models.Game, error)
	ListFunc                   func(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error)
	UpdateStatusFunc           func(ctx context.Context, id int, from, to models.GameStatus) error
	UpdateScoreFunc            func(ctx context.Context, id, scoreTeam1, scoreTeam2 int) error
	UpdateScheduleFunc         func(ctx context.Context, id int, scheduledAt time.Time, period *models.Period) error
	ListFinishedGroupGamesFunc func(ctx context.Context, modality, category, groupLabel string) ([]*models.Game, error)
	ListByStageFunc            func(ctx context.Context, modality, category string, stage models.Stage) ([]*models.Game, error)
	AddEventFunc               func(ctx context.Context, event *models.GameEvent) error
	ListEventsFunc             func(ctx context.Context, gameID int) ([]models.GameEvent, error)
}

func (m *mockGameRepo) Create(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	return m.CreateFunc(ctx, exec, game)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id int) (*models.Game, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockGameRepo) List(ctx context.Context, filter repositories.GameFilter) ([]*models.Game, error) {
	return m.ListFunc(ctx, filter)
}

func (m *mockGameRepo) UpdateStatus(ctx context.Context, id int, from, to models.GameStatus) error {
	return m.UpdateStatusFunc(ctx, id, from, to)
}

func (m *mockGameRepo) UpdateScore(ctx context.Context, id, scoreTeam1, scoreTeam2 int) error {
	return m.UpdateScoreFunc(ctx, id, scoreTeam1, scoreTeam2)
}

func (m *mockGameRepo) UpdateSchedule(ctx context.Context, id int, scheduledAt time.Time, period *models.Period) error {
	return m.UpdateScheduleFunc(ctx, id, scheduledAt, period)
}

func (m *mockGameRepo) ListFinishedGroupGames(ctx context.Context, modality, category, groupLabel string) ([]*models.Game, error) {
	return m.ListFinishedGroupGamesFunc(ctx, modality, category, groupLabel)
}

func (m *mockGameRepo) ListByStage(ctx context.Context, modality, category string, stage models.Stage) ([]*models.Game, error) {
	return m.ListByStageFunc(ctx, modality, category, stage)
}

func (m *mockGameRepo) AddEvent(ctx context.Context, event *models.GameEvent) error {
	return m.AddEventFunc(ctx, event)
}

func (m *mockGameRepo) ListEvents(ctx context.Context, gameID int) ([]models.GameEvent, error) {
	return m.ListEventsFunc(ctx, gameID)
}

type mockTeamRepo struct {
	CreateFunc                 func(ctx context.Context, team *models.Team) error
	GetByIDFunc                func(ctx context.Context, id int) (*models.Team, error)
	ListByModalityCategoryFunc func(ctx context.Context, modality, category string) ([]*models.Team, error)
	ListGroupLabelsFunc        func(ctx context.Context, modality, category string) ([]string, error)
	UpdateCrestKeyFunc         func(ctx context.Context, id int, crestKey *string) error
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.Team) error {
	return m.CreateFunc(ctx, team)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockTeamRepo) ListByModalityCategory(ctx context.Context, modality, category string) ([]*models.Team, error) {
	return m.ListByModalityCategoryFunc(ctx, modality, category)
}

func (m *mockTeamRepo) ListGroupLabels(ctx context.Context, modality, category string) ([]string, error) {
	return m.ListGroupLabelsFunc(ctx, modality, category)
}

func (m *mockTeamRepo) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	return m.UpdateCrestKeyFunc(ctx, id, crestKey)
}

type mockPauseRepo struct {
	ListByGameFunc func(ctx context.Context, gameID int) ([]models.PauseInterval, error)
	GetOpenFunc    func(ctx context.Context, gameID int) (*models.PauseInterval, error)
	OpenFunc       func(ctx context.Context, gameID int, startedAt time.Time) (*models.PauseInterval, error)
	CloseFunc      func(ctx context.Context, gameID int, endedAt time.Time) (*models.PauseInterval, error)
}

func (m *mockPauseRepo) ListByGame(ctx context.Context, gameID int) ([]models.PauseInterval, error) {
	return m.ListByGameFunc(ctx, gameID)
}

func (m *mockPauseRepo) GetOpen(ctx context.Context, gameID int) (*models.PauseInterval, error) {
	return m.GetOpenFunc(ctx, gameID)
}

func (m *mockPauseRepo) Open(ctx context.Context, gameID int, startedAt time.Time) (*models.PauseInterval, error) {
	return m.OpenFunc(ctx, gameID, startedAt)
}

func (m *mockPauseRepo) Close(ctx context.Context, gameID int, endedAt time.Time) (*models.PauseInterval, error) {
	return m.CloseFunc(ctx, gameID, endedAt)
}

type mockStandingsService struct {
	TableFunc     func(ctx context.Context, modality, category, groupLabel string) ([]models.StandingRow, error)
	QualifiedFunc func(ctx context.Context, modality, category, groupLabel string, n int) ([]models.StandingRow, error)
}

func (m *mockStandingsService) Table(ctx context.Context, modality, category, groupLabel string) ([]models.StandingRow, error) {
	return m.TableFunc(ctx, modality, category, groupLabel)
}

func (m *mockStandingsService) Qualified(ctx context.Context, modality, category, groupLabel string, n int) ([]models.StandingRow, error) {
	return m.QualifiedFunc(ctx, modality, category, groupLabel, n)
}

type spyNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *spyNotifier) GameTransitioned(game *models.Game, to models.GameStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fmt.Sprintf("%d:%s", game.ID, to))
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
