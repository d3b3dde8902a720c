package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interclass/tournament-system/lifecycle"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/schedule"
	"github.com/interclass/tournament-system/services"
)

type mockGameService struct {
	ApplyTransitionFunc func(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error)
	CreateGameFunc      func(ctx context.Context, input services.CreateGameInput) (*models.Game, error)
	RescheduleFunc      func(ctx context.Context, gameID int, scheduledAt time.Time, period *models.Period) (*models.Game, error)
	GetGameDetailFunc   func(ctx context.Context, gameID int) (*models.Game, error)
	GameTimeFunc        func(ctx context.Context, gameID int) (*services.GameTimeInfo, error)
	UpdateScoreFunc     func(ctx context.Context, gameID, scoreTeam1, scoreTeam2 int) error
	RecordEventFunc     func(ctx context.Context, gameID int, input services.EventInput) (*models.GameEvent, *schedule.MinuteWarning, error)
}

func (m *mockGameService) ApplyTransition(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error) {
	return m.ApplyTransitionFunc(ctx, gameID, to, actorID, reason)
}

func (m *mockGameService) CreateGame(ctx context.Context, input services.CreateGameInput) (*models.Game, error) {
	return m.CreateGameFunc(ctx, input)
}

func (m *mockGameService) Reschedule(ctx context.Context, gameID int, scheduledAt time.Time, period *models.Period) (*models.Game, error) {
	return m.RescheduleFunc(ctx, gameID, scheduledAt, period)
}

func (m *mockGameService) GetGameDetail(ctx context.Context, gameID int) (*models.Game, error) {
	return m.GetGameDetailFunc(ctx, gameID)
}

func (m *mockGameService) GameTime(ctx context.Context, gameID int) (*services.GameTimeInfo, error) {
	return m.GameTimeFunc(ctx, gameID)
}

func (m *mockGameService) UpdateScore(ctx context.Context, gameID, scoreTeam1, scoreTeam2 int) error {
	return m.UpdateScoreFunc(ctx, gameID, scoreTeam1, scoreTeam2)
}

func (m *mockGameService) RecordEvent(ctx context.Context, gameID int, input services.EventInput) (*models.GameEvent, *schedule.MinuteWarning, error) {
	return m.RecordEventFunc(ctx, gameID, input)
}

func gameRouter(svc services.GameService) *chi.Mux {
	h := NewGameHandler(svc)
	router := chi.NewRouter()
	router.Route("/games", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/time", h.GameTime)
		r.Put("/{id}/schedule", h.Reschedule)
		r.Post("/{id}/transition", h.Transition)
		r.Put("/{id}/score", h.UpdateScore)
		r.Post("/{id}/events", h.RecordEvent)
	})
	return router
}

func TestTransitionHandler_Success(t *testing.T) {
	svc := &mockGameService{
		ApplyTransitionFunc: func(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error) {
			assert.Equal(t, 5, gameID)
			assert.Equal(t, models.StatusInProgress, to)
			return &models.TransitionRecord{GameID: gameID, From: models.StatusScheduled, To: to, At: time.Now()}, nil
		},
	}

	body := bytes.NewBufferString(`{"to":"in_progress"}`)
	req := httptest.NewRequest(http.MethodPost, "/games/5/transition", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Transition models.TransitionRecord `json:"transition"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusInProgress, resp.Transition.To)
}

func TestTransitionHandler_IllegalTransitionIsBadRequest(t *testing.T) {
	svc := &mockGameService{
		ApplyTransitionFunc: func(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error) {
			return nil, &lifecycle.InvalidTransitionError{From: models.StatusFinished, To: to}
		},
	}

	body := bytes.NewBufferString(`{"to":"in_progress"}`)
	req := httptest.NewRequest(http.MethodPost, "/games/5/transition", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionHandler_StaleGameIsConflict(t *testing.T) {
	svc := &mockGameService{
		ApplyTransitionFunc: func(ctx context.Context, gameID int, to models.GameStatus, actorID *int, reason *string) (*models.TransitionRecord, error) {
			return nil, fmt.Errorf("%w: game %d", services.ErrStaleOrMissingGame, gameID)
		},
	}

	body := bytes.NewBufferString(`{"to":"canceled"}`)
	req := httptest.NewRequest(http.MethodPost, "/games/5/transition", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetHandler_UnknownGameIsNotFound(t *testing.T) {
	svc := &mockGameService{
		GetGameDetailFunc: func(ctx context.Context, gameID int) (*models.Game, error) {
			return nil, fmt.Errorf("%w: game %d", services.ErrGameNotFound, gameID)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/games/99", nil)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHandler_InvalidIDIsBadRequest(t *testing.T) {
	svc := &mockGameService{}
	req := httptest.NewRequest(http.MethodGet, "/games/abc", nil)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordEventHandler_IncludesMinuteWarning(t *testing.T) {
	svc := &mockGameService{
		RecordEventFunc: func(ctx context.Context, gameID int, input services.EventInput) (*models.GameEvent, *schedule.MinuteWarning, error) {
			require.NotNil(t, input.ManualMinute)
			return &models.GameEvent{ID: 1, GameID: gameID, Type: input.Type, Minute: *input.ManualMinute},
				&schedule.MinuteWarning{AutoMinute: 40, ManualMinute: *input.ManualMinute, Message: "drift"},
				nil
		},
	}

	body := bytes.NewBufferString(`{"type":"goal","team_id":1,"player":"Jo","manual_minute":25}`)
	req := httptest.NewRequest(http.MethodPost, "/games/5/events", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "event")
	assert.Contains(t, resp, "warning")
}

func TestRescheduleHandler_StartedGameIsBadRequest(t *testing.T) {
	svc := &mockGameService{
		RescheduleFunc: func(ctx context.Context, gameID int, scheduledAt time.Time, period *models.Period) (*models.Game, error) {
			return nil, fmt.Errorf("%w: status %s", services.ErrGameNotEditable, models.StatusInProgress)
		},
	}
	body := bytes.NewBufferString(`{"scheduled_at": "2026-06-02T15:00:00Z", "period": "afternoon"}`)
	req := httptest.NewRequest(http.MethodPut, "/games/5/schedule", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "edited")
}

func TestUpdateScoreHandler_MalformedBody(t *testing.T) {
	svc := &mockGameService{}
	body := bytes.NewBufferString(`{"score_team1": "two"}`)
	req := httptest.NewRequest(http.MethodPut, "/games/5/score", body)
	rec := httptest.NewRecorder()
	gameRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
