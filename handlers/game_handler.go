package handlers

import (
	"net/http"
	"time"

	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	game, err := h.gameService.GetGameDetail(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil)
}

func (h *GameHandler) GameTime(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	info, err := h.gameService.GameTime(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"game_time": info}, nil)
}

type transitionRequest struct {
	To      models.GameStatus `json:"to"`
	ActorID *int              `json:"actor_id,omitempty"`
	Reason  *string           `json:"reason,omitempty"`
}

func (h *GameHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var req transitionRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	record, err := h.gameService.ApplyTransition(r.Context(), id, req.To, req.ActorID, req.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"transition": record}, nil)
}

type rescheduleRequest struct {
	ScheduledAt time.Time      `json:"scheduled_at"`
	Period      *models.Period `json:"period,omitempty"`
}

func (h *GameHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var req rescheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	game, err := h.gameService.Reschedule(r.Context(), id, req.ScheduledAt, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil)
}

type scoreRequest struct {
	ScoreTeam1 int `json:"score_team1"`
	ScoreTeam2 int `json:"score_team2"`
}

func (h *GameHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var req scoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.gameService.UpdateScore(r.Context(), id, req.ScoreTeam1, req.ScoreTeam2); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"updated": true}, nil)
}

func (h *GameHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	event, warning, err := h.gameService.RecordEvent(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	resp := jsonResponse{"event": event}
	if warning != nil {
		resp["warning"] = warning
	}
	writeJSON(w, http.StatusCreated, resp, nil)
}
