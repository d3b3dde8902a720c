package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/interclass/tournament-system/fixtures"
	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
}

func NewFixtureHandler(fixtureService services.FixtureService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fixtureService}
}

type generateStageRequest struct {
	Start  time.Time      `json:"start"`
	Period *models.Period `json:"period,omitempty"`
}

func (h *FixtureHandler) GenerateGroupStage(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")

	var req generateStageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	games, err := h.fixtureService.GenerateGroupStage(r.Context(), modality, category, req.Start, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": games}, nil)
}

func (h *FixtureHandler) GenerateSemifinals(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")

	var req generateStageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	games, err := h.fixtureService.GenerateSemifinals(r.Context(), modality, category, req.Start, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": games}, nil)
}

type manualSemifinalsRequest struct {
	Pair1  [2]int         `json:"pair1"`
	Pair2  [2]int         `json:"pair2"`
	Start  time.Time      `json:"start"`
	Period *models.Period `json:"period,omitempty"`
}

func (h *FixtureHandler) GenerateSemifinalsManual(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")

	var req manualSemifinalsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	pairs := [2]fixtures.SemifinalPair{
		{Team1ID: req.Pair1[0], Team2ID: req.Pair1[1]},
		{Team1ID: req.Pair2[0], Team2ID: req.Pair2[1]},
	}
	games, err := h.fixtureService.GenerateSemifinalsManual(r.Context(), modality, category, pairs, req.Start, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": games}, nil)
}

func (h *FixtureHandler) GenerateFinal(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")

	var req generateStageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	game, err := h.fixtureService.GenerateFinal(r.Context(), modality, category, req.Start, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"fixture": game}, nil)
}

type generateAllRequest struct {
	Starts services.StageStarts `json:"starts"`
	Period *models.Period       `json:"period,omitempty"`
}

func (h *FixtureHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")

	var req generateAllRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.fixtureService.GenerateAll(r.Context(), modality, category, req.Starts, req.Period)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil)
}
