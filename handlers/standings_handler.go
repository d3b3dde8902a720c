package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/interclass/tournament-system/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(standingsService services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: standingsService}
}

func (h *StandingsHandler) Table(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")
	group := chi.URLParam(r, "group")

	rows, err := h.standingsService.Table(r.Context(), modality, category, group)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil)
}

func (h *StandingsHandler) Qualified(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	category := chi.URLParam(r, "category")
	group := chi.URLParam(r, "group")

	n := 2
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errorResponse(w, http.StatusBadRequest, "query parameter n must be a positive integer")
			return
		}
		n = parsed
	}

	rows, err := h.standingsService.Qualified(r.Context(), modality, category, group, n)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"qualified": rows}, nil)
}
