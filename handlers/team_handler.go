package handlers

import (
	"net/http"

	"github.com/interclass/tournament-system/models"
	"github.com/interclass/tournament-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var team models.Team
	if err := readJSON(w, r, &team); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.teamService.Create(r.Context(), &team); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teamService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	modality := r.URL.Query().Get("modality")
	category := r.URL.Query().Get("category")
	if modality == "" || category == "" {
		errorResponse(w, http.StatusBadRequest, "query parameters modality and category are required")
		return
	}

	teams, err := h.teamService.List(r.Context(), modality, category)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
}

// UploadCrest accepts the raw image body; the content type header
// decides the stored extension.
func (h *TeamHandler) UploadCrest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	team, err := h.teamService.UploadCrest(r.Context(), id, contentType, http.MaxBytesReader(w, r.Body, 5<<20))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
}
