package handlers

import (
	"net/http"

	"github.com/interclass/tournament-system/scheduler"
)

type SchedulerHandler struct {
	scheduler *scheduler.TournamentScheduler
}

func NewSchedulerHandler(sched *scheduler.TournamentScheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: sched}
}

// ForceSweep triggers one full activation/cancellation/finalization
// sweep on demand. The sweep is idempotent, so repeated calls are safe.
func (h *SchedulerHandler) ForceSweep(w http.ResponseWriter, r *http.Request) {
	h.scheduler.ForceExecution(r.Context())
	writeJSON(w, http.StatusOK, jsonResponse{"swept": true}, nil)
}
