package handlers

import (
	"log"
	"net/http"

	"github.com/chiral-robotics/chiral-backend/internal/entity"
	"github.com/chiral-robotics/chiral-backend/internal/infra/worker"
)

type EmailHandler struct {
	Queue      entity.EmailQueueRepository
	Dispatcher *worker.EmailDispatcher
}

func NewEmailHandler(queue entity.EmailQueueRepository, dispatcher *worker.EmailDispatcher) *EmailHandler {
	return &EmailHandler{Queue: queue, Dispatcher: dispatcher}
}

// ProcessQueue triggers one dispatch cycle on demand, outside the regular
// poll schedule. Overlap with a running cycle is a harmless no-op.
func (h *EmailHandler) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	h.Dispatcher.ProcessQueue(r.Context())

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Email queue processed",
	})
}

func (h *EmailHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Queue.Statistics(r.Context())
	if err != nil {
		log.Printf("❌ Failed to compute email queue statistics: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
