package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/camden-git/camerahub/database"
	"github.com/camden-git/camerahub/repository"
)

type EventHandler struct {
	Events repository.EventRepositoryInterface
}

type eventResponse struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Label     string `json:"label"`
	IsKnown   bool   `json:"is_known"`
}

// ListEvents returns the most recent detection events, newest first.
// The optional limit query parameter caps the result; it defaults to 100.
func (eh *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit := database.DefaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := eh.Events.GetEvents(limit)
	if err != nil {
		log.Printf("Error listing events: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "events_query_failed", "Failed to fetch events")
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, eventResponse{
			ID:        ev.ID,
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339Nano),
			Label:     ev.Label,
			IsKnown:   ev.IsKnown,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
