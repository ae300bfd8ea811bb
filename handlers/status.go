package handlers

import (
	"log"
	"net/http"

	"github.com/camden-git/camerahub/database"
	"github.com/camden-git/camerahub/recognition"
)

type StatusHandler struct {
	CameraSource    string
	CameraActive    bool
	PersonDetection bool
	Registry        *recognition.Registry
	Events          *database.EventDB
}

type statusResponse struct {
	CameraSource    string `json:"camera_source"`
	CameraActive    bool   `json:"camera_active"`
	PersonDetection bool   `json:"person_detection"`
	KnownIdentities int    `json:"known_identities"`
	TotalSamples    int    `json:"total_samples"`
	TotalEvents     int64  `json:"total_events"`
}

// GetStatus reports the live state of the capture and recognition stack
func (sh *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	totalEvents, err := sh.Events.CountEvents()
	if err != nil {
		log.Printf("Error counting events for status: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "status_query_failed", "Failed to query event count")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		CameraSource:    sh.CameraSource,
		CameraActive:    sh.CameraActive,
		PersonDetection: sh.PersonDetection,
		KnownIdentities: len(sh.Registry.Labels()),
		TotalSamples:    sh.Registry.TotalSamples(),
		TotalEvents:     totalEvents,
	})
}
