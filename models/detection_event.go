package models

import "time"

// DetectionEvent is one row of the append-only 'events' table: a recognized
// face sighting, known or unknown. The table is managed with raw SQL (see
// database package), not GORM, so the struct carries no gorm tags.
type DetectionEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"` // UTC
	Label     string    `json:"label"`
	IsKnown   bool      `json:"is_known"`
}
