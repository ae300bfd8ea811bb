package repository

import (
	"github.com/camden-git/camerahub/models"
)

// EncodingRepositoryInterface defines the durable identity-store operations
// for face encodings. Rows are append-only: Create never overwrites.
type EncodingRepositoryInterface interface {
	Create(encoding *models.FaceEncoding) error
	ListAll() ([]models.FaceEncoding, error)
	CountAll() (int64, error)
	CountByLabel(label string) (int64, error)
}

// EventRepositoryInterface defines the append-only sighting event log
type EventRepositoryInterface interface {
	LogEvent(label string, isKnown bool) error
	GetEvents(limit int) ([]models.DetectionEvent, error)
}
