package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/camerahub/models"
)

// EncodingRepository handles database operations for FaceEncoding entities
type EncodingRepository struct {
	DB *gorm.DB
}

// Ensure EncodingRepository implements EncodingRepositoryInterface
var _ EncodingRepositoryInterface = (*EncodingRepository)(nil)

// NewEncodingRepository creates a new instance of EncodingRepository
func NewEncodingRepository(db *gorm.DB) *EncodingRepository {
	return &EncodingRepository{DB: db}
}

// Create appends a new face encoding row. Existing rows are never modified.
func (r *EncodingRepository) Create(encoding *models.FaceEncoding) error {
	if encoding.CreatedAt == 0 {
		encoding.CreatedAt = time.Now().Unix()
	}

	err := r.DB.Create(encoding).Error
	if err != nil {
		return fmt.Errorf("failed to create face encoding for label '%s': %w", encoding.Label, err)
	}
	return nil
}

// ListAll retrieves every stored encoding in insertion (id) order. The caller
// groups rows by label; no grouping is done here.
func (r *EncodingRepository) ListAll() ([]models.FaceEncoding, error) {
	var encodings []models.FaceEncoding
	err := r.DB.Order("id ASC").Find(&encodings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list face encodings: %w", err)
	}
	return encodings, nil
}

// CountAll returns the number of stored encoding rows
func (r *EncodingRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&models.FaceEncoding{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count face encodings: %w", err)
	}
	return count, nil
}

// CountByLabel returns the number of stored samples for one label
func (r *EncodingRepository) CountByLabel(label string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.FaceEncoding{}).Where("label = ?", label).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count face encodings for label '%s': %w", label, err)
	}
	return count, nil
}
