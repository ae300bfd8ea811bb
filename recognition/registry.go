package recognition

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/camden-git/camerahub/media"
	"github.com/camden-git/camerahub/models"
	"github.com/camden-git/camerahub/repository"
)

// Registry caches the identity store's face encodings in memory and answers
// nearest-match queries. The store stays authoritative: the cache can be
// discarded and rebuilt with Reload at any time without data loss.
//
// Safe for concurrent use: registration and reloads may arrive from API
// handlers while the capture loop queries matches.
type Registry struct {
	repo      repository.EncodingRepositoryInterface
	extractor FaceExtractor

	mu    sync.RWMutex
	cache map[string][][]float64
	order []string // first-seen label order; the deterministic tie-break for matches
}

// NewRegistry creates an empty registry. Call Reload before querying.
func NewRegistry(repo repository.EncodingRepositoryInterface, extractor FaceExtractor) *Registry {
	return &Registry{
		repo:      repo,
		extractor: extractor,
		cache:     make(map[string][][]float64),
	}
}

// Reload replaces the whole cache from the store. Total replace, not merge,
// so entries removed from the store externally never linger here.
func (r *Registry) Reload() error {
	rows, err := r.repo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to reload face encodings: %w", err)
	}

	cache := make(map[string][][]float64)
	var order []string
	for _, row := range rows {
		encoding := row.GetEncoding()
		if len(encoding) == 0 {
			log.Printf("registry: skipping empty encoding row %d (label '%s')", row.ID, row.Label)
			continue
		}
		if _, seen := cache[row.Label]; !seen {
			order = append(order, row.Label)
		}
		cache[row.Label] = append(cache[row.Label], encoding)
	}

	r.mu.Lock()
	r.cache = cache
	r.order = order
	r.mu.Unlock()
	log.Printf("registry: loaded %d encodings across %d labels", len(rows), len(order))
	return nil
}

// Labels returns the known labels in first-seen order
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, len(r.order))
	copy(labels, r.order)
	return labels
}

// SampleCount returns the number of cached encodings for one label
func (r *Registry) SampleCount(label string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache[label])
}

// TotalSamples returns the number of cached encodings across all labels
func (r *Registry) TotalSamples() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, encodings := range r.cache {
		total += len(encodings)
	}
	return total
}

// RegisterFromImage extracts every face in the image and registers each one
// under the label, persisting to the store before mirroring into the cache.
// Zero faces yields ErrNoFaceDetected with no writes at all; a storage
// failure mid-way is surfaced and the cache only reflects rows that were
// actually written. Returns the number of faces registered.
func (r *Registry) RegisterFromImage(label string, frame media.Frame) (int, error) {
	rgb := frame.ToRGB()
	_, encodings, err := r.extractor.Extract(rgb)
	if err != nil {
		return 0, fmt.Errorf("face extraction failed during registration: %w", err)
	}
	if len(encodings) == 0 {
		return 0, ErrNoFaceDetected
	}

	registered := 0
	for _, encoding := range encodings {
		row := &models.FaceEncoding{Label: label}
		row.SetEncoding(encoding)
		if err := r.repo.Create(row); err != nil {
			return registered, fmt.Errorf("failed to persist encoding for label '%s': %w", label, err)
		}
		r.addToCache(label, encoding)
		registered++
	}

	log.Printf("registry: registered %d face(s) for label '%s'", registered, label)
	return registered, nil
}

func (r *Registry) addToCache(label string, encoding []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.cache[label]; !seen {
		r.order = append(r.order, label)
	}
	r.cache[label] = append(r.cache[label], encoding)
}

// FindBestMatch returns the label whose closest cached encoding has the
// smallest Euclidean distance to the query, provided that distance is within
// tolerance (inclusive). Ties keep the first-seen label. The boolean is false
// when the cache is empty or no label falls within tolerance.
func (r *Registry) FindBestMatch(encoding []float64, tolerance float64) (string, float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bestLabel := ""
	bestDistance := math.Inf(1)

	for _, label := range r.order {
		for _, known := range r.cache[label] {
			if d := euclideanDistance(known, encoding); d < bestDistance {
				bestDistance = d
				bestLabel = label
			}
		}
	}

	if bestLabel == "" || bestDistance > tolerance {
		return "", 0, false
	}
	return bestLabel, bestDistance, true
}
