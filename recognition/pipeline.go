package recognition

import (
	"log"
	"math"

	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/detection"
	"github.com/camden-git/camerahub/media"
	"github.com/camden-git/camerahub/repository"
)

// Pipeline turns a raw frame into a deduplicated list of labeled
// recognitions: face extraction and identity matching first, then an optional
// person-detection merge for entities whose face could not be resolved.
type Pipeline struct {
	tolerance float64
	events    repository.EventRepositoryInterface
	registry  *Registry
	extractor FaceExtractor
	detector  PersonDetector // nil when person detection is disabled
}

// NewPipeline wires the pipeline. detector may be nil; the merge step is then
// skipped entirely (graceful degradation when model files are missing).
func NewPipeline(cfg config.Config, events repository.EventRepositoryInterface, registry *Registry, extractor FaceExtractor, detector PersonDetector) *Pipeline {
	return &Pipeline{
		tolerance: cfg.RecognitionTolerance,
		events:    events,
		registry:  registry,
		extractor: extractor,
		detector:  detector,
	}
}

// ProcessFrame runs the per-frame orchestration on a BGR frame. Face-derived
// recognitions come first in the result, person-only fallbacks after, in
// detector output order. One event is logged per face (known or unknown);
// person-only detections are never logged.
func (p *Pipeline) ProcessFrame(frame media.Frame) []Recognition {
	// extraction runs before person detection so identity-bearing labels win
	// the overlap deduplication
	rgb := frame.ToRGB()
	locations, encodings, err := p.extractor.Extract(rgb)
	if err != nil {
		log.Printf("pipeline: face extraction failed, continuing without faces: %v", err)
		locations, encodings = nil, nil
	}

	recognitions := []Recognition{}
	for i, location := range locations {
		if i >= len(encodings) {
			break
		}

		var rec Recognition
		if label, distance, ok := p.registry.FindBestMatch(encodings[i], p.tolerance); ok {
			rec.Label = label
			rec.Confidence = math.Max(0, 1-distance)
			rec.IsKnown = true
		} else {
			rec.Label = UnknownLabel
			rec.Confidence = 0
			rec.IsKnown = false
		}
		rec.X, rec.Y, rec.W, rec.H = location.Box()
		recognitions = append(recognitions, rec)

		// logging failures must not prevent the recognitions from being returned
		if err := p.events.LogEvent(rec.Label, rec.IsKnown); err != nil {
			log.Printf("pipeline: failed to log event for '%s': %v", rec.Label, err)
		}
	}

	if p.detector != nil {
		detections, err := p.detector.Detect(frame)
		if err != nil {
			log.Printf("pipeline: person detection failed for this frame: %v", err)
		}
		for _, det := range detections {
			// avoid duplicates where a face already identified this person
			if p.overlapsExisting(det, recognitions) {
				continue
			}
			recognitions = append(recognitions, Recognition{
				Label:      det.Label,
				Confidence: det.Confidence,
				IsKnown:    false,
				X:          det.X,
				Y:          det.Y,
				W:          det.W,
				H:          det.H,
			})
		}
	}

	return recognitions
}

func (p *Pipeline) overlapsExisting(det detection.Detection, recognitions []Recognition) bool {
	for _, rec := range recognitions {
		if boxesOverlap(det.X, det.Y, det.X+det.W, det.Y+det.H, rec.X, rec.Y, rec.X+rec.W, rec.Y+rec.H) {
			return true
		}
	}
	return false
}
