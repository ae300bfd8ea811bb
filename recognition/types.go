package recognition

import (
	"errors"

	"github.com/camden-git/camerahub/detection"
	"github.com/camden-git/camerahub/media"
)

// UnknownLabel is the sentinel label carried by faces that matched no
// registered encoding within tolerance.
const UnknownLabel = "Unknown"

// ErrNoFaceDetected is returned by registration when the supplied image
// contains no detectable face. No write occurs in that case.
var ErrNoFaceDetected = errors.New("no face detected in the provided image")

// FaceExtractor is the external face detection + encoding extraction step.
// It takes an RGB-converted frame and returns face locations with parallel,
// index-aligned fixed-length encodings.
type FaceExtractor interface {
	Extract(frame media.Frame) ([]detection.FaceLocation, [][]float64, error)
}

// PersonDetector yields person detections for a full BGR frame
type PersonDetector interface {
	Detect(frame media.Frame) ([]detection.Detection, error)
}

// Recognition is the unified output unit of the pipeline: one labeled entity
// (matched face, unknown face, or fallback person detection) per frame.
type Recognition struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	IsKnown    bool    `json:"is_known"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	W          int     `json:"w"`
	H          int     `json:"h"`
}
