package recognition

import (
	"errors"
	"math"
	"testing"

	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/detection"
	"github.com/camden-git/camerahub/media"
	"github.com/camden-git/camerahub/models"
)

type loggedEvent struct {
	label   string
	isKnown bool
}

type fakeEventRepo struct {
	events []loggedEvent
	logErr error
}

func (f *fakeEventRepo) LogEvent(label string, isKnown bool) error {
	if f.logErr != nil {
		return f.logErr
	}
	f.events = append(f.events, loggedEvent{label: label, isKnown: isKnown})
	return nil
}

func (f *fakeEventRepo) GetEvents(limit int) ([]models.DetectionEvent, error) {
	return nil, nil
}

type fakeDetector struct {
	detections []detection.Detection
	err        error
}

func (f *fakeDetector) Detect(frame media.Frame) ([]detection.Detection, error) {
	return f.detections, f.err
}

func newTestPipeline(t *testing.T, events *fakeEventRepo, extractor *fakeExtractor, detector PersonDetector, known map[string][]float64, tolerance float64) *Pipeline {
	t.Helper()
	repo := &fakeEncodingRepo{}
	for label, encoding := range known {
		repo.add(label, encoding)
	}
	registry := NewRegistry(repo, extractor)
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	cfg := config.Config{RecognitionTolerance: tolerance}
	return NewPipeline(cfg, events, registry, extractor, detector)
}

func TestProcessFrameKnownFace(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 5, Right: 30, Bottom: 25, Left: 10}},
		encodings: [][]float64{{0.4, 0}},
	}
	p := newTestPipeline(t, events, extractor, nil, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 {
		t.Fatalf("got %d recognitions, want 1", len(recognitions))
	}

	rec := recognitions[0]
	if rec.Label != "alice" || !rec.IsKnown {
		t.Errorf("recognition = %+v, want known alice", rec)
	}
	// confidence is 1 - distance, with distance 0.4 here
	if math.Abs(rec.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence = %v, want 0.6", rec.Confidence)
	}
	if rec.X != 10 || rec.Y != 5 || rec.W != 20 || rec.H != 20 {
		t.Errorf("box = (%d,%d,%d,%d), want (10,5,20,20)", rec.X, rec.Y, rec.W, rec.H)
	}

	if len(events.events) != 1 || events.events[0] != (loggedEvent{label: "alice", isKnown: true}) {
		t.Errorf("events = %+v, want one known alice event", events.events)
	}
}

func TestProcessFrameUnknownFace(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{9, 9}},
	}
	p := newTestPipeline(t, events, extractor, nil, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 {
		t.Fatalf("got %d recognitions, want 1", len(recognitions))
	}

	rec := recognitions[0]
	if rec.Label != UnknownLabel || rec.IsKnown || rec.Confidence != 0 {
		t.Errorf("recognition = %+v, want unknown with zero confidence", rec)
	}
	if len(events.events) != 1 || events.events[0] != (loggedEvent{label: UnknownLabel, isKnown: false}) {
		t.Errorf("events = %+v, want one unknown event", events.events)
	}
}

func TestProcessFrameDropsOverlappingPerson(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{0, 0}},
	}
	detector := &fakeDetector{detections: []detection.Detection{
		{Label: "person", Confidence: 0.9, X: 5, Y: 5, W: 10, H: 10},   // overlaps the face
		{Label: "person", Confidence: 0.8, X: 20, Y: 20, W: 10, H: 10}, // disjoint
	}}
	p := newTestPipeline(t, events, extractor, detector, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 2 {
		t.Fatalf("got %d recognitions, want 2 (face + disjoint person)", len(recognitions))
	}

	// face-derived recognitions come first
	if recognitions[0].Label != "alice" {
		t.Errorf("first recognition = %+v, want alice", recognitions[0])
	}
	person := recognitions[1]
	if person.Label != "person" || person.IsKnown || person.X != 20 {
		t.Errorf("second recognition = %+v, want the disjoint person detection", person)
	}

	// person-only detections are never logged
	if len(events.events) != 1 {
		t.Errorf("got %d events, want 1 (face only)", len(events.events))
	}
}

func TestProcessFrameBoundaryTouchCountsAsOverlap(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{0, 0}},
	}
	// person's left edge sits exactly on the face's right edge
	detector := &fakeDetector{detections: []detection.Detection{
		{Label: "person", Confidence: 0.9, X: 10, Y: 0, W: 10, H: 10},
	}}
	p := newTestPipeline(t, events, extractor, detector, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 {
		t.Fatalf("got %d recognitions, want 1 (touching person suppressed)", len(recognitions))
	}
}

func TestProcessFramePersonOverlapAgainstEarlierPersons(t *testing.T) {
	events := &fakeEventRepo{}
	detector := &fakeDetector{detections: []detection.Detection{
		{Label: "person", Confidence: 0.9, X: 0, Y: 0, W: 10, H: 10},
		{Label: "person", Confidence: 0.8, X: 5, Y: 5, W: 10, H: 10}, // overlaps the first detection
	}}
	p := newTestPipeline(t, events, &fakeExtractor{}, detector, nil, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 {
		t.Fatalf("got %d recognitions, want 1 (second person suppressed)", len(recognitions))
	}
	if len(events.events) != 0 {
		t.Errorf("got %d events, want 0 for person-only frames", len(events.events))
	}
}

func TestProcessFrameExtractorFailure(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{err: errors.New("model crashed")}
	detector := &fakeDetector{detections: []detection.Detection{
		{Label: "person", Confidence: 0.9, X: 0, Y: 0, W: 10, H: 10},
	}}
	p := newTestPipeline(t, events, extractor, detector, nil, 0.5)

	// extraction failure degrades to a faces-less frame; person detection still runs
	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 || recognitions[0].Label != "person" {
		t.Fatalf("recognitions = %+v, want the person fallback only", recognitions)
	}
	if len(events.events) != 0 {
		t.Errorf("got %d events, want 0", len(events.events))
	}
}

func TestProcessFrameDetectorFailure(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{0, 0}},
	}
	detector := &fakeDetector{err: errors.New("inference failed")}
	p := newTestPipeline(t, events, extractor, detector, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 || recognitions[0].Label != "alice" {
		t.Fatalf("recognitions = %+v, want the face result despite detector failure", recognitions)
	}
}

func TestProcessFrameNilDetector(t *testing.T) {
	events := &fakeEventRepo{}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{0, 0}},
	}
	p := newTestPipeline(t, events, extractor, nil, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 || recognitions[0].Label != "alice" {
		t.Fatalf("recognitions = %+v, want faces-only result", recognitions)
	}
}

func TestProcessFrameLogFailureIsNotFatal(t *testing.T) {
	events := &fakeEventRepo{logErr: errors.New("db locked")}
	extractor := &fakeExtractor{
		locations: []detection.FaceLocation{{Top: 0, Right: 10, Bottom: 10, Left: 0}},
		encodings: [][]float64{{0, 0}},
	}
	p := newTestPipeline(t, events, extractor, nil, map[string][]float64{"alice": {0, 0}}, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 1 {
		t.Fatalf("got %d recognitions, want 1 despite logging failure", len(recognitions))
	}
}

func TestProcessFrameEmptyFrameNoFaces(t *testing.T) {
	events := &fakeEventRepo{}
	p := newTestPipeline(t, events, &fakeExtractor{}, nil, nil, 0.5)

	recognitions := p.ProcessFrame(testFrame())
	if len(recognitions) != 0 {
		t.Fatalf("got %d recognitions, want 0", len(recognitions))
	}
	if len(events.events) != 0 {
		t.Errorf("got %d events, want 0", len(events.events))
	}
}
