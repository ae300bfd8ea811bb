package detection

import "errors"

// PersonClassName is the category kept by the person detector; every other
// category in the model output is discarded.
const PersonClassName = "person"

// ErrModelNotFound is returned at construction when a configured model config
// or weights file does not exist on disk.
var ErrModelNotFound = errors.New("detection model file not found")

// ErrUnsupportedModel is returned at construction when the resolved class list
// has no person category, making the model useless for this system.
var ErrUnsupportedModel = errors.New("detection model does not include a person class")

// Detection is a single raw hit from the person detector. The box uses the
// top-left + width/height convention with all components >= 0.
type Detection struct {
	Label      string
	Confidence float64
	X, Y, W, H int
}

// FaceLocation is a face bounding box in the face extractor's native
// (top, right, bottom, left) pixel order.
type FaceLocation struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Box converts the location to the (x, y, w, h) convention used downstream
func (l FaceLocation) Box() (x, y, w, h int) {
	return l.Left, l.Top, l.Right - l.Left, l.Bottom - l.Top
}
