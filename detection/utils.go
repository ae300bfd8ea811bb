package detection

import (
	"gocv.io/x/gocv"

	"github.com/camden-git/camerahub/media"
)

// matFromFrame builds a 3-channel Mat sharing the frame's byte layout
func matFromFrame(frame media.Frame) (gocv.Mat, error) {
	return gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Pix)
}

// minFloat32 returns the minimum of two float32 values
func minFloat32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// maxFloat32 returns the maximum of two float32 values
func maxFloat32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
