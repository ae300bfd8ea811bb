package media

import (
	"fmt"
)

// Channels per pixel; frames are always 3-channel, 8 bits per channel
const FrameChannels = 3

// Frame is an explicit image buffer: row-major, 3 bytes per pixel, BGR byte
// order (camera native). It replaces the implicit array-like frame object so
// every consumer agrees on the layout. Treat frames as immutable once built.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*FrameChannels
}

// NewFrame validates the buffer length against the stated dimensions
func NewFrame(width, height int, pix []byte) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("invalid frame dimensions: %dx%d", width, height)
	}
	if len(pix) != width*height*FrameChannels {
		return Frame{}, fmt.Errorf("frame buffer length %d does not match %dx%dx%d", len(pix), width, height, FrameChannels)
	}
	return Frame{Width: width, Height: height, Pix: pix}, nil
}

// Empty reports whether the frame holds no pixel data
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) == 0
}

// Clone returns a deep copy of the frame
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// ToRGB returns a new frame with the first and third channels swapped.
// Face extraction models expect RGB input while cameras deliver BGR.
func (f Frame) ToRGB() Frame {
	pix := make([]byte, len(f.Pix))
	for i := 0; i+2 < len(f.Pix); i += FrameChannels {
		pix[i] = f.Pix[i+2]
		pix[i+1] = f.Pix[i+1]
		pix[i+2] = f.Pix[i]
	}
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}
