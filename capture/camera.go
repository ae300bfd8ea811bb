package capture

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/media"
)

// ErrCameraUnavailable is returned when the capture source cannot be opened.
// It is fatal to starting a stream; no automatic retry happens here.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Camera wraps a gocv VideoCapture over a local device index or stream URL
type Camera struct {
	source  string
	capture *gocv.VideoCapture
	buf     gocv.Mat
}

// NewCamera opens the configured source and applies the requested dimensions
func NewCamera(cfg config.CameraConfig) (*Camera, error) {
	var (
		capture *gocv.VideoCapture
		err     error
	)
	if deviceID, convErr := strconv.Atoi(cfg.Source); convErr == nil {
		capture, err = gocv.OpenVideoCapture(deviceID)
	} else {
		capture, err = gocv.OpenVideoCapture(cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCameraUnavailable, cfg.Source, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrCameraUnavailable, cfg.Source)
	}

	if cfg.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	log.Printf("capture: opened camera source %s", cfg.Source)
	return &Camera{
		source:  cfg.Source,
		capture: capture,
		buf:     gocv.NewMat(),
	}, nil
}

// Read grabs one BGR frame. A false result is not an error; the driving loop
// is expected to check it and retry on its next tick.
func (c *Camera) Read() (media.Frame, bool) {
	if c == nil || c.capture == nil {
		return media.Frame{}, false
	}
	if ok := c.capture.Read(&c.buf); !ok || c.buf.Empty() {
		return media.Frame{}, false
	}

	data := c.buf.ToBytes()
	pix := make([]byte, len(data))
	copy(pix, data)

	frame, err := media.NewFrame(c.buf.Cols(), c.buf.Rows(), pix)
	if err != nil {
		log.Printf("capture: dropping malformed frame: %v", err)
		return media.Frame{}, false
	}
	return frame, true
}

// Source returns the configured capture source
func (c *Camera) Source() string {
	return c.source
}

func (c *Camera) Close() error {
	if c == nil || c.capture == nil {
		return nil
	}
	c.buf.Close()
	err := c.capture.Close()
	c.capture = nil
	log.Printf("capture: closed camera source %s", c.source)
	return err
}
