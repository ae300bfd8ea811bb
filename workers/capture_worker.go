package workers

import (
	"log"
	"sync"
	"time"

	"github.com/camden-git/camerahub/capture"
	"github.com/camden-git/camerahub/realtime"
	"github.com/camden-git/camerahub/recognition"
)

// failed reads back off briefly so a wedged camera doesn't spin the CPU
const readRetryDelay = 250 * time.Millisecond

// CaptureWorker drives the live loop: read a frame, run it through the
// recognition pipeline, broadcast the result to websocket clients.
type CaptureWorker struct {
	camera   *capture.Camera
	pipeline *recognition.Pipeline
	hub      *realtime.Hub

	StopChan chan struct{}
	wg       sync.WaitGroup
}

func NewCaptureWorker(camera *capture.Camera, pipeline *recognition.Pipeline, hub *realtime.Hub) *CaptureWorker {
	return &CaptureWorker{
		camera:   camera,
		pipeline: pipeline,
		hub:      hub,
		StopChan: make(chan struct{}),
	}
}

// Start launches the capture loop in its own goroutine
func (w *CaptureWorker) Start() {
	w.wg.Add(1)
	go w.run()
	log.Println("capture worker started")
}

// Stop signals the loop to exit and waits for it to finish
func (w *CaptureWorker) Stop() {
	close(w.StopChan)
	w.wg.Wait()
	log.Println("capture worker stopped")
}

func (w *CaptureWorker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.StopChan:
			return
		default:
		}

		frame, ok := w.camera.Read()
		if !ok {
			select {
			case <-w.StopChan:
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		recognitions := w.pipeline.ProcessFrame(frame)
		if w.hub != nil {
			w.hub.Broadcast(realtime.FrameEvent(recognitions))
		}
	}
}
