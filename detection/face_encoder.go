package detection

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"

	"gocv.io/x/gocv"
)

// FaceEncoder extracts fixed-length identity encodings from face regions
// using an embedding network (OpenFace nn4 style, 96x96 input, 128-d output).
type FaceEncoder struct {
	Net gocv.Net

	InputSizeW  int
	InputSizeH  int
	ScaleFactor float64
}

// NewFaceEncoder loads the face embedding model
func NewFaceEncoder(modelPath string) (*FaceEncoder, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
	}

	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to read face embedding network: %s", modelPath)
	}
	log.Printf("detection(encoder): successfully loaded face embedding model")

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &FaceEncoder{
		Net:         net,
		InputSizeW:  96,
		InputSizeH:  96,
		ScaleFactor: 1.0 / 255.0,
	}, nil
}

func (e *FaceEncoder) Close() {
	if e != nil {
		e.Net.Close()
		log.Println("detection(encoder): closed network")
	}
}

// encodeMat produces a unit-length encoding for a cropped face region
func (e *FaceEncoder) encodeMat(faceRegion gocv.Mat) []float64 {
	if e == nil || faceRegion.Empty() {
		return nil
	}

	blob := gocv.BlobFromImage(faceRegion, e.ScaleFactor, image.Pt(e.InputSizeW, e.InputSizeH), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	e.Net.SetInput(blob, "")
	output := e.Net.Forward("")
	defer output.Close()

	flattened := output.Reshape(1, 1)
	defer flattened.Close()

	size := flattened.Cols()
	if size == 0 {
		return nil
	}

	encoding := make([]float64, size)
	for i := 0; i < size; i++ {
		encoding[i] = float64(flattened.GetFloatAt(0, i))
	}

	return normalizeEncoding(encoding)
}

// normalizeEncoding scales the vector to unit L2 length
func normalizeEncoding(encoding []float64) []float64 {
	var norm float64
	for _, val := range encoding {
		norm += val * val
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return encoding
	}
	for i, val := range encoding {
		encoding[i] = val / norm
	}
	return encoding
}
