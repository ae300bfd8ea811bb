package detection

import (
	"fmt"
	"image"
	"log"
	"os"

	"gocv.io/x/gocv"
)

// FaceDetector locates faces in a frame using the res10 SSD DNN model
type FaceDetector struct {
	Net gocv.Net

	// configuration parameters used during detection
	InputSizeW    int
	InputSizeH    int
	ScaleFactor   float64
	MeanVal       gocv.Scalar
	ConfThreshold float32
}

// NewFaceDetector loads the face detection DNN model
func NewFaceDetector(configPath, modelPath string) (*FaceDetector, error) {
	for _, path := range []string{configPath, modelPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to read face detection network (model=%s, config=%s)", modelPath, configPath)
	}
	log.Printf("detection(face): successfully loaded face detection model")

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &FaceDetector{
		Net:           net,
		InputSizeW:    300,
		InputSizeH:    300,
		ScaleFactor:   1.0,
		MeanVal:       gocv.NewScalar(104.0, 177.0, 123.0, 0),
		ConfThreshold: 0.5,
	}, nil
}

func (d *FaceDetector) Close() {
	if d != nil {
		d.Net.Close()
		log.Println("detection(face): closed network")
	}
}

// detectMat runs face detection on an already-built RGB Mat and returns face
// locations in (top, right, bottom, left) order. The res10 model was trained
// on BGR input, so blob creation swaps the channels back.
func (d *FaceDetector) detectMat(img gocv.Mat) []FaceLocation {
	if d == nil || img.Empty() {
		return nil
	}

	imgHeight := float32(img.Rows())
	imgWidth := float32(img.Cols())

	blob := gocv.BlobFromImage(img, d.ScaleFactor, image.Pt(d.InputSizeW, d.InputSizeH), d.MeanVal, true, false)
	defer blob.Close()

	d.Net.SetInput(blob, "")
	detectionsMat := d.Net.Forward("")
	defer detectionsMat.Close()

	var locations []FaceLocation

	sizes := detectionsMat.Size()
	if len(sizes) < 3 {
		log.Printf("detection(face): Warning - Unexpected output matrix dimensions: %v", sizes)
		return locations
	}

	numDetections := sizes[2]
	if numDetections == 0 {
		return locations
	}

	detectionsData := detectionsMat.Reshape(1, numDetections)
	defer detectionsData.Close()

	for i := 0; i < numDetections; i++ {
		confidence := detectionsData.GetFloatAt(i, 2)
		if confidence < d.ConfThreshold {
			continue
		}

		xMin := detectionsData.GetFloatAt(i, 3) * imgWidth
		yMin := detectionsData.GetFloatAt(i, 4) * imgHeight
		xMax := detectionsData.GetFloatAt(i, 5) * imgWidth
		yMax := detectionsData.GetFloatAt(i, 6) * imgHeight

		xMin = maxFloat32(0, xMin)
		yMin = maxFloat32(0, yMin)
		xMax = minFloat32(imgWidth, xMax)
		yMax = minFloat32(imgHeight, yMax)

		if xMax > xMin && yMax > yMin {
			locations = append(locations, FaceLocation{
				Top:    int(yMin),
				Right:  int(xMax),
				Bottom: int(yMax),
				Left:   int(xMin),
			})
		}
	}

	return locations
}
