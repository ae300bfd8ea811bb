package detection

import (
	"fmt"
	"image"
	"log"
	"os"

	"gocv.io/x/gocv"

	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/media"
)

// PersonDetector wraps an OpenCV DNN object detection model (MobileNet-SSD
// style) and filters its output to person detections only.
type PersonDetector struct {
	Net        gocv.Net
	ClassNames []string

	// configuration parameters used during detection
	InputSizeW    int
	InputSizeH    int
	ScaleFactor   float64
	MeanVal       gocv.Scalar
	SwapRB        bool
	ConfThreshold float32
}

// NewPersonDetector loads the DNN model and validates the class list. Both
// failure modes are fatal for this component, not per-frame: a missing file
// yields ErrModelNotFound and a class list without a person entry yields
// ErrUnsupportedModel.
func NewPersonDetector(modelCfg config.ModelConfig) (*PersonDetector, error) {
	for _, path := range []string{modelCfg.ConfigPath, modelCfg.WeightsPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
	}

	classNames, err := ResolveClassNames(modelCfg.ClassNamesPath)
	if err != nil {
		return nil, err
	}
	if !containsClass(classNames, PersonClassName) {
		return nil, ErrUnsupportedModel
	}

	net := gocv.ReadNet(modelCfg.WeightsPath, modelCfg.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to read detection network (weights=%s, config=%s)", modelCfg.WeightsPath, modelCfg.ConfigPath)
	}
	log.Printf("detection(person): successfully loaded model %s", modelCfg.WeightsPath)

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &PersonDetector{
		Net:           net,
		ClassNames:    classNames,
		InputSizeW:    320,
		InputSizeH:    320,
		ScaleFactor:   1.0 / 127.5,
		MeanVal:       gocv.NewScalar(127.5, 127.5, 127.5, 0),
		SwapRB:        true,
		ConfThreshold: float32(modelCfg.ConfidenceThreshold),
	}, nil
}

func (d *PersonDetector) Close() {
	if d != nil {
		d.Net.Close()
		log.Println("detection(person): closed network")
	}
}

// Detect runs the model on a full BGR frame and returns person detections
// above the confidence threshold. An empty result is not an error.
func (d *PersonDetector) Detect(frame media.Frame) ([]Detection, error) {
	if frame.Empty() {
		return nil, nil
	}

	img, err := matFromFrame(frame)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	imgWidth := float32(frame.Width)
	imgHeight := float32(frame.Height)

	blob := gocv.BlobFromImage(img, d.ScaleFactor, image.Pt(d.InputSizeW, d.InputSizeH), d.MeanVal, d.SwapRB, false)
	defer blob.Close()

	d.Net.SetInput(blob, "")
	detectionsMat := d.Net.Forward("")
	defer detectionsMat.Close()

	results := []Detection{}

	sizes := detectionsMat.Size()
	if len(sizes) != 4 || sizes[0] != 1 || sizes[1] != 1 {
		log.Printf("detection(person): Warning - Unexpected output matrix dimensions: %v", sizes)
		if len(sizes) < 3 {
			return results, nil
		}
	}

	numDetections := sizes[2]
	if numDetections == 0 {
		return results, nil
	}

	// reshape the Mat to 2D: [N, 7] rows of (batch, classID, conf, x1, y1, x2, y2)
	detectionsData := detectionsMat.Reshape(1, numDetections)
	defer detectionsData.Close()

	for i := 0; i < numDetections; i++ {
		confidence := detectionsData.GetFloatAt(i, 2)
		if confidence < d.ConfThreshold {
			continue
		}

		classID := int(detectionsData.GetFloatAt(i, 1))
		if classID < 0 || classID >= len(d.ClassNames) || d.ClassNames[classID] != PersonClassName {
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
			results = append(results, Detection{
				Label:      PersonClassName,
				Confidence: float64(confidence),
				X:          int(xMin),
				Y:          int(yMin),
				W:          int(xMax - xMin),
				H:          int(yMax - yMin),
			})
		}
	}

	return results, nil
}

func containsClass(names []string, target string) bool {
	for _, name := range names {
		if name == target {
			return true
		}
	}
	return false
}
