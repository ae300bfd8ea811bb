package detection

import (
	"image"
	"log"

	"github.com/camden-git/camerahub/config"
	"github.com/camden-git/camerahub/media"
)

// FaceExtractor combines face detection and encoding extraction: given an
// RGB-converted frame it returns parallel, index-aligned slices of face
// locations and fixed-length encodings. It satisfies the pipeline's and
// registry's extractor contract.
type FaceExtractor struct {
	detector *FaceDetector
	encoder  *FaceEncoder
}

// NewFaceExtractor loads both face DNN models from the configured paths
func NewFaceExtractor(cfg config.Config) (*FaceExtractor, error) {
	detector, err := NewFaceDetector(cfg.FaceDNNNetConfigPath, cfg.FaceDNNNetModelPath)
	if err != nil {
		return nil, err
	}

	encoder, err := NewFaceEncoder(cfg.FaceEmbeddingModelPath)
	if err != nil {
		detector.Close()
		return nil, err
	}

	return &FaceExtractor{detector: detector, encoder: encoder}, nil
}

func (fe *FaceExtractor) Close() {
	fe.encoder.Close()
	fe.detector.Close()
}

// Extract locates faces in the frame and computes one encoding per face. A
// face whose encoding fails is dropped from both slices so they stay aligned.
func (fe *FaceExtractor) Extract(frame media.Frame) ([]FaceLocation, [][]float64, error) {
	if frame.Empty() {
		return nil, nil, nil
	}

	img, err := matFromFrame(frame)
	if err != nil {
		return nil, nil, err
	}
	defer img.Close()

	candidates := fe.detector.detectMat(img)

	var locations []FaceLocation
	var encodings [][]float64
	for _, loc := range candidates {
		region := img.Region(image.Rect(loc.Left, loc.Top, loc.Right, loc.Bottom))
		encoding := fe.encoder.encodeMat(region)
		region.Close()

		if encoding == nil {
			log.Printf("detection(extractor): failed to encode face at (%d,%d,%d,%d), dropping", loc.Left, loc.Top, loc.Right, loc.Bottom)
			continue
		}
		locations = append(locations, loc)
		encodings = append(encodings, encoding)
	}

	return locations, encodings, nil
}
