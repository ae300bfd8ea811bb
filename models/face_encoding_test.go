package models

import (
	"math"
	"testing"
)

func TestEncodingRoundTrip(t *testing.T) {
	original := []float64{0.12345, -0.6789, 0.0, 1.5, -2.25, 0.001}

	var fe FaceEncoding
	fe.SetEncoding(original)

	if len(fe.EncodingData) != len(original)*4 {
		t.Fatalf("blob length = %d, want %d", len(fe.EncodingData), len(original)*4)
	}

	decoded := fe.GetEncoding()
	if len(decoded) != len(original) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(original))
	}

	// storage is float32, so the round trip loses precision past ~1e-7
	for i := range original {
		if math.Abs(decoded[i]-original[i]) > 1e-6 {
			t.Errorf("element %d: got %v, want %v within 1e-6", i, decoded[i], original[i])
		}
	}
}

func TestEncodingExactFloat32Values(t *testing.T) {
	// values exactly representable in float32 must survive unchanged
	original := []float64{0.5, -0.25, 2.0, -128.0}

	var fe FaceEncoding
	fe.SetEncoding(original)
	decoded := fe.GetEncoding()

	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("element %d: got %v, want exactly %v", i, decoded[i], original[i])
		}
	}
}

func TestEncodingEmpty(t *testing.T) {
	var fe FaceEncoding
	fe.SetEncoding(nil)
	if fe.EncodingData != nil {
		t.Errorf("EncodingData = %v, want nil for empty input", fe.EncodingData)
	}
	if got := fe.GetEncoding(); got != nil {
		t.Errorf("GetEncoding() = %v, want nil", got)
	}
}
