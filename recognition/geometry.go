package recognition

import "math"

// boxesOverlap reports whether two (x1,y1,x2,y2) rectangles intersect.
// Boundary contact counts as overlap: the test rejects only when one box lies
// strictly past a side of the other.
func boxesOverlap(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) bool {
	return !(ax2 < bx1 || bx2 < ax1 || ay2 < by1 || by2 < ay1)
}

// euclideanDistance computes the L2 distance between two encodings on the raw
// vectors. Mismatched or empty vectors are treated as maximally distant.
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
