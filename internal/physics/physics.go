// Package physics provides collision detection and distance utilities.
package physics

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap reports whether two circles overlap. The test is
// boundary-inclusive: centers exactly a radius-sum apart count as touching.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) <= minDist*minDist
}

// WrapPosition wraps x and y across the playfield bounds. A coordinate that
// leaves through one edge re-enters at the opposite one.
func WrapPosition(x, y *float64, width, height float64) {
	if width > 0 {
		if *x < 0 {
			*x = width
		} else if *x > width {
			*x = 0
		}
	}
	if height > 0 {
		if *y < 0 {
			*y = height
		} else if *y > height {
			*y = 0
		}
	}
}
