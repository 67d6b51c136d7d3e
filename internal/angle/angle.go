package angle

import "math"

// Normalize maps a into [0, 360).
func Normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Difference returns the signed shortest angular distance from b to a,
// in degrees, normalized to (-180, 180]. It is continuous across the
// 0/360 wrap: Difference(350, 10) is -20, not 340.
func Difference(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	switch {
	case d <= -180:
		d += 360
	case d > 180:
		d -= 360
	}
	return d
}

// Mean returns the mean direction of angles in degrees, in [-180, 180].
// It is computed from the resultant of the unit vectors at each angle,
// so Mean of 359 and 1 is ~0, not 180. An empty slice yields 0.
func Mean(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	var sinSum, cosSum float64
	for _, a := range angles {
		r := a * math.Pi / 180
		sinSum += math.Sin(r)
		cosSum += math.Cos(r)
	}
	return math.Atan2(sinSum, cosSum) * 180 / math.Pi
}
