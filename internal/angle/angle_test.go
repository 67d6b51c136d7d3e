package angle

import (
	"math"
	"testing"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"equal angles", 120, 120, 0},
		{"simple forward", 30, 10, 20},
		{"simple backward", 10, 30, -20},
		{"across wrap forward", 10, 350, 20},
		{"across wrap backward", 350, 10, -20},
		{"opposite", 180, 0, 180},
		{"near opposite stays short", 190, 0, -170},
		{"large unnormalized inputs", 730, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Difference(tt.a, tt.b)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Difference(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDifference_RangeAndAntisymmetry(t *testing.T) {
	// Sweep a coarse grid of the circle; every difference must land in
	// (-180, 180] and negate when the arguments swap (except at exactly
	// 180, where both directions are equally short).
	for a := 0.0; a < 360; a += 7 {
		for b := 0.0; b < 360; b += 7 {
			d := Difference(a, b)
			if d <= -180 || d > 180 {
				t.Fatalf("Difference(%v, %v) = %v out of (-180, 180]", a, b, d)
			}
			if d == 180 {
				continue
			}
			if r := Difference(b, a); !almostEqual(d, -r, 1e-9) {
				t.Fatalf("Difference(%v, %v) = %v but reverse = %v", a, b, d, r)
			}
		}
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		angles []float64
		want   float64
	}{
		{"straddles the wrap", []float64{359, 1}, 0},
		{"single angle", []float64{90}, 90},
		{"simple cluster", []float64{10, 20, 30}, 20},
		{"negative side of wrap", []float64{350, 358}, -6},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.angles)
			if !almostEqual(got, tt.want, 0.01) {
				t.Errorf("Mean(%v) = %v, want %v", tt.angles, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{365, 5},
		{-10, 350},
		{-370, 350},
		{123.5, 123.5},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
