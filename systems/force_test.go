package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestAttraction(t *testing.T) {
	testCases := []struct {
		name    string
		pos     r2.Vec
		pointer r2.Vec
		want    r2.Vec
	}{
		{"inside radius", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 100, Y: 0}, r2.Vec{X: 0.05, Y: 0}},
		{"exactly at radius", r2.Vec{X: 100, Y: 100}, r2.Vec{X: 100, Y: 300}, r2.Vec{}},
		{"beyond radius", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 500, Y: 0}, r2.Vec{}},
		{"on the pointer", r2.Vec{X: 42, Y: 42}, r2.Vec{X: 42, Y: 42}, r2.Vec{}},
		{"diagonal", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 60, Y: 80}, r2.Vec{X: 0.6 * 0.05, Y: 0.8 * 0.05}},
	}

	for _, tc := range testCases {
		got := Attraction(tc.pos, tc.pointer, 200, 0.1)
		if math.Abs(got.X-tc.want.X) > 1e-12 || math.Abs(got.Y-tc.want.Y) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestAttractionNoNaN(t *testing.T) {
	got := Attraction(r2.Vec{X: math.NaN(), Y: 0}, r2.Vec{X: 10, Y: 10}, 200, 0.1)
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Errorf("expected no NaN from NaN position, got %v", got)
	}
}
