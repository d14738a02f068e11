package utils

import (
	"math"
	"testing"
)

func TestDistanceKmIdenticalPoints(t *testing.T) {
	if d := DistanceKm(28.6139, 77.2090, 28.6139, 77.2090); d != 0 {
		t.Fatalf("expected exactly 0 for identical points, got %f", d)
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := DistanceKm(28.6139, 77.2090, 28.7041, 77.1025)
	b := DistanceKm(28.7041, 77.1025, 28.6139, 77.2090)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distance, got %f and %f", a, b)
	}
}

func TestDistanceKmKnownDistance(t *testing.T) {
	// Connaught Place to Qutub Minar, roughly 12 km.
	d := DistanceKm(28.6315, 77.2167, 28.5245, 77.1855)
	if d < 12 || d > 13 {
		t.Fatalf("unexpected distance: %f", d)
	}
}

func TestDistanceKmNearbyPointsStayFinite(t *testing.T) {
	// Points a fraction of a meter apart can push the cosine term past 1
	// without the clamp; acos would then return NaN.
	d := DistanceKm(28.6139, 77.2090, 28.6139, 77.20900000001)
	if math.IsNaN(d) {
		t.Fatalf("expected finite distance, got NaN")
	}
	if d < 0 || d > 0.001 {
		t.Fatalf("unexpected distance for near-identical points: %f", d)
	}
}
