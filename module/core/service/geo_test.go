package service

import (
	"math"
	"testing"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	if d := DistanceMeters(-6.2088, 106.8456, -6.2088, 106.8456); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	d1 := DistanceMeters(-6.2088, 106.8456, -6.1751, 106.8650)
	d2 := DistanceMeters(-6.1751, 106.8650, -6.2088, 106.8456)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("expected symmetric distances, got %f and %f", d1, d2)
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			// one hundredth of a degree of longitude at the equator
			name: "equator small step",
			lat1: 0, lon1: 0, lat2: 0, lon2: 0.01,
			want: 1113, tolerance: 5,
		},
		{
			name: "monas to istiqlal",
			lat1: -6.1754, lon1: 106.8272, lat2: -6.1702, lon2: 106.8311,
			want: 720, tolerance: 30,
		},
		{
			name: "jakarta to bandung",
			lat1: -6.2088, lon1: 106.8456, lat2: -6.9175, lon2: 107.6191,
			want: 116000, tolerance: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("expected ~%f (±%f), got %f", tt.want, tt.tolerance, got)
			}
		})
	}
}

func TestBearingDegrees_Cardinal(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{name: "due north", lat1: 0, lon1: 0, lat2: 1, lon2: 0, want: 0},
		{name: "due east", lat1: 0, lon1: 0, lat2: 0, lon2: 1, want: 90},
		{name: "due south", lat1: 1, lon1: 0, lat2: 0, lon2: 0, want: 180},
		{name: "due west", lat1: 0, lon1: 1, lat2: 0, lon2: 0, want: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BearingDegrees(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("expected ~%f, got %f", tt.want, got)
			}
		})
	}
}
