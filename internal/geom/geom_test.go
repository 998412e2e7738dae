package geom

import (
	"math"
	"testing"
)

func TestRectArea(t *testing.T) {
	r := Rect(Point{1, 2}, 4, 3)
	if got := Area(r); math.Abs(got-12) > 1e-12 {
		t.Errorf("expected area 12, got %f", got)
	}
}

func TestPolygonArea(t *testing.T) {
	tri := Profile{
		Shape:  Polygon,
		Points: []Point{{0, 0}, {4, 0}, {0, 3}},
	}
	if got := Area(tri); math.Abs(got-6) > 1e-12 {
		t.Errorf("expected area 6, got %f", got)
	}
}

func TestRingArea(t *testing.T) {
	ring := Profile{Shape: Ring, InnerRadius: 1, OuterRadius: 2}
	expected := math.Pi * 3
	if got := Area(ring); math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected area %f, got %f", expected, got)
	}
}

func TestCentroidRect(t *testing.T) {
	r := Rect(Point{0, 0}, 2, 4)
	c := Centroid(r)
	if math.Abs(c.X-1) > 1e-12 || math.Abs(c.Y-2) > 1e-12 {
		t.Errorf("expected centroid (1,2), got (%f,%f)", c.X, c.Y)
	}
}

func TestClosed(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"rectangle", Rect(Point{}, 1, 1), true},
		{"degenerate polygon", Profile{Shape: Polygon, Points: []Point{{0, 0}, {1, 1}}}, false},
		{"ring", Profile{Shape: Ring, InnerRadius: 1, OuterRadius: 2}, true},
		{"inverted ring", Profile{Shape: Ring, InnerRadius: 2, OuterRadius: 1}, false},
	}
	for _, tt := range tests {
		if got := Closed(tt.p); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestOriginPoints(t *testing.T) {
	pts := OriginPoints(3, 0, 10, 5, -20)
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	if pts[0].X != 5 || pts[0].Y != -20 {
		t.Errorf("unexpected first origin: %+v", pts[0])
	}
	if pts[2].Y != 0 {
		t.Errorf("expected last y 0, got %f", pts[2].Y)
	}
}
