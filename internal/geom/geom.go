package geom

import (
	"fmt"
	"math"
)

type Point struct {
	X float64
	Y float64
}

// Shape kinds understood by backend adapters. Everything a motor model
// produces reduces to one of these.
type Shape int

const (
	Rectangle Shape = iota
	Polygon
	Ring
)

func (s Shape) String() string {
	switch s {
	case Rectangle:
		return "rectangle"
	case Polygon:
		return "polygon"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Profile is one closed shape in model units (millimeters throughout).
// Points is used by Rectangle and Polygon; Center and the radii by Ring.
type Profile struct {
	Shape       Shape
	Points      []Point
	Center      Point
	InnerRadius float64
	OuterRadius float64
}

// Rect builds a rectangle profile from its lower-left corner.
func Rect(origin Point, width, height float64) Profile {
	return Profile{
		Shape: Rectangle,
		Points: []Point{
			origin,
			{origin.X + width, origin.Y},
			{origin.X + width, origin.Y + height},
			{origin.X, origin.Y + height},
		},
	}
}

// Area returns the enclosed area of a profile. Polygons use the shoelace
// formula; self-intersecting polygons give meaningless results.
func Area(p Profile) float64 {
	switch p.Shape {
	case Rectangle, Polygon:
		n := len(p.Points)
		if n < 3 {
			return 0
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			sum += p.Points[i].X*p.Points[j].Y - p.Points[j].X*p.Points[i].Y
		}
		return math.Abs(sum) / 2
	case Ring:
		return math.Pi * (p.OuterRadius*p.OuterRadius - p.InnerRadius*p.InnerRadius)
	default:
		return 0
	}
}

// Centroid returns the geometric center of a profile, used to place the
// backend's block label inside the region.
func Centroid(p Profile) Point {
	switch p.Shape {
	case Rectangle, Polygon:
		n := len(p.Points)
		if n == 0 {
			return Point{}
		}
		var c Point
		for _, pt := range p.Points {
			c.X += pt.X
			c.Y += pt.Y
		}
		c.X /= float64(n)
		c.Y /= float64(n)
		return c
	case Ring:
		return p.Center
	default:
		return Point{}
	}
}

// Closed reports whether the profile encloses a region.
func Closed(p Profile) bool {
	switch p.Shape {
	case Rectangle, Polygon:
		return len(p.Points) >= 3
	case Ring:
		return p.OuterRadius > p.InnerRadius && p.InnerRadius >= 0
	default:
		return false
	}
}

// OriginPoints generates n lattice origins spaced by the given pitches,
// starting from the offsets. Motor builders use this for slot and pole rows.
func OriginPoints(n int, xPitch, yPitch, xOffset, yOffset float64) []Point {
	pts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		pts = append(pts, Point{
			X: xOffset + float64(i)*xPitch,
			Y: yOffset + float64(i)*yPitch,
		})
	}
	return pts
}
