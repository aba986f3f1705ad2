// Package geom provides the geometric primitives GDSII coordinates decode
// into. It carries no geometry algorithms; layout math belongs to callers.
package geom

import "fmt"

// Point is one coordinate pair in database units.
type Point struct {
	X int32
	Y int32
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ParsePoint converts a flat coordinate list holding exactly one x, y pair.
func ParsePoint(coords []int32) (Point, error) {
	if len(coords) != 2 {
		return Point{}, fmt.Errorf("expected one coordinate pair, got %d values", len(coords))
	}
	return Point{X: coords[0], Y: coords[1]}, nil
}

// ParsePoints converts a flat coordinate list into points, x and y
// interleaved. The list length must be even.
func ParsePoints(coords []int32) ([]Point, error) {
	if len(coords)%2 != 0 {
		return nil, fmt.Errorf("odd coordinate count %d", len(coords))
	}
	pts := make([]Point, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		pts = append(pts, Point{X: coords[i], Y: coords[i+1]})
	}
	return pts, nil
}
