package domain

import "fmt"

// RouteSample is the ordered, cyclic patrol loop replayed for every tracked
// motorcycle. It is immutable once built and safe for concurrent readers.
type RouteSample struct {
	points []Coordinate
}

// NewRouteSample builds a RouteSample from raw points, dropping every point
// equal to the previously retained one. The first point is always kept.
func NewRouteSample(raw []Coordinate) (*RouteSample, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: route has no coordinates", ErrMalformedRoute)
	}

	points := make([]Coordinate, 0, len(raw))
	for i, p := range raw {
		if i > 0 && p.Equal(points[len(points)-1]) {
			continue
		}
		points = append(points, p)
	}

	// A closed loop whose tail repeats its head would emit the same point
	// twice across the wrap.
	for len(points) > 1 && points[len(points)-1].Equal(points[0]) {
		points = points[:len(points)-1]
	}

	return &RouteSample{points: points}, nil
}

// Size returns the number of retained samples.
func (r *RouteSample) Size() int {
	return len(r.points)
}

// At returns the sample at index i modulo Size.
func (r *RouteSample) At(i int) Coordinate {
	return r.points[i%len(r.points)]
}

// Points returns a copy of the retained samples.
func (r *RouteSample) Points() []Coordinate {
	out := make([]Coordinate, len(r.points))
	copy(out, r.points)
	return out
}
