package grid

import "fmt"

// Axis describes one axis of the board mapping: a wrap-around logical
// interval [DomainMin, DomainMax) and the pixel interval [RangeMin, RangeMax)
// it is drawn onto.
type Axis struct {
	DomainMin int
	DomainMax int
	RangeMin  float64
	RangeMax  float64
}

// Width returns the number of cells on this axis.
func (a Axis) Width() int {
	return a.DomainMax - a.DomainMin
}

// CellSize returns the pixel size of one cell on this axis.
func (a Axis) CellSize() float64 {
	return (a.RangeMax - a.RangeMin) / float64(a.Width())
}

// normalize folds v back into [DomainMin, DomainMax). Offsets of arbitrary
// magnitude are supported, so stepping off any legal cell always lands on
// another legal cell.
func (a Axis) normalize(v int) int {
	w := a.Width()
	for v < a.DomainMin {
		v += w
	}
	for v >= a.DomainMax {
		v = a.DomainMin + (v - a.DomainMax)
	}
	return v
}

// Transform maps between the wrap-around cell grid and the pixel rectangle
// it is rendered into. It is fixed for the lifetime of a game session.
type Transform struct {
	x Axis
	y Axis
}

// NewTransform builds a Transform from the two axis configs. Zero or negative
// domain/range widths are configuration errors and fatal at startup.
func NewTransform(x, y Axis) (*Transform, error) {
	for _, a := range []struct {
		name string
		axis Axis
	}{{"x", x}, {"y", y}} {
		if a.axis.Width() <= 0 {
			return nil, fmt.Errorf("grid: %s axis has empty domain [%d,%d)", a.name, a.axis.DomainMin, a.axis.DomainMax)
		}
		if a.axis.RangeMax-a.axis.RangeMin <= 0 {
			return nil, fmt.Errorf("grid: %s axis has empty pixel range [%g,%g)", a.name, a.axis.RangeMin, a.axis.RangeMax)
		}
	}
	return &Transform{x: x, y: y}, nil
}

// Normalize folds raw coordinates into the domain, each axis independently.
func (t *Transform) Normalize(x, y int) (int, int) {
	return t.x.normalize(x), t.y.normalize(y)
}

// ToPixels maps a normalized cell coordinate to the top-left pixel of its
// cell rectangle.
func (t *Transform) ToPixels(x, y int) (float64, float64) {
	px := float64(x-t.x.DomainMin)*t.x.CellSize() + t.x.RangeMin
	py := float64(y-t.y.DomainMin)*t.y.CellSize() + t.y.RangeMin
	return px, py
}

// CellSize returns the pixel size of one cell, per axis.
func (t *Transform) CellSize() (float64, float64) {
	return t.x.CellSize(), t.y.CellSize()
}

// Width returns the number of cells on the x axis.
func (t *Transform) Width() int { return t.x.Width() }

// Height returns the number of cells on the y axis.
func (t *Transform) Height() int { return t.y.Width() }

// Cells returns the total number of cells on the board.
func (t *Transform) Cells() int { return t.x.Width() * t.y.Width() }
