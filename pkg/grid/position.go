package grid

import "fmt"

// Position is a cell on the board. It is always normalized into the domain:
// the only constructor is Transform.Cell, so a denormalized Position cannot
// be observed. Positions are values; offsetting produces a new Position.
type Position struct {
	X  int `json:"x"`
	Y  int `json:"y"`
	tr *Transform
}

// Cell builds a Position from raw coordinates, folding them into the domain.
func (t *Transform) Cell(x, y int) Position {
	nx, ny := t.Normalize(x, y)
	return Position{X: nx, Y: ny, tr: t}
}

// CellAt builds the Position for the given linear index (inverse of Index).
func (t *Transform) CellAt(index int) Position {
	w := t.x.Width()
	return t.Cell(t.x.DomainMin+index%w, t.y.DomainMin+index/w)
}

// Offset returns a new normalized Position shifted by (dx, dy).
func (p Position) Offset(dx, dy int) Position {
	return p.tr.Cell(p.X+dx, p.Y+dy)
}

// Equal reports structural equality on the normalized coordinates.
func (p Position) Equal(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

// EqualXY compares against a raw coordinate pair.
func (p Position) EqualXY(x, y int) bool {
	return p.X == x && p.Y == y
}

// Index returns the dense linear index of the cell: a bijection between
// cells and [0, width*height).
func (p Position) Index() int {
	return (p.X - p.tr.x.DomainMin) + p.tr.x.Width()*(p.Y-p.tr.y.DomainMin)
}

// Pixels returns the top-left pixel of the cell rectangle.
func (p Position) Pixels() (float64, float64) {
	return p.tr.ToPixels(p.X, p.Y)
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
