package grid

// Direction is one of the four unit vectors a snake can move along.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// The four shared directions. Y grows downward (screen coordinates).
var (
	Up    = Direction{0, -1}
	Down  = Direction{0, 1}
	Left  = Direction{-1, 0}
	Right = Direction{1, 0}
)

// Apply returns the neighbor of p one step in this direction.
func (d Direction) Apply(p Position) Position {
	return p.Offset(d.DX, d.DY)
}

// IsTurn reports whether d is a legal 90° turn relative to prev. The same
// direction and the 180° reversal are both rejected: a legal turn must
// differ from prev and -prev on both axes.
func (d Direction) IsTurn(prev Direction) bool {
	return d.DX != prev.DX && d.DX != -prev.DX &&
		d.DY != prev.DY && d.DY != -prev.DY
}

// Opposite returns the 180° reversal of d.
func (d Direction) Opposite() Direction {
	return Direction{-d.DX, -d.DY}
}
