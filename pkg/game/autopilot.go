package game

import "wrapsnake/pkg/grid"

// Pilot decides the snake's next turn when autopilot is on. Steer returns
// false when the snake should just keep going straight.
type Pilot interface {
	Steer(s *Session) (grid.Direction, bool)
}

// GreedyPilot chases the cheese along the shortest toroidal path, refusing
// moves that would run straight into the body.
type GreedyPilot struct{}

// Steer evaluates going straight plus the two legal turns, drops candidates
// whose next cell is occupied, and picks the survivor closest to the cheese.
func (GreedyPilot) Steer(s *Session) (grid.Direction, bool) {
	if !s.hasCheese || s.snake.Len() == 0 {
		return grid.Direction{}, false
	}

	cur := s.snake.Direction()
	head := s.snake.Head()
	target := s.cheese.Pos

	// Straight ahead first so ties do not cause needless wiggling.
	candidates := []grid.Direction{
		cur,
		{DX: cur.DY, DY: cur.DX},
		{DX: -cur.DY, DY: -cur.DX},
	}

	best := cur
	bestDist := -1
	for _, d := range candidates {
		next := d.Apply(head)
		if snakeOccupies(s.snake, next) {
			continue
		}
		dist := toroidalDistance(s.tr, next, target)
		if bestDist < 0 || dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	if bestDist < 0 || best == cur {
		// Boxed in, or no turn needed.
		return grid.Direction{}, false
	}
	return best, true
}

// snakeOccupies reports whether p collides with the snake's body on the next
// tick. The tail cell is free unless growth credit keeps it in place.
func snakeOccupies(s *Snake, p grid.Position) bool {
	segs := s.segments
	if s.pendingFood == 0 && len(segs) > 1 {
		segs = segs[:len(segs)-1]
	}
	for _, seg := range segs {
		if seg.Equal(p) {
			return true
		}
	}
	return false
}

// toroidalDistance is the Manhattan distance on the wrap-around board: per
// axis, the shorter of the direct and the wrapped way round.
func toroidalDistance(tr *grid.Transform, a, b grid.Position) int {
	return wrapDist(a.X, b.X, tr.Width()) + wrapDist(a.Y, b.Y, tr.Height())
}

func wrapDist(a, b, width int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if width-d < d {
		d = width - d
	}
	return d
}
