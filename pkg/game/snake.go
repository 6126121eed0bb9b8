package game

import (
	"sync"

	"wrapsnake/pkg/grid"
)

// Snake is the ordered segment list, head first. It is a two-state machine:
// alive or dead, and dead is terminal — a fresh Snake is the only way back.
// All mutation must happen from a single goroutine (the session tick loop).
type Snake struct {
	segments    []grid.Position
	direction   grid.Direction
	nextDir     *grid.Direction // queued, committed at the next tick
	pendingFood int
	alive       bool

	died     chan struct{}
	killOnce sync.Once
}

// NewSnake builds an alive snake with its head at start and the body
// trailing opposite to dir. The tail wraps around the board if needed.
func NewSnake(tr *grid.Transform, startX, startY, length int, dir grid.Direction) *Snake {
	head := tr.Cell(startX, startY)
	segments := make([]grid.Position, length)
	for i := range segments {
		segments[i] = head.Offset(-dir.DX*i, -dir.DY*i)
	}
	return &Snake{
		segments:  segments,
		direction: dir,
		alive:     true,
		died:      make(chan struct{}),
	}
}

// Head returns the current head position.
func (s *Snake) Head() grid.Position {
	return s.segments[0]
}

// Segments returns a copy of the segment list, head first. Renderers may
// hold on to it across ticks.
func (s *Snake) Segments() []grid.Position {
	out := make([]grid.Position, len(s.segments))
	copy(out, s.segments)
	return out
}

// Len returns the current segment count.
func (s *Snake) Len() int { return len(s.segments) }

// Alive reports whether the snake is still alive.
func (s *Snake) Alive() bool { return s.alive }

// Direction returns the committed movement direction.
func (s *Snake) Direction() grid.Direction { return s.direction }

// PendingFood returns the remaining growth credit.
func (s *Snake) PendingFood() int { return s.pendingFood }

// SetDirection queues d to be committed at the next tick. It does not
// validate the turn; callers filter with Direction().IsTurn first. The last
// call before a tick wins. No-op once dead.
func (s *Snake) SetDirection(d grid.Direction) {
	if !s.alive {
		return
	}
	s.nextDir = &d
}

// Tick advances the snake one cell: commit the queued direction, prepend the
// new head, then either consume one growth credit (tail stays, net +1) or
// drop the tail (pure translation). No-op once dead.
func (s *Snake) Tick() {
	if !s.alive {
		return
	}
	if s.nextDir != nil {
		s.direction = *s.nextDir
		s.nextDir = nil
	}
	newHead := s.direction.Apply(s.segments[0])
	s.segments = append([]grid.Position{newHead}, s.segments...)
	if s.pendingFood > 0 {
		s.pendingFood--
	} else {
		s.segments = s.segments[:len(s.segments)-1]
	}
}

// Eat adds the cheese's food value as growth credit. The body grows over the
// next FoodValue ticks, not instantly. No-op once dead.
func (s *Snake) Eat(c Cheese) {
	if !s.alive {
		return
	}
	s.pendingFood += c.FoodValue
}

// HitsSelf reports whether the head overlaps any other segment.
func (s *Snake) HitsSelf() bool {
	head := s.segments[0]
	for _, seg := range s.segments[1:] {
		if seg.Equal(head) {
			return true
		}
	}
	return false
}

// Kill moves the snake to the terminal dead state and fires the death
// notification exactly once, no matter how often it is called.
func (s *Snake) Kill() {
	s.killOnce.Do(func() {
		s.alive = false
		close(s.died)
	})
}

// Died returns the one-shot death notification channel. It is closed when
// the snake dies; drivers use it to stop the simulation ticker and input
// handling (rendering continues once more to show the final state).
func (s *Snake) Died() <-chan struct{} {
	return s.died
}
