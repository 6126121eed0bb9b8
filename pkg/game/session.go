package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/grid"
)

// Session owns one game: the transform, the snake, the current cheese and
// the factory that replaces it. All mutating calls (Tick, RequestDirection,
// TogglePause, Restart) must come from a single driver goroutine; Snapshot
// hands out deep copies so renderers on other cadences never see a
// half-updated board.
type Session struct {
	cfg config.Session
	tr  *grid.Transform
	rng *rand.Rand

	snake     *Snake
	factory   *CheeseFactory
	cheese    Cheese
	hasCheese bool

	tick      uint64
	score     int
	foodEaten int
	won       bool
	crash     *grid.Position

	paused     bool
	pauseStart time.Time
	pausedTime time.Duration
	startTime  time.Time
	endTime    time.Time

	autopilot bool
	pilot     Pilot

	recorder *Recorder

	done     chan struct{}
	doneOnce *sync.Once
}

// NewSession validates cfg and builds a fresh game. A nil rng uses a
// time-seeded source; tests inject a seeded one.
func NewSession(cfg config.Session, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tr, err := cfg.Transform()
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		cfg:   cfg,
		tr:    tr,
		rng:   rng,
		pilot: &GreedyPilot{},
	}
	s.reset()
	return s, nil
}

// reset rebuilds all per-game state. Fresh snake, fresh cheese, fresh
// notification channels: nothing from a previous game can fire again.
func (s *Session) reset() {
	s.snake = NewSnake(s.tr, s.cfg.StartX, s.cfg.StartY, s.cfg.StartLength, s.cfg.StartDir)
	s.factory = NewCheeseFactory(s.tr, s.rng, s.cfg.FoodValueMin, s.cfg.FoodValueMax)
	s.tick = 0
	s.score = 0
	s.foodEaten = 0
	s.won = false
	s.crash = nil
	s.paused = false
	s.pausedTime = 0
	s.startTime = time.Now()
	s.endTime = time.Time{}
	s.done = make(chan struct{})
	s.doneOnce = new(sync.Once)

	c, err := s.factory.Create(s.snake)
	if errors.Is(err, ErrBoardFull) {
		// The start snake covers the whole board. Degenerate, but defined:
		// the game is already won.
		s.hasCheese = false
		s.won = true
		s.finish()
		return
	}
	s.cheese = c
	s.hasCheese = true
}

func (s *Session) finish() {
	s.endTime = time.Now()
	s.doneOnce.Do(func() { close(s.done) })
}

// Tick advances the simulation one step: commit queued direction and move,
// then check self-collision, then cheese. Ticks while paused or after game
// over are no-ops.
func (s *Session) Tick() {
	if s.paused || s.GameOver() {
		return
	}

	if s.autopilot && s.pilot != nil {
		if d, ok := s.pilot.Steer(s); ok {
			s.RequestDirection(d)
		}
	}

	s.snake.Tick()
	s.tick++

	if s.snake.HitsSelf() {
		head := s.snake.Head()
		s.crash = &head
		s.snake.Kill()
		s.finish()
	} else if s.hasCheese && s.snake.Head().Equal(s.cheese.Pos) {
		s.snake.Eat(s.cheese)
		s.score += s.cheese.FoodValue
		s.foodEaten++

		next, err := s.factory.Create(s.snake)
		if errors.Is(err, ErrBoardFull) {
			s.hasCheese = false
			s.won = true
			s.finish()
		} else {
			s.cheese = next
		}
	}

	if s.recorder != nil {
		s.recorder.Record(s.step())
	}
}

// RequestDirection queues d if it is a legal 90° turn relative to the
// committed direction. Rapid presses before a tick overwrite each other; the
// last legal one wins. Returns whether the turn was accepted.
func (s *Session) RequestDirection(d grid.Direction) bool {
	if s.GameOver() {
		return false
	}
	if !d.IsTurn(s.snake.Direction()) {
		return false
	}
	s.snake.SetDirection(d)
	return true
}

// TogglePause flips the pause state. Simulation ticks are skipped while
// paused; rendering continues. No-op after game over.
func (s *Session) TogglePause() {
	if s.GameOver() {
		return
	}
	if !s.paused {
		s.pauseStart = time.Now()
	} else {
		s.pausedTime += time.Since(s.pauseStart)
	}
	s.paused = !s.paused
}

// ToggleAutopilot flips self-playing mode.
func (s *Session) ToggleAutopilot() {
	if s.GameOver() {
		return
	}
	s.autopilot = !s.autopilot
}

// SetPilot swaps the autopilot implementation.
func (s *Session) SetPilot(p Pilot) {
	s.pilot = p
}

// AttachRecorder starts recording one step per tick. Pass nil to detach.
func (s *Session) AttachRecorder(r *Recorder) {
	s.recorder = r
}

// Restart fully re-initializes the game. The previous snake's death
// notification and the previous Done channel are discarded along with the
// rest of the state; drivers re-subscribe via Done after restarting.
func (s *Session) Restart() {
	s.reset()
}

// GameOver reports whether the game ended, by death or by conquering the
// board. The flag flips once and stays until Restart.
func (s *Session) GameOver() bool {
	return !s.snake.Alive() || s.won
}

// Done returns a channel closed exactly once when the current game ends.
// Drivers use it to cancel the simulation ticker and input application;
// rendering runs once more to show the final state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Transform exposes the session's coordinate transform for renderers.
func (s *Session) Transform() *grid.Transform {
	return s.tr
}

// Config returns the session configuration.
func (s *Session) Config() config.Session {
	return s.cfg
}

// Elapsed returns active play time, excluding pauses.
func (s *Session) Elapsed() time.Duration {
	end := time.Now()
	if s.GameOver() && !s.endTime.IsZero() {
		end = s.endTime
	}
	paused := s.pausedTime
	if s.paused {
		paused += end.Sub(s.pauseStart)
	}
	return end.Sub(s.startTime) - paused
}

// EatingSpeed returns cheeses eaten per second of active play.
func (s *Session) EatingSpeed() float64 {
	if sec := s.Elapsed().Seconds(); sec > 0 {
		return float64(s.foodEaten) / sec
	}
	return 0
}

// Snapshot returns a consistent read-only copy of the game state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        s.tick,
		Snake:       s.snake.Segments(),
		Direction:   s.snake.Direction(),
		PendingFood: s.snake.PendingFood(),
		Alive:       s.snake.Alive(),
		Score:       s.score,
		FoodEaten:   s.foodEaten,
		EatingSpeed: s.EatingSpeed(),
		GameOver:    s.GameOver(),
		Won:         s.won,
		Paused:      s.paused,
		Autopilot:   s.autopilot,
	}
	if s.hasCheese {
		c := s.cheese
		snap.Cheese = &c
	}
	if s.crash != nil {
		c := *s.crash
		snap.Crash = &c
	}
	return snap
}

// step builds the compact per-tick record for the recorder.
func (s *Session) step() StepRecord {
	head := s.snake.Head()
	rec := StepRecord{
		Tick:        s.tick,
		HeadX:       head.X,
		HeadY:       head.Y,
		Length:      s.snake.Len(),
		PendingFood: s.snake.PendingFood(),
		Score:       s.score,
		Alive:       s.snake.Alive(),
		Won:         s.won,
	}
	if s.hasCheese {
		rec.CheeseX = s.cheese.Pos.X
		rec.CheeseY = s.cheese.Pos.Y
		rec.CheeseValue = s.cheese.FoodValue
	}
	return rec
}
