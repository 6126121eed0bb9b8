package game

import (
	"math/rand"
	"testing"
	"time"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/grid"
)

func testConfig(w, h int) config.Session {
	cfg := config.Default()
	cfg.Width = w
	cfg.Height = h
	cfg.PixelW = float64(32 * w)
	cfg.PixelH = float64(24 * h)
	return cfg
}

func newTestSession(t *testing.T, cfg config.Session, seed int64) *Session {
	t.Helper()
	s, err := NewSession(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

// TestSelfCollisionExactTick drives a 6-segment snake through a tight
// left-hand loop. The head re-enters the body on the third tick of the loop,
// and the session must flag death on exactly that tick, not earlier.
func TestSelfCollisionExactTick(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.StartLength = 6
	s := newTestSession(t, cfg, 1)

	// Park the cheese out of the snake's path so nothing grows.
	s.cheese = Cheese{Pos: s.tr.Cell(15, 15), FoodValue: 1}

	turns := []grid.Direction{grid.Up, grid.Left, grid.Down}
	for i, d := range turns {
		if s.GameOver() {
			t.Fatalf("died before turn %d", i)
		}
		if !s.RequestDirection(d) {
			t.Fatalf("turn %d (%v) rejected", i, d)
		}
		s.Tick()
	}

	if !s.GameOver() {
		t.Fatal("snake should be dead after looping into its body")
	}
	snap := s.Snapshot()
	if snap.Crash == nil || !snap.Crash.EqualXY(4, 5) {
		t.Errorf("crash point = %v, want (4,5)", snap.Crash)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done not closed on death")
	}
}

// TestEatRespawnsCheese checks score, gradual growth, and that the
// replacement cheese never lands on the snake.
func TestEatRespawnsCheese(t *testing.T) {
	s := newTestSession(t, testConfig(20, 20), 2)

	// Plant the cheese directly ahead of the head.
	ahead := grid.Right.Apply(s.snake.Head())
	s.cheese = Cheese{Pos: ahead, FoodValue: 3}

	before := s.snake.Len()
	s.Tick()

	if s.score != 3 || s.foodEaten != 1 {
		t.Errorf("score=%d foodEaten=%d, want 3 and 1", s.score, s.foodEaten)
	}
	if s.snake.PendingFood() != 3 {
		t.Errorf("pending food = %d, want 3", s.snake.PendingFood())
	}
	if !s.hasCheese {
		t.Fatal("no replacement cheese spawned")
	}
	for _, seg := range s.snake.Segments() {
		if seg.Equal(s.cheese.Pos) {
			t.Errorf("replacement cheese %v on the snake", s.cheese.Pos)
		}
	}

	for i := 0; i < 3; i++ {
		// Keep the new cheese away while growth is realized.
		s.cheese = Cheese{Pos: s.tr.Cell(0, 19), FoodValue: 1}
		s.Tick()
	}
	if s.snake.Len() != before+3 {
		t.Errorf("length = %d, want %d", s.snake.Len(), before+3)
	}
}

// TestBoardConqueredWin runs a 4x1 board to completion: when the last free
// cell is eaten the factory has nowhere to spawn and the game is won.
func TestBoardConqueredWin(t *testing.T) {
	cfg := testConfig(4, 1)
	cfg.StartX = 0
	cfg.StartY = 0
	cfg.StartLength = 3
	cfg.FoodValueMin = 1
	cfg.FoodValueMax = 2
	s := newTestSession(t, cfg, 3)

	// Only one free cell exists, so the first cheese must be there.
	if !s.cheese.Pos.EqualXY(1, 0) {
		t.Fatalf("initial cheese at %v, want (1,0)", s.cheese.Pos)
	}

	s.Tick() // eat at (1,0); cheese respawns on the newly freed tail cell
	if s.GameOver() {
		t.Fatal("game ended too early")
	}
	if !s.cheese.Pos.EqualXY(2, 0) {
		t.Fatalf("second cheese at %v, want (2,0)", s.cheese.Pos)
	}

	s.Tick() // grow onto (2,0): board is now full
	if !s.won {
		t.Fatal("conquering the board should be a win")
	}
	if !s.GameOver() {
		t.Error("won game not flagged over")
	}
	if s.snake.Len() != 4 {
		t.Errorf("final length = %d, want 4", s.snake.Len())
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done not closed on win")
	}
}

// TestTickAfterGameOverIsNoop checks ticks and direction requests after
// death change nothing.
func TestTickAfterGameOverIsNoop(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.StartLength = 6
	s := newTestSession(t, cfg, 4)
	s.cheese = Cheese{Pos: s.tr.Cell(15, 15), FoodValue: 1}

	for _, d := range []grid.Direction{grid.Up, grid.Left, grid.Down} {
		s.RequestDirection(d)
		s.Tick()
	}
	if !s.GameOver() {
		t.Fatal("setup: snake should be dead")
	}

	snap := s.Snapshot()
	s.Tick()
	s.Tick()
	if s.RequestDirection(grid.Left) {
		t.Error("direction request accepted after death")
	}
	after := s.Snapshot()
	if after.Tick != snap.Tick || len(after.Snake) != len(snap.Snake) {
		t.Error("dead session mutated by Tick")
	}
}

// TestPauseSkipsTicks checks paused simulation ticks are no-ops and the
// elapsed clock excludes the pause.
func TestPauseSkipsTicks(t *testing.T) {
	s := newTestSession(t, testConfig(20, 20), 5)
	s.cheese = Cheese{Pos: s.tr.Cell(15, 15), FoodValue: 1}

	s.Tick()
	head := s.snake.Head()

	s.TogglePause()
	s.Tick()
	s.Tick()
	if !s.snake.Head().Equal(head) {
		t.Error("snake moved while paused")
	}

	time.Sleep(30 * time.Millisecond)
	s.TogglePause()
	if s.Elapsed() > 25*time.Millisecond {
		t.Errorf("elapsed %v includes pause time", s.Elapsed())
	}

	s.Tick()
	if s.snake.Head().Equal(head) {
		t.Error("snake did not move after unpause")
	}
}

// TestRestartFreshState checks a restart leaves no residue: new snake, new
// cheese, fresh death notification.
func TestRestartFreshState(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.StartLength = 6
	s := newTestSession(t, cfg, 6)
	s.cheese = Cheese{Pos: s.tr.Cell(15, 15), FoodValue: 1}

	for _, d := range []grid.Direction{grid.Up, grid.Left, grid.Down} {
		s.RequestDirection(d)
		s.Tick()
	}
	if !s.GameOver() {
		t.Fatal("setup: snake should be dead")
	}

	s.Restart()

	if s.GameOver() {
		t.Error("restarted game still flagged over")
	}
	snap := s.Snapshot()
	if snap.Score != 0 || snap.Tick != 0 || snap.FoodEaten != 0 {
		t.Errorf("restart leaked score/tick state: %+v", snap)
	}
	if len(snap.Snake) != cfg.StartLength {
		t.Errorf("restart length = %d, want %d", len(snap.Snake), cfg.StartLength)
	}
	if !snap.Head().EqualXY(cfg.StartX, cfg.StartY) {
		t.Errorf("restart head = %v, want (%d,%d)", snap.Head(), cfg.StartX, cfg.StartY)
	}
	select {
	case <-s.Done():
		t.Error("old death notification leaked across restart")
	default:
	}

	// The old snake's channel stays closed, but it is no longer wired up.
	s.Tick()
	if s.GameOver() {
		t.Error("restarted game died immediately")
	}
}

// TestSnapshotIsolation checks snapshots do not alias live state.
func TestSnapshotIsolation(t *testing.T) {
	s := newTestSession(t, testConfig(20, 20), 7)
	s.cheese = Cheese{Pos: s.tr.Cell(15, 15), FoodValue: 1}

	snap := s.Snapshot()
	headBefore := snap.Head()
	s.Tick()
	s.Tick()
	if !snap.Head().Equal(headBefore) {
		t.Error("snapshot mutated by later ticks")
	}
	if snap.Tick == s.Snapshot().Tick {
		t.Error("live session did not advance")
	}
}

// TestFullStartSnakeWinsImmediately covers the degenerate config where the
// start snake already covers every cell.
func TestFullStartSnakeWinsImmediately(t *testing.T) {
	cfg := testConfig(4, 1)
	cfg.StartX = 0
	cfg.StartY = 0
	cfg.StartLength = 4
	s := newTestSession(t, cfg, 8)

	if !s.won || !s.GameOver() {
		t.Error("board-filling start snake should win immediately")
	}
	if s.Snapshot().Cheese != nil {
		t.Error("no cheese should exist on a full board")
	}
}

// TestRejectsInvalidConfig checks construction-time invariant violations are
// startup errors.
func TestRejectsInvalidConfig(t *testing.T) {
	bad := []func(*config.Session){
		func(c *config.Session) { c.Width = 0 },
		func(c *config.Session) { c.PixelH = 0 },
		func(c *config.Session) { c.StartLength = 0 },
		func(c *config.Session) { c.FoodValueMax = c.FoodValueMin },
		func(c *config.Session) { c.SimInterval = 0 },
	}
	for i, mutate := range bad {
		cfg := testConfig(20, 20)
		mutate(&cfg)
		if _, err := NewSession(cfg, nil); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
}
