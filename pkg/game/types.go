package game

import "wrapsnake/pkg/grid"

// Snapshot is a consistent copy of the game state for rendering and client
// synchronization. It shares nothing mutable with the live session.
type Snapshot struct {
	Tick        uint64          `json:"tick"`
	Snake       []grid.Position `json:"snake"`
	Direction   grid.Direction  `json:"direction"`
	PendingFood int             `json:"pendingFood"`
	Alive       bool            `json:"alive"`
	Cheese      *Cheese         `json:"cheese,omitempty"`
	Score       int             `json:"score"`
	FoodEaten   int             `json:"foodEaten"`
	EatingSpeed float64         `json:"eatingSpeed"`
	GameOver    bool            `json:"gameOver"`
	Won         bool            `json:"won"`
	Paused      bool            `json:"paused"`
	Autopilot   bool            `json:"autopilot"`
	Crash       *grid.Position  `json:"crash,omitempty"`
}

// Head returns the snake's head, or a zero Position for an empty snapshot.
func (s Snapshot) Head() grid.Position {
	if len(s.Snake) == 0 {
		return grid.Position{}
	}
	return s.Snake[0]
}

// BoardConfig is the DTO sent to web clients on connect so they can size
// their canvas before the first state frame.
type BoardConfig struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	PixelW           float64 `json:"pixelW"`
	PixelH           float64 `json:"pixelH"`
	SimIntervalMs    int     `json:"simIntervalMs"`
	RenderIntervalMs int     `json:"renderIntervalMs"`
}

// StepRecord is one line of a recorded game, written as JSONL by the
// recorder and played back by cmd/replay.
type StepRecord struct {
	Tick        uint64 `json:"tick"`
	HeadX       int    `json:"headX"`
	HeadY       int    `json:"headY"`
	Length      int    `json:"length"`
	PendingFood int    `json:"pendingFood"`
	Score       int    `json:"score"`
	CheeseX     int    `json:"cheeseX"`
	CheeseY     int    `json:"cheeseY"`
	CheeseValue int    `json:"cheeseValue"`
	Alive       bool   `json:"alive"`
	Won         bool   `json:"won"`
}

// Board returns the BoardConfig for this session.
func (s *Session) Board() BoardConfig {
	return BoardConfig{
		Width:            s.cfg.Width,
		Height:           s.cfg.Height,
		PixelW:           s.cfg.PixelW,
		PixelH:           s.cfg.PixelH,
		SimIntervalMs:    int(s.cfg.SimInterval.Milliseconds()),
		RenderIntervalMs: int(s.cfg.RenderInterval.Milliseconds()),
	}
}
