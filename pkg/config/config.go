package config

import (
	"fmt"
	"time"

	"wrapsnake/pkg/grid"
)

// Game board dimensions and pixel canvas defaults
const (
	DefaultWidth  = 20
	DefaultHeight = 20
	DefaultPixelW = 640.0
	DefaultPixelH = 480.0
)

// Tick rates. Simulation and render run on independent cadences.
const (
	DefaultSimInterval    = 200 * time.Millisecond
	DefaultRenderInterval = 50 * time.Millisecond
)

// Snake start state
const (
	DefaultStartLength = 4
	DefaultStartX      = 5
	DefaultStartY      = 5
)

// Cheese food values are drawn uniformly from [Min, Max).
const (
	DefaultFoodValueMin = 1
	DefaultFoodValueMax = 5
)

// Emoji characters for the terminal renderer
const (
	CharEmpty  = "  " // Two spaces to match emoji width
	CharEdge   = "〰️" // Wrap-around border marker, not a wall
	CharHead   = "🟢"
	CharBody   = "🟩"
	CharCheese = "🧀"
	CharCrash  = "💥"
)

// Session holds everything a game session needs at start: board geometry,
// tick cadences, the snake's start state and the cheese value range.
type Session struct {
	Width  int
	Height int
	PixelW float64
	PixelH float64

	SimInterval    time.Duration
	RenderInterval time.Duration

	StartX      int
	StartY      int
	StartLength int
	StartDir    grid.Direction

	FoodValueMin int
	FoodValueMax int
}

// Default returns the standard session configuration.
func Default() Session {
	return Session{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		PixelW:         DefaultPixelW,
		PixelH:         DefaultPixelH,
		SimInterval:    DefaultSimInterval,
		RenderInterval: DefaultRenderInterval,
		StartX:         DefaultStartX,
		StartY:         DefaultStartY,
		StartLength:    DefaultStartLength,
		StartDir:       grid.Right,
		FoodValueMin:   DefaultFoodValueMin,
		FoodValueMax:   DefaultFoodValueMax,
	}
}

// Validate checks the startup invariants. Violations are configuration
// errors, fatal before the session starts.
func (s Session) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("config: board %dx%d has an empty axis", s.Width, s.Height)
	}
	if s.PixelW <= 0 || s.PixelH <= 0 {
		return fmt.Errorf("config: pixel range %gx%g has an empty axis", s.PixelW, s.PixelH)
	}
	if s.SimInterval <= 0 || s.RenderInterval <= 0 {
		return fmt.Errorf("config: tick intervals must be positive")
	}
	if s.StartLength < 1 {
		return fmt.Errorf("config: start length %d, need at least 1", s.StartLength)
	}
	if s.StartLength > s.Width*s.Height {
		return fmt.Errorf("config: start length %d exceeds board capacity %d", s.StartLength, s.Width*s.Height)
	}
	if s.FoodValueMin < 1 || s.FoodValueMax <= s.FoodValueMin {
		return fmt.Errorf("config: food value range [%d,%d) is empty or non-positive", s.FoodValueMin, s.FoodValueMax)
	}
	return nil
}

// Transform builds the session's coordinate transform.
func (s Session) Transform() (*grid.Transform, error) {
	return grid.NewTransform(
		grid.Axis{DomainMin: 0, DomainMax: s.Width, RangeMin: 0, RangeMax: s.PixelW},
		grid.Axis{DomainMin: 0, DomainMax: s.Height, RangeMin: 0, RangeMax: s.PixelH},
	)
}
