package game

import (
	"errors"
	"math/rand"

	"wrapsnake/pkg/grid"
)

// ErrBoardFull is returned by the cheese factory when the snake occupies
// every cell and no spawn position exists. The session treats it as a win.
var ErrBoardFull = errors.New("game: no free cell to spawn cheese")

// Cheese is a single food item. It is never mutated; eating it replaces it
// with a freshly spawned one.
type Cheese struct {
	Pos       grid.Position `json:"pos"`
	FoodValue int           `json:"foodValue"`
}

// CheeseFactory spawns cheese on free cells. The random source is injected
// so tests can drive spawning deterministically.
type CheeseFactory struct {
	tr       *grid.Transform
	rng      *rand.Rand
	minValue int
	maxValue int
}

// NewCheeseFactory builds a factory drawing food values uniformly from
// [minValue, maxValue).
func NewCheeseFactory(tr *grid.Transform, rng *rand.Rand, minValue, maxValue int) *CheeseFactory {
	return &CheeseFactory{tr: tr, rng: rng, minValue: minValue, maxValue: maxValue}
}

// Create picks a spawn cell uniformly among all cells not occupied by the
// snake, and a food value from the configured range. Returns ErrBoardFull
// when no free cell remains.
func (f *CheeseFactory) Create(s *Snake) (Cheese, error) {
	occupied := make([]bool, f.tr.Cells())
	for _, seg := range s.segments {
		occupied[seg.Index()] = true
	}

	free := make([]int, 0, f.tr.Cells()-s.Len())
	for idx, taken := range occupied {
		if !taken {
			free = append(free, idx)
		}
	}
	if len(free) == 0 {
		return Cheese{}, ErrBoardFull
	}

	return Cheese{
		Pos:       f.tr.CellAt(free[f.rng.Intn(len(free))]),
		FoodValue: f.minValue + f.rng.Intn(f.maxValue-f.minValue),
	}, nil
}
