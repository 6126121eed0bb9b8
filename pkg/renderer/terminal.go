package renderer

import (
	"fmt"
	"strings"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/game"
)

// TerminalRenderer draws snapshots as an emoji board. The board has no
// walls; the border row shows wrap markers because the world is a torus.
type TerminalRenderer struct {
	width  int
	height int
	board  [][]int
	buffer strings.Builder
}

// Cell types for the board
const (
	cellEmpty = iota
	cellHead
	cellBody
	cellCheese
	cellCrash
)

// NewTerminalRenderer creates a renderer for a board of the given cell size.
func NewTerminalRenderer(width, height int) *TerminalRenderer {
	// Pre-allocate the board to reduce GC pressure
	board := make([][]int, height)
	for i := range board {
		board[i] = make([]int, width)
	}
	return &TerminalRenderer{width: width, height: height, board: board}
}

// clearScreen clears the terminal using ANSI escape codes.
func (r *TerminalRenderer) clearScreen() {
	fmt.Print("\033[H\033[2J\033[3J")
}

// HideCursor hides the cursor (call on start).
func (r *TerminalRenderer) HideCursor() {
	fmt.Print("\033[?25l")
}

// ShowCursor shows the cursor (call on exit).
func (r *TerminalRenderer) ShowCursor() {
	fmt.Print("\033[?25h")
}

// Render draws the snapshot to the terminal.
func (r *TerminalRenderer) Render(snap game.Snapshot) {
	r.clearScreen()
	fmt.Print(r.RenderToString(snap))
}

// RenderToString builds the full frame. Split out so tests can inspect it.
func (r *TerminalRenderer) RenderToString(snap game.Snapshot) string {
	r.buffer.Reset()

	for y := range r.board {
		for x := range r.board[y] {
			r.board[y][x] = cellEmpty
		}
	}

	if snap.Cheese != nil {
		r.board[snap.Cheese.Pos.Y][snap.Cheese.Pos.X] = cellCheese
	}
	for i, p := range snap.Snake {
		if i == 0 {
			r.board[p.Y][p.X] = cellHead
		} else {
			r.board[p.Y][p.X] = cellBody
		}
	}
	if snap.Crash != nil {
		r.board[snap.Crash.Y][snap.Crash.X] = cellCrash
	}

	r.buffer.WriteString("\n  🐍 WRAP SNAKE 🐍\n")

	pilotStr := ""
	if snap.Autopilot {
		pilotStr = "  |  🤖 AUTOPILOT"
	}
	cheeseStr := ""
	if snap.Cheese != nil {
		cheeseStr = fmt.Sprintf("  |  🧀 worth %d", snap.Cheese.FoodValue)
	}
	r.buffer.WriteString(fmt.Sprintf("  Score: %d  |  Length: %d  |  Eaten: %d (%.2f/s)%s%s\n\n",
		snap.Score, len(snap.Snake), snap.FoodEaten, snap.EatingSpeed, cheeseStr, pilotStr))

	border := "  " + strings.Repeat(config.CharEdge, r.width+2) + "\n"
	r.buffer.WriteString(border)
	for _, row := range r.board {
		r.buffer.WriteString("  " + config.CharEdge)
		for _, cell := range row {
			switch cell {
			case cellEmpty:
				r.buffer.WriteString(config.CharEmpty)
			case cellHead:
				r.buffer.WriteString(config.CharHead)
			case cellBody:
				r.buffer.WriteString(config.CharBody)
			case cellCheese:
				r.buffer.WriteString(config.CharCheese)
			case cellCrash:
				r.buffer.WriteString(config.CharCrash)
			}
		}
		r.buffer.WriteString(config.CharEdge + "\n")
	}
	r.buffer.WriteString(border)

	r.buffer.WriteString("\n  WASD or arrows to steer, edges wrap around 🔄\n")
	r.buffer.WriteString("  P to pause, O for autopilot, Q to quit\n")

	if snap.Paused {
		r.buffer.WriteString("\n  ⏸️  PAUSED - Press P to continue\n")
	}
	if snap.GameOver {
		if snap.Won {
			r.buffer.WriteString("\n  🏆 BOARD CONQUERED! Press R to restart or Q to quit\n")
		} else {
			r.buffer.WriteString("\n  💀 GAME OVER! Press R to restart or Q to quit\n")
		}
	}

	return r.buffer.String()
}
