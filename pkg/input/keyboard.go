package input

import (
	"github.com/eiannone/keyboard"

	"wrapsnake/pkg/grid"
)

// KeyboardHandler reads raw key events into a channel so the game loop can
// select over them alongside its tickers.
type KeyboardHandler struct {
	inputChan chan KeyInput
}

// KeyInput is one keyboard event.
type KeyInput struct {
	Char rune
	Key  keyboard.Key
}

// NewKeyboardHandler creates a keyboard input handler.
func NewKeyboardHandler() *KeyboardHandler {
	return &KeyboardHandler{
		inputChan: make(chan KeyInput),
	}
}

// Start begins listening for keyboard input.
func (h *KeyboardHandler) Start() error {
	if err := keyboard.Open(); err != nil {
		return err
	}
	go func() {
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			h.inputChan <- KeyInput{Char: char, Key: key}
		}
	}()
	return nil
}

// Stop stops the keyboard handler.
func (h *KeyboardHandler) Stop() {
	keyboard.Close()
}

// Events returns the input channel.
func (h *KeyboardHandler) Events() <-chan KeyInput {
	return h.inputChan
}

// ParseDirection maps arrow and WASD keys to a direction request.
func ParseDirection(in KeyInput) (grid.Direction, bool) {
	switch in.Key {
	case keyboard.KeyArrowUp:
		return grid.Up, true
	case keyboard.KeyArrowDown:
		return grid.Down, true
	case keyboard.KeyArrowLeft:
		return grid.Left, true
	case keyboard.KeyArrowRight:
		return grid.Right, true
	}

	switch in.Char {
	case 'w', 'W':
		return grid.Up, true
	case 's', 'S':
		return grid.Down, true
	case 'a', 'A':
		return grid.Left, true
	case 'd', 'D':
		return grid.Right, true
	}
	return grid.Direction{}, false
}

// IsQuit checks for the quit keys.
func IsQuit(in KeyInput) bool {
	return in.Char == 'q' || in.Char == 'Q' || in.Key == keyboard.KeyEsc
}

// IsRestart checks for the restart key.
func IsRestart(in KeyInput) bool {
	return in.Char == 'r' || in.Char == 'R'
}

// IsPause checks for the pause keys.
func IsPause(in KeyInput) bool {
	return in.Char == 'p' || in.Char == 'P' || in.Key == keyboard.KeySpace
}

// IsAutopilot checks for the autopilot toggle key.
func IsAutopilot(in KeyInput) bool {
	return in.Char == 'o' || in.Char == 'O'
}
