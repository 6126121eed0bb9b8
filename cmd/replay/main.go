package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/game"
	"wrapsnake/pkg/grid"
	"wrapsnake/pkg/renderer"
)

// Plays back a recorded game in the terminal. The recording stores one line
// per tick with the head cell; the body is reconstructed from the trail of
// recent head positions, which is exactly what the body is.
func main() {
	var (
		width    = flag.Int("width", config.DefaultWidth, "board width in cells")
		height   = flag.Int("height", config.DefaultHeight, "board height in cells")
		interval = flag.Duration("interval", config.DefaultSimInterval, "delay between frames")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <recording.jsonl>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	steps, err := game.ReadRecording(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	if len(steps) == 0 {
		fmt.Fprintln(os.Stderr, "replay: recording is empty")
		os.Exit(1)
	}

	r := renderer.NewTerminalRenderer(*width, *height)
	r.HideCursor()
	defer r.ShowCursor()

	var trail []grid.Position
	for _, step := range steps {
		trail = append([]grid.Position{{X: step.HeadX, Y: step.HeadY}}, trail...)
		if len(trail) > step.Length {
			trail = trail[:step.Length]
		}

		snap := game.Snapshot{
			Tick:        step.Tick,
			Snake:       trail,
			PendingFood: step.PendingFood,
			Alive:       step.Alive,
			Score:       step.Score,
			GameOver:    !step.Alive || step.Won,
			Won:         step.Won,
		}
		if step.CheeseValue > 0 {
			snap.Cheese = &game.Cheese{
				Pos:       grid.Position{X: step.CheeseX, Y: step.CheeseY},
				FoodValue: step.CheeseValue,
			}
		}
		if !step.Alive {
			head := trail[0]
			snap.Crash = &head
		}

		r.Render(snap)
		time.Sleep(*interval)
	}
}
