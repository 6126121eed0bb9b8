package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/game"
	"wrapsnake/pkg/input"
	"wrapsnake/pkg/logging"
	"wrapsnake/pkg/renderer"
)

const (
	logPath    = "logs/wrapsnake.log"
	storePath  = "data/scores.db"
	recordDir  = "records"
	policyPath = "ml/checkpoints/wrap_policy.onnx"
)

func main() {
	if err := logging.Init(logPath); err != nil {
		fmt.Println("Error opening log file:", err)
		return
	}
	defer logging.Sync()

	cfg := config.Default()
	sess, err := game.NewSession(cfg, nil)
	if err != nil {
		fmt.Println("Bad session config:", err)
		return
	}

	// Score persistence is best-effort; the game runs without it.
	store, err := game.OpenStore(storePath)
	if err != nil {
		logging.L().Warnw("score store unavailable", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	sessionID := uuid.NewString()[:8]
	rec, err := game.NewRecorder(recordDir, sessionID)
	if err != nil {
		logging.L().Warnw("recorder unavailable", "error", err)
	} else {
		sess.AttachRecorder(rec)
		defer rec.Close()
	}

	// Prefer the trained policy for autopilot when the runtime is present.
	if err := game.StartPolicyService(policyPath); err == nil {
		sess.SetPilot(&game.PolicyPilot{})
	} else {
		logging.L().Infow("policy service unavailable, autopilot uses heuristic", "error", err)
	}

	keys := input.NewKeyboardHandler()
	if err := keys.Start(); err != nil {
		fmt.Println("Error opening keyboard:", err)
		return
	}
	defer keys.Stop()

	render := renderer.NewTerminalRenderer(cfg.Width, cfg.Height)
	render.HideCursor()
	defer render.ShowCursor()

	simTicker := time.NewTicker(cfg.SimInterval)
	defer simTicker.Stop()
	renderTicker := time.NewTicker(cfg.RenderInterval)
	defer renderTicker.Stop()

	// Simulation ticks and direction input stop when the game ends; render
	// keeps going so the final board stays visible. done is re-armed on
	// restart.
	simActive := true
	done := sess.Done()

	render.Render(sess.Snapshot())

	for {
		select {
		case in := <-keys.Events():
			switch {
			case input.IsQuit(in):
				fmt.Println("\n  Thanks for playing! 👋")
				return
			case input.IsRestart(in):
				if sess.GameOver() {
					sess.Restart()
					simActive = true
					done = sess.Done()
				}
			case input.IsPause(in):
				sess.TogglePause()
			case input.IsAutopilot(in):
				sess.ToggleAutopilot()
			default:
				if d, ok := input.ParseDirection(in); ok && simActive {
					sess.RequestDirection(d)
				}
			}

		case <-simTicker.C:
			if simActive {
				sess.Tick()
			}

		case <-done:
			// A nil channel never fires again.
			done = nil
			simActive = false
			render.Render(sess.Snapshot())
			saveResult(store, sess, sessionID)

		case <-renderTicker.C:
			render.Render(sess.Snapshot())
		}
	}
}

func saveResult(store *game.Store, sess *game.Session, sessionID string) {
	if store == nil {
		return
	}
	snap := sess.Snapshot()
	name := os.Getenv("USER")
	if name == "" {
		name = "anonymous"
	}
	err := store.SaveResult(game.Result{
		SessionID: sessionID,
		Name:      name,
		Score:     snap.Score,
		FoodEaten: snap.FoodEaten,
		Length:    len(snap.Snake),
		Won:       snap.Won,
		Duration:  sess.Elapsed(),
	})
	if err != nil {
		logging.L().Warnw("failed to save result", "error", err)
		return
	}
	logging.L().Infow("game over",
		"session", sessionID, "score", snap.Score, "won", snap.Won)
}
