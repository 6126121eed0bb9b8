package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/game"
	"wrapsnake/pkg/grid"
	"wrapsnake/pkg/logging"
)

var (
	colorBackground = color.RGBA{24, 24, 32, 255}
	colorGridLine   = color.RGBA{40, 40, 52, 255}
	colorHead       = color.RGBA{80, 220, 100, 255}
	colorBody       = color.RGBA{50, 160, 70, 255}
	colorCheese     = color.RGBA{240, 200, 60, 255}
	colorCrash      = color.RGBA{230, 70, 60, 255}
)

// App is the ebiten front end. Update runs on ebiten's frame cadence and
// owns all session mutation; Draw paints the latest snapshot using the
// session's grid-to-pixel transform.
type App struct {
	sess      *game.Session
	cfg       config.Session
	lastTick  time.Time
	simActive bool
	done      <-chan struct{}
}

func NewApp(cfg config.Session) (*App, error) {
	sess, err := game.NewSession(cfg, nil)
	if err != nil {
		return nil, err
	}
	return &App{
		sess:      sess,
		cfg:       cfg,
		lastTick:  time.Now(),
		simActive: true,
		done:      sess.Done(),
	}, nil
}

func (a *App) Update() error {
	a.handleKeys()

	select {
	case <-a.done:
		a.done = nil
		a.simActive = false
	default:
	}

	// Simulation runs on its own cadence, decoupled from the 60Hz frame
	// rate, by accumulating elapsed wall time.
	if a.simActive && time.Since(a.lastTick) >= a.cfg.SimInterval {
		a.lastTick = time.Now()
		a.sess.Tick()
	}
	return nil
}

func (a *App) handleKeys() {
	dirKeys := map[ebiten.Key]grid.Direction{
		ebiten.KeyArrowUp:    grid.Up,
		ebiten.KeyArrowDown:  grid.Down,
		ebiten.KeyArrowLeft:  grid.Left,
		ebiten.KeyArrowRight: grid.Right,
		ebiten.KeyW:          grid.Up,
		ebiten.KeyS:          grid.Down,
		ebiten.KeyA:          grid.Left,
		ebiten.KeyD:          grid.Right,
	}
	for key, d := range dirKeys {
		if inpututil.IsKeyJustPressed(key) && a.simActive {
			a.sess.RequestDirection(d)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.sess.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		a.sess.ToggleAutopilot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && a.sess.GameOver() {
		a.sess.Restart()
		a.simActive = true
		a.done = a.sess.Done()
		a.lastTick = time.Now()
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	tr := a.sess.Transform()
	cw, ch := tr.CellSize()
	snap := a.sess.Snapshot()

	// Faint grid lines so the wrap edges are readable.
	for x := 0; x <= tr.Width(); x++ {
		px := float32(float64(x) * cw)
		vector.StrokeLine(screen, px, 0, px, float32(a.cfg.PixelH), 1, colorGridLine, false)
	}
	for y := 0; y <= tr.Height(); y++ {
		py := float32(float64(y) * ch)
		vector.StrokeLine(screen, 0, py, float32(a.cfg.PixelW), py, 1, colorGridLine, false)
	}

	cell := func(p grid.Position, c color.Color) {
		px, py := p.Pixels()
		vector.FillRect(screen, float32(px)+1, float32(py)+1, float32(cw)-2, float32(ch)-2, c, false)
	}

	if snap.Cheese != nil {
		cell(snap.Cheese.Pos, colorCheese)
	}
	for i, p := range snap.Snake {
		if i == 0 {
			cell(p, colorHead)
		} else {
			cell(p, colorBody)
		}
	}
	if snap.Crash != nil {
		cell(*snap.Crash, colorCrash)
	}

	status := fmt.Sprintf("Score %d  Len %d  Eaten %d", snap.Score, len(snap.Snake), snap.FoodEaten)
	if snap.Paused {
		status += "  [PAUSED]"
	}
	if snap.Autopilot {
		status += "  [AUTO]"
	}
	if snap.GameOver {
		if snap.Won {
			status += "  BOARD CONQUERED - press R"
		} else {
			status += "  GAME OVER - press R"
		}
	}
	ebitenutil.DebugPrint(screen, status)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.cfg.PixelW), int(a.cfg.PixelH)
}

func main() {
	if err := logging.Init("logs/wrapsnake.log"); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()

	cfg := config.Default()
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := game.StartPolicyService("ml/checkpoints/wrap_policy.onnx"); err == nil {
		app.sess.SetPilot(&game.PolicyPilot{})
	} else {
		logging.L().Infow("policy service unavailable, autopilot uses heuristic", "error", err)
	}

	ebiten.SetWindowTitle("Wrap Snake")
	ebiten.SetWindowSize(int(cfg.PixelW), int(cfg.PixelH))
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
