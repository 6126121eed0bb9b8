package game

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	ort "github.com/yalue/onnxruntime_go"

	"wrapsnake/pkg/config"
	"wrapsnake/pkg/grid"
	"wrapsnake/pkg/logging"
)

// The policy model is trained on the default board only. Input is a
// (1, featurePlanes, H, W) grid; output is one logit per direction in the
// order up, down, left, right.
const featurePlanes = 4

// policyRequest is a single inference task in the queue.
type policyRequest struct {
	input   []float32
	resChan chan []float32
}

var (
	policyQueue = make(chan policyRequest, 200)
	policyOnce  sync.Once
	policyUp    atomic.Bool
)

// policyModel holds the session and its fixed input/output tensors. One
// instance serves every game in the process.
type policyModel struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// StartPolicyService initializes the single inference worker that drains the
// queue. Safe to call more than once; only the first call does work.
func StartPolicyService(modelPath string) error {
	var err error
	policyOnce.Do(func() {
		if err = initRuntime(); err != nil {
			return
		}
		var m *policyModel
		if m, err = loadPolicyModel(modelPath); err != nil {
			return
		}
		policyUp.Store(true)
		go func() {
			for req := range policyQueue {
				req.resChan <- m.predict(req.input)
			}
		}()
		logging.L().Infow("policy inference worker online", "model", modelPath)
	})
	return err
}

// PolicyAvailable reports whether the inference worker is running.
func PolicyAvailable() bool {
	return policyUp.Load()
}

// predictPolicy queues one inference and waits for its result. Synchronous
// for the calling game loop, serialized across sessions by the worker.
func predictPolicy(input []float32) []float32 {
	resChan := make(chan []float32, 1)
	policyQueue <- policyRequest{input: input, resChan: resChan}
	return <-resChan
}

func loadPolicyModel(modelPath string) (*policyModel, error) {
	h := config.DefaultHeight
	w := config.DefaultWidth

	inputTensor, err := ort.NewTensor(ort.NewShape(1, featurePlanes, int64(h), int64(w)),
		make([]float32, featurePlanes*h*w))
	if err != nil {
		return nil, fmt.Errorf("policy input tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, 4), make([]float32, 4))
	if err != nil {
		return nil, fmt.Errorf("policy output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor}, options)
	if err != nil {
		return nil, err
	}
	return &policyModel{session: session, input: inputTensor, output: outputTensor}, nil
}

func (m *policyModel) predict(input []float32) []float32 {
	copy(m.input.GetData(), input)
	if err := m.session.Run(); err != nil {
		logging.L().Warnw("policy inference failed", "error", err)
		return nil
	}
	// Copy so the caller never aliases the shared output tensor.
	out := m.output.GetData()
	res := make([]float32, len(out))
	copy(res, out)
	return res
}

var runtimeOnce sync.Once

func initRuntime() error {
	var err error
	runtimeOnce.Do(func() {
		paths := []string{
			"/opt/homebrew/opt/onnxruntime/lib/libonnxruntime.dylib",
			"/usr/local/opt/onnxruntime/lib/libonnxruntime.dylib",
			"/usr/local/lib/libonnxruntime.dylib",
		}
		if runtime.GOOS == "linux" {
			paths = []string{
				"/usr/lib/libonnxruntime.so",
				"/usr/local/lib/libonnxruntime.so",
			}
		}
		var found string
		for _, p := range paths {
			if _, e := os.Stat(p); e == nil {
				found = p
				break
			}
		}
		if found == "" {
			err = fmt.Errorf("onnxruntime library not found")
			return
		}
		ort.SetSharedLibraryPath(found)
		err = ort.InitializeEnvironment()
	})
	return err
}

// PolicyPilot steers with the trained model and falls back to GreedyPilot
// whenever the model is unavailable, the board is not the size the model was
// trained on, or the suggested move would be suicidal.
type PolicyPilot struct {
	fallback GreedyPilot
}

func (p *PolicyPilot) Steer(s *Session) (grid.Direction, bool) {
	if !PolicyAvailable() ||
		s.cfg.Width != config.DefaultWidth || s.cfg.Height != config.DefaultHeight {
		return p.fallback.Steer(s)
	}

	logits := predictPolicy(featureGrid(s))
	if len(logits) != 4 {
		return p.fallback.Steer(s)
	}

	bestIdx := 0
	for i, v := range logits {
		if v > logits[bestIdx] {
			bestIdx = i
		}
	}
	dirs := [4]grid.Direction{grid.Up, grid.Down, grid.Left, grid.Right}
	d := dirs[bestIdx]

	// Safety check: never take a model suggestion into the body.
	if snakeOccupies(s.snake, d.Apply(s.snake.Head())) {
		return p.fallback.Steer(s)
	}
	if d == s.snake.Direction() || !d.IsTurn(s.snake.Direction()) {
		return grid.Direction{}, false
	}
	return d, true
}

// featureGrid flattens the board into the model's input planes:
// 0 head, 1 body, 2 cheese, 3 committed direction (broadcast).
func featureGrid(s *Session) []float32 {
	h := s.cfg.Height
	w := s.cfg.Width
	input := make([]float32, featurePlanes*h*w)
	plane := func(n int, p grid.Position) {
		input[n*h*w+p.Y*w+p.X] = 1
	}

	segs := s.snake.segments
	plane(0, segs[0])
	for _, seg := range segs[1:] {
		plane(1, seg)
	}
	if s.hasCheese {
		plane(2, s.cheese.Pos)
	}
	d := s.snake.Direction()
	for i := 3 * h * w; i < 4*h*w; i++ {
		input[i] = float32(d.DX)*0.5 + float32(d.DY)*0.25
	}
	return input
}
