package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wrapsnake/pkg/logging"
)

// Recorder writes one StepRecord per tick as JSONL, through a buffered
// channel and a background writer so the tick loop never blocks on disk.
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	ch     chan StepRecord
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewRecorder creates a recording file under dir, named by session ID and
// timestamp.
func NewRecorder(dir, sessionID string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create records dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix()))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record file: %w", err)
	}

	r := &Recorder{
		file:   f,
		writer: bufio.NewWriter(f),
		ch:     make(chan StepRecord, 1000),
	}
	r.wg.Add(1)
	go r.writeLoop()
	return r, nil
}

// Record queues a step. Non-blocking: if the writer has fallen behind, the
// step is dropped rather than stalling the tick loop.
func (r *Recorder) Record(rec StepRecord) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	select {
	case r.ch <- rec:
	default:
		logging.L().Debugw("recorder buffer full, dropping step", "tick", rec.Tick)
	}
}

// Close flushes and closes the recording. Idempotent.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.ch)
	r.wg.Wait()
	r.file.Close()
}

// Path returns the recording file path.
func (r *Recorder) Path() string {
	return r.file.Name()
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()
	enc := json.NewEncoder(r.writer)
	for rec := range r.ch {
		if err := enc.Encode(rec); err != nil {
			logging.L().Warnw("recorder encode failed", "error", err)
		}
	}
	r.writer.Flush()
}

// ReadRecording loads a JSONL recording back into memory for replay.
func ReadRecording(path string) ([]StepRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var steps []StepRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec StepRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parse record line %d: %w", len(steps)+1, err)
		}
		steps = append(steps, rec)
	}
	return steps, sc.Err()
}
