package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/younwookim/scenes/internal/application/loader"
	"github.com/younwookim/scenes/internal/domain/scene"
)

// Recorder wraps an engine and journals every load, unload and
// activation passing through it
type Recorder struct {
	engine loader.Engine

	mu        sync.Mutex
	data      Journal
	recording bool
}

// NewRecorder creates a new recorder in front of engine
func NewRecorder(engine loader.Engine) *Recorder {
	return &Recorder{
		engine: engine,
		data: Journal{
			Version:   "1.0",
			StartTime: time.Now().Format(time.RFC3339),
			Calls:     make([]Call, 0, 64),
		},
		recording: true,
	}
}

// LoadAdditive implements loader.Engine
func (r *Recorder) LoadAdditive(ctx context.Context, name scene.Ref) error {
	err := r.engine.LoadAdditive(ctx, name)
	r.record(OpLoad, name, err)
	return err
}

// Unload implements loader.Engine
func (r *Recorder) Unload(ctx context.Context, name scene.Ref) error {
	err := r.engine.Unload(ctx, name)
	r.record(OpUnload, name, err)
	return err
}

// SetActive implements loader.Engine
func (r *Recorder) SetActive(name scene.Ref) error {
	err := r.engine.SetActive(name)
	r.record(OpActive, name, err)
	return err
}

// Loaded implements loader.Engine. Queries are not journaled.
func (r *Recorder) Loaded() []scene.Ref {
	return r.engine.Loaded()
}

func (r *Recorder) record(op Op, name scene.Ref, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return
	}

	c := Call{
		Seq:   len(r.data.Calls),
		Op:    op,
		Scene: string(name),
	}
	if err != nil {
		c.Err = err.Error()
	}
	r.data.Calls = append(r.data.Calls, c)
}

// Journal returns a copy of the recorded journal
func (r *Recorder) Journal() Journal {
	r.mu.Lock()
	defer r.mu.Unlock()

	j := r.data
	j.Calls = append([]Call(nil), r.data.Calls...)
	return j
}

// Save writes the journal to a file
func (r *Recorder) Save(filename string) error {
	j := r.Journal()
	if len(j.Calls) == 0 {
		return fmt.Errorf("no calls to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(j); err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// CallCount returns the number of recorded calls
func (r *Recorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.Calls)
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("transitions_%s.json", time.Now().Format("20060102_150405"))
}
