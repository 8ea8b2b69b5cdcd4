package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/younwookim/scenes/internal/application/loader"
	"github.com/younwookim/scenes/internal/domain/scene"
)

// Replayer re-issues journaled calls against an engine
type Replayer struct {
	data Journal
	pos  int
}

// NewReplayer creates a new replayer from a journal
func NewReplayer(data Journal) *Replayer {
	return &Replayer{
		data: data,
		pos:  0,
	}
}

// LoadJournal loads a journal from a file
func LoadJournal(filename string) (*Journal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data Journal
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode journal: %w", err)
	}

	return &data, nil
}

// Next returns the current call and advances
func (r *Replayer) Next() (Call, bool) {
	if r.pos >= len(r.data.Calls) {
		return Call{}, false
	}
	c := r.data.Calls[r.pos]
	r.pos++
	return c, true
}

// Step applies the next successful call to engine. Calls that failed when
// recorded are skipped. It returns false once the journal is exhausted.
func (r *Replayer) Step(ctx context.Context, engine loader.Engine) (bool, error) {
	for {
		c, ok := r.Next()
		if !ok {
			return false, nil
		}
		if c.Err != "" {
			continue
		}
		return true, Apply(ctx, engine, c)
	}
}

// Run applies every remaining call, stopping at the first error
func (r *Replayer) Run(ctx context.Context, engine loader.Engine) error {
	for {
		ok, err := r.Step(ctx, engine)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// Position returns the number of calls consumed
func (r *Replayer) Position() int {
	return r.pos
}

// TotalCalls returns the total number of calls
func (r *Replayer) TotalCalls() int {
	return len(r.data.Calls)
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.pos = 0
}

// Apply issues a single journaled call
func Apply(ctx context.Context, engine loader.Engine, c Call) error {
	name := scene.Ref(c.Scene)
	switch c.Op {
	case OpLoad:
		return engine.LoadAdditive(ctx, name)
	case OpUnload:
		return engine.Unload(ctx, name)
	case OpActive:
		return engine.SetActive(name)
	default:
		return fmt.Errorf("call %d: unknown op %q", c.Seq, c.Op)
	}
}
