package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-evalform/pkg/wizard"
)

// Writer encodes each submission as JSON on its own line.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	indent bool
}

// NewWriter targets out. With indent set the JSON is pretty printed.
func NewWriter(out io.Writer, indent bool) *Writer {
	return &Writer{out: out, indent: indent}
}

// Submit implements wizard.Sink.
func (w *Writer) Submit(_ context.Context, submission wizard.Submission) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	enc := json.NewEncoder(w.out)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(submission); err != nil {
		return fmt.Errorf("sink: write submission: %w", err)
	}
	return nil
}
