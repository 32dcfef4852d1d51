package notification

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterProvider writes the composed MIME message to an io.Writer instead of
// relaying it. It backs the CLI dry-run mode.
type WriterProvider struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterProvider creates a WriterProvider that writes to w.
func NewWriterProvider(w io.Writer) *WriterProvider {
	return &WriterProvider{w: w}
}

// Name returns the provider identifier.
func (p *WriterProvider) Name() string { return "writer" }

// Send writes msg in wire format. Concurrent sends are serialized so
// messages never interleave on the writer.
func (p *WriterProvider) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := composeMsg(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := m.WriteTo(p.w); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}
