// Package notify delivers short user-facing outcome messages.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier reports the outcome of a user-initiated operation.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Failure(ctx context.Context, msg string)
}

// Console prints notifications to a writer, one per line.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Success(_ context.Context, msg string) {
	c.write("OK", msg)
}

func (c *Console) Failure(_ context.Context, msg string) {
	c.write("ERROR", msg)
}

func (c *Console) write(level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", level, msg)
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Success(context.Context, string) {}
func (Nop) Failure(context.Context, string) {}
