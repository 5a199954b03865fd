package services

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows transient user-facing messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// WriterNotifier prints messages as single lines to w.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) { n.write("OK", msg) }
func (n *WriterNotifier) Error(msg string)   { n.write("ERROR", msg) }

func (n *WriterNotifier) write(tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", tag, msg)
}
