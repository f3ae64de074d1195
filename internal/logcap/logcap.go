// Package logcap provides task-scoped diagnostic log capture. Each worker
// task gets its own Capture; the transcript is flushed into the task's
// error record on failure and simply dropped on success. No logging state
// is shared between tasks.
package logcap

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Capture is an in-memory log sink with a structured logger attached.
// It is safe for concurrent use.
type Capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
	log *slog.Logger
}

// New creates a Capture whose logger emits JSON lines at debug level and
// carries the cell ID on every entry.
func New(cellID string) *Capture {
	c := &Capture{}
	handler := slog.NewJSONHandler(lockedWriter{c}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	c.log = slog.New(handler).With("cell_id", cellID)
	return c
}

// Logger returns the task-scoped logger.
func (c *Capture) Logger() *slog.Logger {
	return c.log
}

// Transcript returns everything logged so far.
func (c *Capture) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

type lockedWriter struct {
	c *Capture
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.buf.Write(p)
}

// Log levels accepted by NewBatchLogger.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// NewBatchLogger creates the supervisor's structured logger, writing
// JSON-formatted entries to w at the given level. Unknown levels fall
// back to INFO.
func NewBatchLogger(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
