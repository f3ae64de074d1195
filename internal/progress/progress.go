// Package progress reports batch execution status during polling ticks.
package progress

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/citykit/mcrbatch/internal/sysmem"
)

// Snapshot is one tick's view of the batch.
type Snapshot struct {
	Started         int
	Finished        int
	Running         int
	Total           int
	AvailableMemory uint64
}

// Reporter consumes snapshots. Implementations must tolerate being called
// every poll tick.
type Reporter interface {
	// Report renders one snapshot.
	Report(s Snapshot)

	// Done is called once, after the batch reaches its final state.
	Done()
}

var (
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")) // Green
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")) // Blue
	memStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")) // Gray
)

// StatusLine renders a single in-place status line, overwritten on every
// tick with a carriage return.
type StatusLine struct {
	w io.Writer
}

// NewStatusLine creates a StatusLine writing to w.
func NewStatusLine(w io.Writer) *StatusLine {
	return &StatusLine{w: w}
}

// Report renders the snapshot over the previous line.
func (l *StatusLine) Report(s Snapshot) {
	line := fmt.Sprintf("%s | active %s | available %s",
		countStyle.Render(fmt.Sprintf("%d/%d", s.Finished, s.Total)),
		activeStyle.Render(fmt.Sprintf("%d", s.Running)),
		memStyle.Render(sysmem.PrettyBytes(s.AvailableMemory)),
	)
	fmt.Fprintf(l.w, "\r\033[K%s", line)
}

// Done terminates the status line.
func (l *StatusLine) Done() {
	fmt.Fprintln(l.w)
}

// LogReporter emits snapshots through a structured logger, for runs
// without a terminal attached.
type LogReporter struct {
	Log *slog.Logger
}

// Report logs the snapshot at debug level.
func (r *LogReporter) Report(s Snapshot) {
	r.Log.Debug("batch progress",
		"started", s.Started,
		"finished", s.Finished,
		"running", s.Running,
		"total", s.Total,
		"available_memory", sysmem.PrettyBytes(s.AvailableMemory),
	)
}

// Done is a no-op for the log reporter.
func (r *LogReporter) Done() {}
