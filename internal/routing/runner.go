package routing

import (
	"context"
	"log/slog"
)

// Request carries everything a Runner needs for one origin's search.
type Request struct {
	// NodeID is the street-network node to start the search from.
	NodeID int64

	// Config is the batch-wide routing configuration, shared read-only.
	Config *Config

	// OutputPath is where the Runner must write the result artifact.
	OutputPath string

	// Log is the task-scoped diagnostic logger. Anything written here is
	// preserved in the error record if the task fails and discarded on
	// success.
	Log *slog.Logger
}

// Runner executes one multi-criteria route search and writes its artifact
// to req.OutputPath. A nil return means the artifact was written.
//
// Implementations are invoked concurrently, once per origin, and must not
// mutate req.Config.
type Runner interface {
	Run(ctx context.Context, req Request) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, req Request) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, req Request) error {
	return f(ctx, req)
}
