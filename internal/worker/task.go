package worker

import (
	"context"
	"fmt"

	"github.com/citykit/mcrbatch/internal/logcap"
	"github.com/citykit/mcrbatch/internal/manifest"
	"github.com/citykit/mcrbatch/internal/routing"
)

// Task is the ephemeral binding of one location mapping to the shared
// routing config, an output path, and the error channel. It is created
// when the supervisor admits the mapping and discarded once joined.
type Task struct {
	// Mapping identifies the origin this task computes.
	Mapping routing.LocationMapping

	// Config is the batch-wide routing configuration, shared read-only.
	Config *routing.Config

	// OutputPath is the deterministic artifact path for this origin.
	OutputPath string

	// Runner is the route-search collaborator.
	Runner routing.Runner

	// Records receives this task's error record on failure. A successful
	// task sends nothing.
	Records chan<- manifest.ErrorRecord
}

// Run executes the task. All failures, including panics from the Runner,
// are caught here and converted to error records; none propagate to the
// caller. The context is used only to unblock a record send if the batch
// aborts while the channel is full.
func (t *Task) Run(ctx context.Context) {
	capture := logcap.New(t.Mapping.CellID)

	defer func() {
		if r := recover(); r != nil {
			t.report(ctx, fmt.Sprintf("panic: %v", r), capture.Transcript())
		}
	}()

	err := t.Runner.Run(ctx, routing.Request{
		NodeID:     t.Mapping.NodeID,
		Config:     t.Config,
		OutputPath: t.OutputPath,
		Log:        capture.Logger(),
	})
	if err != nil {
		t.report(ctx, err.Error(), capture.Transcript())
	}
	// On success the capture is dropped without being read.
}

func (t *Task) report(ctx context.Context, errText, logs string) {
	rec := manifest.ErrorRecord{
		CellID:       t.Mapping.CellID,
		NodeID:       t.Mapping.NodeID,
		StartTime:    t.Config.StartTime,
		MaxTransfers: t.Config.MaxTransfers,
		OutputPath:   t.OutputPath,
		Error:        errText,
		Logs:         logs,
	}
	select {
	case t.Records <- rec:
	case <-ctx.Done():
		// Batch is aborting; the supervisor no longer drains the channel.
	}
}
