// Package router implements the batch supervisor that runs one route
// search per origin under an admission gate.
//
// The supervisor moves through three states:
//
//   - Submitting: mappings are admitted FIFO in input order. The loop polls
//     the admission controller at a fixed interval; while blocked it drains
//     the error channel and reports progress.
//   - Draining: all mappings are submitted; the loop polls until no task is
//     alive, still draining the channel each tick.
//   - Completed: every handle is joined, remaining records are flushed,
//     unaccounted mappings are reconciled, and the manifest is persisted.
//
// The supervisor itself is single-threaded; all parallelism lives in the
// spawned tasks. Liveness is polled, not signalled. Submission order is
// FIFO over the input; completion order, and hence record order in the
// manifest, is race-determined.
//
// An individual task failure never aborts the batch. Only two conditions
// are fatal: the output directory already containing files (checked before
// anything starts) and the error channel filling up, which means the
// supervisor can no longer guarantee it observes every failure.
//
// # Usage
//
//	r := router.New(runner,
//	    router.WithAdmission(ctrl),
//	    router.WithReporter(progress.NewStatusLine(os.Stderr)),
//	)
//	errs, err := r.Run(ctx, mappings, cfg, outputDir)
package router
