// Package worker runs one origin's route search inside an isolated
// execution context with a fault boundary at its edge.
//
// A [Task] binds one location mapping to the batch-wide routing config and
// an output path. Running it invokes the routing collaborator; any error or
// panic is converted into a structured error record and sent to the
// supervisor over the error channel. Nothing a task does can surface as an
// unhandled fault in the supervisor, and a successful task emits nothing.
//
// The [Spawner] and [Handle] interfaces abstract the execution mechanism.
// [GoSpawner] runs each task in its own goroutine with panic containment;
// real memory isolation, when needed, comes from a Runner that execs an
// external process per origin (see routing.ExecRunner), so an OOM kill
// takes down one search rather than the batch.
package worker
