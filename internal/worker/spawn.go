package worker

import "context"

// Handle tracks one spawned execution context. The supervisor polls
// IsAlive every tick and calls Join exactly once, after the task has
// stopped, to reclaim the context.
type Handle interface {
	// IsAlive reports whether the task is still running. It reflects the
	// actual state of the execution context, not whether Spawn was called.
	IsAlive() bool

	// Join blocks until the task has stopped and releases its context.
	Join()
}

// Spawner starts tasks in isolated execution contexts.
type Spawner interface {
	Spawn(ctx context.Context, t *Task) Handle
}

// GoSpawner runs each task in its own goroutine. The task's own fault
// boundary (see Task.Run) contains panics, so a crashing task cannot
// corrupt siblings or the supervisor.
type GoSpawner struct{}

// Spawn starts t and returns its handle.
func (GoSpawner) Spawn(ctx context.Context, t *Task) Handle {
	h := &goHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		t.Run(ctx)
	}()
	return h
}

type goHandle struct {
	done chan struct{}
}

func (h *goHandle) IsAlive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *goHandle) Join() {
	<-h.done
}
