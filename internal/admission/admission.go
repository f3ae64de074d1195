// Package admission decides whether the batch router may start another
// worker task. Admission is a conjunctive gate: there must be a free worker
// slot AND enough free system memory. Both conditions are re-evaluated from
// live state on every call because available memory keeps changing as
// running tasks allocate.
package admission

import (
	"fmt"
	"runtime"

	"github.com/citykit/mcrbatch/internal/sysmem"
)

// Default admission parameters.
const (
	// defaultMinFreeMemory matches the headroom one route search needs to
	// load the shared routing structures into its own address space.
	defaultMinFreeMemory = 3 << 30 // 3 GiB
)

// Option configures a Controller.
type Option func(*Controller)

// WithMaxWorkers sets the maximum number of concurrently running tasks.
// Values below 1 are ignored.
func WithMaxWorkers(n int) Option {
	return func(c *Controller) {
		if n >= 1 {
			c.maxWorkers = n
		}
	}
}

// WithMinFreeMemory sets the minimum available system memory, in bytes,
// required to admit a new task.
func WithMinFreeMemory(b uint64) Option {
	return func(c *Controller) { c.minFreeMemory = b }
}

// WithSampler replaces the memory sampler. Used in tests.
func WithSampler(s sysmem.Sampler) Option {
	return func(c *Controller) { c.sample = s }
}

// Decision is the outcome of one admission check.
type Decision struct {
	// Admit reports whether a new task may start now.
	Admit bool

	// Reason is a human-readable explanation when Admit is false.
	Reason string
}

// Controller evaluates the admission gate. It holds no mutable state and
// never mutates system state; it is a pure function of live memory
// readings plus its configuration, and is safe for concurrent use.
type Controller struct {
	maxWorkers    int
	minFreeMemory uint64
	sample        sysmem.Sampler
}

// NewController creates a Controller. Unset options use defaults: one
// worker slot per CPU, a 3 GiB memory floor, and the live system sampler.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		maxWorkers:    runtime.NumCPU(),
		minFreeMemory: defaultMinFreeMemory,
		sample:        sysmem.AvailableMemory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxWorkers returns the configured concurrency limit.
func (c *Controller) MaxWorkers() int {
	return c.maxWorkers
}

// Decide reports whether a new task may start given the number of tasks
// currently running. The memory reading is taken fresh on every call; a
// sampler failure denies admission rather than guessing.
func (c *Controller) Decide(running int) Decision {
	if running >= c.maxWorkers {
		return Decision{
			Reason: fmt.Sprintf("%d tasks running (max %d)", running, c.maxWorkers),
		}
	}

	available, err := c.sample()
	if err != nil {
		return Decision{
			Reason: fmt.Sprintf("memory sample failed: %v", err),
		}
	}
	if available < c.minFreeMemory {
		return Decision{
			Reason: fmt.Sprintf("available memory %s below threshold %s",
				sysmem.PrettyBytes(available), sysmem.PrettyBytes(c.minFreeMemory)),
		}
	}

	return Decision{Admit: true}
}
