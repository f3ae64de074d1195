package admission

import (
	"errors"
	"strings"
	"testing"
)

func fixedSampler(available uint64) func() (uint64, error) {
	return func() (uint64, error) { return available, nil }
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		running    int
		wantAdmit  bool
		wantReason string
	}{
		{
			name:      "slot free and memory free",
			opts:      []Option{WithMaxWorkers(4), WithMinFreeMemory(1 << 30), WithSampler(fixedSampler(2 << 30))},
			running:   3,
			wantAdmit: true,
		},
		{
			name:       "worker limit reached",
			opts:       []Option{WithMaxWorkers(4), WithMinFreeMemory(0), WithSampler(fixedSampler(2 << 30))},
			running:    4,
			wantAdmit:  false,
			wantReason: "max 4",
		},
		{
			name:       "memory below threshold",
			opts:       []Option{WithMaxWorkers(4), WithMinFreeMemory(4 << 30), WithSampler(fixedSampler(1 << 30))},
			running:    0,
			wantAdmit:  false,
			wantReason: "below threshold",
		},
		{
			name:       "both conditions blocking reports worker limit",
			opts:       []Option{WithMaxWorkers(1), WithMinFreeMemory(4 << 30), WithSampler(fixedSampler(0))},
			running:    1,
			wantAdmit:  false,
			wantReason: "max 1",
		},
		{
			name:      "zero threshold never blocks on memory",
			opts:      []Option{WithMaxWorkers(2), WithMinFreeMemory(0), WithSampler(fixedSampler(0))},
			running:   1,
			wantAdmit: true,
		},
		{
			name: "sampler failure denies",
			opts: []Option{WithMaxWorkers(4), WithMinFreeMemory(1), WithSampler(func() (uint64, error) {
				return 0, errors.New("proc unavailable")
			})},
			running:    0,
			wantAdmit:  false,
			wantReason: "sample failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewController(tt.opts...).Decide(tt.running)
			if d.Admit != tt.wantAdmit {
				t.Errorf("Decide(%d).Admit = %v, want %v (reason: %s)", tt.running, d.Admit, tt.wantAdmit, d.Reason)
			}
			if tt.wantReason != "" && !strings.Contains(d.Reason, tt.wantReason) {
				t.Errorf("Decide(%d).Reason = %q, want it to contain %q", tt.running, d.Reason, tt.wantReason)
			}
		})
	}
}

func TestDecide_ResamplesEveryCall(t *testing.T) {
	calls := 0
	c := NewController(
		WithMaxWorkers(4),
		WithMinFreeMemory(1),
		WithSampler(func() (uint64, error) {
			calls++
			return 1 << 30, nil
		}),
	)

	for i := 0; i < 3; i++ {
		c.Decide(0)
	}
	if calls != 3 {
		t.Errorf("sampler called %d times for 3 decisions, want 3 (no caching)", calls)
	}
}

func TestDecide_NoSampleWhenSlotsFull(t *testing.T) {
	// The worker-limit check comes first; a full slot table must not cost
	// a memory sample.
	c := NewController(
		WithMaxWorkers(1),
		WithMinFreeMemory(1),
		WithSampler(func() (uint64, error) {
			t.Error("sampler called while worker limit already blocks")
			return 0, nil
		}),
	)
	c.Decide(1)
}

func TestNewController_Defaults(t *testing.T) {
	c := NewController()
	if c.maxWorkers < 1 {
		t.Errorf("default maxWorkers = %d, want >= 1", c.maxWorkers)
	}
	if c.minFreeMemory != defaultMinFreeMemory {
		t.Errorf("default minFreeMemory = %d, want %d", c.minFreeMemory, uint64(defaultMinFreeMemory))
	}
}

func TestWithMaxWorkers_IgnoresInvalid(t *testing.T) {
	c := NewController(WithMaxWorkers(0))
	if c.maxWorkers < 1 {
		t.Errorf("maxWorkers = %d after invalid option, want default", c.maxWorkers)
	}
}
