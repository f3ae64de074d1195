package routing

import (
	"slices"
	"testing"
)

func TestExecRunnerArgs(t *testing.T) {
	cfg := &Config{StartTime: "08:00:00", MaxTransfers: 3}
	req := Request{NodeID: 4242, Config: cfg, OutputPath: "/out/cell.feather"}

	t.Run("without step matrices", func(t *testing.T) {
		r := &ExecRunner{Bin: "mcr-router"}
		want := []string{
			"--start-node", "4242",
			"--start-time", "08:00:00",
			"--max-transfers", "3",
			"--output", "/out/cell.feather",
		}
		if got := r.args(req); !slices.Equal(got, want) {
			t.Errorf("args() = %v, want %v", got, want)
		}
	})

	t.Run("with step matrices", func(t *testing.T) {
		r := &ExecRunner{
			Bin:                "mcr-router",
			InitialStepsPath:   "initial.json",
			RepeatingStepsPath: "repeating.json",
		}
		got := r.args(req)
		if !slices.Contains(got, "--initial-steps") || !slices.Contains(got, "initial.json") {
			t.Errorf("args() missing initial steps: %v", got)
		}
		if !slices.Contains(got, "--repeating-steps") || !slices.Contains(got, "repeating.json") {
			t.Errorf("args() missing repeating steps: %v", got)
		}
	})
}
