package routing

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// ExecRunner invokes an external route-search binary once per origin.
// Running the search in its own OS process gives each task a real memory
// isolation boundary: an out-of-memory kill takes down only that origin.
type ExecRunner struct {
	// Bin is the path to the route-search executable.
	Bin string

	// InitialStepsPath and RepeatingStepsPath are step-matrix spec files
	// passed through to the binary.
	InitialStepsPath   string
	RepeatingStepsPath string
}

// Run executes the binary for one origin. The process's combined output is
// forwarded to the task logger so it ends up in the error record on failure.
func (r *ExecRunner) Run(ctx context.Context, req Request) error {
	cmd := exec.CommandContext(ctx, r.Bin, r.args(req)...)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 && req.Log != nil {
		req.Log.Debug("router output", "output", string(out))
	}
	if err != nil {
		return fmt.Errorf("route search for node %d: %w", req.NodeID, err)
	}
	return nil
}

func (r *ExecRunner) args(req Request) []string {
	args := []string{
		"--start-node", strconv.FormatInt(req.NodeID, 10),
		"--start-time", req.Config.StartTime,
		"--max-transfers", strconv.Itoa(req.Config.MaxTransfers),
		"--output", req.OutputPath,
	}
	if r.InitialStepsPath != "" {
		args = append(args, "--initial-steps", r.InitialStepsPath)
	}
	if r.RepeatingStepsPath != "" {
		args = append(args, "--repeating-steps", r.RepeatingStepsPath)
	}
	return args
}
