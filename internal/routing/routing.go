// Package routing defines the contract between the batch router and the
// multi-criteria route-search collaborator. The search algorithm itself
// lives behind the Runner interface; this package only fixes its inputs,
// its output artifact location, and the shared configuration handed to
// every task in a batch.
package routing

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ArtifactExt is the file extension of the per-origin output artifact.
// The artifact format is opaque to the batch layer.
const ArtifactExt = ".feather"

// LocationMapping identifies one unit of work: a spatial cell and the
// street-network node used as the search origin for that cell.
type LocationMapping struct {
	CellID string `json:"cell_id"`
	NodeID int64  `json:"node_id"`
}

// StepMatrix is an opaque handle to a matrix of route-search step builders.
// The batch layer never inspects it; only Runner implementations interpret
// its contents.
type StepMatrix any

// Config is the routing configuration shared by every task in one batch
// invocation. It is immutable after construction and passed by reference;
// no task may mutate it.
type Config struct {
	// InitialSteps are applied once at the start of each search.
	InitialSteps StepMatrix

	// RepeatingSteps are applied per transfer round.
	RepeatingSteps StepMatrix

	// StartTime is the departure time in HH:MM:SS format.
	StartTime string

	// MaxTransfers bounds the number of transfer rounds. Must be >= 0.
	MaxTransfers int
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("routing config is nil")
	}
	if _, err := ParseStartTime(c.StartTime); err != nil {
		return err
	}
	if c.MaxTransfers < 0 {
		return fmt.Errorf("max transfers must be >= 0, got %d", c.MaxTransfers)
	}
	return nil
}

// ParseStartTime parses an HH:MM:SS departure time and returns it as an
// offset from midnight.
func ParseStartTime(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q (want HH:MM:SS): %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// ArtifactPath returns the deterministic output path for one cell's
// artifact. Cell IDs are unique within a batch, so paths never collide.
func ArtifactPath(outputDir, cellID string) string {
	return filepath.Join(outputDir, cellID+ArtifactExt)
}
