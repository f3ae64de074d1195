// Package manifest defines the structured failure records produced by
// worker tasks and the per-batch manifest that persists them.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileName is the manifest file written into the batch output directory.
// Its presence signals that the batch completed its draining phase.
const FileName = "errors.json"

// ErrorRecord captures one task's failure. It is created by the failing
// worker, handed to the supervisor over the error channel, and immutable
// from then on.
type ErrorRecord struct {
	CellID       string `json:"cell_id"`
	NodeID       int64  `json:"node_id"`
	StartTime    string `json:"start_time"`
	MaxTransfers int    `json:"max_transfers"`
	OutputPath   string `json:"output_path"`
	Error        string `json:"error"`
	Logs         string `json:"logs,omitempty"`
}

// BatchManifest is the ordered collection of all error records from one
// batch invocation. Record order reflects completion order, not submission
// order.
type BatchManifest struct {
	BatchID   string        `json:"batch_id"`
	CreatedAt time.Time     `json:"created_at"`
	Errors    []ErrorRecord `json:"errors"`
}

// New creates a manifest for the given records with a fresh batch ID.
func New(records []ErrorRecord) *BatchManifest {
	if records == nil {
		records = []ErrorRecord{}
	}
	return &BatchManifest{
		BatchID:   uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Errors:    records,
	}
}

// Save writes the manifest to dir as JSON. The write is atomic: data goes
// to a temporary file first, then is renamed into place.
func (m *BatchManifest) Save(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	target := filepath.Join(dir, FileName)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp manifest: %w", err)
	}
	return nil
}

// Load reads a previously saved manifest from dir.
func Load(dir string) (*BatchManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m BatchManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if m.Errors == nil {
		m.Errors = []ErrorRecord{}
	}
	return &m, nil
}
