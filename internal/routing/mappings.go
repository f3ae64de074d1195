package routing

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadMappings reads a JSON array of location mappings from path. The file
// is produced upstream by the cell-to-network mapping step.
func LoadMappings(path string) ([]LocationMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mappings file: %w", err)
	}
	var mappings []LocationMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parse mappings file %s: %w", path, err)
	}
	return mappings, nil
}

// ValidateMappings checks that every mapping has a cell ID and that cell
// IDs are unique. Uniqueness is what guarantees artifact paths never
// collide in the shared output directory.
func ValidateMappings(mappings []LocationMapping) error {
	seen := make(map[string]struct{}, len(mappings))
	for i, m := range mappings {
		if m.CellID == "" {
			return fmt.Errorf("mapping %d has an empty cell ID", i)
		}
		if _, ok := seen[m.CellID]; ok {
			return fmt.Errorf("duplicate cell ID %q", m.CellID)
		}
		seen[m.CellID] = struct{}{}
	}
	return nil
}
