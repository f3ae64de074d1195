package routing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mappings.json")
	data := `[
		{"cell_id": "8a2a1072b59ffff", "node_id": 12345},
		{"cell_id": "8a2a1072b5bffff", "node_id": 67890}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	mappings, err := LoadMappings(path)
	if err != nil {
		t.Fatalf("LoadMappings() unexpected error: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("LoadMappings() returned %d mappings, want 2", len(mappings))
	}
	if mappings[0].CellID != "8a2a1072b59ffff" || mappings[0].NodeID != 12345 {
		t.Errorf("mappings[0] = %+v", mappings[0])
	}
	if mappings[1].CellID != "8a2a1072b5bffff" || mappings[1].NodeID != 67890 {
		t.Errorf("mappings[1] = %+v", mappings[1])
	}
}

func TestLoadMappings_Errors(t *testing.T) {
	if _, err := LoadMappings(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadMappings() with missing file: want error")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMappings(path); err == nil {
		t.Error("LoadMappings() with malformed file: want error")
	}
}

func TestValidateMappings(t *testing.T) {
	tests := []struct {
		name     string
		mappings []LocationMapping
		wantErr  bool
	}{
		{
			name: "unique",
			mappings: []LocationMapping{
				{CellID: "a", NodeID: 1},
				{CellID: "b", NodeID: 2},
			},
		},
		{
			name:     "empty list",
			mappings: nil,
		},
		{
			name: "duplicate cell",
			mappings: []LocationMapping{
				{CellID: "a", NodeID: 1},
				{CellID: "a", NodeID: 2},
			},
			wantErr: true,
		},
		{
			name: "empty cell id",
			mappings: []LocationMapping{
				{CellID: "", NodeID: 1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMappings(tt.mappings)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMappings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
