package routing

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "morning", input: "08:00:00", want: 8 * time.Hour},
		{name: "midnight", input: "00:00:00", want: 0},
		{name: "with minutes and seconds", input: "09:30:15", want: 9*time.Hour + 30*time.Minute + 15*time.Second},
		{name: "last second of day", input: "23:59:59", want: 23*time.Hour + 59*time.Minute + 59*time.Second},
		{name: "missing seconds", input: "08:00", wantErr: true},
		{name: "hour out of range", input: "25:00:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "morning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStartTime(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStartTime(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStartTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  &Config{StartTime: "08:00:00", MaxTransfers: 2},
		},
		{
			name: "zero transfers allowed",
			cfg:  &Config{StartTime: "08:00:00", MaxTransfers: 0},
		},
		{
			name:    "negative transfers",
			cfg:     &Config{StartTime: "08:00:00", MaxTransfers: -1},
			wantErr: true,
		},
		{
			name:    "bad start time",
			cfg:     &Config{StartTime: "8am", MaxTransfers: 2},
			wantErr: true,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	got := ArtifactPath("/out", "8a2a1072b59ffff")
	want := filepath.Join("/out", "8a2a1072b59ffff.feather")
	if got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
}
