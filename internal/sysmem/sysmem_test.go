package sysmem

import "testing"

func TestPrettyBytes(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "0.00B"},
		{512, "512.00B"},
		{1024, "1.00KiB"},
		{1536, "1.50KiB"},
		{1 << 20, "1.00MiB"},
		{3 << 30, "3.00GiB"},
		{1 << 40, "1.00TiB"},
		{1 << 50, "1.00PiB"},
	}

	for _, tt := range tests {
		if got := PrettyBytes(tt.input); got != tt.want {
			t.Errorf("PrettyBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAvailableMemory(t *testing.T) {
	available, err := AvailableMemory()
	if err != nil {
		t.Fatalf("AvailableMemory() error: %v", err)
	}
	if available == 0 {
		t.Error("AvailableMemory() = 0, want a non-zero reading")
	}

	total, err := TotalMemory()
	if err != nil {
		t.Fatalf("TotalMemory() error: %v", err)
	}
	if available > total {
		t.Errorf("available %d exceeds total %d", available, total)
	}
}
