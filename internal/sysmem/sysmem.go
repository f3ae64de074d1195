// Package sysmem reports live system memory for admission decisions.
package sysmem

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// Sampler reads currently available system memory in bytes. The admission
// controller takes one so tests can substitute fixed readings.
type Sampler func() (uint64, error)

// AvailableMemory returns the memory currently available to new
// allocations, as reported by the host OS. Stateless; every call is a
// fresh snapshot.
func AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read virtual memory stats: %w", err)
	}
	return vm.Available, nil
}

// TotalMemory returns the total physical memory of the host.
func TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read virtual memory stats: %w", err)
	}
	return vm.Total, nil
}

// PrettyBytes formats a byte count using binary units.
func PrettyBytes(b uint64) string {
	f := float64(b)
	for _, unit := range []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"} {
		if f < 1024 {
			return fmt.Sprintf("%.2f%s", f, unit)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.2fEiB", f)
}
