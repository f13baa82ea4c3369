// Package source reads the raw OS counters and point-in-time readings the
// collectors sample. Every reading can fail; callers treat a failure as an
// absent value, never as zero.
package source

import (
	"context"
	"errors"

	"github.com/playok/telemon/internal/model"
)

// ErrUnavailable is returned when no probe could produce a reading.
var ErrUnavailable = errors.New("source unavailable")

// Source supplies counter and state readings.
type Source interface {
	// CPUTimes returns the aggregate CPU accounting buckets.
	CPUTimes(ctx context.Context) (model.CPUTimes, error)
	// ProcessCPUTimeMs returns user+system CPU time consumed by this process.
	ProcessCPUTimeMs(ctx context.Context) (float64, error)
	// NetCounters returns cumulative RX/TX bytes across non-loopback interfaces.
	NetCounters(ctx context.Context) (model.NetCounters, error)
	Memory(ctx context.Context) (model.MemoryReading, error)
	// Thermal returns a thermal status code (see classify.ThermalStatus).
	Thermal(ctx context.Context) (int, error)
	Battery(ctx context.Context) (model.BatteryReading, error)
	CoreCount() int
}
