package source

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/playok/telemon/internal/model"
)

// lowMemoryFraction is the share of total memory below which available
// memory counts as a low-memory condition.
const lowMemoryFraction = 0.05

// Host reads the local machine through gopsutil and sysfs.
type Host struct {
	// PowerSupplyDir overrides DefaultPowerSupplyDir.
	PowerSupplyDir string
	// LowMemoryFloor flags low memory when available bytes drop below it,
	// in addition to the fractional threshold. Zero disables it.
	LowMemoryFloor uint64

	pid int32
}

// NewHost returns a Host for the current process.
func NewHost() *Host {
	return &Host{PowerSupplyDir: DefaultPowerSupplyDir, pid: int32(os.Getpid())}
}

func (h *Host) CPUTimes(ctx context.Context) (model.CPUTimes, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return model.CPUTimes{}, fmt.Errorf("cpu times: %w", err)
	}
	if len(times) == 0 {
		return model.CPUTimes{}, fmt.Errorf("cpu times: %w", ErrUnavailable)
	}
	t := times[0]
	return model.CPUTimes{
		User:    t.User,
		Nice:    t.Nice,
		System:  t.System,
		Idle:    t.Idle,
		IOWait:  t.Iowait,
		IRQ:     t.Irq,
		SoftIRQ: t.Softirq,
		Steal:   t.Steal,
	}, nil
}

func (h *Host) ProcessCPUTimeMs(ctx context.Context) (float64, error) {
	p, err := process.NewProcessWithContext(ctx, h.pid)
	if err != nil {
		return 0, fmt.Errorf("process %d: %w", h.pid, err)
	}
	t, err := p.TimesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("process %d times: %w", h.pid, err)
	}
	return (t.User + t.System) * 1000, nil
}

func (h *Host) NetCounters(ctx context.Context) (model.NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return model.NetCounters{}, fmt.Errorf("net counters: %w", err)
	}
	var nc model.NetCounters
	for _, io := range counters {
		if isLoopback(io.Name) {
			continue
		}
		nc.RxBytes += io.BytesRecv
		nc.TxBytes += io.BytesSent
	}
	return nc, nil
}

func isLoopback(name string) bool {
	return name == "lo" || strings.HasPrefix(name, "lo0") || strings.HasPrefix(strings.ToLower(name), "loopback")
}

func (h *Host) Memory(ctx context.Context) (model.MemoryReading, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.MemoryReading{}, fmt.Errorf("virtual memory: %w", err)
	}
	return memoryReading(vm.Total, vm.Available, h.LowMemoryFloor), nil
}

func memoryReading(total, available, floor uint64) model.MemoryReading {
	low := total > 0 && float64(available) < float64(total)*lowMemoryFraction
	if floor > 0 && available < floor {
		low = true
	}
	return model.MemoryReading{Total: total, Available: available, LowMemory: low}
}

func (h *Host) Thermal(ctx context.Context) (int, error) {
	// gopsutil returns partial readings alongside a warnings error.
	temps, err := sensors.TemperaturesWithContext(ctx)
	readings := make([]TemperatureReading, 0, len(temps))
	for _, t := range temps {
		readings = append(readings, TemperatureReading{
			Temperature: t.Temperature,
			High:        t.High,
			Critical:    t.Critical,
		})
	}
	status := ThermalFromTemperatures(readings)
	if status < 0 {
		if err != nil {
			return int(status), fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return int(status), ErrUnavailable
	}
	return int(status), nil
}

func (h *Host) Battery(ctx context.Context) (model.BatteryReading, error) {
	dir := h.PowerSupplyDir
	if dir == "" {
		dir = DefaultPowerSupplyDir
	}
	return readBattery(dir)
}

func (h *Host) CoreCount() int { return runtime.NumCPU() }
