package collector

import (
	"context"
	"time"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/sampler"
	"github.com/playok/telemon/internal/source"
)

// Collector defines the interface for all metric collectors.
type Collector interface {
	// ID returns the unique identifier for this collector.
	ID() string
	// Name returns a human-readable name.
	Name() string
	// Description returns a description of what this collector does.
	Description() string
	// Impact returns the system load impact level.
	Impact() model.ImpactLevel
	// Warning returns an optional warning about using this collector.
	Warning() string
	// MetricNames returns the list of metric names this collector produces.
	MetricNames() []string
	// Collect gathers metrics and returns samples. A rate whose baseline
	// is still cold produces no sample rather than a zero.
	Collect(ctx context.Context) ([]model.MetricSample, error)
}

// Metric names produced by the built-in collectors.
const (
	MetricCPUUsage      = "cpu.usage"
	MetricMemUsedPct    = "mem.used_pct"
	MetricMemPressure   = "mem.pressure"
	MetricMemTotal      = "mem.total"
	MetricMemAvailable  = "mem.available"
	MetricNetRxRate     = "net.rx_bytes_sec"
	MetricNetTxRate     = "net.tx_bytes_sec"
	MetricThermalStatus = "thermal.status"
	MetricBatteryLevel  = "battery.level_pct"
	MetricBatteryStatus = "battery.status"
	MetricBatteryHealth = "battery.health"
)

// CPU source modes.
const (
	CPUSourceAuto    = "auto"
	CPUSourceSystem  = "system"
	CPUSourceProcess = "process"
)

// Deps are shared by the built-in collectors. One Sampler is shared so
// every rate stream has exactly one owner.
type Deps struct {
	Source    source.Source
	Sampler   *sampler.Sampler
	Now       func() time.Time
	CPUSource string
}

func (d Deps) withDefaults() Deps {
	if d.Sampler == nil {
		d.Sampler = sampler.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.CPUSource == "" {
		d.CPUSource = CPUSourceAuto
	}
	return d
}

// Builtin returns every built-in collector wired to d.
func Builtin(d Deps) []Collector {
	d = d.withDefaults()
	return []Collector{
		NewCPUCollector(d),
		NewMemoryCollector(d),
		NewNetworkCollector(d),
		NewThermalCollector(d),
		NewBatteryCollector(d),
	}
}

func makeSample(ts int64, collector, name string, value float64) model.MetricSample {
	return model.MetricSample{
		Timestamp:  ts,
		Collector:  collector,
		MetricName: name,
		Value:      value,
	}
}

func labeled(s model.MetricSample, labels string) model.MetricSample {
	s.Labels = labels
	return s
}
