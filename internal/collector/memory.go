package collector

import (
	"context"
	"fmt"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
)

type memoryCollector struct {
	deps Deps
}

func NewMemoryCollector(d Deps) Collector { return &memoryCollector{deps: d.withDefaults()} }

func (c *memoryCollector) ID() string                { return "memory" }
func (c *memoryCollector) Name() string              { return "Memory" }
func (c *memoryCollector) Description() string       { return "Memory usage and pressure tier" }
func (c *memoryCollector) Impact() model.ImpactLevel { return model.ImpactNone }
func (c *memoryCollector) Warning() string           { return "" }

func (c *memoryCollector) MetricNames() []string {
	return []string{MetricMemUsedPct, MetricMemPressure, MetricMemTotal, MetricMemAvailable}
}

func (c *memoryCollector) Collect(ctx context.Context) ([]model.MetricSample, error) {
	now := c.deps.Now().Unix()

	m, err := c.deps.Source.Memory(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	used := classify.MemoryUsedPct(m.Total, m.Available)
	tier := classify.MemoryPressure(used, m.LowMemory)
	return []model.MetricSample{
		labeled(makeSample(now, "memory", MetricMemUsedPct, used), tier),
		labeled(makeSample(now, "memory", MetricMemPressure, float64(classify.PressureLevel(tier))), tier),
		makeSample(now, "memory", MetricMemTotal, float64(m.Total)),
		makeSample(now, "memory", MetricMemAvailable, float64(m.Available)),
	}, nil
}
