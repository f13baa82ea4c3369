package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/source"
)

type batteryCollector struct {
	deps Deps
}

func NewBatteryCollector(d Deps) Collector { return &batteryCollector{deps: d.withDefaults()} }

func (c *batteryCollector) ID() string                { return "battery" }
func (c *batteryCollector) Name() string              { return "Battery" }
func (c *batteryCollector) Description() string       { return "Battery level, charging status and health" }
func (c *batteryCollector) Impact() model.ImpactLevel { return model.ImpactNone }
func (c *batteryCollector) Warning() string           { return "" }

func (c *batteryCollector) MetricNames() []string {
	return []string{MetricBatteryLevel, MetricBatteryStatus, MetricBatteryHealth}
}

func (c *batteryCollector) Collect(ctx context.Context) ([]model.MetricSample, error) {
	now := c.deps.Now().Unix()

	b, err := c.deps.Source.Battery(ctx)
	if errors.Is(err, source.ErrUnavailable) {
		return nil, nil // no battery, skip silently
	}
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}

	status := classify.BatteryStatus(b.Status).String()
	samples := []model.MetricSample{
		labeled(makeSample(now, "battery", MetricBatteryStatus, float64(b.Status)), status),
		labeled(makeSample(now, "battery", MetricBatteryHealth, float64(b.Health)), classify.BatteryHealth(b.Health).String()),
	}
	if pct, ok := classify.BatteryLevelPct(b.Level, b.Scale); ok {
		samples = append(samples, labeled(makeSample(now, "battery", MetricBatteryLevel, pct), status))
	}
	return samples, nil
}
