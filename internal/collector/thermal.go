package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/source"
)

type thermalCollector struct {
	deps Deps
}

func NewThermalCollector(d Deps) Collector { return &thermalCollector{deps: d.withDefaults()} }

func (c *thermalCollector) ID() string                { return "thermal" }
func (c *thermalCollector) Name() string              { return "Thermal" }
func (c *thermalCollector) Description() string       { return "Thermal throttling state derived from hardware sensors" }
func (c *thermalCollector) Impact() model.ImpactLevel { return model.ImpactLow }
func (c *thermalCollector) Warning() string           { return "Reads every hardware sensor on each tick" }

func (c *thermalCollector) MetricNames() []string {
	return []string{MetricThermalStatus}
}

// Collect always reports a status; an unreadable sensor set reads as
// Unknown rather than None.
func (c *thermalCollector) Collect(ctx context.Context) ([]model.MetricSample, error) {
	now := c.deps.Now().Unix()

	code, err := c.deps.Source.Thermal(ctx)
	if err != nil {
		code = int(classify.ThermalUnknown)
		if !errors.Is(err, source.ErrUnavailable) {
			return []model.MetricSample{c.sample(now, code)}, fmt.Errorf("thermal: %w", err)
		}
	}
	return []model.MetricSample{c.sample(now, code)}, nil
}

func (c *thermalCollector) sample(now int64, code int) model.MetricSample {
	status := classify.ThermalStatus(code)
	return labeled(makeSample(now, "thermal", MetricThermalStatus, float64(code)), status.String())
}
