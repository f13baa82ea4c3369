package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/sampler"
)

type cpuCollector struct {
	deps Deps
}

func NewCPUCollector(d Deps) Collector { return &cpuCollector{deps: d.withDefaults()} }

func (c *cpuCollector) ID() string                { return "cpu" }
func (c *cpuCollector) Name() string              { return "CPU" }
func (c *cpuCollector) Description() string       { return "CPU usage from system counters, or this process when those are unreadable" }
func (c *cpuCollector) Impact() model.ImpactLevel { return model.ImpactNone }
func (c *cpuCollector) Warning() string           { return "" }

func (c *cpuCollector) MetricNames() []string {
	return []string{MetricCPUUsage}
}

// Collect reports system-wide usage when it is available. Outside system
// mode the per-process stream is sampled every tick so a fallback never
// starts cold, and it is reported only while the system stream has never
// produced a value.
func (c *cpuCollector) Collect(ctx context.Context) ([]model.MetricSample, error) {
	t := c.deps.Now()
	nowMs := t.UnixMilli()
	smp := c.deps.Sampler
	mode := c.deps.CPUSource

	var sys sampler.RateResult
	var sysErr error
	if mode != CPUSourceProcess {
		times, err := c.deps.Source.CPUTimes(ctx)
		if err != nil {
			sysErr = fmt.Errorf("cpu times: %w", err)
			sys = smp.FailSystemCPU(nowMs)
		} else {
			sys = smp.SampleSystemCPU(times, nowMs)
		}
		if !sys.Valid {
			log.Debug().Str("component", "cpu").Stringer("reason", sys.Reason).Msg("system cpu absent")
		}
	}

	var proc sampler.RateResult
	var procErr error
	if mode != CPUSourceSystem {
		proc, procErr = c.processUsage(ctx, nowMs)
	}

	switch {
	case sys.Valid:
		return []model.MetricSample{
			labeled(makeSample(t.Unix(), "cpu", MetricCPUUsage, sys.Value), CPUSourceSystem),
		}, nil
	case mode == CPUSourceSystem:
		return nil, sysErr
	case procErr != nil:
		if sysErr != nil {
			return nil, fmt.Errorf("%v; %w", sysErr, procErr)
		}
		return nil, procErr
	case !proc.Valid, mode == CPUSourceAuto && smp.SystemCPUActive():
		return nil, nil
	}
	return []model.MetricSample{
		labeled(makeSample(t.Unix(), "cpu", MetricCPUUsage, proc.Value), CPUSourceProcess),
	}, nil
}

func (c *cpuCollector) processUsage(ctx context.Context, nowMs int64) (sampler.RateResult, error) {
	ms, err := c.deps.Source.ProcessCPUTimeMs(ctx)
	if err != nil {
		return c.deps.Sampler.Fail(sampler.StreamAppCPU, nowMs), fmt.Errorf("process cpu: %w", err)
	}
	return c.deps.Sampler.SampleProcessCPU(ms, nowMs, c.deps.Source.CoreCount()), nil
}
