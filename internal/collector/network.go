package collector

import (
	"context"
	"fmt"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/sampler"
	"github.com/playok/telemon/internal/units"
)

type networkCollector struct {
	deps Deps
}

func NewNetworkCollector(d Deps) Collector { return &networkCollector{deps: d.withDefaults()} }

func (c *networkCollector) ID() string                { return "network" }
func (c *networkCollector) Name() string              { return "Network" }
func (c *networkCollector) Description() string       { return "Receive and transmit byte rates across non-loopback interfaces" }
func (c *networkCollector) Impact() model.ImpactLevel { return model.ImpactNone }
func (c *networkCollector) Warning() string           { return "" }

func (c *networkCollector) MetricNames() []string {
	return []string{MetricNetRxRate, MetricNetTxRate}
}

func (c *networkCollector) Collect(ctx context.Context) ([]model.MetricSample, error) {
	t := c.deps.Now()
	nowMs := t.UnixMilli()
	smp := c.deps.Sampler

	nc, err := c.deps.Source.NetCounters(ctx)
	if err != nil {
		smp.Fail(sampler.StreamNetRx, nowMs)
		smp.Fail(sampler.StreamNetTx, nowMs)
		return nil, fmt.Errorf("net counters: %w", err)
	}

	var samples []model.MetricSample
	streams := []struct {
		id     sampler.StreamID
		metric string
		raw    uint64
	}{
		{sampler.StreamNetRx, MetricNetRxRate, nc.RxBytes},
		{sampler.StreamNetTx, MetricNetTxRate, nc.TxBytes},
	}
	for _, s := range streams {
		r := smp.Sample(s.id, float64(s.raw), nowMs)
		if !r.Valid {
			continue
		}
		perSec := r.PerSecond()
		samples = append(samples,
			labeled(makeSample(t.Unix(), "network", s.metric, perSec), units.ByteRate(perSec)))
	}
	return samples, nil
}
