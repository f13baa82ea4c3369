package collector

import (
	"context"
	"sync"
	"time"

	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/source"
)

// fakeSource returns scripted readings. Nil error fields mean success.
type fakeSource struct {
	mu         sync.Mutex
	cpu        model.CPUTimes
	cpuErr     error
	procMs     float64
	procErr    error
	net        model.NetCounters
	netErr     error
	mem        model.MemoryReading
	memErr     error
	thermal    int
	thermalErr error
	battery    model.BatteryReading
	batteryErr error
	cores      int
}

var _ source.Source = (*fakeSource)(nil)

func (f *fakeSource) CPUTimes(context.Context) (model.CPUTimes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cpu, f.cpuErr
}

func (f *fakeSource) ProcessCPUTimeMs(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.procMs, f.procErr
}

func (f *fakeSource) NetCounters(context.Context) (model.NetCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.net, f.netErr
}

func (f *fakeSource) Memory(context.Context) (model.MemoryReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mem, f.memErr
}

func (f *fakeSource) Thermal(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.thermal, f.thermalErr
}

func (f *fakeSource) Battery(context.Context) (model.BatteryReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.battery, f.batteryErr
}

func (f *fakeSource) CoreCount() int {
	if f.cores == 0 {
		return 1
	}
	return f.cores
}

// fakeClock advances only when told to.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func findSample(samples []model.MetricSample, name string) (model.MetricSample, bool) {
	for _, s := range samples {
		if s.MetricName == name {
			return s, true
		}
	}
	return model.MetricSample{}, false
}
