package collector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/sampler"
	"github.com/playok/telemon/internal/source"
)

func TestCPUCollectorSystem(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cpu: model.CPUTimes{User: 100, Idle: 900}}
	clk := newFakeClock()
	c := NewCPUCollector(Deps{Source: src, Sampler: sampler.New(), Now: clk.Now, CPUSource: CPUSourceSystem})

	samples, err := c.Collect(ctx)
	if err != nil || len(samples) != 0 {
		t.Fatalf("first collect = %+v, %v; want no samples", samples, err)
	}

	src.cpu = model.CPUTimes{User: 130, Idle: 970}
	clk.Advance(time.Second)
	samples, err = c.Collect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := findSample(samples, MetricCPUUsage)
	if !ok {
		t.Fatalf("no cpu sample in %+v", samples)
	}
	if s.Value != 30 || s.Labels != CPUSourceSystem {
		t.Errorf("cpu = %v (%s), want 30 (system)", s.Value, s.Labels)
	}
}

func TestCPUCollectorFallsBackToProcess(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cpuErr: errors.New("permission denied"), procMs: 0, cores: 2}
	clk := newFakeClock()
	c := NewCPUCollector(Deps{Source: src, Sampler: sampler.New(), Now: clk.Now})

	if samples, _ := c.Collect(ctx); len(samples) != 0 {
		t.Fatalf("first collect = %+v", samples)
	}

	// 500ms of CPU over 1s on 2 cores is 25%.
	src.procMs = 500
	clk.Advance(time.Second)
	samples, err := c.Collect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := findSample(samples, MetricCPUUsage)
	if !ok {
		t.Fatalf("no cpu sample in %+v", samples)
	}
	if s.Value != 25 || s.Labels != CPUSourceProcess {
		t.Errorf("cpu = %v (%s), want 25 (process)", s.Value, s.Labels)
	}
}

func TestCPUCollectorKeepsSystemAfterFailure(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cpu: model.CPUTimes{User: 100, Idle: 900}}
	clk := newFakeClock()
	smp := sampler.New()
	c := NewCPUCollector(Deps{Source: src, Sampler: smp, Now: clk.Now})

	c.Collect(ctx)
	src.cpu = model.CPUTimes{User: 150, Idle: 950}
	clk.Advance(time.Second)
	if samples, _ := c.Collect(ctx); len(samples) != 1 || samples[0].Labels != CPUSourceSystem {
		t.Fatalf("second collect = %+v", samples)
	}

	// A transient failure after the stream has produced must not switch
	// sources or emit a process value.
	src.cpuErr = errors.New("EIO")
	src.procMs = 900
	clk.Advance(time.Second)
	samples, err := c.Collect(ctx)
	if err != nil || len(samples) != 0 {
		t.Fatalf("failing collect = %+v, %v", samples, err)
	}
	if !smp.SystemCPUActive() {
		t.Fatal("system stream was reset by a transient failure")
	}

	src.cpuErr = nil
	src.cpu = model.CPUTimes{User: 200, Idle: 1000}
	clk.Advance(time.Second)
	samples, _ = c.Collect(ctx)
	if s, ok := findSample(samples, MetricCPUUsage); !ok || s.Value != 50 {
		t.Fatalf("recovered collect = %+v", samples)
	}
}

func TestMemoryCollector(t *testing.T) {
	tests := []struct {
		name  string
		mem   model.MemoryReading
		used  float64
		tier  string
		level float64
	}{
		{"low", model.MemoryReading{Total: 1000, Available: 600}, 40, classify.PressureLow, 0},
		{"medium", model.MemoryReading{Total: 1000, Available: 500}, 50, classify.PressureMedium, 1},
		{"high", model.MemoryReading{Total: 1000, Available: 200}, 80, classify.PressureHigh, 2},
		{"low memory flag", model.MemoryReading{Total: 1000, Available: 900, LowMemory: true}, 10, classify.PressureHigh, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMemoryCollector(Deps{Source: &fakeSource{mem: tt.mem}})
			samples, err := c.Collect(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			used, _ := findSample(samples, MetricMemUsedPct)
			if math.Abs(used.Value-tt.used) > 1e-9 || used.Labels != tt.tier {
				t.Errorf("used = %v (%s), want %v (%s)", used.Value, used.Labels, tt.used, tt.tier)
			}
			level, _ := findSample(samples, MetricMemPressure)
			if level.Value != tt.level {
				t.Errorf("pressure level = %v, want %v", level.Value, tt.level)
			}
		})
	}
}

func TestNetworkCollector(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{net: model.NetCounters{RxBytes: 1000, TxBytes: 5000}}
	clk := newFakeClock()
	c := NewNetworkCollector(Deps{Source: src, Sampler: sampler.New(), Now: clk.Now})

	if samples, _ := c.Collect(ctx); len(samples) != 0 {
		t.Fatalf("first collect = %+v", samples)
	}

	// RX grows by 1.5 MiB over 2s; TX counter went backwards.
	src.net = model.NetCounters{RxBytes: 1000 + 3*1024*1024, TxBytes: 10}
	clk.Advance(2 * time.Second)
	samples, err := c.Collect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	rx, ok := findSample(samples, MetricNetRxRate)
	if !ok || math.Abs(rx.Value-1.5*1024*1024) > 1e-6 || rx.Labels != "1.5 MB/s" {
		t.Errorf("rx = %+v", rx)
	}
	tx, ok := findSample(samples, MetricNetTxRate)
	if !ok || tx.Value != 0 || tx.Labels != "0 B/s" {
		t.Errorf("tx = %+v", tx)
	}

	// Same timestamp: absent, baselines untouched.
	samples, _ = c.Collect(ctx)
	if len(samples) != 0 {
		t.Errorf("zero-interval collect = %+v", samples)
	}
}

func TestNetworkCollectorFailureKeepsBaseline(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{net: model.NetCounters{RxBytes: 0}}
	clk := newFakeClock()
	c := NewNetworkCollector(Deps{Source: src, Sampler: sampler.New(), Now: clk.Now})
	c.Collect(ctx)

	src.netErr = errors.New("gone")
	clk.Advance(time.Second)
	if _, err := c.Collect(ctx); err == nil {
		t.Fatal("expected error")
	}

	src.netErr = nil
	src.net = model.NetCounters{RxBytes: 2048}
	clk.Advance(time.Second)
	samples, _ := c.Collect(ctx)
	rx, ok := findSample(samples, MetricNetRxRate)
	if !ok || math.Abs(rx.Value-1024) > 1e-9 {
		t.Errorf("rx after failure = %+v", samples)
	}
}

func TestThermalCollector(t *testing.T) {
	c := NewThermalCollector(Deps{Source: &fakeSource{thermal: int(classify.ThermalModerate)}})
	samples, err := c.Collect(context.Background())
	if err != nil || len(samples) != 1 {
		t.Fatalf("collect = %+v, %v", samples, err)
	}
	if samples[0].Value != 2 || samples[0].Labels != "Moderate" {
		t.Errorf("thermal = %+v", samples[0])
	}

	c = NewThermalCollector(Deps{Source: &fakeSource{thermalErr: source.ErrUnavailable}})
	samples, err = c.Collect(context.Background())
	if err != nil || len(samples) != 1 || samples[0].Labels != classify.Unknown {
		t.Errorf("unavailable thermal = %+v, %v", samples, err)
	}
}

func TestBatteryCollector(t *testing.T) {
	src := &fakeSource{battery: model.BatteryReading{
		Status: int(classify.BatteryStatusDischarging),
		Health: int(classify.BatteryHealthCold),
		Level:  12, Scale: 100,
	}}
	samples, err := NewBatteryCollector(Deps{Source: src}).Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	level, ok := findSample(samples, MetricBatteryLevel)
	if !ok || level.Value != 12 || level.Labels != "Discharging" {
		t.Errorf("level = %+v", level)
	}
	health, _ := findSample(samples, MetricBatteryHealth)
	if health.Labels != "Cold" {
		t.Errorf("health = %+v", health)
	}

	none := &fakeSource{batteryErr: source.ErrUnavailable}
	samples, err = NewBatteryCollector(Deps{Source: none}).Collect(context.Background())
	if err != nil || samples != nil {
		t.Errorf("no battery = %+v, %v", samples, err)
	}
}
