package collector

import (
	"testing"

	"github.com/playok/telemon/internal/model"
)

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(1, nil)
	for name, v := range map[string]string{
		"cpu": snap.CPU, "memory": snap.Memory, "pressure": snap.MemoryPressure,
		"down": snap.NetworkDown, "up": snap.NetworkUp, "thermal": snap.Thermal,
		"battery": snap.Battery, "health": snap.BatteryHealth,
	} {
		if v != NoData {
			t.Errorf("%s = %q, want %q", name, v, NoData)
		}
	}
}

func TestBuildSnapshot(t *testing.T) {
	latest := LatestByMetric([]model.MetricSample{
		{Timestamp: 1, MetricName: MetricCPUUsage, Value: 99, Labels: "system"},
		{Timestamp: 2, MetricName: MetricCPUUsage, Value: 12.34, Labels: "process"},
		{Timestamp: 2, MetricName: MetricMemUsedPct, Value: 82},
		{Timestamp: 2, MetricName: MetricNetRxRate, Value: 512},
		{Timestamp: 2, MetricName: MetricThermalStatus, Value: 9},
		{Timestamp: 2, MetricName: MetricBatteryLevel, Value: 73, Labels: "Charging"},
		{Timestamp: 2, MetricName: MetricBatteryStatus, Value: 2, Labels: "Charging"},
		{Timestamp: 2, MetricName: MetricBatteryHealth, Value: 2},
	})
	snap := BuildSnapshot(2, latest)

	want := model.Snapshot{
		Timestamp:      2,
		CPU:            "12.3%",
		CPUSource:      "process",
		Memory:         "82.0%",
		MemoryPressure: "High",
		NetworkDown:    "512 B/s",
		NetworkUp:      NoData,
		Thermal:        "Unknown",
		Battery:        "73% (Charging)",
		BatteryHealth:  "Good",
	}
	if snap != want {
		t.Errorf("snapshot =\n%+v\nwant\n%+v", snap, want)
	}
}
