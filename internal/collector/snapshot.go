package collector

import (
	"fmt"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/units"
)

// NoData is shown for a field that has no sample yet.
const NoData = "-"

// BuildSnapshot formats the latest sample of each metric into display
// strings. latest is keyed by metric name.
func BuildSnapshot(ts int64, latest map[string]model.MetricSample) model.Snapshot {
	snap := model.Snapshot{
		Timestamp:      ts,
		CPU:            NoData,
		Memory:         NoData,
		MemoryPressure: NoData,
		NetworkDown:    NoData,
		NetworkUp:      NoData,
		Thermal:        NoData,
		Battery:        NoData,
		BatteryHealth:  NoData,
	}

	if s, ok := latest[MetricCPUUsage]; ok {
		snap.CPU = units.Percent(s.Value)
		snap.CPUSource = s.Labels
	}
	if s, ok := latest[MetricMemUsedPct]; ok {
		snap.Memory = units.Percent(s.Value)
		snap.MemoryPressure = labelOr(s.Labels, classify.MemoryPressure(s.Value, false))
	}
	if s, ok := latest[MetricNetRxRate]; ok {
		snap.NetworkDown = labelOr(s.Labels, units.ByteRate(s.Value))
	}
	if s, ok := latest[MetricNetTxRate]; ok {
		snap.NetworkUp = labelOr(s.Labels, units.ByteRate(s.Value))
	}
	if s, ok := latest[MetricThermalStatus]; ok {
		snap.Thermal = labelOr(s.Labels, classify.ThermalStatus(int(s.Value)).String())
	}
	if s, ok := latest[MetricBatteryLevel]; ok {
		snap.Battery = fmt.Sprintf("%.0f%%", s.Value)
		if st, ok := latest[MetricBatteryStatus]; ok {
			snap.Battery += " (" + labelOr(st.Labels, classify.BatteryStatus(int(st.Value)).String()) + ")"
		}
	}
	if s, ok := latest[MetricBatteryHealth]; ok {
		snap.BatteryHealth = labelOr(s.Labels, classify.BatteryHealth(int(s.Value)).String())
	}
	return snap
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// LatestByMetric keeps the newest sample of each metric name.
func LatestByMetric(samples []model.MetricSample) map[string]model.MetricSample {
	latest := make(map[string]model.MetricSample, len(samples))
	for _, s := range samples {
		if prev, ok := latest[s.MetricName]; !ok || s.Timestamp >= prev.Timestamp {
			latest[s.MetricName] = s
		}
	}
	return latest
}
