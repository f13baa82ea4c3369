package collector

import "strings"

// MetricDesc holds a human-readable description and unit for a metric.
type MetricDesc struct {
	Description string `json:"description"`
	Unit        string `json:"unit"`
}

// metricDescriptions maps metric name patterns to descriptions.
// Use "*" as a wildcard segment.
var metricDescriptions = map[string]MetricDesc{
	MetricCPUUsage: {
		"Busy share of all CPU time since the previous sample (user, nice, system, irq, softirq and steal over the total). When system counters are unreadable this is the share used by telemon itself, labeled \"process\".",
		"%",
	},
	MetricMemUsedPct: {
		"Memory in use as a share of total, computed from available memory. Labeled with the pressure tier.",
		"%",
	},
	MetricMemPressure: {
		"Memory pressure tier: 0 Low (under 50% used), 1 Medium (under 80%), 2 High. A low-memory condition forces High.",
		"",
	},
	MetricMemTotal:     {"Total physical memory.", "bytes"},
	MetricMemAvailable: {"Memory available for new allocations without swapping.", "bytes"},
	MetricNetRxRate: {
		"Bytes received per second across all non-loopback interfaces. A counter that moved backwards reads as zero.",
		"bytes/s",
	},
	MetricNetTxRate: {
		"Bytes sent per second across all non-loopback interfaces. A counter that moved backwards reads as zero.",
		"bytes/s",
	},
	MetricThermalStatus: {
		"Thermal state of the hottest sensor: 0 None, 1 Light, 2 Moderate, 3 Severe, 4 Critical, 5 Emergency, 6 Shutdown, -1 Unknown.",
		"",
	},
	MetricBatteryLevel: {"Battery charge level. Labeled with the charging status.", "%"},
	MetricBatteryStatus: {
		"Charging status code: 2 Charging, 3 Discharging, 4 Not charging, 5 Full, otherwise Unknown.",
		"",
	},
	MetricBatteryHealth: {
		"Battery health code: 2 Good, 3 Overheat, 4 Dead, 5 Over voltage, 6 Unspecified failure, 7 Cold, otherwise Unknown.",
		"",
	},
}

// LookupMetricDesc finds the best matching description for a concrete metric name.
// It tries exact match first, then pattern matching with "*" wildcard.
func LookupMetricDesc(name string) MetricDesc {
	if d, ok := metricDescriptions[name]; ok {
		return d
	}

	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		trial := make([]string, len(parts))
		copy(trial, parts)
		trial[i] = "*"
		if d, ok := metricDescriptions[strings.Join(trial, ".")]; ok {
			return d
		}
	}
	return MetricDesc{}
}
