package collector

import (
	"testing"

	"github.com/playok/telemon/internal/model"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"cpu.usage", "cpu.usage", true},
		{"battery.*", "battery.health", true},
		{"*.usage", "cpu.usage", true},
		{"battery.*", "battery.level.pct", false},
		{"mem.used_pct", "mem.pressure", false},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestAlertEngineSeverity(t *testing.T) {
	e := NewAlertEngine()

	alerts := e.Evaluate([]model.MetricSample{{MetricName: MetricMemUsedPct, Value: 85}})
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityWarning {
		t.Fatalf("85%% = %+v", alerts)
	}

	alerts = e.Evaluate([]model.MetricSample{{MetricName: MetricMemUsedPct, Value: 95}})
	if len(alerts) != 1 || alerts[0].Severity != model.SeverityCritical {
		t.Fatalf("95%% = %+v", alerts)
	}
	if alerts[0].Threshold != 90 || alerts[0].ID != "alert-mem.used_pct" {
		t.Errorf("alert = %+v", alerts[0])
	}
}

func TestAlertEngineRecovery(t *testing.T) {
	e := NewAlertEngine()
	e.Evaluate([]model.MetricSample{{MetricName: MetricCPUUsage, Value: 99}})
	if n := len(e.ActiveAlerts()); n != 1 {
		t.Fatalf("active = %d, want 1", n)
	}

	// A batch without the metric keeps the alert.
	e.Evaluate([]model.MetricSample{{MetricName: MetricMemUsedPct, Value: 10}})
	if n := len(e.ActiveAlerts()); n != 1 {
		t.Fatalf("active after unrelated batch = %d, want 1", n)
	}

	e.Evaluate([]model.MetricSample{{MetricName: MetricCPUUsage, Value: 20}})
	if n := len(e.ActiveAlerts()); n != 0 {
		t.Fatalf("active after recovery = %d, want 0", n)
	}
}

func TestAlertEngineLabel(t *testing.T) {
	e := NewAlertEngine()
	charging := model.MetricSample{MetricName: MetricBatteryLevel, Value: 5, Labels: "Charging"}
	if alerts := e.Evaluate([]model.MetricSample{charging}); len(alerts) != 0 {
		t.Fatalf("charging battery alerted: %+v", alerts)
	}
	discharging := charging
	discharging.Labels = "Discharging"
	alerts := e.Evaluate([]model.MetricSample{discharging})
	if len(alerts) != 1 || alerts[0].Message != "Battery is at 5% and discharging" {
		t.Fatalf("discharging = %+v", alerts)
	}
}

func TestAlertEngineThermal(t *testing.T) {
	e := NewAlertEngine()
	if alerts := e.Evaluate([]model.MetricSample{{MetricName: MetricThermalStatus, Value: 2}}); len(alerts) != 0 {
		t.Fatalf("moderate alerted: %+v", alerts)
	}
	if alerts := e.Evaluate([]model.MetricSample{{MetricName: MetricThermalStatus, Value: 3}}); len(alerts) != 1 {
		t.Fatalf("severe did not alert")
	}
}

func TestCompileRulesSkipsBadOperator(t *testing.T) {
	rules := compileRules([]model.AlertRule{
		{MetricPattern: "cpu.usage", Operator: "between", Threshold: 1, Enabled: true},
		{MetricPattern: "cpu.usage", Operator: "gt", Threshold: 1, Enabled: false},
		{MetricPattern: "cpu.usage", Operator: "lte", Threshold: 1, Enabled: true},
	})
	if len(rules) != 1 {
		t.Fatalf("compiled %d rules, want 1", len(rules))
	}
	if !ValidOperator("gte") || ValidOperator("between") {
		t.Error("ValidOperator mismatch")
	}
}
