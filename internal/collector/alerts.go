package collector

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

// AlertRule defines a condition that triggers an alert.
type AlertRule struct {
	MetricPattern string             // metric name or pattern with "*" segments
	Condition     func(float64) bool // returns true when alert should fire
	Threshold     float64            // threshold value for alert metadata
	Label         string
	Severity      model.AlertSeverity
	Message       string // format string with one %v for the value
}

// AlertEngine evaluates metric samples against rules and generates alerts.
type AlertEngine struct {
	mu     sync.RWMutex
	rules  []AlertRule
	active map[string]model.Alert // keyed by metric name to deduplicate
	now    func() time.Time
}

// NewAlertEngine creates an engine with the default rules.
func NewAlertEngine() *AlertEngine {
	return &AlertEngine{
		rules:  compileRules(DefaultAlertRuleModels()),
		active: make(map[string]model.Alert),
		now:    time.Now,
	}
}

// LoadRules loads enabled rules from the database and replaces the in-memory rules.
func (e *AlertEngine) LoadRules(db *store.Store) error {
	models, err := db.ListAlertRules()
	if err != nil {
		return fmt.Errorf("load alert rules: %w", err)
	}
	rules := compileRules(models)
	e.mu.Lock()
	e.rules = rules
	e.mu.Unlock()
	log.Info().Str("component", "alerts").Int("rules", len(rules)).Msg("loaded rules")
	return nil
}

func compileRules(models []model.AlertRule) []AlertRule {
	var rules []AlertRule
	for _, m := range models {
		if !m.Enabled {
			continue
		}
		cond := buildCondition(m.Operator, m.Threshold)
		if cond == nil {
			log.Warn().Str("component", "alerts").Str("operator", m.Operator).Int64("rule", m.ID).Msg("unknown operator, skipping rule")
			continue
		}
		rules = append(rules, AlertRule{
			MetricPattern: m.MetricPattern,
			Condition:     cond,
			Threshold:     m.Threshold,
			Label:         m.Label,
			Severity:      m.Severity,
			Message:       m.Message,
		})
	}
	return rules
}

// ValidOperator reports whether op is a known comparison operator.
func ValidOperator(op string) bool { return buildCondition(op, 0) != nil }

// buildCondition creates a comparison function from operator string and threshold.
func buildCondition(op string, threshold float64) func(float64) bool {
	switch op {
	case "gt":
		return func(v float64) bool { return v > threshold }
	case "gte":
		return func(v float64) bool { return v >= threshold }
	case "lt":
		return func(v float64) bool { return v < threshold }
	case "lte":
		return func(v float64) bool { return v <= threshold }
	default:
		return nil
	}
}

// DefaultAlertRuleModels returns the default rules as model.AlertRule for DB seeding.
func DefaultAlertRuleModels() []model.AlertRule {
	return []model.AlertRule{
		{MetricPattern: MetricCPUUsage, Operator: "gt", Threshold: 90, Severity: model.SeverityCritical, Enabled: true,
			Message: "CPU usage is very high at %.1f%%"},
		{MetricPattern: MetricMemUsedPct, Operator: "gt", Threshold: 90, Severity: model.SeverityCritical, Enabled: true,
			Message: "Memory usage is critically high at %.1f%%"},
		{MetricPattern: MetricMemUsedPct, Operator: "gt", Threshold: 80, Severity: model.SeverityWarning, Enabled: true,
			Message: "Memory usage is high at %.1f%%"},
		{MetricPattern: MetricThermalStatus, Operator: "gte", Threshold: float64(classify.ThermalSevere), Severity: model.SeverityCritical, Enabled: true,
			Message: "Thermal state is %.0f, the system is throttling"},
		{MetricPattern: MetricBatteryLevel, Operator: "lt", Threshold: 15, Label: classify.BatteryStatusDischarging.String(), Severity: model.SeverityWarning, Enabled: true,
			Message: "Battery is at %.0f%% and discharging"},
	}
}

var severityRank = map[model.AlertSeverity]int{
	model.SeverityInfo:     0,
	model.SeverityWarning:  1,
	model.SeverityCritical: 2,
}

// Evaluate checks samples against rules and returns the alerts that fire
// in this batch. When several rules match one metric the most severe wins.
// An active alert clears once its metric is sampled without firing; a
// metric missing from the batch keeps its alert.
func (e *AlertEngine) Evaluate(samples []model.MetricSample) []model.Alert {
	now := e.now().Unix()
	triggered := make(map[string]model.Alert)
	seen := make(map[string]bool)

	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for _, s := range samples {
		seen[s.MetricName] = true
		for _, rule := range rules {
			if !matchPattern(rule.MetricPattern, s.MetricName) {
				continue
			}
			if rule.Label != "" && rule.Label != s.Labels {
				continue
			}
			if !rule.Condition(s.Value) {
				continue
			}
			if prev, ok := triggered[s.MetricName]; ok && severityRank[prev.Severity] >= severityRank[rule.Severity] {
				continue
			}
			triggered[s.MetricName] = model.Alert{
				ID:        "alert-" + s.MetricName,
				Timestamp: now,
				Severity:  rule.Severity,
				Metric:    s.MetricName,
				Value:     s.Value,
				Threshold: rule.Threshold,
				Message:   fmt.Sprintf(rule.Message, s.Value),
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for key := range e.active {
		if _, still := triggered[key]; seen[key] && !still {
			delete(e.active, key)
		}
	}

	result := make([]model.Alert, 0, len(triggered))
	for key, alert := range triggered {
		e.active[key] = alert
		result = append(result, alert)
	}
	return result
}

// ActiveAlerts returns all currently active alerts.
func (e *AlertEngine) ActiveAlerts() []model.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	result := make([]model.Alert, 0, len(e.active))
	for _, a := range e.active {
		result = append(result, a)
	}
	return result
}

// matchPattern checks if a metric name matches a rule pattern.
// Supports exact match and wildcard "*" segments (e.g. "battery.*").
func matchPattern(pattern, name string) bool {
	if pattern == name {
		return true
	}
	pp := splitDot(pattern)
	np := splitDot(name)
	if len(pp) != len(np) {
		return false
	}
	for i := range pp {
		if pp[i] == "*" {
			continue
		}
		if pp[i] != np[i] {
			return false
		}
	}
	return true
}

func splitDot(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
