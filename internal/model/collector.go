package model

// CollectorState represents the persisted enabled state of a collector.
type CollectorState struct {
	CollectorID string `json:"collector_id"`
	Enabled     bool   `json:"enabled"`
}

// ImpactLevel describes the system load impact of a collector.
type ImpactLevel string

const (
	ImpactNone   ImpactLevel = "none"
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
)

// MetricState describes a single metric produced by a collector.
type MetricState struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// CollectorInfo describes a collector for the API.
type CollectorInfo struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Impact       ImpactLevel   `json:"impact"`
	Warning      string        `json:"warning,omitempty"`
	Enabled      bool          `json:"enabled"`
	MetricStates []MetricState `json:"metrics"`
}

// Setting is a runtime key-value override persisted in the store.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
