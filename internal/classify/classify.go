// Package classify maps sampled values and platform enum codes to the
// discrete tiers shown to users. Everything here is a pure function.
package classify

// Unknown is returned for values outside every known table.
const Unknown = "Unknown"

// Kind selects a classification table.
type Kind string

const (
	KindMemoryPressure Kind = "memory_pressure"
	KindThermal        Kind = "thermal"
	KindBatteryStatus  Kind = "battery_status"
	KindBatteryHealth  Kind = "battery_health"
)

// Classify maps value to a tier name using the table for kind. For
// KindMemoryPressure value is the used percentage; for the enum kinds it
// is the platform code.
func Classify(kind Kind, value float64) string {
	switch kind {
	case KindMemoryPressure:
		return MemoryPressure(value, false)
	case KindThermal:
		return ThermalStatus(int(value)).String()
	case KindBatteryStatus:
		return BatteryStatus(int(value)).String()
	case KindBatteryHealth:
		return BatteryHealth(int(value)).String()
	default:
		return Unknown
	}
}
