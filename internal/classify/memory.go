package classify

const (
	PressureLow    = "Low"
	PressureMedium = "Medium"
	PressureHigh   = "High"
)

// MemoryUsedPct returns (total-available)/total*100. A zero total reads
// as 0% and available above total is clamped.
func MemoryUsedPct(total, available uint64) float64 {
	if total == 0 {
		return 0
	}
	if available > total {
		available = total
	}
	return float64(total-available) * 100 / float64(total)
}

// MemoryPressure returns Low below 50%, Medium below 80%, otherwise High.
// A platform low-memory signal forces High.
func MemoryPressure(usedPct float64, lowMemory bool) string {
	switch {
	case lowMemory:
		return PressureHigh
	case usedPct < 50:
		return PressureLow
	case usedPct < 80:
		return PressureMedium
	default:
		return PressureHigh
	}
}

// PressureLevel returns 0, 1 or 2 for Low, Medium and High.
func PressureLevel(tier string) int {
	switch tier {
	case PressureLow:
		return 0
	case PressureMedium:
		return 1
	default:
		return 2
	}
}
