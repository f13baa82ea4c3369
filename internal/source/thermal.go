package source

import "github.com/playok/telemon/internal/classify"

// Marks used when a sensor does not report its own.
const (
	defaultHighC     = 80.0
	defaultCriticalC = 95.0
)

// TemperatureReading is one sensor temperature with its trip points in
// degrees Celsius. Zero marks mean "not reported".
type TemperatureReading struct {
	Temperature float64
	High        float64
	Critical    float64
}

// ThermalFromTemperatures maps the hottest sensor, relative to its own
// marks, onto the thermal status scale. With no usable sensor it returns
// classify.ThermalUnknown.
func ThermalFromTemperatures(temps []TemperatureReading) classify.ThermalStatus {
	status := classify.ThermalUnknown
	for _, t := range temps {
		if t.Temperature <= 0 {
			continue
		}
		if s := thermalLevel(t); s > status {
			status = s
		}
	}
	return status
}

func thermalLevel(t TemperatureReading) classify.ThermalStatus {
	high, crit := t.High, t.Critical
	if high <= 0 {
		high = defaultHighC
	}
	if crit <= 0 || crit < high {
		crit = defaultCriticalC
		if crit < high {
			crit = high + 15
		}
	}

	switch temp := t.Temperature; {
	case temp >= crit+5:
		return classify.ThermalEmergency
	case temp >= crit:
		return classify.ThermalCritical
	case temp >= high:
		return classify.ThermalSevere
	case temp >= high-10:
		return classify.ThermalModerate
	case temp >= high-20:
		return classify.ThermalLight
	default:
		return classify.ThermalNone
	}
}
