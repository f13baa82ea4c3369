package classify

// ThermalStatus is the platform thermal throttling state.
type ThermalStatus int

const (
	ThermalNone ThermalStatus = iota
	ThermalLight
	ThermalModerate
	ThermalSevere
	ThermalCritical
	ThermalEmergency
	ThermalShutdown
)

// ThermalUnknown is reported when no thermal source is readable.
const ThermalUnknown ThermalStatus = -1

var thermalNames = map[ThermalStatus]string{
	ThermalNone:      "None",
	ThermalLight:     "Light",
	ThermalModerate:  "Moderate",
	ThermalSevere:    "Severe",
	ThermalCritical:  "Critical",
	ThermalEmergency: "Emergency",
	ThermalShutdown:  "Shutdown",
}

func (t ThermalStatus) String() string {
	if name, ok := thermalNames[t]; ok {
		return name
	}
	return Unknown
}
