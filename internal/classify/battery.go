package classify

// BatteryStatus uses the Android BatteryManager status codes, which the
// sysfs reader in package source also produces.
type BatteryStatus int

const (
	BatteryStatusUnknown     BatteryStatus = 1
	BatteryStatusCharging    BatteryStatus = 2
	BatteryStatusDischarging BatteryStatus = 3
	BatteryStatusNotCharging BatteryStatus = 4
	BatteryStatusFull        BatteryStatus = 5
)

func (s BatteryStatus) String() string {
	switch s {
	case BatteryStatusCharging:
		return "Charging"
	case BatteryStatusDischarging:
		return "Discharging"
	case BatteryStatusFull:
		return "Full"
	case BatteryStatusNotCharging:
		return "Not charging"
	default:
		return Unknown
	}
}

// BatteryHealth uses the Android BatteryManager health codes.
type BatteryHealth int

const (
	BatteryHealthUnknown            BatteryHealth = 1
	BatteryHealthGood               BatteryHealth = 2
	BatteryHealthOverheat           BatteryHealth = 3
	BatteryHealthDead               BatteryHealth = 4
	BatteryHealthOverVoltage        BatteryHealth = 5
	BatteryHealthUnspecifiedFailure BatteryHealth = 6
	BatteryHealthCold               BatteryHealth = 7
)

func (h BatteryHealth) String() string {
	switch h {
	case BatteryHealthGood:
		return "Good"
	case BatteryHealthOverheat:
		return "Overheat"
	case BatteryHealthDead:
		return "Dead"
	case BatteryHealthOverVoltage:
		return "Over voltage"
	case BatteryHealthUnspecifiedFailure:
		return "Unspecified failure"
	case BatteryHealthCold:
		return "Cold"
	default:
		return Unknown
	}
}

// BatteryLevelPct converts a level/scale pair to a percentage. ok is false
// when either value is missing.
func BatteryLevelPct(level, scale int) (pct float64, ok bool) {
	if level < 0 || scale <= 0 {
		return 0, false
	}
	return float64(level) * 100 / float64(scale), true
}
