package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/playok/telemon/internal/classify"
	"github.com/playok/telemon/internal/model"
)

// DefaultPowerSupplyDir is where Linux exposes batteries.
const DefaultPowerSupplyDir = "/sys/class/power_supply"

var batteryStatusCodes = map[string]classify.BatteryStatus{
	"charging":     classify.BatteryStatusCharging,
	"discharging":  classify.BatteryStatusDischarging,
	"full":         classify.BatteryStatusFull,
	"not charging": classify.BatteryStatusNotCharging,
}

var batteryHealthCodes = map[string]classify.BatteryHealth{
	"good":                classify.BatteryHealthGood,
	"overheat":            classify.BatteryHealthOverheat,
	"dead":                classify.BatteryHealthDead,
	"over voltage":        classify.BatteryHealthOverVoltage,
	"unspecified failure": classify.BatteryHealthUnspecifiedFailure,
	"cold":                classify.BatteryHealthCold,
}

// readBattery reads the first BAT* supply under dir. Missing fields fall
// back to the Unknown codes; a missing level makes the whole reading
// unavailable.
func readBattery(dir string) (model.BatteryReading, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "BAT*"))
	if err != nil || len(matches) == 0 {
		return model.BatteryReading{}, ErrUnavailable
	}
	sort.Strings(matches)
	bat := matches[0]

	r := model.BatteryReading{
		Status: int(classify.BatteryStatusUnknown),
		Health: int(classify.BatteryHealthUnknown),
	}
	if v, err := FirstOf(FirstLine(filepath.Join(bat, "status"))); err == nil {
		if code, ok := batteryStatusCodes[strings.ToLower(v)]; ok {
			r.Status = int(code)
		}
	}
	if v, err := FirstOf(FirstLine(filepath.Join(bat, "health"))); err == nil {
		if code, ok := batteryHealthCodes[strings.ToLower(v)]; ok {
			r.Health = int(code)
		}
	}

	level, scale, err := batteryLevel(bat)
	if err != nil {
		return model.BatteryReading{}, err
	}
	r.Level, r.Scale = level, scale
	return r, nil
}

// batteryLevel prefers capacity (already a percentage) and falls back to
// energy or charge now/full pairs.
func batteryLevel(bat string) (level, scale int, err error) {
	if v, err := FirstOf(FirstLine(filepath.Join(bat, "capacity"))); err == nil {
		if n, err := strconv.Atoi(v); err == nil {
			return n, 100, nil
		}
	}
	for _, pair := range [][2]string{{"energy_now", "energy_full"}, {"charge_now", "charge_full"}} {
		now, err1 := readInt(filepath.Join(bat, pair[0]))
		full, err2 := readInt(filepath.Join(bat, pair[1]))
		if err1 == nil && err2 == nil && full > 0 {
			return now, full, nil
		}
	}
	return 0, 0, fmt.Errorf("battery level: %w", ErrUnavailable)
}

func readInt(path string) (int, error) {
	v, err := FirstOf(FirstLine(path))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}
