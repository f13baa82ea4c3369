package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/playok/telemon/internal/classify"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFirstOf(t *testing.T) {
	fail := func() (string, error) { return "", errors.New("boom") }
	empty := func() (string, error) { return "  \n", nil }
	ok := func(v string) Probe { return func() (string, error) { return v, nil } }

	tests := []struct {
		name    string
		probes  []Probe
		want    string
		wantErr bool
	}{
		{"first wins", []Probe{ok("a"), ok("b")}, "a", false},
		{"skips failure", []Probe{fail, ok("b")}, "b", false},
		{"skips empty", []Probe{empty, ok(" c ")}, "c", false},
		{"all fail", []Probe{fail, empty}, "", true},
		{"no probes", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstOf(tt.probes...)
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("err = %v, want ErrUnavailable", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("FirstOf() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value")
	writeFile(t, path, "42\nsecond\n")

	v, err := FirstOf(FirstLine(filepath.Join(dir, "missing")), FirstLine(path))
	if err != nil || v != "42" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestReadBattery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAT0", "status"), "Discharging\n")
	writeFile(t, filepath.Join(dir, "BAT0", "health"), "Good\n")
	writeFile(t, filepath.Join(dir, "BAT0", "capacity"), "73\n")

	r, err := readBattery(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != int(classify.BatteryStatusDischarging) {
		t.Errorf("status = %d", r.Status)
	}
	if r.Health != int(classify.BatteryHealthGood) {
		t.Errorf("health = %d", r.Health)
	}
	if r.Level != 73 || r.Scale != 100 {
		t.Errorf("level/scale = %d/%d", r.Level, r.Scale)
	}
}

func TestReadBatteryEnergyFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAT1", "status"), "Not charging\n")
	writeFile(t, filepath.Join(dir, "BAT1", "energy_now"), "25000000\n")
	writeFile(t, filepath.Join(dir, "BAT1", "energy_full"), "50000000\n")

	r, err := readBattery(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != int(classify.BatteryStatusNotCharging) {
		t.Errorf("status = %d", r.Status)
	}
	if r.Health != int(classify.BatteryHealthUnknown) {
		t.Errorf("health = %d, want unknown", r.Health)
	}
	pct, ok := classify.BatteryLevelPct(r.Level, r.Scale)
	if !ok || pct != 50 {
		t.Errorf("pct = %v, %v", pct, ok)
	}
}

func TestReadBatteryMissing(t *testing.T) {
	if _, err := readBattery(t.TempDir()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BAT0", "status"), "Full\n")
	if _, err := readBattery(dir); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("battery without level: err = %v", err)
	}
}

func TestThermalFromTemperatures(t *testing.T) {
	tests := []struct {
		name  string
		temps []TemperatureReading
		want  classify.ThermalStatus
	}{
		{"no sensors", nil, classify.ThermalUnknown},
		{"zero readings ignored", []TemperatureReading{{Temperature: 0}}, classify.ThermalUnknown},
		{"cool", []TemperatureReading{{Temperature: 40, High: 80, Critical: 100}}, classify.ThermalNone},
		{"light", []TemperatureReading{{Temperature: 60, High: 80, Critical: 100}}, classify.ThermalLight},
		{"moderate", []TemperatureReading{{Temperature: 75, High: 80, Critical: 100}}, classify.ThermalModerate},
		{"severe at high", []TemperatureReading{{Temperature: 80, High: 80, Critical: 100}}, classify.ThermalSevere},
		{"critical", []TemperatureReading{{Temperature: 100, High: 80, Critical: 100}}, classify.ThermalCritical},
		{"emergency", []TemperatureReading{{Temperature: 106, High: 80, Critical: 100}}, classify.ThermalEmergency},
		{"default marks", []TemperatureReading{{Temperature: 82}}, classify.ThermalSevere},
		{"hottest wins", []TemperatureReading{
			{Temperature: 40, High: 80, Critical: 100},
			{Temperature: 85, High: 80, Critical: 100},
		}, classify.ThermalSevere},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThermalFromTemperatures(tt.temps); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMemoryReading(t *testing.T) {
	tests := []struct {
		name             string
		total, available uint64
		floor            uint64
		low              bool
	}{
		{"plenty", 1000, 500, 0, false},
		{"under five percent", 1000, 40, 0, true},
		{"exactly five percent", 1000, 50, 0, false},
		{"below floor", 1000, 300, 400, true},
		{"zero total", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := memoryReading(tt.total, tt.available, tt.floor)
			if r.LowMemory != tt.low {
				t.Errorf("LowMemory = %v, want %v", r.LowMemory, tt.low)
			}
		})
	}
}

func TestIsLoopback(t *testing.T) {
	for name, want := range map[string]bool{"lo": true, "lo0": true, "Loopback Pseudo-Interface 1": true, "eth0": false, "wlan0": false} {
		if got := isLoopback(name); got != want {
			t.Errorf("isLoopback(%q) = %v, want %v", name, got, want)
		}
	}
}
