package model

// CPUTimes is one reading of the aggregate CPU accounting buckets. Units
// are whatever the platform reports (seconds from gopsutil, jiffies from
// /proc/stat); only deltas between readings are meaningful.
type CPUTimes struct {
	User    float64 `json:"user"`
	Nice    float64 `json:"nice"`
	System  float64 `json:"system"`
	Idle    float64 `json:"idle"`
	IOWait  float64 `json:"iowait"`
	IRQ     float64 `json:"irq"`
	SoftIRQ float64 `json:"softirq"`
	Steal   float64 `json:"steal"`
}

// IdleAll is idle plus iowait.
func (t CPUTimes) IdleAll() float64 { return t.Idle + t.IOWait }

// NonIdle is every bucket that counts as busy time.
func (t CPUTimes) NonIdle() float64 {
	return t.User + t.Nice + t.System + t.IRQ + t.SoftIRQ + t.Steal
}

// Total is IdleAll plus NonIdle.
func (t CPUTimes) Total() float64 { return t.IdleAll() + t.NonIdle() }

// NetCounters holds cumulative byte counters summed across interfaces.
type NetCounters struct {
	RxBytes uint64 `json:"rx_bytes"`
	TxBytes uint64 `json:"tx_bytes"`
}

// MemoryReading is a point-in-time memory reading.
type MemoryReading struct {
	Total     uint64 `json:"total"`
	Available uint64 `json:"available"`
	LowMemory bool   `json:"low_memory"`
}

// BatteryReading carries raw platform codes; see package classify for names.
type BatteryReading struct {
	Status int `json:"status"`
	Health int `json:"health"`
	Level  int `json:"level"`
	Scale  int `json:"scale"`
}

// Snapshot is the formatted view of the latest samples. Fields hold "-"
// when no data is available yet.
type Snapshot struct {
	Timestamp      int64  `json:"timestamp"`
	CPU            string `json:"cpu"`
	CPUSource      string `json:"cpu_source,omitempty"`
	Memory         string `json:"memory"`
	MemoryPressure string `json:"memory_pressure"`
	NetworkDown    string `json:"network_down"`
	NetworkUp      string `json:"network_up"`
	Thermal        string `json:"thermal"`
	Battery        string `json:"battery"`
	BatteryHealth  string `json:"battery_health"`
}
