package sampler

import "github.com/playok/telemon/internal/model"

// resetFraction is how far the CPU total may fall below the baseline
// before it is treated as a counter reset instead of noise.
const resetFraction = 0.10

// SampleSystemCPU returns the system-wide busy percentage in [0, 100]
// over the interval since the previous reading.
func (s *Sampler) SampleSystemCPU(t model.CPUTimes, nowMs int64) RateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	idleAll := t.IdleAll()
	total := t.Total()
	if total <= 0 {
		return absent(nowMs, ReasonSourceUnavailable)
	}

	prev := s.cpu
	if prev.primed && prev.total > 0 && total < prev.total {
		if prev.total-total > prev.total*resetFraction {
			s.cpu.idle = idleAll
			s.cpu.total = total
			return absent(nowMs, ReasonCounterReset)
		}
	}

	if !prev.primed {
		s.cpu = cpuBaseline{idle: idleAll, total: total, primed: true}
		return absent(nowMs, ReasonColdStart)
	}

	totalDelta := total - prev.total
	idleDelta := idleAll - prev.idle
	if totalDelta <= 0 {
		return absent(nowMs, ReasonNoProgress)
	}

	s.cpu.idle = idleAll
	s.cpu.total = total
	s.cpu.producing = true

	usage := (totalDelta - idleDelta) / totalDelta * 100
	return RateResult{Value: clampPercent(usage), Valid: true, ValidAt: nowMs}
}

// FailSystemCPU records a failed /proc/stat style read. A stream that has
// never produced a value is reset; a working one keeps its baseline.
func (s *Sampler) FailSystemCPU(nowMs int64) RateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cpu.producing {
		s.cpu = cpuBaseline{}
	}
	return absent(nowMs, ReasonSourceUnavailable)
}

// SystemCPUActive reports whether the system CPU stream has produced at
// least one value since it was last reset.
func (s *Sampler) SystemCPUActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cpu.producing
}

// SampleProcessCPU returns this process's CPU usage in [0, 100] given its
// cumulative CPU time in milliseconds. The wall interval is multiplied by
// cores so a process saturating every core reads 100%.
func (s *Sampler) SampleProcessCPU(cpuTimeMs float64, nowMs int64, cores int) RateResult {
	if cores < 1 {
		cores = 1
	}
	r := s.Sample(StreamAppCPU, cpuTimeMs, nowMs)
	if !r.Valid {
		return r
	}
	r.Value = clampPercent(r.Value / float64(cores) * 100)
	return r
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
