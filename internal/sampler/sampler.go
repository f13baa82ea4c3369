// Package sampler turns monotonically increasing OS counters into rates
// and percentages across repeated, irregularly timed calls.
//
// A Sampler owns one baseline per stream. The first reading of a stream
// only primes its baseline; every later reading is compared against the
// stored baseline. Results that cannot be computed are reported as absent
// (Valid == false), never as zero.
package sampler

import (
	"sync"
)

// StreamID names one independently tracked counter.
type StreamID string

const (
	StreamAppCPU    StreamID = "cpu.app"
	StreamSystemCPU StreamID = "cpu.system"
	StreamNetRx     StreamID = "net.rx"
	StreamNetTx     StreamID = "net.tx"
)

// Reason explains why a result is absent.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonColdStart
	ReasonNonPositiveInterval
	ReasonCounterReset
	ReasonNoProgress
	ReasonSourceUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonColdStart:
		return "cold start"
	case ReasonNonPositiveInterval:
		return "non-positive interval"
	case ReasonCounterReset:
		return "counter reset"
	case ReasonNoProgress:
		return "no counter progress"
	case ReasonSourceUnavailable:
		return "source unavailable"
	default:
		return "unknown"
	}
}

// Baseline is the last observed reading of a stream.
type Baseline struct {
	Value       float64
	TimestampMs int64
	Initialized bool
}

// RateResult is the outcome of one Sample call.
type RateResult struct {
	Value   float64
	Valid   bool
	ValidAt int64
	Reason  Reason
}

func absent(nowMs int64, reason Reason) RateResult {
	return RateResult{ValidAt: nowMs, Reason: reason}
}

// PerSecond converts a per-millisecond rate into a per-second rate.
func (r RateResult) PerSecond() float64 { return r.Value * 1000 }

// cpuBaseline is the system CPU stream's decomposed baseline.
type cpuBaseline struct {
	idle      float64
	total     float64
	primed    bool
	producing bool // at least one usage value has been computed
}

// Sampler holds per-stream baselines. All methods are safe for concurrent
// use; the read-modify-write of a stream's baseline happens under one lock.
type Sampler struct {
	mu        sync.Mutex
	baselines map[StreamID]Baseline
	cpu       cpuBaseline
}

// New returns a Sampler with no baselines (every stream cold).
func New() *Sampler {
	return &Sampler{baselines: make(map[StreamID]Baseline)}
}

// NewWithBaselines returns a Sampler pre-loaded with the given baselines.
//
// StreamSystemCPU is not a single-counter stream: its baseline is the
// idle/total pair kept by SampleSystemCPU. An entry for it here is
// ignored; prime it with one SampleSystemCPU call instead.
func NewWithBaselines(baselines map[StreamID]Baseline) *Sampler {
	s := New()
	for id, b := range baselines {
		if id == StreamSystemCPU {
			continue
		}
		s.baselines[id] = b
	}
	return s
}

// Baseline returns the stored baseline for a single-counter stream. It
// always reports false for StreamSystemCPU; use SystemCPUBaseline.
func (s *Sampler) Baseline(id StreamID) (Baseline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baselines[id]
	return b, ok && b.Initialized
}

// SystemCPUBaseline returns the idle and total CPU time the next
// SampleSystemCPU call is measured against.
func (s *Sampler) SystemCPUBaseline() (idle, total float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cpu.idle, s.cpu.total, s.cpu.primed
}

// Reset forgets the baseline of a stream; its next reading is a cold start.
func (s *Sampler) Reset(id StreamID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == StreamSystemCPU {
		s.cpu = cpuBaseline{}
		return
	}
	delete(s.baselines, id)
}

// Sample feeds a raw counter reading taken at nowMs and returns the rate
// of change per millisecond since the stored baseline.
//
// A decreasing counter is treated as a reset or wraparound and yields a
// rate of zero. A non-positive interval yields an absent result and keeps
// the old baseline so the next valid reading still has a reference.
func (s *Sampler) Sample(id StreamID, raw float64, nowMs int64) RateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.baselines[id]
	if !ok || !prev.Initialized {
		s.baselines[id] = Baseline{Value: raw, TimestampMs: nowMs, Initialized: true}
		return absent(nowMs, ReasonColdStart)
	}

	dt := nowMs - prev.TimestampMs
	if dt <= 0 {
		return absent(nowMs, ReasonNonPositiveInterval)
	}

	dv := raw - prev.Value
	if dv < 0 {
		dv = 0
	}

	s.baselines[id] = Baseline{Value: raw, TimestampMs: nowMs, Initialized: true}
	return RateResult{Value: dv / float64(dt), Valid: true, ValidAt: nowMs}
}

// Fail records that a stream's source could not be read at nowMs. Stored
// baselines are kept so that the stream recovers on the next good reading.
func (s *Sampler) Fail(id StreamID, nowMs int64) RateResult {
	if id == StreamSystemCPU {
		return s.FailSystemCPU(nowMs)
	}
	return absent(nowMs, ReasonSourceUnavailable)
}
