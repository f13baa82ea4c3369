package bench

import (
	"runtime"
	"time"
)

const (
	defaultRandomIterations = 1_000_000
	defaultMatrixSize       = 200
	defaultHashIterations   = 50_000
	defaultHashBufferSize   = 1024
	defaultTimeout          = 5 * time.Minute
)

// Config sizes the workloads. Zero values take the defaults, which the
// reference constants in score.go are calibrated against.
type Config struct {
	RandomIterations int
	MatrixSize       int
	HashIterations   int
	HashBufferSize   int
	// Workers is the number of multi-thread tasks; 0 means one per core.
	Workers int
	// Hash selects the hashing workload: "sha256" (default) or "blake3".
	Hash string
	// Timeout caps a whole run. A run that exceeds it fails with
	// ErrBenchmarkTimeout instead of hanging.
	Timeout time.Duration
}

func normalizeConfig(cfg Config) Config {
	n := cfg
	if n.RandomIterations <= 0 {
		n.RandomIterations = defaultRandomIterations
	}
	if n.MatrixSize <= 0 {
		n.MatrixSize = defaultMatrixSize
	}
	if n.HashIterations <= 0 {
		n.HashIterations = defaultHashIterations
	}
	if n.HashBufferSize <= 0 {
		n.HashBufferSize = defaultHashBufferSize
	}
	if n.Workers <= 0 {
		n.Workers = runtime.NumCPU()
	}
	if n.Hash == "" {
		n.Hash = HashSHA256
	}
	if n.Timeout <= 0 {
		n.Timeout = defaultTimeout
	}
	return n
}
