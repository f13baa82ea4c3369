package bench

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/model"
)

// ErrBenchmarkTimeout is returned when a run exceeds Config.Timeout.
var ErrBenchmarkTimeout = errors.New("benchmark timed out")

// Engine runs the fixed workload suite. It holds no state between runs,
// so one Engine may serve sequential runs from any goroutine.
type Engine struct {
	cfg     Config
	newHash func() hash.Hash
	now     func() time.Time
	seed    func() int64
}

// New returns an Engine for cfg. It fails with ErrUnknownHash when the
// configured hash names no workload.
func New(cfg Config) (*Engine, error) {
	cfg = normalizeConfig(cfg)
	newHash, err := newHasher(cfg.Hash)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		newHash: newHash,
		now:     time.Now,
		seed:    func() int64 { return time.Now().UnixNano() },
	}, nil
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Run executes the single-thread workloads on the calling goroutine, then
// the multi-thread phase across Config.Workers goroutines, and scores the
// measured timings.
func (e *Engine) Run(ctx context.Context) (model.BenchmarkResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	logger := log.With().Str("component", "bench").Logger()
	logger.Info().Int("workers", e.cfg.Workers).Str("hash", e.cfg.Hash).Msg("run started")

	var t Timings
	var out sink
	rng := rand.New(rand.NewSource(e.seed()))

	steps := []struct {
		name string
		dst  *time.Duration
		fn   func() error
	}{
		{"random", &t.Random, func() error { return randomWorkload(ctx, rng, e.cfg.RandomIterations, &out) }},
		{"matrix", &t.Matrix, func() error { return matrixWorkload(ctx, rng, e.cfg.MatrixSize, &out) }},
		{"hash", &t.Hash, func() error { return e.hashOnce(ctx, rng, &out) }},
		{"multi", &t.Multi, func() error { return e.multiThread(ctx) }},
	}
	for _, s := range steps {
		start := e.now()
		if err := s.fn(); err != nil {
			return model.BenchmarkResult{}, e.wrapErr(s.name, err)
		}
		*s.dst = e.now().Sub(start)
		logger.Debug().Str("workload", s.name).Dur("elapsed", *s.dst).Msg("workload done")
	}

	res := e.Score(t)
	logger.Info().
		Int64("overall", res.OverallScore).
		Str("tier", res.Tier).
		Msg("run finished")
	return res, nil
}

// Score turns timings into a result. It is pure, so callers can score
// timings measured elsewhere.
func (e *Engine) Score(t Timings) model.BenchmarkResult {
	res := model.BenchmarkResult{
		RandomMs:      t.Random.Milliseconds(),
		MatrixMs:      t.Matrix.Milliseconds(),
		HashMs:        t.Hash.Milliseconds(),
		MultiThreadMs: t.Multi.Milliseconds(),
		Workers:       e.cfg.Workers,
		Hash:          e.cfg.Hash,
	}
	res.SingleThreadScore = SingleThreadScore(res.RandomMs, res.MatrixMs, res.HashMs)
	res.OverallScore, res.MultiThreadScore = OverallScore(res.SingleThreadScore, res.MultiThreadMs)
	res.Tier = Tier(res.OverallScore)
	res.Comparison = Comparison(res.OverallScore)
	return res
}

func (e *Engine) hashOnce(ctx context.Context, rng *rand.Rand, out *sink) error {
	return hashWorkload(ctx, rng, e.newHash, e.cfg.HashIterations, e.cfg.HashBufferSize, out)
}

// multiThread fans out one random+hash task per worker and waits for all
// of them before returning.
func (e *Engine) multiThread(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	base := e.seed()
	for i := 0; i < e.cfg.Workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(base + int64(i)))
			var out sink
			err := randomWorkload(ctx, rng, e.cfg.RandomIterations, &out)
			if err == nil {
				err = e.hashOnce(ctx, rng, &out)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (e *Engine) wrapErr(workload string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s workload: %w after %s", workload, ErrBenchmarkTimeout, e.cfg.Timeout)
	}
	return fmt.Errorf("%s workload: %w", workload, err)
}
