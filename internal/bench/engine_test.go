package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playok/telemon/internal/model"
)

func smallConfig() Config {
	return Config{
		RandomIterations: 1000,
		MatrixSize:       8,
		HashIterations:   16,
		HashBufferSize:   64,
		Workers:          2,
	}
}

func TestNewUnknownHash(t *testing.T) {
	cfg := smallConfig()
	cfg.Hash = "md5"
	if _, err := New(cfg); !errors.Is(err, ErrUnknownHash) {
		t.Fatalf("New() error = %v, want ErrUnknownHash", err)
	}
}

func TestNewDefaults(t *testing.T) {
	e, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	cfg := e.Config()
	if cfg.RandomIterations != 1_000_000 || cfg.MatrixSize != 200 || cfg.HashIterations != 50_000 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.HashBufferSize != 1024 || cfg.Hash != HashSHA256 || cfg.Workers < 1 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestRunSmall(t *testing.T) {
	for _, h := range []string{HashSHA256, HashBLAKE3} {
		t.Run(h, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Hash = h
			e, err := New(cfg)
			if err != nil {
				t.Fatal(err)
			}
			res, err := e.Run(context.Background())
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if res.SingleThreadScore < 1 || res.MultiThreadScore < 1 || res.OverallScore < 1 {
				t.Errorf("scores must be at least 1: %+v", res)
			}
			if res.Tier == "" || res.Comparison == "" {
				t.Errorf("tier not set: %+v", res)
			}
			if res.Hash != h || res.Workers != 2 {
				t.Errorf("hash/workers = %q/%d", res.Hash, res.Workers)
			}
		})
	}
}

func TestRunInjectedClock(t *testing.T) {
	e, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Each now() call advances 10ms, so every workload measures 10ms.
	base := time.Unix(0, 0)
	calls := 0
	e.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 10 * time.Millisecond)
	}

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.RandomMs != 10 || res.MatrixMs != 10 || res.HashMs != 10 || res.MultiThreadMs != 10 {
		t.Fatalf("timings = %+v", res)
	}
	// random 500, matrix 5000, hash 1000 → (1000+25000+3000)/10 = 2900.
	if res.SingleThreadScore != 2900 {
		t.Errorf("single = %d, want 2900", res.SingleThreadScore)
	}
	// multi 2000 → (2900*7 + 2000*3)/10 = 2630.
	if res.OverallScore != 2630 {
		t.Errorf("overall = %d, want 2630", res.OverallScore)
	}
}

func TestRunTwiceOnOneEngine(t *testing.T) {
	e, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	step := 10 * time.Millisecond
	clock := time.Unix(0, 0)
	e.now = func() time.Time {
		clock = clock.Add(step)
		return clock
	}

	first, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	kept := first

	step = 20 * time.Millisecond
	second, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}

	if first != kept {
		t.Errorf("second run changed the first result: %+v", first)
	}
	for i, res := range []model.BenchmarkResult{first, second} {
		if res.SingleThreadScore < 1 || res.MultiThreadScore < 1 || res.OverallScore < 1 {
			t.Errorf("run %d: scores must be at least 1: %+v", i+1, res)
		}
	}
	if first.SingleThreadScore != 2900 || first.OverallScore != 2630 {
		t.Errorf("first run = %d/%d, want 2900/2630", first.SingleThreadScore, first.OverallScore)
	}
	// random 250, matrix 2500, hash 500 → 1450; multi 1000 → (1450*7 + 1000*3)/10 = 1315.
	if second.RandomMs != 20 || second.SingleThreadScore != 1450 || second.OverallScore != 1315 {
		t.Errorf("second run = %+v, want 20ms steps scoring 1450/1315", second)
	}
}

func TestRunTimeout(t *testing.T) {
	cfg := smallConfig()
	cfg.RandomIterations = 1 << 30
	cfg.Timeout = time.Nanosecond
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Run(context.Background())
	if !errors.Is(err, ErrBenchmarkTimeout) {
		t.Fatalf("Run() error = %v, want ErrBenchmarkTimeout", err)
	}
}

func TestRunCanceled(t *testing.T) {
	e, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrBenchmarkTimeout) {
		t.Fatal("cancellation reported as timeout")
	}
}
