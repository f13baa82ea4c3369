package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playok/telemon/internal/bench"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := getenv
	getenv = func(k string) string { return env[k] }
	t.Cleanup(func() { getenv = prev })
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, nil)
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Listen != def.Listen || cfg.CollectInterval != 5 || cfg.Benchmark.Hash != bench.HashSHA256 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
listen: "0.0.0.0:1000"
database: /var/lib/telemon.db
collect_interval: 10
cpu_source: process
benchmark:
  hash: blake3
  timeout: 90s
`)
	withEnv(t, map[string]string{
		"TELEMON_LISTEN":   "0.0.0.0:2000",
		"TELEMON_INTERVAL": "7",
	})

	cfg, err := Load([]string{"--config", path, "--interval", "3", "history"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "0.0.0.0:2000" {
		t.Errorf("listen = %q, want env value", cfg.Listen)
	}
	if cfg.DBPath != "/var/lib/telemon.db" {
		t.Errorf("db = %q, want yaml value", cfg.DBPath)
	}
	if cfg.CollectInterval != 3 {
		t.Errorf("interval = %d, want flag value", cfg.CollectInterval)
	}
	if cfg.CPUSource != "process" || cfg.Benchmark.Hash != bench.HashBLAKE3 || cfg.Benchmark.Timeout != 90*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "history" {
		t.Errorf("args = %v", cfg.Args)
	}
	if cfg.ConfigPath != path {
		t.Errorf("config path = %q", cfg.ConfigPath)
	}
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	withEnv(t, nil)
	if _, err := Load([]string{"--config=/nonexistent/telemon.yaml"}); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadBadEnv(t *testing.T) {
	withEnv(t, map[string]string{"TELEMON_INTERVAL": "soon"})
	chdir(t, t.TempDir())
	if _, err := Load(nil); err == nil || !strings.Contains(err.Error(), "TELEMON_INTERVAL") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"interval", func(c *Config) { c.CollectInterval = 0 }, "collect_interval"},
		{"retention", func(c *Config) { c.RetentionHours = 0 }, "retention_hours"},
		{"cpu source", func(c *Config) { c.CPUSource = "gpu" }, "cpu_source"},
		{"hash", func(c *Config) { c.Benchmark.Hash = "md5" }, "benchmark.hash"},
		{"timeout", func(c *Config) { c.Benchmark.Timeout = 0 }, "benchmark.timeout"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"listen", func(c *Config) { c.Listen = "" }, "listen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidateUnknownHashSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Benchmark.Hash = "crc32"
	if err := cfg.Validate(); !errors.Is(err, bench.ErrUnknownHash) {
		t.Fatalf("err = %v, want ErrUnknownHash", err)
	}
}

func TestNormalizeBasePath(t *testing.T) {
	for in, want := range map[string]string{"": "/", "/": "/", "mon": "/mon", "/mon/": "/mon", " /a/b// ": "/a/b"} {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
