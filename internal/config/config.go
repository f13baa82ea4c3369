package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/playok/telemon/internal/bench"
	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/logging"
)

// Benchmark configures the benchmark engine.
type Benchmark struct {
	Hash    string        `yaml:"hash"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config holds the application configuration.
type Config struct {
	Listen   string `yaml:"listen"`
	DBPath   string `yaml:"database"`
	BasePath string `yaml:"base_path"`
	PidFile  string `yaml:"pid_file"`
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// CollectInterval and RetentionHours can be overridden at runtime
	// through the settings API; the stored values win on restart.
	CollectInterval int `yaml:"collect_interval"`
	RetentionHours  int `yaml:"retention_hours"`

	CPUSource string    `yaml:"cpu_source"`
	Benchmark Benchmark `yaml:"benchmark"`

	// Parsed from command line (not YAML)
	ConfigPath string   `yaml:"-"`
	Args       []string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:9924",
		DBPath:          "telemon.db",
		BasePath:        "/",
		PidFile:         "telemon.pid",
		LogFile:         "telemon.log",
		LogLevel:        "info",
		CollectInterval: 5,
		RetentionHours:  24,
		CPUSource:       collector.CPUSourceAuto,
		Benchmark: Benchmark{
			Hash:    bench.HashSHA256,
			Timeout: 5 * time.Minute,
		},
		ConfigPath: "config.yaml",
	}
}

// getenv is replaced in tests.
var getenv = os.Getenv

// Load reads configuration with priority: defaults < config.yaml < env vars < flags.
// args must not include the program name or subcommand. Positional
// arguments left after flags end up in Config.Args.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// 1) Pre-scan for --config before parsing (so we know which file to read)
	configPath, explicit := scanConfigPath(args, cfg.ConfigPath)

	// 2) Load YAML config file
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// defaults only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.ConfigPath = configPath

	// 3) Environment variables override YAML
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// 4) Flags override everything
	flags := newFlagSet(cfg)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = flags.Args()

	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scanConfigPath(args []string, def string) (string, bool) {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1], true
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config="), true
		}
	}
	return def, false
}

func newFlagSet(cfg *Config) *pflag.FlagSet {
	f := pflag.NewFlagSet("telemon", pflag.ContinueOnError)
	f.StringVarP(&cfg.ConfigPath, "config", "c", cfg.ConfigPath, "path to config.yaml")
	f.StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address (host:port)")
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	f.StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "base URL path for reverse proxy")
	f.StringVar(&cfg.PidFile, "pid-file", cfg.PidFile, "PID file path")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	f.IntVarP(&cfg.CollectInterval, "interval", "i", cfg.CollectInterval, "collection interval in seconds")
	f.IntVar(&cfg.RetentionHours, "retention", cfg.RetentionHours, "sample retention in hours")
	f.StringVar(&cfg.CPUSource, "cpu-source", cfg.CPUSource, "CPU source: auto, system or process")
	f.StringVar(&cfg.Benchmark.Hash, "bench-hash", cfg.Benchmark.Hash, "benchmark hash workload: sha256 or blake3")
	f.DurationVar(&cfg.Benchmark.Timeout, "bench-timeout", cfg.Benchmark.Timeout, "benchmark wall-clock limit")
	f.SortFlags = false
	return f
}

// FlagUsages returns the help text for every flag.
func FlagUsages() string {
	return newFlagSet(DefaultConfig()).FlagUsages()
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"TELEMON_LISTEN":     &cfg.Listen,
		"TELEMON_DB":         &cfg.DBPath,
		"TELEMON_BASE_PATH":  &cfg.BasePath,
		"TELEMON_LOG_FILE":   &cfg.LogFile,
		"TELEMON_LOG_LEVEL":  &cfg.LogLevel,
		"TELEMON_CPU_SOURCE": &cfg.CPUSource,
		"TELEMON_BENCH_HASH": &cfg.Benchmark.Hash,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TELEMON_INTERVAL":  &cfg.CollectInterval,
		"TELEMON_RETENTION": &cfg.RetentionHours,
	}
	for key, dst := range ints {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Listen == "" {
		errs = multierror.Append(errs, errors.New("listen address is empty"))
	}
	if c.CollectInterval < 1 {
		errs = multierror.Append(errs, fmt.Errorf("collect_interval must be at least 1, got %d", c.CollectInterval))
	}
	if c.RetentionHours < 1 {
		errs = multierror.Append(errs, fmt.Errorf("retention_hours must be at least 1, got %d", c.RetentionHours))
	}
	switch c.CPUSource {
	case collector.CPUSourceAuto, collector.CPUSourceSystem, collector.CPUSourceProcess:
	default:
		errs = multierror.Append(errs, fmt.Errorf("cpu_source %q is not auto, system or process", c.CPUSource))
	}
	switch c.Benchmark.Hash {
	case bench.HashSHA256, bench.HashBLAKE3:
	default:
		errs = multierror.Append(errs, fmt.Errorf("benchmark.hash: %w: %q", bench.ErrUnknownHash, c.Benchmark.Hash))
	}
	if c.Benchmark.Timeout <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("benchmark.timeout must be positive, got %s", c.Benchmark.Timeout))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// BenchConfig returns the benchmark engine configuration.
func (c *Config) BenchConfig() bench.Config {
	return bench.Config{Hash: c.Benchmark.Hash, Timeout: c.Benchmark.Timeout}
}

// normalizeBasePath ensures the base path starts with "/" and has no trailing "/".
// Returns "/" for empty or root paths.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
