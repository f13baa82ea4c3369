package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/api"
	"github.com/playok/telemon/internal/bench"
	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/config"
	"github.com/playok/telemon/internal/logging"
	"github.com/playok/telemon/internal/sampler"
	"github.com/playok/telemon/internal/source"
	"github.com/playok/telemon/internal/store"
)

var version = "dev"

// daemonEnv is set on the child started by "telemon start".
const daemonEnv = "TELEMON_DAEMON"

const purgeInterval = 10 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "run":
		err = withConfig(args, cmdRun)
	case "start":
		err = withConfig(args, func(cfg *config.Config) error { return cmdStart(cfg, args) })
	case "stop":
		err = withConfig(args, cmdStop)
	case "status":
		err = withConfig(args, cmdStatus)
	case "watch":
		err = withConfig(args, cmdWatch)
	case "bench":
		rest, save := takeFlag(args, "--save")
		err = withConfig(rest, func(cfg *config.Config) error { return cmdBench(cfg, save) })
	case "-nginx", "--nginx", "nginx":
		err = withConfig(args, cmdNginx)
	case "version":
		fmt.Printf("telemon %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemon: %v\n", err)
		os.Exit(1)
	}
}

func withConfig(args []string, fn func(*config.Config) error) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	return fn(cfg)
}

// takeFlag removes a boolean flag that only one subcommand understands.
func takeFlag(args []string, name string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	found := false
	for _, a := range args {
		if a == name {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return rest, found
}

func printUsage() {
	exe := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, `telemon: telemetry sampler and device benchmark (%s)

Usage:
  %s <command> [flags]

Commands:
  run            Run the sampler and HTTP API in the foreground
  start          Start daemon (background)
  stop           Stop daemon
  status         Show daemon status
  watch          Print a formatted snapshot every interval (no database)
  bench          Run the benchmark suite once (--save stores the result)
  bench history  List stored benchmark runs
  nginx          Print sample nginx reverse proxy configuration
  version        Print version

Flags:
%s
Examples:
  %s start --config /etc/telemon/config.yaml
  %s watch -i 1 --cpu-source process
  %s bench --bench-hash blake3 --save
`, version, exe, config.FlagUsages(), exe, exe, exe)
}

// ---------------------------------------------------------------------------
// run: foreground server (also used by daemon child)
// ---------------------------------------------------------------------------

func cmdRun(cfg *config.Config) error {
	daemon := os.Getenv(daemonEnv) == "1"
	opts := logging.Options{Level: cfg.LogLevel}
	if daemon {
		opts.File = cfg.LogFile
	}
	closeLog, err := logging.Init(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	logger := log.With().Str("component", "main").Logger()

	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("close database")
		}
	}()

	applyDBSettings(db, cfg)

	registry := collector.NewRegistry(db)
	registerCollectors(registry, cfg)
	if err := registry.RestoreState(); err != nil {
		logger.Warn().Err(err).Msg("restore collector state")
	}
	if !registry.HasAnyState() {
		logger.Info().Msg("first run, enabling all collectors")
		if err := registry.EnableAll(); err != nil {
			logger.Warn().Err(err).Msg("enable collectors")
		}
	}
	seedDefaultAlertRules(db)

	exporter := collector.NewExporter()
	sched := collector.NewScheduler(registry, db, exporter, cfg.CollectInterval)
	if err := sched.AlertEngine().LoadRules(db); err != nil {
		logger.Warn().Err(err).Msg("using built-in alert rules")
	}

	engine, err := bench.New(cfg.BenchConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	hub := api.NewHub()
	go hub.Run(ctx)
	sched.SetBroadcast(hub.Broadcast)
	sched.SetAlertBroadcast(hub.BroadcastAlerts)
	sched.Start(ctx)

	go runRetentionPurge(ctx, db, cfg.RetentionHours)

	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: api.NewRouter(api.Deps{
			Registry:  registry,
			Store:     db,
			Hub:       hub,
			Scheduler: sched,
			Exporter:  exporter,
			Bench:     engine,
		}, cfg.BasePath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("version", version).
			Str("listen", cfg.Listen).
			Str("base_path", cfg.BasePath).
			Dur("interval", sched.Interval()).
			Msg("telemon listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		logger.Error().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sched.Stop()
	if serr := srv.Shutdown(shutCtx); serr != nil {
		logger.Warn().Err(serr).Msg("http shutdown")
	}

	if daemon {
		os.Remove(cfg.PidFile)
	}
	logger.Info().Msg("goodbye")
	return err
}

func registerCollectors(registry *collector.Registry, cfg *config.Config) {
	deps := collector.Deps{
		Source:    source.NewHost(),
		Sampler:   sampler.New(),
		CPUSource: cfg.CPUSource,
	}
	for _, c := range collector.Builtin(deps) {
		registry.Register(c)
	}
}

func seedDefaultAlertRules(db *store.Store) {
	defaults := collector.DefaultAlertRuleModels()
	seeded, err := db.SeedAlertRules(defaults)
	if err != nil {
		log.Error().Str("component", "bootstrap").Err(err).Msg("seed alert rules")
		return
	}
	if seeded {
		log.Info().Str("component", "bootstrap").Int("rules", len(defaults)).Msg("seeded default alert rules")
	}
}

// applyDBSettings lets values saved through the settings API win over
// the file and flags.
func applyDBSettings(db *store.Store, cfg *config.Config) {
	if n, ok := settingInt(db, api.SettingCollectInterval); ok {
		cfg.CollectInterval = n
		log.Info().Str("component", "settings").Int("collect_interval", n).Msg("from database")
	}
	if n, ok := settingInt(db, api.SettingRetentionHours); ok {
		cfg.RetentionHours = n
		log.Info().Str("component", "settings").Int("retention_hours", n).Msg("from database")
	}
}

func settingInt(db *store.Store, key string) (int, bool) {
	v, err := db.GetSetting(key)
	if err != nil || v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// runRetentionPurge deletes old samples. The retention setting is re-read
// every pass so API changes apply without a restart.
func runRetentionPurge(ctx context.Context, db *store.Store, hours int) {
	logger := log.With().Str("component", "purge").Logger()
	purge := func() {
		h := hours
		if n, ok := settingInt(db, api.SettingRetentionHours); ok {
			h = n
		}
		n, err := db.PurgeOlderThan(h)
		if err != nil {
			logger.Error().Err(err).Msg("purge failed")
		} else if n > 0 {
			logger.Info().Int64("removed", n).Int("retention_hours", h).Msg("purged old samples")
		}
	}

	purge()
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}

// ---------------------------------------------------------------------------
// nginx: print sample reverse proxy config
// ---------------------------------------------------------------------------

func cmdNginx(cfg *config.Config) error {
	bp := cfg.BasePath
	if bp == "/" {
		bp = "/telemon"
		fmt.Println("# base_path is \"/\"; using \"/telemon\" as example.")
		fmt.Println("# Set base_path in config.yaml to match your desired location.")
		fmt.Println()
	}
	fmt.Print(nginxConfig(bp, cfg.Listen))
	fmt.Println("# config.yaml should have:")
	fmt.Printf("#   base_path: \"%s\"\n", bp)
	return nil
}

func nginxConfig(basePath, listen string) string {
	return fmt.Sprintf(`# nginx reverse proxy configuration for telemon
# Add this inside an http { server { ... } } block.

location %s/ {
    proxy_pass         http://%s/;
    proxy_http_version 1.1;

    # WebSocket support
    proxy_set_header   Upgrade $http_upgrade;
    proxy_set_header   Connection "upgrade";

    proxy_set_header   Host              $host;
    proxy_set_header   X-Real-IP         $remote_addr;
    proxy_set_header   X-Forwarded-For   $proxy_add_x_forwarded_for;
    proxy_set_header   X-Forwarded-Proto $scheme;

    proxy_buffering    off;
    proxy_read_timeout 86400s;
}
`, strings.TrimSuffix(basePath, "/"), listen)
}

// ---------------------------------------------------------------------------
// PID file helpers
// ---------------------------------------------------------------------------

func writePidFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

func readPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in %s", path)
	}
	return pid, nil
}

func printDaemonInfo(cfg *config.Config) {
	fmt.Printf("  Listen : http://%s%s\n", cfg.Listen, strings.TrimSuffix(cfg.BasePath, "/"))
	fmt.Printf("  Config : %s\n", cfg.ConfigPath)
	fmt.Printf("  DB     : %s\n", cfg.DBPath)
	fmt.Printf("  PID    : %s\n", cfg.PidFile)
	fmt.Printf("  Log    : %s\n", cfg.LogFile)
}

