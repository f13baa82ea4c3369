package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/config"
	"github.com/playok/telemon/internal/logging"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/units"
)

// cmdWatch samples without a database and prints one line per tick.
func cmdWatch(cfg *config.Config) error {
	level := cfg.LogLevel
	if level == "info" {
		level = "warn" // keep the terminal for snapshot lines
	}
	closeLog, err := logging.Init(logging.Options{Level: level})
	if err != nil {
		return err
	}
	defer closeLog()

	registry := collector.NewRegistry(nil)
	registerCollectors(registry, cfg)
	if err := registry.EnableAll(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	sched := collector.NewScheduler(registry, nil, nil, cfg.CollectInterval)
	out := os.Stdout
	sched.SetBroadcast(func(samples []model.MetricSample) {
		fmt.Fprintln(out, renderSnapshot(sched.Snapshot(), memTotal(samples)))
	})
	sched.SetAlertBroadcast(func(alerts []model.Alert) {
		printAlerts(out, alerts)
	})

	fmt.Fprintf(out, "telemon %s watching every %s (Ctrl-C to stop)\n", version, sched.Interval())
	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	return nil
}

func memTotal(samples []model.MetricSample) uint64 {
	for _, s := range samples {
		if s.MetricName == collector.MetricMemTotal {
			return uint64(s.Value)
		}
	}
	return 0
}

// renderSnapshot prints the formatted values verbatim on one line.
func renderSnapshot(s model.Snapshot, totalMem uint64) string {
	var b strings.Builder
	b.WriteString(time.Unix(s.Timestamp, 0).Format("15:04:05"))

	b.WriteString("  CPU " + s.CPU)
	if s.CPUSource != "" {
		b.WriteString(" (" + s.CPUSource + ")")
	}

	b.WriteString("  MEM " + s.Memory)
	if s.MemoryPressure != collector.NoData {
		b.WriteString(" " + s.MemoryPressure)
	}
	if totalMem > 0 {
		b.WriteString(" of " + units.Bytes(totalMem))
	}

	b.WriteString("  NET down " + s.NetworkDown + " up " + s.NetworkUp)
	b.WriteString("  THERMAL " + s.Thermal)

	if s.Battery != collector.NoData {
		b.WriteString("  BAT " + s.Battery)
		if s.BatteryHealth != collector.NoData {
			b.WriteString(" " + s.BatteryHealth)
		}
	}
	return b.String()
}

func printAlerts(w io.Writer, alerts []model.Alert) {
	for _, a := range alerts {
		fmt.Fprintf(w, "  ! [%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
	}
}
