package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/xid"

	"github.com/playok/telemon/internal/bench"
	"github.com/playok/telemon/internal/config"
	"github.com/playok/telemon/internal/logging"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

const historyLimit = 10

// cmdBench runs the suite once, or lists stored runs for "bench history".
func cmdBench(cfg *config.Config, save bool) error {
	closeLog, err := logging.Init(logging.Options{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer closeLog()

	if len(cfg.Args) > 0 {
		if cfg.Args[0] != "history" {
			return fmt.Errorf("unknown bench subcommand %q", cfg.Args[0])
		}
		return benchHistory(cfg, os.Stdout)
	}

	engine, err := bench.New(cfg.BenchConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	ec := engine.Config()
	fmt.Printf("Running benchmark (%s, %d workers, limit %s)...\n", ec.Hash, ec.Workers, ec.Timeout)
	res, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	printBenchResult(os.Stdout, res)

	if !save {
		return nil
	}
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	run := model.BenchmarkRun{ID: xid.New().String(), Timestamp: time.Now().Unix(), BenchmarkResult: res}
	if err := db.InsertBenchmarkRun(run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Printf("\nSaved as %s in %s\n", run.ID, cfg.DBPath)
	return nil
}

func printBenchResult(w io.Writer, r model.BenchmarkResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Random\t%d ms\n", r.RandomMs)
	fmt.Fprintf(tw, "Matrix\t%d ms\n", r.MatrixMs)
	fmt.Fprintf(tw, "Hash (%s)\t%d ms\n", r.Hash, r.HashMs)
	fmt.Fprintf(tw, "Multi-thread (%d)\t%d ms\n", r.Workers, r.MultiThreadMs)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Single-thread score\t%d\n", r.SingleThreadScore)
	fmt.Fprintf(tw, "Multi-thread score\t%d\n", r.MultiThreadScore)
	fmt.Fprintf(tw, "Overall score\t%d\n", r.OverallScore)
	fmt.Fprintf(tw, "Tier\t%s\n", r.Tier)
	fmt.Fprintf(tw, "Comparable to\t%s\n", r.Comparison)
	tw.Flush()
}

func benchHistory(cfg *config.Config, w io.Writer) error {
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListBenchmarkRuns(historyLimit)
	if err != nil {
		return err
	}
	printHistory(w, runs, time.Now())
	return nil
}

func printHistory(w io.Writer, runs []model.BenchmarkRun, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no benchmark runs stored")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tOVERALL\tSINGLE\tMULTI\tTIER\tHASH")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, humanize.RelTime(time.Unix(r.Timestamp, 0), now, "ago", "from now"),
			r.OverallScore, r.SingleThreadScore, r.MultiThreadScore, r.Tier, r.Hash)
	}
	tw.Flush()
}
