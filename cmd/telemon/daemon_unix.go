//go:build !windows

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/playok/telemon/internal/config"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// cmdStart re-executes the binary as "run" in a new session. args are
// forwarded unchanged so flags given to start reach the child.
func cmdStart(cfg *config.Config, args []string) error {
	if pid, err := readPidFile(cfg.PidFile); err == nil {
		if processExists(pid) {
			return fmt.Errorf("already running (PID %d)", pid)
		}
		os.Remove(cfg.PidFile)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	// Catches output written before logging is set up, and panics.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", cfg.LogFile, err)
	}
	defer logFile.Close()

	child := &exec.Cmd{
		Path:   exe,
		Args:   append([]string{filepath.Base(exe), "run"}, args...),
		Env:    append(os.Environ(), daemonEnv+"=1"),
		Stdout: logFile,
		Stderr: logFile,
		SysProcAttr: &syscall.SysProcAttr{
			Setsid: true,
		},
	}
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	pid := child.Process.Pid
	if err := writePidFile(cfg.PidFile, pid); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write PID file: %v\n", err)
	}
	child.Process.Release()

	fmt.Printf("telemon started (PID %d)\n", pid)
	printDaemonInfo(cfg)
	return nil
}

func cmdStop(cfg *config.Config) error {
	pid, err := readPidFile(cfg.PidFile)
	if err != nil {
		return fmt.Errorf("not running (no PID file: %s)", cfg.PidFile)
	}
	if !processExists(pid) {
		os.Remove(cfg.PidFile)
		return fmt.Errorf("not running (stale PID %d)", pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("stop PID %d: %w", pid, err)
	}

	// Wait up to 10 seconds.
	for i := 0; i < 100; i++ {
		time.Sleep(100 * time.Millisecond)
		if !processExists(pid) {
			os.Remove(cfg.PidFile)
			fmt.Printf("telemon stopped (PID %d)\n", pid)
			return nil
		}
	}

	fmt.Printf("telemon stop signal sent (PID %d), waiting for exit...\n", pid)
	os.Remove(cfg.PidFile)
	return nil
}

func cmdStatus(cfg *config.Config) error {
	pid, err := readPidFile(cfg.PidFile)
	if err != nil {
		return fmt.Errorf("stopped")
	}
	if !processExists(pid) {
		os.Remove(cfg.PidFile)
		return fmt.Errorf("stopped (stale PID file, was PID %d)", pid)
	}
	fmt.Printf("telemon is running (PID %d)\n", pid)
	printDaemonInfo(cfg)
	return nil
}

func processExists(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}
