//go:build windows

package main

import (
	"errors"
	"os"

	"github.com/playok/telemon/internal/config"
)

var shutdownSignals = []os.Signal{os.Interrupt}

var errNoDaemon = errors.New("daemon mode is not supported on Windows; use 'run' for foreground execution")

func cmdStart(cfg *config.Config, args []string) error { return errNoDaemon }

func cmdStop(cfg *config.Config) error { return errNoDaemon }

func cmdStatus(cfg *config.Config) error { return errNoDaemon }
