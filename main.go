// Package main implements the main entry point for a CHIP-8 virtual machine
package main

import (
	"errors"
	"os"

	"github.com/retroenv/chip8vm/internal/app"
	"github.com/retroenv/chip8vm/internal/cli"
	"github.com/retroenv/chip8vm/internal/config"
	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := retroapp.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, opts.Quiet, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug || opts.Trace, opts.Quiet)
	config.PrintBanner(logger, opts.Quiet, version, commit, date)

	if err := app.Run(ctx, logger, opts, os.Stdout); err != nil {
		logger.Error("Execution failed", log.Err(err))
		os.Exit(1)
	}
}
