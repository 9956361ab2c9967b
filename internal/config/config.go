// Package config handles application configuration and setup
package config

import (
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner logs the program name and version unless quiet mode is enabled.
func PrintBanner(logger *log.Logger, quiet bool, version, commit, date string) {
	if quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if strings.Contains(date, "unknown") {
		date = ""
	}
	logger.Info("chip8vm", log.String("version", buildinfo.Version(version, commit, date)))
}
