package main

import (
	"fmt"
	"log/slog"
	"os"

	"markestedt/clipslots/config"
)

// Version information - set during build
var version = "dev"

// setupLogging installs the default slog logger at the configured level
func setupLogging(cfg *config.Config) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
