package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/sysupd/internal/cmd"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/logging"
	"github.com/quantmind-br/sysupd/internal/paths"
	"github.com/quantmind-br/sysupd/internal/ui"
)

var version = "dev"

func main() {
	ctx := context.Background()

	// Load configuration; SYSUPD_CONFIG points at an explicit file
	cfg, err := config.Load(os.Getenv("SYSUPD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: paths.NewResolver(cfg).LogFile(),
		NoColor: cfg.Logging.Color == "never",
	})
	ui.InitColors(cfg.Logging.Color)

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
