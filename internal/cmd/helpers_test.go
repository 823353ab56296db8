package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/quantmind-br/sysupd/internal/notify"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const archListing = "linux 6.9.1-1 -> 6.9.2-1\nmesa 24.1.0-1 -> 24.1.1-1\n"

type fixedDetector core.Distribution

func (d fixedDetector) Detect() core.Distribution { return core.Distribution(d) }

// testConfig returns a configuration rooted in a temp directory
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Paths: config.PathsConfig{
			DataDir: dir,
			DBFile:  filepath.Join(dir, "history.db"),
			LogFile: filepath.Join(dir, "sysupd.log"),
		},
		Settings: core.DefaultSettings(),
		Install: config.InstallConfig{
			Terminal:     "konsole",
			TerminalArgs: []string{"-e"},
			ElevateWith:  "sudo",
		},
		Check: config.CheckConfig{Timeout: 10 * time.Second},
		File:  filepath.Join(dir, "config.toml"),
	}
}

// testEnv returns a non-interactive environment on an in-memory filesystem
func testEnv(d core.Distribution, runner *helpers.MockCommandRunner) *Env {
	return &Env{
		Fs:          afero.NewMemMapFs(),
		Runner:      runner,
		Detector:    fixedDetector(d),
		Notifier:    notify.Nop{},
		Interactive: false,
		Confirm:     func(string) (bool, error) { return true, nil },
		Executable:  func() (string, error) { return "/usr/bin/sysupd", nil },
		Progress:    io.Discard,
	}
}

// listingRunner answers every check with stdout
func listingRunner(stdout string) *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(context.Context, string, ...string) (string, string, error) {
			return stdout, "", nil
		},
	}
}

// captureOutput redirects the ui print helpers for the duration of the test
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevErr := ui.Output, ui.ErrOutput
	ui.Output, ui.ErrOutput = &buf, &buf
	t.Cleanup(func() {
		ui.Output, ui.ErrOutput = prevOut, prevErr
	})
	return &buf
}

// execute runs cmd with args, sending its output to out
func execute(t *testing.T, cmd *cobra.Command, out io.Writer, args ...string) error {
	t.Helper()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return cmd.ExecuteContext(ctx)
}

func discardLogger() *zerolog.Logger {
	log := zerolog.New(io.Discard)
	return &log
}
