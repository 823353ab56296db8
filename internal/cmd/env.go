package cmd

import (
	"context"
	"io"
	"os"

	"github.com/quantmind-br/sysupd/internal/app"
	"github.com/quantmind-br/sysupd/internal/catalog"
	"github.com/quantmind-br/sysupd/internal/checker"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/db"
	"github.com/quantmind-br/sysupd/internal/distro"
	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/quantmind-br/sysupd/internal/installer"
	"github.com/quantmind-br/sysupd/internal/logging"
	"github.com/quantmind-br/sysupd/internal/notify"
	"github.com/quantmind-br/sysupd/internal/paths"
	"github.com/quantmind-br/sysupd/internal/scheduler"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Env bundles the host collaborators shared by the subcommands
type Env struct {
	Fs          afero.Fs
	Runner      helpers.CommandRunner
	Detector    core.Detector
	Notifier    notify.Notifier
	Interactive bool
	Confirm     func(label string) (bool, error)
	Executable  func() (string, error)
	// Progress receives the install countdown
	Progress io.Writer
}

// DefaultEnv wires the real filesystem, process runner and session bus
func DefaultEnv(cfg *config.Config, log *zerolog.Logger) *Env {
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notifications.Desktop {
		notifier = notify.NewDesktop(logging.Component(log, "notify"))
	}

	return &Env{
		Fs:          afero.NewOsFs(),
		Runner:      helpers.NewOSCommandRunner(),
		Detector:    distro.NewDetector(),
		Notifier:    notifier,
		Interactive: helpers.Interactive(),
		Confirm:     ui.ConfirmPrompt,
		Executable:  os.Executable,
		Progress:    logging.Stderr(),
	}
}

// runtime is the object graph behind the check/install commands
type runtime struct {
	cfg *config.Config
	log *zerolog.Logger
	env *Env

	engine       *checker.Engine
	orchestrator *installer.Orchestrator
	surface      *ui.Terminal
	history      app.HistoryRecorder

	database *db.DB
}

func newCatalog(cfg *config.Config) *catalog.Catalog {
	return catalog.New(catalog.Options{
		Terminal:     cfg.Install.Terminal,
		TerminalArgs: cfg.Install.TerminalArgs,
		ElevateWith:  cfg.Install.ElevateWith,
	})
}

func newRuntime(ctx context.Context, cfg *config.Config, log *zerolog.Logger, env *Env, out io.Writer, watch bool) *runtime {
	cat := newCatalog(cfg)

	rt := &runtime{
		cfg:          cfg,
		log:          log,
		env:          env,
		engine:       checker.NewEngine(cat, env.Runner, cfg.Check.Timeout, logging.Component(log, "checker")),
		orchestrator: installer.NewOrchestrator(cat, env.Runner, logging.Component(log, "installer")),
		surface: ui.NewTerminal(ui.TerminalOptions{
			Out:          out,
			Progress:     env.Progress,
			Notifier:     env.Notifier,
			Interactive:  env.Interactive,
			Countdown:    cfg.Install.CountdownSeconds,
			ShowTooltips: watch,
		}, logging.Component(log, "ui")),
	}

	// history is best effort; a broken database never blocks a check
	dbFile := paths.NewResolver(cfg).DBFile()
	if err := fsops.EnsureParentDir(env.Fs, dbFile); err != nil {
		log.Warn().Err(err).Msg("history disabled")
		return rt
	}
	database, err := db.New(ctx, dbFile)
	if err != nil {
		log.Warn().Err(err).Str("path", dbFile).Msg("history disabled")
		return rt
	}
	rt.database = database
	rt.history = app.NewDBHistory(database)
	return rt
}

func (rt *runtime) controller(opts app.Options) *app.Controller {
	return app.New(app.Deps{
		Detector:  rt.env.Detector,
		Checker:   rt.engine,
		Installer: rt.orchestrator,
		Scheduler: scheduler.New(logging.Component(rt.log, "scheduler")),
		Store:     rt.cfg.Store(),
		Surface:   rt.surface,
		History:   rt.history,
		Log:       logging.Component(rt.log, "controller"),
	}, opts)
}

// check runs one check outside the controller and records it
func (rt *runtime) check(ctx context.Context) core.CheckResult {
	d := rt.env.Detector.Detect()
	result := rt.engine.Check(ctx, d)
	if rt.history != nil {
		if err := rt.history.RecordCheck(ctx, result); err != nil {
			rt.log.Warn().Err(err).Msg("failed to record check")
		}
	}
	return result
}

func (rt *runtime) Close() {
	rt.surface.Wait()
	if rt.database != nil {
		rt.database.Close()
	}
}
