package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/sysupd/internal/app"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command: the long-running checker
func NewWatchCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check for updates periodically",
		Long: `Run in the foreground, checking for updates shortly after start and then
every configured interval. Settings edits are applied while running.

Signals:
  SIGUSR1  check for updates now
  SIGUSR2  install available updates
  SIGHUP   reload settings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt := newRuntime(ctx, cfg, log, env, cmd.OutOrStdout(), true)
			defer rt.Close()

			ctrl := rt.controller(app.Options{
				FirstCheckDelay: cfg.Check.FirstCheckDelay,
				WatchSettings:   true,
			})

			actions := make(chan os.Signal, 1)
			signal.Notify(actions, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGHUP)
			defer signal.Stop(actions)
			go dispatchSignals(ctx, actions, ctrl, log)

			ui.PrintInfo("Watching for updates (pid %d)", os.Getpid())
			log.Info().
				Int("pid", os.Getpid()).
				Str("config", cfg.File).
				Msg("watcher started")

			return ctrl.Run(ctx)
		},
	}

	return cmd
}

type menuRequester interface {
	RequestCheck()
	RequestInstall()
	ReloadSettings()
}

// dispatchSignals maps menu signals to controller requests
func dispatchSignals(ctx context.Context, sigs <-chan os.Signal, ctrl menuRequester, log *zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigs:
			log.Debug().Str("signal", sig.String()).Msg("menu signal received")
			switch sig {
			case syscall.SIGUSR1:
				ctrl.RequestCheck()
			case syscall.SIGUSR2:
				ctrl.RequestInstall()
			case syscall.SIGHUP:
				ctrl.ReloadSettings()
			}
		}
	}
}
