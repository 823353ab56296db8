package cmd

import (
	"github.com/quantmind-br/sysupd/internal/app"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command: one full check cycle
func NewCheckCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check for updates once",
		Long: `Run a single update check and apply the notification settings: a
failure or an up-to-date system is reported, and pending updates bring up the
Install Now / View List / Later prompt when running in a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt := newRuntime(ctx, cfg, log, env, cmd.OutOrStdout(), false)
			defer rt.Close()

			ctrl := rt.controller(app.Options{ExitWhenIdle: true})
			if err := ctrl.Run(ctx); err != nil {
				return err
			}

			state := ctrl.State()
			if state.Failure != nil {
				// already surfaced as a notification
				return state.Failure
			}

			switch state.Result.Status {
			case core.StatusUpdatesAvailable:
				ui.PrintInfo("%s: %d updates available", state.Distro.DisplayName(), state.Result.Count)
			default:
				ui.PrintSuccess("%s: system is up to date", state.Distro.DisplayName())
			}
			return nil
		},
	}

	return cmd
}
