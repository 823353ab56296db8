package cmd

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/sysupd/internal/app"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errConfirmationRequired is returned when install needs a prompt but stdin
// is not a terminal
var errConfirmationRequired = errors.New("confirmation required: rerun with --yes")

// NewInstallCmd creates the install command
func NewInstallCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install pending updates in a terminal",
		Long: `Check for updates and, when any are pending, launch the distribution's
upgrade command in a terminal emulator. The command waits for the terminal to
close and then offers a reboot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt := newRuntime(ctx, cfg, log, env, cmd.OutOrStdout(), false)
			defer rt.Close()

			result := rt.check(ctx)
			switch result.Status {
			case core.StatusCheckFailed:
				ui.PrintError("update check failed: %s", result.Message)
				return result.Err
			case core.StatusNoUpdates:
				ui.PrintSuccess("%s: system is up to date", result.Distro.DisplayName())
				return nil
			}

			if !assumeYes {
				ui.RenderListing(cmd.OutOrStdout(), ui.ListingRows(result.Listing))
				if !env.Interactive {
					return errConfirmationRequired
				}
				ok, err := env.Confirm(fmt.Sprintf("Install %d updates", result.Count))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintInfo("Installation cancelled")
					return nil
				}
			}

			ctrl := rt.controller(app.Options{ExitWhenIdle: true, SkipFirstCheck: true})
			ctrl.Prime(result)
			ctrl.RequestInstall()
			return ctrl.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
