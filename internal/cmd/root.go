package cmd

import (
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithEnv(cfg, log, version, DefaultEnv(cfg, log))
}

// NewRootCmdWithEnv creates the root command with explicit host collaborators
func NewRootCmdWithEnv(cfg *config.Config, log *zerolog.Logger, version string, env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysupd",
		Short: "System update checker",
		Long: `sysupd checks whether your distribution's package manager has pending
updates, notifies you and launches the upgrade in a terminal when asked.

Supported: Arch Linux, CachyOS (pacman), Debian, Ubuntu (apt), KDE neon (pkcon).`,
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewWatchCmd(cfg, log, env))
	cmd.AddCommand(NewCheckCmd(cfg, log, env))
	cmd.AddCommand(NewListCmd(cfg, log, env))
	cmd.AddCommand(NewInstallCmd(cfg, log, env))
	cmd.AddCommand(NewConfigCmd(cfg, log))
	cmd.AddCommand(NewHistoryCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log, env))
	cmd.AddCommand(NewAutostartCmd(cfg, log, env))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
