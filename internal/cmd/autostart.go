package cmd

import (
	"fmt"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/desktop"
	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/quantmind-br/sysupd/internal/paths"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewAutostartCmd creates the autostart command
func NewAutostartCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Start the watcher on login",
		Long:  `Manage the XDG autostart entry that runs "sysupd watch" when the desktop session starts.`,
	}

	resolver := paths.NewResolver(cfg)

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Install the autostart entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			binary, err := env.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}

			path := resolver.AutostartFile()
			if err := desktop.WriteFile(env.Fs, path, desktop.AutostartEntry(binary)); err != nil {
				ui.PrintError("failed to write autostart entry: %v", err)
				return err
			}

			log.Info().Str("path", path).Str("exec", binary).Msg("autostart enabled")
			ui.PrintSuccess("Autostart enabled: %s", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Remove the autostart entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolver.AutostartFile()
			if !fsops.Exists(env.Fs, path) {
				ui.PrintInfo("Autostart is not enabled")
				return nil
			}
			if err := env.Fs.Remove(path); err != nil {
				return fmt.Errorf("remove autostart entry: %w", err)
			}

			log.Info().Str("path", path).Msg("autostart disabled")
			ui.PrintSuccess("Autostart disabled")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the autostart entry is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolver.AutostartFile()
			entry, err := desktop.ReadFile(env.Fs, path)
			if err != nil {
				ui.PrintKeyValue("Autostart", ui.SprintOK(false))
				return nil
			}

			enabled := !entry.Hidden && (entry.AutostartEnabled == nil || *entry.AutostartEnabled)
			ui.PrintKeyValue("Autostart", ui.SprintOK(enabled))
			ui.PrintKeyValue("File", path)
			ui.PrintKeyValue("Exec", entry.Exec)
			return nil
		},
	})

	return cmd
}
