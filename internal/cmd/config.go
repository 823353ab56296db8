package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// settingSetters maps the user-facing keys to Settings fields
var settingSetters = map[string]func(s *core.Settings, value string) error{
	"auto-check": func(s *core.Settings, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto-check: %w", err)
		}
		s.AutoCheckEnabled = b
		return nil
	},
	"interval": func(s *core.Settings, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		s.AutoCheckIntervalMinutes = n
		return nil
	},
	"notify-updates": func(s *core.Settings, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("notify-updates: %w", err)
		}
		s.NotifyOnUpdates = b
		return nil
	},
	"notify-no-updates": func(s *core.Settings, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("notify-no-updates: %w", err)
		}
		s.NotifyOnNoUpdates = b
		return nil
	},
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewConfigCmd creates the config command
func NewConfigCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change the persisted settings. A running watcher picks up
changes automatically.`,
	}

	cmd.AddCommand(newConfigShowCmd(cfg))
	cmd.AddCommand(newConfigSetCmd(cfg, log))

	return cmd
}

func newConfigShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := cfg.Store()
			s, err := store.Load()
			if err != nil {
				ui.PrintError("failed to load settings: %v", err)
				return err
			}

			ui.PrintHeader("Settings")
			ui.PrintKeyValue("File", store.Path())
			ui.PrintKeyValue("auto-check", ui.SprintOK(s.AutoCheckEnabled))
			ui.PrintKeyValue("interval", fmt.Sprintf("%d minutes", s.AutoCheckIntervalMinutes))
			ui.PrintKeyValue("notify-updates", ui.SprintOK(s.NotifyOnUpdates))
			ui.PrintKeyValue("notify-no-updates", ui.SprintOK(s.NotifyOnNoUpdates))
			return nil
		},
	}
}

func newConfigSetCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting",
		Long:      "Change a setting. Keys: " + strings.Join(settingKeys(), ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: settingKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			set, ok := settingSetters[key]
			if !ok {
				return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingKeys(), ", "))
			}

			store := cfg.Store()
			s, err := store.Load()
			if err != nil {
				return err
			}
			if err := set(&s, value); err != nil {
				return err
			}

			normalized := s.Normalize()
			if normalized.AutoCheckIntervalMinutes != s.AutoCheckIntervalMinutes {
				ui.PrintWarning("interval clamped to %d minutes", normalized.AutoCheckIntervalMinutes)
			}

			if err := store.Save(normalized); err != nil {
				ui.PrintError("failed to save settings: %v", err)
				return err
			}
			log.Info().Str("key", key).Str("value", value).Str("file", store.Path()).Msg("setting saved")
			ui.PrintSuccess("%s updated", key)
			return nil
		},
	}
}
