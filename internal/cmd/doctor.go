package cmd

import (
	"fmt"
	"os"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/db"
	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/quantmind-br/sysupd/internal/paths"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// requirement is an external command the host must provide
type requirement struct {
	name    string
	purpose string
}

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the host can run update checks and installs",
		Long:  `Check distribution support, required commands, directories, the history database and the desktop session.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			resolver := paths.NewResolver(cfg)

			var issues []string
			var warnings []string

			ui.PrintHeader("System Diagnostics")

			// 1. Distribution
			ui.PrintSubheader("Distribution")
			d := env.Detector.Detect()
			cat := newCatalog(cfg)
			if d.Supported() {
				ui.PrintSuccess("%s (%s)", d.DisplayName(), d.Family())
				ui.PrintKeyValue("Commands", cat.Describe(d))
			} else {
				ui.PrintError("unsupported distribution")
				issues = append(issues, "Distribution is not supported (Arch, CachyOS, Debian, Ubuntu, KDE neon)")
			}

			// 2. Commands
			ui.PrintSubheader("Commands")
			var deps []requirement
			if provider, err := cat.Provider(d); err == nil {
				deps = append(deps, requirement{provider.CheckCommand().Name, "List pending updates"})
			}
			deps = append(deps, requirement{cat.Terminal(), "Run interactive upgrades"})
			if elev := cat.Elevation().Command; elev != "" {
				deps = append(deps, requirement{elev, "Gain privileges for upgrades and reboot"})
			}

			for _, dep := range deps {
				if dep.name == "" {
					continue
				}
				if env.Runner.CommandExists(dep.name) {
					ui.PrintSuccess("%s: found", dep.name)
				} else {
					ui.PrintError("%s: NOT FOUND", dep.name)
					issues = append(issues, fmt.Sprintf("Missing command: %s (%s)", dep.name, dep.purpose))
				}
			}

			// 3. Directories
			ui.PrintSubheader("Directories")
			dataDir := resolver.DataDir()
			if err := fsops.EnsureDir(env.Fs, dataDir, 0755); err != nil {
				ui.PrintError("Data directory: %v", err)
				issues = append(issues, fmt.Sprintf("Cannot create data directory: %s", dataDir))
			} else if err := fsops.CheckWritable(env.Fs, dataDir); err != nil {
				ui.PrintError("Data directory: NOT WRITABLE (%s)", dataDir)
				issues = append(issues, fmt.Sprintf("Directory not writable: %s", dataDir))
			} else {
				ui.PrintSuccess("Data directory: %s", dataDir)
			}

			// 4. Database
			ui.PrintSubheader("History Database")
			dbFile := resolver.DBFile()
			database, err := db.New(ctx, dbFile)
			if err != nil {
				ui.PrintWarning("Database: NOT ACCESSIBLE")
				warnings = append(warnings, fmt.Sprintf("History disabled: %v", err))
			} else {
				defer database.Close()
				ui.PrintSuccess("Database: accessible (%s)", dbFile)
				if checks, err := database.ListChecks(ctx, 1); err == nil && len(checks) > 0 {
					last := checks[0]
					ui.PrintKeyValue("Last check", fmt.Sprintf("%s (%s)", last.CheckedAt.Local().Format(historyTimeFormat), ui.ColorizeStatus(last.Status)))
				}
				if failed, err := database.LastCheck(ctx, core.StatusCheckFailed.String()); err == nil {
					ui.PrintKeyValue("Last failure", fmt.Sprintf("%s: %s", failed.CheckedAt.Local().Format(historyTimeFormat), failed.Message))
				}
			}

			// 5. Environment
			ui.PrintSubheader("Environment")
			configFile := resolver.ConfigFile()
			if fsops.Exists(env.Fs, configFile) {
				ui.PrintKeyValue("Config", configFile)
			} else {
				ui.PrintKeyValue("Config", configFile+" (defaults)")
			}
			if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
				ui.PrintWarning("DBUS_SESSION_BUS_ADDRESS not set")
				warnings = append(warnings, "Desktop notifications unavailable without a session bus")
			} else {
				ui.PrintSuccess("Session bus available")
			}
			ui.PrintKeyValue("Interactive", ui.SprintOK(env.Interactive))

			// Summary
			ui.PrintHeader("Summary")

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			log.Debug().Int("issues", len(issues)).Int("warnings", len(warnings)).Msg("doctor finished")

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}

			return nil
		},
	}

	return cmd
}
