package cmd

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// listOutput is the --json shape of the list command
type listOutput struct {
	Distro    core.Distribution `json:"distro"`
	Status    string            `json:"status"`
	Count     int               `json:"count"`
	Updates   []string          `json:"updates"`
	Message   string            `json:"message,omitempty"`
	CheckedAt time.Time         `json:"checked_at"`
}

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger, env *Env) *cobra.Command {
	var (
		jsonOutput bool
		filter     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending updates",
		Long:  `Check for updates and print the pending packages without installing anything.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rt := newRuntime(ctx, cfg, log, env, cmd.OutOrStdout(), false)
			defer rt.Close()

			result := rt.check(ctx)
			lines := ui.FilterLines(result.Lines(), filter)

			// JSON output
			if jsonOutput {
				out := listOutput{
					Distro:    result.Distro,
					Status:    result.Status.String(),
					Count:     result.Count,
					Updates:   lines,
					Message:   result.Message,
					CheckedAt: result.CheckedAt,
				}
				if out.Updates == nil {
					out.Updates = []string{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
				return result.Err
			}

			switch result.Status {
			case core.StatusCheckFailed:
				ui.PrintError("update check failed: %s", result.Message)
				return result.Err
			case core.StatusNoUpdates:
				ui.PrintSuccess("%s: system is up to date", result.Distro.DisplayName())
				return nil
			}

			ui.PrintHeader("Pending Updates")
			ui.PrintKeyValue("Distribution", result.Distro.DisplayName())

			if len(lines) == 0 {
				ui.PrintWarning("No updates match %q", filter)
				return nil
			}

			rows := ui.ListingRows(strings.Join(lines, "\n"))
			ui.RenderListing(cmd.OutOrStdout(), rows)

			if filter != "" {
				ui.PrintInfo("Showing %d of %d", len(lines), len(result.Lines()))
			} else {
				ui.PrintInfo("%d updates available", result.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show packages fuzzy matching this text")

	return cmd
}
