package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/db"
	"github.com/quantmind-br/sysupd/internal/paths"
	"github.com/quantmind-br/sysupd/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const historyTimeFormat = "2006-01-02 15:04"

// NewHistoryCmd creates the history command
func NewHistoryCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		limit      int
		installs   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded checks and install sessions",
		Long:  `Show the most recent update checks, or install sessions with --installs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			dbFile := paths.NewResolver(cfg).DBFile()
			database, err := db.New(ctx, dbFile)
			if err != nil {
				ui.PrintError("failed to open database: %v", err)
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			if installs {
				rows, err := database.ListInstalls(ctx, limit)
				if err != nil {
					return fmt.Errorf("list installs: %w", err)
				}
				log.Debug().Int("rows", len(rows)).Msg("install history loaded")

				if jsonOutput {
					return encodeJSON(cmd, rows)
				}
				if len(rows) == 0 {
					ui.PrintInfo("No install sessions recorded")
					return nil
				}
				printInstallTable(cmd, rows)
				return nil
			}

			rows, err := database.ListChecks(ctx, limit)
			if err != nil {
				return fmt.Errorf("list checks: %w", err)
			}
			log.Debug().Int("rows", len(rows)).Msg("check history loaded")

			if jsonOutput {
				return encodeJSON(cmd, rows)
			}
			if len(rows) == 0 {
				ui.PrintInfo("No checks recorded")
				return nil
			}
			printCheckTable(cmd, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&installs, "installs", false, "show install sessions instead of checks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCheckTable prints checks newest first
func printCheckTable(cmd *cobra.Command, checks []db.Check) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Checked", "Distro", "Status", "Updates", "Message"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, c := range checks {
		table.Append(
			c.CheckedAt.Local().Format(historyTimeFormat),
			c.Distro,
			ui.ColorizeStatus(c.Status),
			strconv.Itoa(c.Count),
			c.Message,
		)
	}

	table.Render()
}

// printInstallTable prints install sessions newest first
func printInstallTable(cmd *cobra.Command, installs []db.Install) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Session", "Distro", "Started", "Duration", "Exit", "Reboot"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, in := range installs {
		duration, exit := "running", "-"
		if in.FinishedAt != nil {
			duration = in.FinishedAt.Sub(in.StartedAt).Round(time.Second).String()
		}
		if in.ExitCode != nil {
			exit = strconv.Itoa(*in.ExitCode)
		}
		table.Append(
			shortID(in.SessionID),
			in.Distro,
			in.StartedAt.Local().Format(historyTimeFormat),
			duration,
			exit,
			ui.SprintOK(in.RebootRequested),
		)
	}

	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
