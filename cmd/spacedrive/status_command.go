package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/preflight"
)

const recentJobLimit = 10

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show host health, locations, and recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				fmt.Fprintln(out, renderSectionHeader("Host", colorize))
				for _, result := range preflight.RunAll(cfg) {
					fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSectionHeader("Locations", colorize))
				if err := renderLocations(cmd, store); err != nil {
					return err
				}

				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSectionHeader("Recent jobs", colorize))
				return renderRecentJobs(cmd, store)
			})
		},
	}
}

func renderLocations(cmd *cobra.Command, store *library.Store) error {
	out := cmd.OutOrStdout()
	locations, err := store.Locations(cmd.Context())
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}
	if len(locations) == 0 {
		fmt.Fprintln(out, statusIndent+"none registered")
		return nil
	}

	objects, err := store.ObjectCount(cmd.Context())
	if err != nil {
		return fmt.Errorf("count objects: %w", err)
	}

	rows := make([][]string, 0, len(locations))
	for _, loc := range locations {
		files, err := store.CountFilePaths(cmd.Context(), loc.ID)
		if err != nil {
			return fmt.Errorf("count file paths: %w", err)
		}
		orphans, err := store.CountOrphanFilePaths(cmd.Context(), loc.ID, "")
		if err != nil {
			return fmt.Errorf("count orphans: %w", err)
		}
		rows = append(rows, []string{
			loc.Name,
			loc.Path,
			strconv.FormatInt(files, 10),
			strconv.FormatInt(orphans, 10),
		})
	}

	fmt.Fprintln(out, renderTable([]string{"Name", "Path", "Paths", "Orphans"}, rows, 3, 4))
	fmt.Fprintf(out, "%s%d unique objects in the library\n", statusIndent, objects)
	return nil
}

func renderRecentJobs(cmd *cobra.Command, store *library.Store) error {
	out := cmd.OutOrStdout()
	jobs, err := store.RecentJobs(cmd.Context(), recentJobLimit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, statusIndent+"none yet")
		return nil
	}

	rows := make([][]string, 0, len(jobs))
	for _, rec := range jobs {
		rows = append(rows, []string{
			shortJobID(rec.ID),
			rec.Name,
			jobStatusLabel(rec.Status),
			fmt.Sprintf("%.0f%%", rec.ProgressPercent),
			jobDetail(&rec),
			rec.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"Job", "Name", "Status", "Progress", "Detail", "Updated"},
		rows, 4))
	return nil
}

func shortJobID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// jobStatusLabel renders a status slug as a display label, "early_finished"
// becoming "Early Finished".
func jobStatusLabel(status library.JobStatus) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(string(status), "_", " "))
}

func jobDetail(rec *library.JobRecord) string {
	if rec.Status == library.JobFailed || rec.Status == library.JobEarlyFinished {
		return rec.ErrorMessage
	}
	return rec.ProgressMessage
}
