package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/walker"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <location>",
		Short: "Index a location's files as orphan paths",
		Long: `Walk a location root and record every visible file and directory in the
library. New entries become orphan paths for a later identify run; entries
already indexed are left alone, so scanning is safe to repeat.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				loc, err := resolveLocation(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				logger, err := ctx.stdoutLogger(cfg)
				if err != nil {
					return err
				}

				result, err := walker.Scan(cmd.Context(), store, logger, loc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %s: %d new, %d already indexed, %d skipped\n",
					loc.Path, result.Indexed, result.Reused, result.Skipped)
				return nil
			})
		},
	}
}
