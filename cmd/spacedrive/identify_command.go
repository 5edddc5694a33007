package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/daemon"
	"github.com/tejash-9/spacedrive/internal/identifier"
	"github.com/tejash-9/spacedrive/internal/library"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var subPath string
	var now bool

	cmd := &cobra.Command{
		Use:   "identify <location>",
		Short: "Queue identification of a location's orphan paths",
		Long: `Queue a file identifier run for a location. The run computes a content
identifier for every orphan path, deduplicates identical content into
objects, and links each path to its object.

Examples:
  spacedrive identify photos                  # whole location, runs on the daemon
  spacedrive identify photos --sub-path docs  # only the docs subtree
  spacedrive identify photos --now            # process the queue in this process`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				loc, err := resolveLocation(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}

				payload := identifier.Payload{LocationID: loc.ID, SubPath: strings.TrimSpace(subPath)}
				rec, err := store.EnqueueJob(cmd.Context(), identifier.JobName, payload)
				if err != nil {
					return fmt.Errorf("queue identify job: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s for location %s\n", rec.ID, loc.Name)

				if !now {
					return nil
				}

				logger, err := ctx.stdoutLogger(cfg)
				if err != nil {
					return err
				}
				d, err := daemon.New(cfg, store, logger)
				if err != nil {
					return err
				}
				d.RunPending(cmd.Context())

				done, err := store.JobByID(cmd.Context(), rec.ID)
				if err != nil {
					return fmt.Errorf("read job result: %w", err)
				}
				return printJobResult(cmd, done)
			})
		},
	}

	cmd.Flags().StringVar(&subPath, "sub-path", "", "Restrict the run to a directory inside the location")
	cmd.Flags().BoolVar(&now, "now", false, "Process the queue in this process instead of waiting for the daemon")
	return cmd
}

func printJobResult(cmd *cobra.Command, rec *library.JobRecord) error {
	out := cmd.OutOrStdout()
	switch rec.Status {
	case library.JobCompleted:
		var state identifier.State
		if err := json.Unmarshal([]byte(rec.StateJSON), &state); err != nil {
			return fmt.Errorf("decode job state: %w", err)
		}
		fmt.Fprintf(out, "Identified %d orphan paths: %d objects created, %d linked, %d ignored\n",
			state.Report.TotalOrphanPaths,
			state.Report.ObjectsCreated,
			state.Report.ObjectsLinked,
			state.Report.ObjectsIgnored)
		return nil
	case library.JobEarlyFinished:
		fmt.Fprintf(out, "Nothing to do: %s\n", rec.ErrorMessage)
		return nil
	case library.JobFailed:
		return fmt.Errorf("identify failed: %s", rec.ErrorMessage)
	default:
		fmt.Fprintf(out, "Job %s is %s\n", rec.ID, rec.Status)
		return nil
	}
}
