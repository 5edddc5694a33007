package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/library"
)

func newLocationCommand(ctx *commandContext) *cobra.Command {
	locationCmd := &cobra.Command{
		Use:   "location",
		Short: "Manage library locations",
	}

	locationCmd.AddCommand(newLocationAddCommand(ctx))
	locationCmd.AddCommand(newLocationListCommand(ctx))

	return locationCmd
}

func newLocationAddCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a directory as a library location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := strings.TrimSpace(args[0])
			if !strings.HasPrefix(root, "~") {
				abs, err := filepath.Abs(root)
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", root, err)
				}
				root = abs
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("stat %q: %w", root, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%q is not a directory", root)
			}
			if name == "" {
				name = filepath.Base(root)
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				loc, err := store.CreateLocation(cmd.Context(), name, root)
				if err != nil {
					return fmt.Errorf("create location: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added location %d (%s) at %s\n", loc.ID, loc.Name, loc.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the directory name)")
	return cmd
}

func newLocationListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				locations, err := store.Locations(cmd.Context())
				if err != nil {
					return fmt.Errorf("list locations: %w", err)
				}
				if len(locations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No locations registered. Add one with `spacedrive location add <path>`.")
					return nil
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
						strconv.FormatInt(loc.ID, 10),
						loc.Name,
						loc.Path,
						strconv.FormatInt(files, 10),
						strconv.FormatInt(orphans, 10),
					})
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Path", "Paths", "Orphans"},
					rows, 1, 4, 5))
				return nil
			})
		},
	}
}
