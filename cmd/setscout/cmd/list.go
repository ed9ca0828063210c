package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
)

func newListCmd() *cobra.Command {
	var favoritesOnly bool
	var statusFilter string
	var detail bool

	cmd := &cobra.Command{
		Use:   "list [project]",
		Short: "List cataloged projects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.FetchAll(cmd.Context())
			if err != nil {
				return err
			}

			renderer := newRenderer()

			if len(args) == 1 {
				entry, err := resolveEntry(entries, args[0])
				if err != nil {
					return err
				}
				renderer.RenderEntryDetail(entry)
				return nil
			}

			filtered := entries[:0:0]
			for _, e := range entries {
				if favoritesOnly && !e.Favorite {
					continue
				}
				if statusFilter != "" && e.Status != catalog.Status(statusFilter) {
					continue
				}
				filtered = append(filtered, e)
			}

			if detail {
				for _, e := range filtered {
					renderer.RenderEntryDetail(e)
				}
				return nil
			}
			renderer.RenderEntries(filtered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only favorites")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status (idea, in_progress, mixing, finished, released)")
	cmd.Flags().BoolVar(&detail, "detail", false, "Full detail per project")
	return cmd
}
