package cmd

import (
	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/dupe"
)

func newDuplicatesCmd() *cobra.Command {
	var of string

	cmd := &cobra.Command{
		Use:     "duplicates",
		Aliases: []string{"dupes"},
		Short:   "Find duplicate and near-duplicate projects",
		Long: `Duplicates groups projects two ways: exact groups share identical
file content; similar groups have tempos within 5 BPM and more than
half their plugins in common. The most recently modified member of
each group is marked as the primary.`,
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

			if of != "" {
				target, err := resolveEntry(entries, of)
				if err != nil {
					return err
				}
				renderer.RenderEntries(dupe.DuplicatesOf(target, entries))
				return nil
			}

			renderer.RenderDuplicateGroups(dupe.Detect(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&of, "of", "", "Show duplicates of one project (by name or ID)")
	return cmd
}
