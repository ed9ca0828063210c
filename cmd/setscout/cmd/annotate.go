package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
)

func newAnnotateCmd() *cobra.Command {
	var (
		tags       string
		notes      string
		status     string
		favorite   bool
		unfavorite bool
		color      string
	)

	cmd := &cobra.Command{
		Use:   "annotate <project>",
		Short: "Tag, note or rate a project",
		Long: `Annotate sets the user-owned fields of a catalog entry. These fields
are yours: a scan never touches them. The project can be referenced by
name, a unique name prefix, ID, or file path.`,
		Args: cobra.ExactArgs(1),
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
			entry, err := resolveEntry(entries, args[0])
			if err != nil {
				return err
			}

			var a catalog.Annotations
			changed := false

			if cmd.Flags().Changed("tags") {
				list := splitTags(tags)
				a.Tags = &list
				changed = true
			}
			if cmd.Flags().Changed("notes") {
				a.Notes = &notes
				changed = true
			}
			if cmd.Flags().Changed("status") {
				s := catalog.Status(status)
				if !catalog.ValidStatus(s) {
					return fmt.Errorf("unknown status %q (use none, idea, in_progress, mixing, finished or released)", status)
				}
				a.Status = &s
				changed = true
			}
			if favorite && unfavorite {
				return fmt.Errorf("--favorite and --unfavorite are mutually exclusive")
			}
			if favorite || unfavorite {
				v := favorite
				a.Favorite = &v
				changed = true
			}
			if cmd.Flags().Changed("color") {
				a.ColorLabel = &color
				changed = true
			}

			if !changed {
				return fmt.Errorf("nothing to change: pass --tags, --notes, --status, --favorite, --unfavorite or --color")
			}

			if err := store.UpdateAnnotations(cmd.Context(), entry.ID, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", entry.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags (empty clears)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes (empty clears)")
	cmd.Flags().StringVar(&status, "status", "", "Completion status")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Mark as favorite")
	cmd.Flags().BoolVar(&unfavorite, "unfavorite", false, "Unmark as favorite")
	cmd.Flags().StringVar(&color, "color", "", "Color label (empty clears)")
	return cmd
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
