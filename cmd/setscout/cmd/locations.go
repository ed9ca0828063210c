package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
)

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage scan locations",
	}

	cmd.AddCommand(newLocationsListCmd())
	cmd.AddCommand(newLocationsAddCmd())
	cmd.AddCommand(newLocationsRemoveCmd())
	cmd.AddCommand(newLocationsEnableCmd(true))
	cmd.AddCommand(newLocationsEnableCmd(false))
	return cmd
}

func newLocationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured locations",
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

			locations, err := store.FetchLocations(cmd.Context())
			if err != nil {
				return err
			}
			newRenderer().RenderLocations(locations)
			return nil
		},
	}
}

func newLocationsAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a scan location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot add %s: %w", path, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", path)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			existing, err := store.FetchLocations(cmd.Context())
			if err != nil {
				return err
			}
			for _, loc := range existing {
				if loc.Path == path {
					return fmt.Errorf("%s is already configured as %q", path, loc.Name)
				}
			}

			if name == "" {
				name = filepath.Base(path)
			}
			loc := &catalog.Location{
				ID:      uuid.NewString(),
				Path:    path,
				Name:    name,
				Enabled: true,
			}
			if err := store.SaveLocation(cmd.Context(), loc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added location %q (%s)\n", loc.Name, loc.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the directory name)")
	return cmd
}

func newLocationsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|name|path>",
		Short: "Remove a scan location (cataloged projects are kept)",
		Args:  cobra.ExactArgs(1),
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

			loc, err := findLocation(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteLocation(cmd.Context(), loc.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed location %q\n", loc.Name)
			return nil
		},
	}
}

func newLocationsEnableCmd(enable bool) *cobra.Command {
	use, short := "enable", "Enable a location for scanning"
	if !enable {
		use, short = "disable", "Disable a location without removing it"
	}

	return &cobra.Command{
		Use:   use + " <id|name|path>",
		Short: short,
		Args:  cobra.ExactArgs(1),
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

			loc, err := findLocation(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			loc.Enabled = enable
			if err := store.SaveLocation(cmd.Context(), loc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Location %q %sd\n", loc.Name, use)
			return nil
		},
	}
}
