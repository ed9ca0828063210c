package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/crawler"
	"github.com/setscout/setscout/internal/scan"
)

func newScanCmd() *cobra.Command {
	var locationRef string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan configured locations for Live sets",
		Long: `Scan crawls every enabled location, parses new and changed .als
files, and updates the catalog. User tags, notes and status survive
re-scans. Ctrl-C aborts between batches; everything already written
stays written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScan(ctx, locationRef)
		},
	}

	cmd.Flags().StringVar(&locationRef, "location", "", "Scan only the location with this ID or name")
	return cmd
}

func runScan(ctx context.Context, locationRef string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	c := crawler.New(cfg.Paths.Exclude...)
	if err := ensureLocations(ctx, store, c, cfg.Paths.Roots); err != nil {
		return err
	}

	renderer := newRenderer()
	o := scan.New(scan.Options{
		Store:     store,
		Crawler:   c,
		BatchSize: cfg.Scan.BatchSize,
		CacheSize: cfg.Scan.CacheSize,
		LockDir:   filepath.Dir(cfg.Paths.Database),
		Progress:  renderer.HandleScanEvent,
	})

	if locationRef != "" {
		loc, err := findLocation(ctx, store, locationRef)
		if err != nil {
			return err
		}
		_, err = o.ScanLocation(ctx, loc)
		return err
	}

	_, err = o.Scan(ctx)
	return err
}

// ensureLocations seeds the location table on first run: auto-detected
// default roots plus any roots from the config file.
func ensureLocations(ctx context.Context, store catalog.Store, c *crawler.Crawler, extraRoots []string) error {
	existing, err := store.FetchLocations(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, loc := range existing {
		known[loc.Path] = true
	}

	add := func(path string, auto bool) error {
		if known[path] {
			return nil
		}
		known[path] = true
		return store.SaveLocation(ctx, &catalog.Location{
			ID:           uuid.NewString(),
			Path:         path,
			Name:         filepath.Base(path),
			AutoDetected: auto,
			Enabled:      true,
		})
	}

	if len(existing) == 0 {
		for _, root := range c.DefaultRoots() {
			if err := add(root, true); err != nil {
				return err
			}
		}
	}
	for _, root := range extraRoots {
		if err := add(root, false); err != nil {
			return err
		}
	}
	return nil
}

func findLocation(ctx context.Context, store catalog.Store, ref string) (*catalog.Location, error) {
	locations, err := store.FetchLocations(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		if loc.ID == ref || loc.Name == ref || loc.Path == ref {
			return loc, nil
		}
	}
	return nil, &locationNotFoundError{ref: ref}
}

type locationNotFoundError struct{ ref string }

func (e *locationNotFoundError) Error() string {
	return "no location matches " + e.ref + " (see 'setscout locations list')"
}
