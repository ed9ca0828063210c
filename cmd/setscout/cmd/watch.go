package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/config"
	"github.com/setscout/setscout/internal/crawler"
	"github.com/setscout/setscout/internal/scan"
	"github.com/setscout/setscout/internal/volumes"
)

func newWatchCmd() *cobra.Command {
	var mountRoot string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for external volumes and scan them on mount",
		Long: `Watch monitors the volume mount point. When a drive is attached it
is added as a scan location (if new) and scanned immediately. Runs
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, mountRoot)
		},
	}

	cmd.Flags().StringVar(&mountRoot, "mount-root", volumes.DefaultMountRoot, "Directory where volumes are mounted")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, mountRoot string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Scan.WatchVolumes {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		return fmt.Errorf("volume watching is disabled (scan.watch_volumes in %s)", path)
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	w, err := volumes.New(mountRoot)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}

	renderer := newRenderer()
	orchestrator := scan.New(scan.Options{
		Store:     store,
		Crawler:   crawler.New(cfg.Paths.Exclude...),
		BatchSize: cfg.Scan.BatchSize,
		CacheSize: cfg.Scan.CacheSize,
		LockDir:   filepath.Dir(cfg.Paths.Database),
		Progress:  renderer.HandleScanEvent,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for volumes (Ctrl-C to stop)\n", mountRoot)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			slog.Warn("volume_watcher_error", slog.String("error", err.Error()))
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			switch ev.Kind {
			case volumes.Mounted:
				fmt.Fprintf(cmd.OutOrStdout(), "Volume mounted: %s\n", ev.Name)
				if err := scanMountedVolume(ctx, store, orchestrator, ev); err != nil {
					slog.Warn("mount_scan_failed",
						slog.String("volume", ev.Name),
						slog.String("error", err.Error()))
				}
			case volumes.Unmounted:
				fmt.Fprintf(cmd.OutOrStdout(), "Volume unmounted: %s\n", ev.Name)
			}
		}
	}
}

// scanMountedVolume registers the volume as a location if needed, then
// scans just that location.
func scanMountedVolume(ctx context.Context, store catalog.Store, o *scan.Orchestrator, ev volumes.Event) error {
	loc, err := findLocation(ctx, store, ev.Path)
	if err != nil {
		loc = &catalog.Location{
			ID:           uuid.NewString(),
			Path:         ev.Path,
			Name:         ev.Name,
			AutoDetected: true,
			Enabled:      true,
		}
		if err := store.SaveLocation(ctx, loc); err != nil {
			return err
		}
	}
	if !loc.Enabled {
		return nil
	}

	_, err = o.ScanLocation(ctx, loc)
	return err
}
