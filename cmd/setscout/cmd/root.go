// Package cmd provides the CLI commands for setscout.
package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/config"
	"github.com/setscout/setscout/internal/logging"
	"github.com/setscout/setscout/internal/ui"
	"github.com/setscout/setscout/pkg/version"
)

var (
	configPath     string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the setscout CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setscout",
		Short: "Catalog and search your Ableton Live sets",
		Long: `setscout indexes Ableton Live project files (.als) across your
disks into a searchable catalog: tempo, time signature, track counts,
plugins, samples and musical keys, plus your own tags and notes.

Run 'setscout scan' to build the catalog, then 'setscout list' or
'setscout search' to explore it.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("setscout version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.setscout/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.setscout/logs/")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if loggingCleanup != nil {
			loggingCleanup()
			loggingCleanup = nil
		}
	}

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newDuplicatesCmd())
	cmd.AddCommand(newLocationsCmd())
	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	appCfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg := loggingConfigFrom(appCfg, debugMode)
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)

	if debugMode {
		slog.Info("debug logging enabled", slog.String("log_file", cfg.FilePath))
	}
	return nil
}

// loggingConfigFrom maps the log section of the app config onto the
// logging setup. The --debug flag forces debug level over the configured
// one.
func loggingConfigFrom(appCfg *config.Config, debug bool) logging.Config {
	cfg := logging.DefaultConfig()
	if appCfg.Log.Level != "" {
		cfg.Level = appCfg.Log.Level
	}
	if appCfg.Log.File != "" {
		cfg.FilePath = appCfg.Log.File
	}
	if debug {
		cfg.Level = "debug"
	}
	return cfg
}

// loadConfig loads the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// openStore opens the catalog store from config.
func openStore(cfg *config.Config) (*catalog.SQLiteStore, error) {
	return catalog.NewSQLiteStore(cfg.Paths.Database)
}

// resolveEntry finds a single entry by ID, exact name, or unique name
// prefix.
func resolveEntry(entries []*catalog.Entry, ref string) (*catalog.Entry, error) {
	var prefix []*catalog.Entry
	for _, e := range entries {
		if e.ID == ref || e.Name == ref || e.FilePath == ref {
			return e, nil
		}
		if strings.HasPrefix(strings.ToLower(e.Name), strings.ToLower(ref)) {
			prefix = append(prefix, e)
		}
	}

	switch len(prefix) {
	case 1:
		return prefix[0], nil
	case 0:
		return nil, fmt.Errorf("no project matches %q", ref)
	default:
		names := make([]string, len(prefix))
		for i, e := range prefix {
			names[i] = e.Name
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

// newRenderer builds the terminal renderer used by all commands.
func newRenderer() *ui.Renderer {
	return ui.NewRenderer(ui.DefaultConfig())
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
