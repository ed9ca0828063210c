package ui

import (
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/dupe"
	"github.com/setscout/setscout/internal/scan"
)

// Renderer writes scan progress and catalog listings as plain text.
// Safe for concurrent use.
type Renderer struct {
	mu  sync.Mutex
	cfg Config
}

// NewRenderer creates a renderer with the given config.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Output == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{cfg: cfg}
}

// HandleScanEvent renders one scan progress event. Intended to be passed
// as the orchestrator's progress callback.
func (r *Renderer) HandleScanEvent(e scan.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case scan.KindStarting:
		fmt.Fprintln(r.cfg.Output, "Scanning for Live sets...")
	case scan.KindDiscovering:
		fmt.Fprintf(r.cfg.Output, "%s %s\n", r.cfg.paint(colorDim, "[discover]"), e.Location)
	case scan.KindParsing:
		fmt.Fprintf(r.cfg.Output, "%s %d/%d %s\n",
			r.cfg.paint(colorDim, "[parse]"), e.Current, e.Total, e.File)
	case scan.KindCompleted:
		fmt.Fprintf(r.cfg.Output, "%s indexed %d sets in %s\n",
			r.cfg.paint(colorGreen, "Done:"), e.Count, e.Elapsed.Round(10*time.Millisecond))
	case scan.KindFailed:
		fmt.Fprintf(r.cfg.Output, "%s %v\n", r.cfg.paint(colorRed, "Scan failed:"), e.Err)
	}
}

// RenderEntries prints a catalog listing as an aligned table.
func (r *Renderer) RenderEntries(entries []*catalog.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entries) == 0 {
		fmt.Fprintln(r.cfg.Output, "No projects in the catalog. Run 'setscout scan' first.")
		return
	}

	w := tabwriter.NewWriter(r.cfg.Output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBPM\tTRACKS\tKEY\tSTATUS\tVOLUME")
	for _, e := range entries {
		bpm := "-"
		if e.Tempo != nil {
			bpm = fmt.Sprintf("%.1f", *e.Tempo)
		}
		key := "-"
		if len(e.Keys) > 0 {
			key = e.Keys[0]
		}
		name := e.Name
		if e.Favorite {
			name = "* " + name
		}
		fmt.Fprintf(w, "%s\t%s\t%da %dm %dr\t%s\t%s\t%s\n",
			name, bpm, e.AudioTracks, e.MidiTracks, e.ReturnTracks,
			key, e.Status, e.Volume)
	}
	_ = w.Flush()
	fmt.Fprintf(r.cfg.Output, "%d projects\n", len(entries))
}

// RenderLocations prints the configured scan roots.
func (r *Renderer) RenderLocations(locations []*catalog.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(locations) == 0 {
		fmt.Fprintln(r.cfg.Output, "No locations configured.")
		return
	}

	w := tabwriter.NewWriter(r.cfg.Output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPATH\tENABLED\tPROJECTS\tLAST SCAN")
	for _, loc := range locations {
		scanned := "never"
		if loc.LastScannedAt != nil {
			scanned = loc.LastScannedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%s\n",
			loc.ID, loc.Name, loc.Path, loc.Enabled, loc.ProjectCount, scanned)
	}
	_ = w.Flush()
}

// RenderDuplicateGroups prints duplicate clusters, primary first.
func (r *Renderer) RenderDuplicateGroups(groups []*dupe.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(groups) == 0 {
		fmt.Fprintln(r.cfg.Output, "No duplicates found.")
		return
	}

	for i, g := range groups {
		label := "similar"
		if g.Kind == dupe.KindExact {
			label = "exact"
		}
		fmt.Fprintf(r.cfg.Output, "Group %d (%s, %d members)\n", i+1, label, len(g.Members))

		primary := g.Primary()
		for _, m := range g.Members {
			marker := "  "
			if primary != nil && m.ID == primary.ID {
				marker = r.cfg.paint(colorYellow, "> ")
			}
			fmt.Fprintf(r.cfg.Output, "%s%s  %s\n", marker, m.Name, m.FilePath)
		}
	}
	fmt.Fprintf(r.cfg.Output, "%d duplicate groups\n", len(groups))
}

// RenderEntryDetail prints one entry in full.
func (r *Renderer) RenderEntryDetail(e *catalog.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.cfg.Output, "%s\n", e.Name)
	fmt.Fprintf(r.cfg.Output, "  Path:     %s\n", e.FilePath)
	fmt.Fprintf(r.cfg.Output, "  Volume:   %s\n", e.Volume)
	if e.Tempo != nil {
		fmt.Fprintf(r.cfg.Output, "  Tempo:    %.1f BPM\n", *e.Tempo)
	}
	fmt.Fprintf(r.cfg.Output, "  Time sig: %d/%d\n", e.TimeSigNumerator, e.TimeSigDenominator)
	fmt.Fprintf(r.cfg.Output, "  Tracks:   %d audio, %d midi, %d return\n",
		e.AudioTracks, e.MidiTracks, e.ReturnTracks)
	if e.DurationSeconds != nil {
		fmt.Fprintf(r.cfg.Output, "  Duration: %.0fs\n", *e.DurationSeconds)
	}
	if e.Creator != "" {
		fmt.Fprintf(r.cfg.Output, "  Creator:  %s\n", e.Creator)
	}
	if len(e.Keys) > 0 {
		fmt.Fprintf(r.cfg.Output, "  Keys:     %s\n", strings.Join(e.Keys, ", "))
	}
	if len(e.PluginNames) > 0 {
		fmt.Fprintf(r.cfg.Output, "  Plugins:  %s\n", strings.Join(e.PluginNames, ", "))
	}
	if len(e.SampleNames) > 0 {
		fmt.Fprintf(r.cfg.Output, "  Samples:  %s\n", strings.Join(e.SampleNames, ", "))
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(r.cfg.Output, "  Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
	if e.Notes != "" {
		fmt.Fprintf(r.cfg.Output, "  Notes:    %s\n", e.Notes)
	}
	fmt.Fprintf(r.cfg.Output, "  Status:   %s\n", e.Status)
}
