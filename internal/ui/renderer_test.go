package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/setscout/setscout/internal/catalog"
	"github.com/setscout/setscout/internal/dupe"
	"github.com/setscout/setscout/internal/scan"
)

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewRenderer(Config{Output: &buf, NoColor: true}), &buf
}

func TestHandleScanEvent(t *testing.T) {
	r, buf := newTestRenderer()

	r.HandleScanEvent(scan.Event{Kind: scan.KindStarting})
	r.HandleScanEvent(scan.Event{Kind: scan.KindDiscovering, Location: "Music"})
	r.HandleScanEvent(scan.Event{Kind: scan.KindParsing, Current: 10, Total: 25, File: "sunset"})
	r.HandleScanEvent(scan.Event{Kind: scan.KindCompleted, Count: 25, Elapsed: 3 * time.Second})

	out := buf.String()
	assert.Contains(t, out, "Scanning for Live sets")
	assert.Contains(t, out, "[discover] Music")
	assert.Contains(t, out, "10/25 sunset")
	assert.Contains(t, out, "indexed 25 sets")
}

func TestHandleScanEventFailure(t *testing.T) {
	r, buf := newTestRenderer()

	r.HandleScanEvent(scan.Event{Kind: scan.KindFailed, Err: errors.New("store went away")})
	assert.Contains(t, buf.String(), "Scan failed: store went away")
}

func TestRenderEntries(t *testing.T) {
	r, buf := newTestRenderer()

	tempo := 128.0
	r.RenderEntries([]*catalog.Entry{
		{
			Name:        "club track",
			Tempo:       &tempo,
			AudioTracks: 4,
			MidiTracks:  6,
			Keys:        []string{"A Minor"},
			Status:      catalog.StatusMixing,
			Volume:      "Macintosh HD",
			Favorite:    true,
		},
		{Name: "sketch", Status: catalog.StatusNone},
	})

	out := buf.String()
	assert.Contains(t, out, "* club track")
	assert.Contains(t, out, "128.0")
	assert.Contains(t, out, "A Minor")
	assert.Contains(t, out, "mixing")
	assert.Contains(t, out, "2 projects")
}

func TestRenderEntriesEmpty(t *testing.T) {
	r, buf := newTestRenderer()
	r.RenderEntries(nil)
	assert.Contains(t, buf.String(), "No projects in the catalog")
}

func TestRenderDuplicateGroups(t *testing.T) {
	r, buf := newTestRenderer()

	old := &catalog.Entry{ID: "a", Name: "track v1", FilePath: "/x/v1.als",
		FileModifiedAt: time.Unix(1000, 0)}
	newer := &catalog.Entry{ID: "b", Name: "track v2", FilePath: "/x/v2.als",
		FileModifiedAt: time.Unix(2000, 0)}

	r.RenderDuplicateGroups([]*dupe.Group{
		{Kind: dupe.KindExact, Members: []*catalog.Entry{old, newer}},
	})

	out := buf.String()
	assert.Contains(t, out, "Group 1 (exact, 2 members)")
	assert.Contains(t, out, "> track v2")
	assert.Contains(t, out, "1 duplicate groups")
}

func TestRenderDuplicateGroupsEmpty(t *testing.T) {
	r, buf := newTestRenderer()
	r.RenderDuplicateGroups(nil)
	assert.Contains(t, buf.String(), "No duplicates found")
}

func TestRenderEntryDetail(t *testing.T) {
	r, buf := newTestRenderer()

	tempo := 174.0
	duration := 312.0
	r.RenderEntryDetail(&catalog.Entry{
		Name:               "dnb roller",
		FilePath:           "/Users/x/dnb Project/dnb roller.als",
		Volume:             "Macintosh HD",
		Tempo:              &tempo,
		TimeSigNumerator:   4,
		TimeSigDenominator: 4,
		AudioTracks:        3,
		MidiTracks:         5,
		ReturnTracks:       2,
		DurationSeconds:    &duration,
		Creator:            "Ableton Live 12.1",
		PluginNames:        []string{"Serum"},
		Tags:               []string{"dnb"},
		Notes:              "resample the break",
		Status:             catalog.StatusInProgress,
	})

	out := buf.String()
	assert.Contains(t, out, "174.0 BPM")
	assert.Contains(t, out, "3 audio, 5 midi, 2 return")
	assert.Contains(t, out, "312s")
	assert.Contains(t, out, "resample the break")
	assert.Contains(t, out, "in_progress")
}

func TestRenderLocations(t *testing.T) {
	r, buf := newTestRenderer()

	scanned := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r.RenderLocations([]*catalog.Location{
		{ID: "loc-1", Name: "Music", Path: "/Users/x/Music", Enabled: true,
			ProjectCount: 12, LastScannedAt: &scanned},
		{ID: "loc-2", Name: "Archive", Path: "/Volumes/Archive", Enabled: false},
	})

	out := buf.String()
	assert.Contains(t, out, "loc-1")
	assert.Contains(t, out, "2026-08-30 12:00")
	assert.Contains(t, out, "never")
}
