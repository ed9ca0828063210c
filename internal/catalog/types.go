// Package catalog defines the persistent index model for Live sets and a
// SQLite-backed store for it. Entries combine derived metadata, replaced
// on every scan, with user-owned annotations that a scan never touches.
package catalog

import (
	"context"
	"time"
)

// Status is the user-assigned completion status of a project.
type Status string

const (
	StatusNone       Status = "none"
	StatusIdea       Status = "idea"
	StatusInProgress Status = "in_progress"
	StatusMixing     Status = "mixing"
	StatusFinished   Status = "finished"
	StatusReleased   Status = "released"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNone, StatusIdea, StatusInProgress, StatusMixing, StatusFinished, StatusReleased:
		return true
	}
	return false
}

// Entry is one catalog record. Everything above the annotation block is
// derived and owned by the scanner; the annotation block is owned by the
// user and carried forward unchanged across re-scans.
type Entry struct {
	ID string

	// Path-derived fields.
	Name       string
	FolderPath string
	FilePath   string
	Volume     string

	// File facts.
	ContentHash    string
	FileCreatedAt  time.Time
	FileModifiedAt time.Time
	IndexedAt      time.Time

	// Parsed metadata.
	Tempo              *float64
	TimeSigNumerator   int
	TimeSigDenominator int
	AudioTracks        int
	MidiTracks         int
	ReturnTracks       int
	Creator            string
	DurationSeconds    *float64
	SampleNames        []string
	PluginNames        []string
	Keys               []string

	// User-owned annotations. Never overwritten by a scan.
	Tags         []string
	Notes        string
	Status       Status
	Favorite     bool
	ColorLabel   string
	LastOpenedAt *time.Time
}

// Location is a configured scan root.
type Location struct {
	ID            string
	Path          string
	Name          string
	AutoDetected  bool
	Enabled       bool
	ProjectCount  int
	LastScannedAt *time.Time
}

// Annotations is a partial update of an entry's user-owned fields.
// Nil fields are left unchanged.
type Annotations struct {
	Tags         *[]string
	Notes        *string
	Status       *Status
	Favorite     *bool
	ColorLabel   *string
	LastOpenedAt *time.Time
}

// Store is the catalog persistence collaborator. The scan orchestrator is
// the only writer of derived fields; annotations flow through
// UpdateAnnotations exclusively.
type Store interface {
	// Entry operations.
	FetchAll(ctx context.Context) ([]*Entry, error)
	FetchByPaths(ctx context.Context, paths []string) (map[string]*Entry, error)
	UpsertMany(ctx context.Context, entries []*Entry) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	UpdateAnnotations(ctx context.Context, id string, a Annotations) error

	// Full-text search over names, plugins, samples, keys, tags, notes.
	Search(ctx context.Context, query string, limit int) ([]*Entry, error)

	// Location operations.
	FetchLocations(ctx context.Context) ([]*Location, error)
	SaveLocation(ctx context.Context, loc *Location) error
	DeleteLocation(ctx context.Context, id string) error
	UpdateLocationStats(ctx context.Context, id string, count int, scannedAt time.Time) error

	Close() error
}
