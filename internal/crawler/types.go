// Package crawler discovers Ableton Live project files under configured
// root directories. It excludes Live's automatic backups and trash
// folders, resolves the authoritative set file inside a project folder,
// and labels each discovery with its source volume.
package crawler

import (
	"time"
)

// SetExtension is the Live set container extension, matched
// case-insensitively.
const SetExtension = ".als"

// Project describes one discovered Live set file. It is ephemeral: the
// orchestrator consumes it immediately and it is never persisted as-is.
type Project struct {
	// FolderPath is the absolute path to the enclosing project folder.
	FolderPath string

	// FilePath is the absolute path to the authoritative set file.
	FilePath string

	// Name is the set file's base name without extension. The folder name
	// is deliberately not used: folders like "Untitled Project" usually
	// carry a better-named set inside.
	Name string

	// Volume is the source volume label ("Macintosh HD", an external
	// volume name, or "Unknown").
	Volume string

	// CreatedAt and ModifiedAt are filesystem timestamps for the set file.
	// File birth time is not portably available through os.FileInfo, so
	// CreatedAt carries the modification time as well.
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// excludedDirNames are path components that mark transient or discarded
// copies of a set. Anything below them is never indexed.
var excludedDirNames = map[string]struct{}{
	"Backup":       {},
	".Trash":       {},
	".Trashes":     {},
	"$RECYCLE.BIN": {},
}

// bundleExtensions are package-like directories the crawler never
// descends into.
var bundleExtensions = map[string]struct{}{
	".app":       {},
	".bundle":    {},
	".framework": {},
	".component": {},
	".vst":       {},
	".vst3":      {},
	".alp":       {},
}
