package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// volumesPrefix is the per-volume mount point root on macOS.
const volumesPrefix = "/Volumes"

// primaryVolumeName labels everything under the user's home directory.
const primaryVolumeName = "Macintosh HD"

// Crawler discovers Live set files under root directories.
type Crawler struct {
	// homeDir is resolved once; overridable in tests.
	homeDir string
	// excluded holds directory names pruned during walks: the built-in
	// backup and trash markers plus any user-configured names.
	excluded map[string]struct{}
}

// New creates a Crawler. extraExcludes are additional directory names to
// skip, on top of the built-in backup and trash markers.
func New(extraExcludes ...string) *Crawler {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	excluded := make(map[string]struct{}, len(excludedDirNames)+len(extraExcludes))
	for name := range excludedDirNames {
		excluded[name] = struct{}{}
	}
	for _, name := range extraExcludes {
		if name != "" {
			excluded[name] = struct{}{}
		}
	}

	return &Crawler{homeDir: home, excluded: excluded}
}

// Discover walks root and returns one Project per project folder. A folder
// holding several set files (version copies, exports) contributes only its
// authoritative file. Hidden entries, bundle directories, backups and trash
// are skipped. Unreadable entries are skipped, not errors.
func (c *Crawler) Discover(ctx context.Context, root string) ([]Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			// A missing root (unmounted volume) is an empty result, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	byFolder := make(map[string][]string)
	var folders []string // walk order, for deterministic output
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			return nil // skip entries we cannot access
		}

		name := d.Name()

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if c.shouldSkipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), SetExtension) {
			return nil
		}
		if c.isExcludedPath(path) {
			return nil
		}

		folder := filepath.Dir(path)
		if _, seen := byFolder[folder]; !seen {
			folders = append(folders, folder)
		}
		byFolder[folder] = append(byFolder[folder], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var projects []Project
	for _, folder := range folders {
		path := pickAuthoritative(folder, byFolder[folder])
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}

		name := filepath.Base(path)
		projects = append(projects, Project{
			FolderPath: folder,
			FilePath:   path,
			Name:       strings.TrimSuffix(name, filepath.Ext(name)),
			Volume:     c.volumeLabel(path),
			CreatedAt:  fi.ModTime(),
			ModifiedAt: fi.ModTime(),
		})
	}

	return projects, nil
}

// ResolveSetFile picks the authoritative set file in a single project
// folder, reading the folder fresh from disk.
func (c *Crawler) ResolveSetFile(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("failed to read project folder: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), SetExtension) {
			candidates = append(candidates, filepath.Join(folder, e.Name()))
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no set file in %s", folder)
	}
	return pickAuthoritative(folder, candidates), nil
}

// pickAuthoritative selects the set file that represents a project folder:
// the only one if there is exactly one, else the one named after the
// folder, else the most recently modified. candidates must be non-empty.
func pickAuthoritative(folder string, candidates []string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}

	folderName := filepath.Base(folder)
	for _, candidate := range candidates {
		base := strings.TrimSuffix(filepath.Base(candidate), filepath.Ext(candidate))
		if strings.EqualFold(base, folderName) {
			return candidate
		}
	}

	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return modTime(sorted[i]).After(modTime(sorted[j]))
	})
	return sorted[0]
}

// DefaultRoots returns the home-relative directories worth scanning by
// default, filtered to those that exist.
func (c *Crawler) DefaultRoots() []string {
	if c.homeDir == "" {
		return nil
	}

	candidates := []string{
		filepath.Join(c.homeDir, "Music"),
		filepath.Join(c.homeDir, "Documents"),
		filepath.Join(c.homeDir, "Desktop"),
	}

	var roots []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

// volumeLabel derives the source volume from a path. External volumes are
// named after their mount point under /Volumes; anything under the home
// directory is the primary disk.
func (c *Crawler) volumeLabel(path string) string {
	if rest, ok := strings.CutPrefix(path, volumesPrefix+string(filepath.Separator)); ok {
		if idx := strings.IndexByte(rest, filepath.Separator); idx > 0 {
			return rest[:idx]
		}
		if rest != "" {
			return rest
		}
	}

	if c.homeDir != "" {
		if path == c.homeDir || strings.HasPrefix(path, c.homeDir+string(filepath.Separator)) {
			return primaryVolumeName
		}
	}

	return "Unknown"
}

func (c *Crawler) shouldSkipDir(name string) bool {
	if _, ok := c.excluded[name]; ok {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, ok := bundleExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}
	return false
}

// isExcludedPath reports whether any path component is an excluded
// directory name. WalkDir already prunes those directories; this guards
// files reached through a root that itself sits below a marker.
func (c *Crawler) isExcludedPath(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if _, ok := c.excluded[part]; ok {
			return true
		}
	}
	return false
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
