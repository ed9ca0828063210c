package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSet(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<Ableton />"), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeSet(t, filepath.Join(root, "My Track Project", "My Track.als"))
	writeSet(t, filepath.Join(root, "Deep", "Nested", "Idea.als"))
	writeSet(t, filepath.Join(root, "Other", "demo.ALS")) // extension is case-insensitive
	writeSet(t, filepath.Join(root, "Other", "notes.txt"))

	c := New()
	projects, err := c.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	names := make(map[string]string)
	for _, p := range projects {
		names[p.Name] = p.FilePath
	}
	assert.Contains(t, names, "My Track")
	assert.Contains(t, names, "Idea")
	assert.Contains(t, names, "demo")

	// Name comes from the file, folder path from the directory.
	assert.Equal(t, filepath.Join(root, "My Track Project"), filepath.Dir(names["My Track"]))
}

func TestDiscover_OneProjectPerFolder(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "Sunset")
	writeSet(t, filepath.Join(folder, "Sunset.als"))
	writeSet(t, filepath.Join(folder, "Sunset old.als"))

	c := New()
	projects, err := c.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Sunset", projects[0].Name)
	assert.Equal(t, filepath.Join(folder, "Sunset.als"), projects[0].FilePath)
}

func TestDiscover_MostRecentWinsWithinFolder(t *testing.T) {
	root := t.TempDir()
	folder := filepath.Join(root, "Jam Session")
	older := filepath.Join(folder, "v1.als")
	newer := filepath.Join(folder, "v2.als")
	writeSet(t, older)
	writeSet(t, newer)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	c := New()
	projects, err := c.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, newer, projects[0].FilePath)
}

func TestDiscover_ExtraExcludes(t *testing.T) {
	root := t.TempDir()
	writeSet(t, filepath.Join(root, "Keeper Project", "Keeper.als"))
	writeSet(t, filepath.Join(root, "Old Projects", "Dusty.als"))

	c := New("Old Projects")
	projects, err := c.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Keeper", projects[0].Name)
}

func TestDiscover_ExcludesBackupsAndTrash(t *testing.T) {
	root := t.TempDir()
	writeSet(t, filepath.Join(root, "Keeper Project", "Keeper.als"))
	writeSet(t, filepath.Join(root, "Keeper Project", "Backup", "Keeper [2024-01-02].als"))
	writeSet(t, filepath.Join(root, ".Trashes", "501", "Oops.als"))
	writeSet(t, filepath.Join(root, "$RECYCLE.BIN", "Oops2.als"))
	writeSet(t, filepath.Join(root, ".hidden", "Secret.als"))

	c := New()
	projects, err := c.Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Keeper", projects[0].Name)
}

func TestDiscover_MissingRootIsEmpty(t *testing.T) {
	c := New()
	projects, err := c.Discover(context.Background(), filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDiscover_Cancellation(t *testing.T) {
	root := t.TempDir()
	writeSet(t, filepath.Join(root, "A", "a.als"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New()
	_, err := c.Discover(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveSetFile(t *testing.T) {
	t.Run("single candidate wins", func(t *testing.T) {
		folder := filepath.Join(t.TempDir(), "Solo Project")
		writeSet(t, filepath.Join(folder, "Anything.als"))

		c := New()
		got, err := c.ResolveSetFile(folder)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(folder, "Anything.als"), got)
	})

	t.Run("name matching folder wins", func(t *testing.T) {
		folder := filepath.Join(t.TempDir(), "Sunset")
		writeSet(t, filepath.Join(folder, "Old Version.als"))
		writeSet(t, filepath.Join(folder, "Sunset.als"))

		c := New()
		got, err := c.ResolveSetFile(folder)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(folder, "Sunset.als"), got)
	})

	t.Run("most recent wins otherwise", func(t *testing.T) {
		folder := filepath.Join(t.TempDir(), "Jam")
		older := filepath.Join(folder, "v1.als")
		newer := filepath.Join(folder, "v2.als")
		writeSet(t, older)
		writeSet(t, newer)
		past := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(older, past, past))

		c := New()
		got, err := c.ResolveSetFile(folder)
		require.NoError(t, err)
		assert.Equal(t, newer, got)
	})

	t.Run("empty folder errors", func(t *testing.T) {
		c := New()
		_, err := c.ResolveSetFile(t.TempDir())
		assert.Error(t, err)
	})
}

func TestVolumeLabel(t *testing.T) {
	c := &Crawler{homeDir: "/Users/alex"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "external volume", path: "/Volumes/Samples SSD/Sets/a.als", want: "Samples SSD"},
		{name: "home directory", path: "/Users/alex/Music/Project/a.als", want: "Macintosh HD"},
		{name: "home itself", path: "/Users/alex", want: "Macintosh HD"},
		{name: "sibling user is unknown", path: "/Users/alexandra/a.als", want: "Unknown"},
		{name: "system path", path: "/opt/sets/a.als", want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.volumeLabel(tt.path))
		})
	}
}

func TestDefaultRoots(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Music"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "Documents"), 0o755))
	// no Desktop

	c := &Crawler{homeDir: home}
	roots := c.DefaultRoots()
	assert.Equal(t, []string{
		filepath.Join(home, "Music"),
		filepath.Join(home, "Documents"),
	}, roots)
}
