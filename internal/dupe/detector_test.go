package dupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setscout/setscout/internal/catalog"
)

func entry(id, hash string, tempo float64, plugins ...string) *catalog.Entry {
	e := &catalog.Entry{
		ID:          id,
		Name:        "project " + id,
		ContentHash: hash,
		PluginNames: plugins,
	}
	if tempo > 0 {
		e.Tempo = &tempo
	}
	return e
}

func TestDetectExactGroups(t *testing.T) {
	entries := []*catalog.Entry{
		entry("a", "hash-1", 120, "Serum"),
		entry("b", "hash-1", 120, "Serum"),
		entry("c", "hash-2", 90),
	}

	groups := Detect(entries)
	require.Len(t, groups, 1)
	assert.Equal(t, KindExact, groups[0].Kind)
	require.Len(t, groups[0].Members, 2)

	ids := []string{groups[0].Members[0].ID, groups[0].Members[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestDetectSimilarGroups(t *testing.T) {
	tests := []struct {
		name       string
		a, b       *catalog.Entry
		wantGroups int
	}{
		{
			name:       "close tempo and high plugin overlap",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3", "Valhalla", "Diva", "Kickstart"),
			b:          entry("b", "hash-2", 123, "Serum", "Pro-Q 3", "Valhalla"),
			wantGroups: 1,
		},
		{
			name:       "tempo too far apart",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3"),
			b:          entry("b", "hash-2", 131, "Serum", "Pro-Q 3"),
			wantGroups: 0,
		},
		{
			name:       "tempo at tolerance boundary",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3"),
			b:          entry("b", "hash-2", 125, "Serum", "Pro-Q 3"),
			wantGroups: 1,
		},
		{
			name:       "plugin overlap too low",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3", "Valhalla", "Diva"),
			b:          entry("b", "hash-2", 120, "Serum", "Omnisphere", "Kontakt", "Ozone"),
			wantGroups: 0,
		},
		{
			name:       "overlap exactly at threshold is not enough",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3"),
			b:          entry("b", "hash-2", 120, "Serum", "Omnisphere"),
			wantGroups: 0,
		},
		{
			name:       "missing tempo on one side",
			a:          entry("a", "hash-1", 120, "Serum", "Pro-Q 3"),
			b:          entry("b", "hash-2", 0, "Serum", "Pro-Q 3"),
			wantGroups: 0,
		},
		{
			name:       "empty plugin set",
			a:          entry("a", "hash-1", 120),
			b:          entry("b", "hash-2", 120),
			wantGroups: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Detect([]*catalog.Entry{tt.a, tt.b})
			require.Len(t, groups, tt.wantGroups)
			if tt.wantGroups > 0 {
				assert.Equal(t, KindSimilar, groups[0].Kind)
				assert.Len(t, groups[0].Members, 2)
			}
		})
	}
}

func TestExactMatchesExcludedFromSimilarPass(t *testing.T) {
	entries := []*catalog.Entry{
		entry("a", "hash-1", 120, "Serum", "Pro-Q 3"),
		entry("b", "hash-1", 120, "Serum", "Pro-Q 3"),
	}

	groups := Detect(entries)
	require.Len(t, groups, 1)
	assert.Equal(t, KindExact, groups[0].Kind)
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]*catalog.Entry{
		{entry("a", "h1", 120, "Serum", "Pro-Q 3", "Diva"), entry("b", "h2", 124, "Serum", "Pro-Q 3")},
		{entry("a", "h1", 120, "Serum"), entry("b", "h2", 140, "Serum")},
		{entry("a", "h1", 120), entry("b", "h2", 120)},
		{entry("a", "h1", 120, "Serum", "Diva"), entry("b", "h1", 120, "Serum", "Diva")},
	}

	for _, p := range pairs {
		assert.Equal(t, isSimilar(p[0], p[1]), isSimilar(p[1], p[0]))
	}
}

func TestGreedyClusteringMarksMembersProcessed(t *testing.T) {
	// b is similar to both a and c, but a is the first seed, so b joins
	// a's group and is no longer available as a bridge to c.
	a := entry("a", "h1", 120, "Serum", "Pro-Q 3")
	b := entry("b", "h2", 124, "Serum", "Pro-Q 3")
	c := entry("c", "h3", 128, "Serum", "Pro-Q 3")

	groups := Detect([]*catalog.Entry{a, b, c})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 2)
	assert.Equal(t, "a", groups[0].Members[0].ID)
	assert.Equal(t, "b", groups[0].Members[1].ID)
}

func TestGroupPrimary(t *testing.T) {
	a := entry("a", "h1", 120, "Serum")
	a.FileModifiedAt = time.Unix(1000, 0)
	b := entry("b", "h1", 120, "Serum")
	b.FileModifiedAt = time.Unix(2000, 0)
	c := entry("c", "h1", 120, "Serum")
	c.FileModifiedAt = time.Unix(1500, 0)

	g := &Group{Kind: KindExact, Members: []*catalog.Entry{a, b, c}}
	require.NotNil(t, g.Primary())
	assert.Equal(t, "b", g.Primary().ID)

	empty := &Group{Kind: KindExact}
	assert.Nil(t, empty.Primary())
}

func TestDuplicatesOf(t *testing.T) {
	target := entry("a", "h1", 120, "Serum", "Pro-Q 3")
	exact := entry("b", "h1", 120, "Serum", "Pro-Q 3")
	similar := entry("c", "h2", 122, "Serum", "Pro-Q 3", "Diva")
	unrelated := entry("d", "h3", 90, "Omnisphere")

	all := []*catalog.Entry{target, exact, similar, unrelated}

	dupes := DuplicatesOf(target, all)
	require.Len(t, dupes, 2)
	ids := []string{dupes[0].ID, dupes[1].ID}
	assert.ElementsMatch(t, []string{"b", "c"}, ids)

	assert.True(t, HasDuplicates(target, all))
	assert.False(t, HasDuplicates(unrelated, all))
}

func TestDetectEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Detect(nil))
	assert.Empty(t, Detect([]*catalog.Entry{entry("a", "h1", 120, "Serum")}))
}
