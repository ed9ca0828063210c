// Package dupe groups catalog entries into exact and near-duplicate
// clusters. The detector is pure, it works on an in-memory entry slice
// and performs no I/O.
package dupe

import (
	"sort"

	"github.com/setscout/setscout/internal/catalog"
)

// Kind distinguishes exact content matches from heuristic similarity.
type Kind string

const (
	KindExact   Kind = "exact"
	KindSimilar Kind = "similar"
)

// Thresholds for the similar pass.
const (
	// tempoTolerance is the maximum BPM difference for two sets to
	// count as similar.
	tempoTolerance = 5.0
	// pluginOverlapThreshold is the minimum shared-plugin ratio,
	// measured against the smaller plugin set.
	pluginOverlapThreshold = 0.5
)

// Group is one duplicate cluster.
type Group struct {
	Kind    Kind
	Members []*catalog.Entry
}

// Primary returns the member with the most recent file modification
// time, the one a user most likely wants to keep.
func (g *Group) Primary() *catalog.Entry {
	if len(g.Members) == 0 {
		return nil
	}
	primary := g.Members[0]
	for _, m := range g.Members[1:] {
		if m.FileModifiedAt.After(primary.FileModifiedAt) {
			primary = m
		}
	}
	return primary
}

// Detect returns all duplicate groups in entries. Exact groups are found
// first by content hash; the similar pass then runs greedy single-pass
// clustering over the remaining entries. Similarity is not transitively
// closed, group membership depends on input order, so callers should
// pass entries in a stable order for stable output.
func Detect(entries []*catalog.Entry) []*Group {
	var groups []*Group

	consumed := make(map[string]bool, len(entries))

	// Exact pass: any content hash shared by two or more entries.
	byHash := make(map[string][]*catalog.Entry)
	for _, e := range entries {
		if e.ContentHash == "" {
			continue
		}
		byHash[e.ContentHash] = append(byHash[e.ContentHash], e)
	}

	hashes := make([]string, 0, len(byHash))
	for h, members := range byHash {
		if len(members) >= 2 {
			hashes = append(hashes, h)
		}
	}
	sort.Strings(hashes)

	for _, h := range hashes {
		members := byHash[h]
		groups = append(groups, &Group{Kind: KindExact, Members: members})
		for _, m := range members {
			consumed[m.ID] = true
		}
	}

	// Similar pass: greedy, first seed wins, members marked and skipped.
	for i, seed := range entries {
		if consumed[seed.ID] || seed.Tempo == nil {
			continue
		}

		var cluster []*catalog.Entry
		for _, other := range entries[i+1:] {
			if consumed[other.ID] {
				continue
			}
			if isSimilar(seed, other) {
				cluster = append(cluster, other)
			}
		}

		if len(cluster) > 0 {
			members := append([]*catalog.Entry{seed}, cluster...)
			groups = append(groups, &Group{Kind: KindSimilar, Members: members})
			for _, m := range members {
				consumed[m.ID] = true
			}
		}
	}

	return groups
}

// isSimilar reports whether a and b look like versions of the same
// project. Symmetric. Entries sharing a content hash are excluded, the
// exact pass owns those.
func isSimilar(a, b *catalog.Entry) bool {
	if a.ContentHash != "" && a.ContentHash == b.ContentHash {
		return false
	}
	if a.Tempo == nil || b.Tempo == nil {
		return false
	}
	diff := *a.Tempo - *b.Tempo
	if diff < 0 {
		diff = -diff
	}
	if diff > tempoTolerance {
		return false
	}
	if len(a.PluginNames) == 0 || len(b.PluginNames) == 0 {
		return false
	}
	return pluginOverlap(a.PluginNames, b.PluginNames) > pluginOverlapThreshold
}

// pluginOverlap returns |a ∩ b| / min(|a|, |b|).
func pluginOverlap(a, b []string) float64 {
	set := make(map[string]bool, len(a))
	for _, p := range a {
		set[p] = true
	}
	shared := 0
	for _, p := range b {
		if set[p] {
			shared++
		}
	}
	min := len(a)
	if len(b) < min {
		min = len(b)
	}
	return float64(shared) / float64(min)
}

// DuplicatesOf returns the entries that duplicate target, exact and
// similar matches combined, excluding target itself.
func DuplicatesOf(target *catalog.Entry, entries []*catalog.Entry) []*catalog.Entry {
	var dupes []*catalog.Entry
	for _, e := range entries {
		if e.ID == target.ID {
			continue
		}
		if target.ContentHash != "" && e.ContentHash == target.ContentHash {
			dupes = append(dupes, e)
			continue
		}
		if isSimilar(target, e) {
			dupes = append(dupes, e)
		}
	}
	return dupes
}

// HasDuplicates reports whether target has at least one duplicate.
func HasDuplicates(target *catalog.Entry, entries []*catalog.Entry) bool {
	return len(DuplicatesOf(target, entries)) > 0
}
