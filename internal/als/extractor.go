package als

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Attribute patterns over the decoded document. These are deliberately
// substring-level rather than a full XML parse: the documents are
// multi-megabyte and the format is stable enough that pattern extraction
// is both fast and accurate. Extraction never fails; a pattern that does
// not match leaves its field absent.
var (
	creatorRe     = regexp.MustCompile(`Creator="([^"]+)"`)
	manualValueRe = regexp.MustCompile(`<Manual Value="([0-9]+(?:\.[0-9]+)?)"`)
	numeratorRe   = regexp.MustCompile(`Numerator Value="([0-9]+)"`)
	denominatorRe = regexp.MustCompile(`Denominator Value="([0-9]+)"`)
	currentEndRe  = regexp.MustCompile(`<CurrentEnd Value="([0-9]+(?:\.[0-9]+)?)"`)
	plugNameRe    = regexp.MustCompile(`PlugName Value="([^"]*)"`)
	sampleNameRe  = regexp.MustCompile(`Name Value="([^"]*(?i:` + extensionAlternation(audioExtensions) + `))"`)
	scaleInfoRe   = regexp.MustCompile(`(?s)<ScaleInformation>(.*?)</ScaleInformation>`)
	rootNoteRe    = regexp.MustCompile(`RootNote Value="(-?[0-9]+)"`)
	scaleNameRe   = regexp.MustCompile(`ScaleName Value="(-?[0-9]+)"`)
)

// extensionAlternation joins file extensions into a regexp alternation,
// quoting each one.
func extensionAlternation(exts []string) string {
	quoted := make([]string, len(exts))
	for i, ext := range exts {
		quoted[i] = regexp.QuoteMeta(ext)
	}
	return strings.Join(quoted, "|")
}

// Track tags counted for the per-kind track tallies. The prefixes only
// ever occur as element opens in real documents, so a substring count is
// an exact tally in practice.
const (
	audioTrackTag  = "<AudioTrack"
	midiTrackTag   = "<MidiTrack"
	returnTrackTag = "<ReturnTrack"
)

// Extract runs pattern extraction over a decoded document and returns the
// structured metadata. Absent fields yield nil/defaults, never an error.
func Extract(text string) *Metadata {
	m := &Metadata{
		TimeSigNumerator:   4,
		TimeSigDenominator: 4,
	}

	m.Creator = extractCreator(text)
	m.Tempo = extractTempo(text)

	if num, ok := extractInt(numeratorRe, text); ok && num > 0 {
		if den, ok := extractInt(denominatorRe, text); ok && den > 0 {
			m.TimeSigNumerator = num
			m.TimeSigDenominator = den
		}
	}

	m.AudioTracks = strings.Count(text, audioTrackTag)
	m.MidiTracks = strings.Count(text, midiTrackTag)
	m.ReturnTracks = strings.Count(text, returnTrackTag)

	m.DurationSeconds = extractDuration(text, m.Tempo)
	m.PluginNames = extractPlugins(text)
	m.SampleNames = extractSamples(text)
	m.Keys = extractKeys(text)

	return m
}

// extractCreator finds the authoring application in the document header
// window only.
func extractCreator(text string) string {
	window := text
	if len(window) > creatorWindow {
		window = window[:creatorWindow]
	}
	if match := creatorRe.FindStringSubmatch(window); match != nil {
		return match[1]
	}
	return ""
}

// extractTempo reads the first manual value inside the first top-level
// tempo block. A document without a tempo block has no tempo.
func extractTempo(text string) *float64 {
	start := strings.Index(text, "<Tempo>")
	if start < 0 {
		return nil
	}
	block := text[start:]
	if end := strings.Index(block, "</Tempo>"); end >= 0 {
		block = block[:end]
	}
	match := manualValueRe.FindStringSubmatch(block)
	if match == nil {
		return nil
	}
	bpm, err := strconv.ParseFloat(match[1], 64)
	if err != nil || bpm <= 0 {
		return nil
	}
	return &bpm
}

// extractDuration derives the arrangement length in seconds from the
// arrangement end (in beats) and the tempo. Both must be present.
func extractDuration(text string, tempo *float64) *float64 {
	if tempo == nil || *tempo <= 0 {
		return nil
	}
	match := currentEndRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	beats, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	seconds := beats / *tempo * 60
	return &seconds
}

// extractPlugins collects third-party plugin names. Empty names, "None"
// placeholders, and devices shipping with Live are skipped.
func extractPlugins(text string) []string {
	matches := plugNameRe.FindAllStringSubmatch(text, maxPluginMatches)
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		name := strings.TrimSpace(match[1])
		if name == "" || name == "None" || isBuiltinDevice(name) {
			continue
		}
		seen[name] = struct{}{}
	}
	return sortedKeys(seen)
}

// extractSamples collects referenced audio file names. Only base names are
// retained so a catalog never leaks absolute paths from other machines.
func extractSamples(text string) []string {
	matches := sampleNameRe.FindAllStringSubmatch(text, maxSampleMatches)
	seen := make(map[string]struct{}, len(matches))
	for _, match := range matches {
		name := filepath.Base(strings.TrimSpace(match[1]))
		if name == "" || name == "." {
			continue
		}
		seen[name] = struct{}{}
	}
	return sortedKeys(seen)
}

// extractKeys decodes scale root/name index pairs from scale-information
// blocks. Indices outside the lookup tables are silently skipped.
func extractKeys(text string) []string {
	blocks := scaleInfoRe.FindAllStringSubmatch(text, maxScaleMatches)
	seen := make(map[string]struct{}, len(blocks))
	for _, block := range blocks {
		root, ok := extractInt(rootNoteRe, block[1])
		if !ok || root < 0 || root >= len(noteNames) {
			continue
		}
		scale, ok := extractInt(scaleNameRe, block[1])
		if !ok || scale < 0 || scale >= len(scaleNames) {
			continue
		}
		seen[noteNames[root]+" "+scaleNames[scale]] = struct{}{}
	}
	return sortedKeys(seen)
}

func isBuiltinDevice(name string) bool {
	for _, prefix := range builtinDevicePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func extractInt(re *regexp.Regexp, text string) (int, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
