// Package als decodes Ableton Live set containers (gzip-wrapped XML) and
// extracts structured metadata from the decoded document. Extraction is
// tolerant by design: a malformed or partially-unexpected document yields
// whatever fields are recoverable, never an error.
package als

// Extraction limits. The decoded document can be tens of megabytes; the
// caps keep match scans and result slices bounded.
const (
	// maxDecodedBytes caps the inflate output buffer (pathological input guard).
	maxDecodedBytes = 100 * 1024 * 1024

	// creatorWindow is how far into the document the Creator attribute is
	// searched. It lives in the root element, so a full-document scan is
	// wasted work.
	creatorWindow = 2000

	maxPluginMatches = 200
	maxSampleMatches = 500
	maxScaleMatches  = 100
)

// Metadata is the structured result of extracting one decoded Live set.
// Optional numeric fields are nil when the document does not carry them.
type Metadata struct {
	// Tempo is the arrangement tempo in BPM, nil if no tempo block exists.
	Tempo *float64

	// Time signature, 4/4 when either half is missing.
	TimeSigNumerator   int
	TimeSigDenominator int

	// Track counts by kind.
	AudioTracks  int
	MidiTracks   int
	ReturnTracks int

	// Creator is the authoring application and version ("Ableton Live 12.1"),
	// empty when not found.
	Creator string

	// DurationSeconds is the arrangement length, present only when both the
	// arrangement end (in beats) and the tempo are known.
	DurationSeconds *float64

	// SampleNames are referenced audio file names (base names only),
	// deduplicated and sorted.
	SampleNames []string

	// PluginNames are third-party plugin/device names with built-in devices
	// filtered out, deduplicated and sorted.
	PluginNames []string

	// Keys are musical keys ("C Major") decoded from scale information,
	// deduplicated and sorted.
	Keys []string
}

// noteNames maps a scale root index (0-11) to a note name.
var noteNames = []string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// scaleNames maps a scale name index to the scale names Live ships with.
var scaleNames = []string{
	"Major",
	"Minor",
	"Dorian",
	"Mixolydian",
	"Lydian",
	"Phrygian",
	"Locrian",
	"Whole Tone",
	"Half-whole Dim.",
	"Whole-half Dim.",
	"Minor Blues",
	"Minor Pentatonic",
	"Major Pentatonic",
	"Harmonic Minor",
	"Melodic Minor",
}

// builtinDevicePrefixes are name prefixes of devices that ship with Live.
// Plugin names starting with any of these are not third-party and are
// dropped from PluginNames.
var builtinDevicePrefixes = []string{
	"Audio Effects",
	"MIDI Effects",
	"Amp",
	"Analog",
	"Auto Filter",
	"Auto Pan",
	"Beat Repeat",
	"Cabinet",
	"Chorus",
	"Collision",
	"Compressor",
	"Corpus",
	"Delay",
	"Drum Buss",
	"Drum Rack",
	"Echo",
	"Electric",
	"EQ Eight",
	"EQ Three",
	"Erosion",
	"External Audio Effect",
	"External Instrument",
	"Flanger",
	"Gate",
	"Glue Compressor",
	"Grain Delay",
	"Hybrid Reverb",
	"Impulse",
	"Instrument Rack",
	"Limiter",
	"Looper",
	"Multiband Dynamics",
	"Operator",
	"Overdrive",
	"Pedal",
	"Phaser",
	"Redux",
	"Resonators",
	"Reverb",
	"Sampler",
	"Saturator",
	"Shifter",
	"Simpler",
	"Spectrum",
	"Tension",
	"Tuner",
	"Utility",
	"Vinyl Distortion",
	"Vocoder",
	"Wavetable",
}

// audioExtensions are the sample file extensions recognized by the extractor.
var audioExtensions = []string{".wav", ".aif", ".aiff", ".mp3", ".flac", ".m4a"}
