package scan

import "time"

// Kind identifies a progress event in the scan state machine.
type Kind string

const (
	// KindStarting is emitted once, before any location is visited.
	KindStarting Kind = "starting"
	// KindDiscovering is emitted when crawling of a location begins.
	KindDiscovering Kind = "discovering"
	// KindParsing is emitted once per completed batch, with strictly
	// increasing Current.
	KindParsing Kind = "parsing"
	// KindCompleted is emitted once, after all locations finished.
	KindCompleted Kind = "completed"
	// KindFailed is emitted instead of Completed on a scan-level error.
	KindFailed Kind = "failed"
)

// Event is one progress notification. Fields are populated per kind:
// Discovering carries Location; Parsing carries Current, Total and File;
// Completed carries Count and Elapsed; Failed carries Err.
type Event struct {
	Kind     Kind
	Location string
	Current  int
	Total    int
	File     string
	Count    int
	Elapsed  time.Duration
	Err      error
}

// ProgressFunc receives scan events. Calls are serialized; a nil func is
// allowed and drops all events.
type ProgressFunc func(Event)
