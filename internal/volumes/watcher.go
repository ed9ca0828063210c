// Package volumes watches for external volumes being mounted and
// unmounted, so newly attached drives can be offered as scan locations
// and entries from detached drives can be flagged offline.
package volumes

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultMountRoot is where macOS mounts external volumes.
const DefaultMountRoot = "/Volumes"

// Kind distinguishes mount from unmount events.
type Kind int

const (
	Mounted Kind = iota
	Unmounted
)

func (k Kind) String() string {
	if k == Mounted {
		return "MOUNTED"
	}
	return "UNMOUNTED"
}

// Event is one volume change.
type Event struct {
	Kind      Kind
	Path      string
	Name      string
	Timestamp time.Time
}

// Watcher emits an Event whenever a directory appears or disappears
// directly under the mount root.
type Watcher struct {
	root    string
	fsw     *fsnotify.Watcher
	events  chan Event
	errs    chan error
	mu      sync.Mutex
	stopped bool
}

// New creates a watcher for the given mount root. An empty root uses
// DefaultMountRoot.
func New(root string) (*Watcher, error) {
	if root == "" {
		root = DefaultMountRoot
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:   root,
		fsw:    fsw,
		events: make(chan Event, 16),
		errs:   make(chan error, 4),
	}, nil
}

// Start begins watching. It returns immediately; events flow on the
// Events channel until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.root); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)
	defer close(w.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
				slog.Warn("volume_watcher_error_dropped", slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	// Only direct children of the mount root are volumes.
	if filepath.Dir(ev.Name) != w.root {
		return
	}
	name := filepath.Base(ev.Name)
	if name == "" || name[0] == '.' {
		return
	}

	var out Event
	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil || !info.IsDir() {
			return
		}
		out = Event{Kind: Mounted, Path: ev.Name, Name: name, Timestamp: time.Now()}
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		out = Event{Kind: Unmounted, Path: ev.Name, Name: name, Timestamp: time.Now()}
	default:
		return
	}

	slog.Debug("volume_event",
		slog.String("kind", out.Kind.String()),
		slog.String("volume", out.Name))

	select {
	case w.events <- out:
	default:
		slog.Warn("volume_event_dropped", slog.String("volume", out.Name))
	}
}

// Events returns the volume event channel. Closed when the watcher
// stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns non-fatal watcher errors. Closed when the watcher
// stops.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Stop shuts the watcher down. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	return w.fsw.Close()
}

// Mounted lists the volumes currently present under the mount root.
func (w *Watcher) Mounted() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "" && e.Name()[0] != '.' {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
