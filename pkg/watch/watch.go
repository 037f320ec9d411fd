// Package watch regenerates a template's output whenever one of the
// templates in its inheritance chain changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/store"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// DefaultDebounce collapses bursts of editor writes into one run
const DefaultDebounce = 300 * time.Millisecond

// Event reports one generate run
type Event struct {
	// Trigger is the file whose change caused the run; empty for the initial run
	Trigger string
	Report  *types.GenerationReport
	Err     error
	At      time.Time
}

// Watcher reruns a GenerateRequest when template sources change
type Watcher struct {
	fs       types.FS
	root     string
	opts     engine.Options
	req      engine.GenerateRequest
	onRun    func(Event)
	debounce time.Duration

	watched map[string]bool
}

// New creates a watcher for req against the store at root. fs must be the
// OS filesystem for change notifications to arrive.
func New(fs types.FS, root string, opts engine.Options, req engine.GenerateRequest, onRun func(Event)) *Watcher {
	return &Watcher{
		fs:       fs,
		root:     root,
		opts:     opts,
		req:      req,
		onRun:    onRun,
		debounce: DefaultDebounce,
		watched:  make(map[string]bool),
	}
}

// SetDebounce changes the quiet period before a rerun
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run generates once, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.GetLogger("watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	defer func() { _ = fw.Close() }()

	w.generate(fw, "")

	var timer *time.Timer
	var fire <-chan time.Time
	trigger := ""
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			trigger = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.generate(fw, trigger)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	if w.req.OutputDir != "" {
		out, err := filepath.Abs(w.req.OutputDir)
		name, err2 := filepath.Abs(ev.Name)
		if err == nil && err2 == nil && (name == out || strings.HasPrefix(name, out+string(filepath.Separator))) {
			return false
		}
	}
	return true
}

// generate reloads the store, reruns the request and refreshes the watch list
func (w *Watcher) generate(fw *fsnotify.Watcher, trigger string) {
	logger := logging.GetLogger("watch")
	ev := Event{Trigger: trigger, At: time.Now()}

	snap, err := store.Load(w.fs, w.root)
	if err != nil {
		ev.Err = err
		w.emit(ev)
		return
	}

	w.watchChain(fw, snap)

	e := engine.New(snap, w.fs, w.opts)
	ev.Report, ev.Err = e.Generate(w.req)
	if ev.Err != nil {
		logger.Warn().Err(ev.Err).Str("template", w.req.TemplatePath).Msg("regeneration failed")
	}
	w.emit(ev)
}

func (w *Watcher) emit(ev Event) {
	if w.onRun != nil {
		w.onRun(ev)
	}
}

// watchChain adds every directory of every template in the chain. Unknown
// or broken templates fall back to the whole store root so that fixing
// them triggers a run.
func (w *Watcher) watchChain(fw *fsnotify.Watcher, snap *store.Snapshot) {
	dirs := []string{}
	chain := w.chainPaths(snap)
	if len(chain) == 0 {
		dirs = append(dirs, w.root)
	}
	for _, p := range chain {
		dirs = append(dirs, w.subdirs(snap.Dir(p))...)
	}

	for _, d := range dirs {
		if w.watched[d] {
			continue
		}
		if err := fw.Add(d); err != nil {
			logger := logging.GetLogger("watch")
			logger.Warn().Str("dir", d).Err(err).Msg("cannot watch directory")
			continue
		}
		w.watched[d] = true
	}
}

func (w *Watcher) chainPaths(snap *store.Snapshot) []string {
	var paths []string
	current := store.Normalize(w.req.TemplatePath)
	seen := map[string]bool{}
	for current != "" && !seen[current] && snap.Has(current) {
		seen[current] = true
		paths = append(paths, current)
		d, err := snap.Descriptor(current)
		if err != nil {
			break
		}
		current = store.Normalize(d.Inherits)
	}
	return paths
}

func (w *Watcher) subdirs(dir string) []string {
	out := []string{dir}
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, w.subdirs(filepath.Join(dir, e.Name()))...)
		}
	}
	return out
}
