// Package planfile watches the plan JSON the orchestrator persists next to
// its stdout [PLAN] lines, and delivers parsed task snapshots to the
// consumer. The file channel survives GUI restarts, so a dashboard attached
// mid-run still sees the current plan.
package planfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/swarmdeck/swarmdeck/internal/event"
	"github.com/swarmdeck/swarmdeck/internal/models"
)

// debounceWindow collapses the write bursts editors and atomic-rename
// writers produce into a single reload.
const debounceWindow = 100 * time.Millisecond

// Update is one successfully parsed plan snapshot. Tasks replace the
// consumer's list wholesale, same as a [PLAN] stdout line.
type Update struct {
	Objective string
	Tasks     []models.Task
}

// Watcher watches a single plan file for changes.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan Update
	done    chan struct{}

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// Watch starts watching path's directory (watching the file itself breaks
// under atomic write-then-rename). When the file already exists it is
// parsed once immediately, so attaching to a running orchestrator yields
// the current plan without waiting for the next write.
func Watch(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		fsw:     fsw,
		updates: make(chan Update, 16),
		done:    make(chan struct{}),
	}

	w.reload()
	go w.processEvents()

	return w, nil
}

// Updates returns the channel of parsed plan snapshots. Drained
// non-blockingly by the consumer's tick; an empty channel is normal.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Stop shuts the watcher down. Safe to call once.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsw.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Rename matters: atomic writes land as rename-to-target.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still reloads.
		}
	}
}

// scheduleReload debounces rapid events on the plan file.
func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceWindow, w.reload)
}

// reload reads and parses the plan file. Parse failures deliver nothing,
// leaving the consumer's previous task list untouched.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return
	}

	tasks, ok := event.ParseTaskList(string(data))
	if !ok {
		return
	}

	var doc struct {
		MasterObjective string `json:"master_objective"`
	}
	_ = json.Unmarshal(data, &doc)

	select {
	case w.updates <- Update{Objective: doc.MasterObjective, Tasks: tasks}:
	case <-w.done:
	}
}
