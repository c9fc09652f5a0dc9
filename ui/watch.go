package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// referenceWatcher watches the selected reference file so the input gate
// notices when the file vanishes between selection and generation.
type referenceWatcher struct {
	watcher *fsnotify.Watcher
	path    string
}

// watchReference starts watching path. Watch failures are non-fatal: the
// gate still re-validates on generate, so the watcher is purely for
// prompt UI feedback.
func watchReference(path string) *referenceWatcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug("unable to create reference watcher", "err", err)
		return nil
	}
	if err := w.Add(path); err != nil {
		log.Debug("unable to watch reference file", "path", path, "err", err)
		_ = w.Close()
		return nil
	}
	return &referenceWatcher{watcher: w, path: path}
}

// waitCmd blocks on the next watcher event. Removal or rename of the
// watched file resolves to referenceLostMsg; anything else re-arms.
func (r *referenceWatcher) waitCmd() tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-r.watcher.Events:
				if !ok {
					return nil
				}
				if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
					return referenceLostMsg{path: r.path}
				}
			case err, ok := <-r.watcher.Errors:
				if !ok {
					return nil
				}
				log.Debug("reference watcher error", "err", err)
			}
		}
	}
}

// Close stops the watcher.
func (r *referenceWatcher) Close() {
	if r != nil && r.watcher != nil {
		_ = r.watcher.Close()
	}
}
