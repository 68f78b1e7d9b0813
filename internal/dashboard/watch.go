package dashboard

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/andywolf/orcaspine/internal/store"
)

// debounceDelay mirrors the pack's own fsnotify consumers: a burst of
// writes from one atomic rename collapses into a single reload.
const debounceDelay = 300 * time.Millisecond

// WatchFile watches the directory containing filePath for changes and
// reloads st on every settled burst, delivering each reload to program
// as a stateMsg. FileStore writes through a temp file and renames it
// into place, so the directory - not the file itself - is what must be
// watched; a rename replaces the watched inode.
func WatchFile(ctx context.Context, program *tea.Program, st store.Store, filePath string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		reload := func() {
			s, err := st.Load(ctx)
			program.Send(stateMsg{state: s, err: err})
		}
		reload()

		timer := time.NewTimer(debounceDelay)
		timer.Stop()
		pending := false

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				pending = true
				timer.Reset(debounceDelay)
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-timer.C:
				if pending {
					pending = false
					reload()
				}
			}
		}
	}()

	return nil
}

// PollStore reloads st on a fixed interval and delivers each reload to
// program. Used for store backends with no filesystem change signal to
// watch, such as Redis.
func PollStore(ctx context.Context, program *tea.Program, st store.Store, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s, err := st.Load(ctx)
				program.Send(stateMsg{state: s, err: err})
			}
		}
	}()
}
