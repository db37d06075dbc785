package server

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches the served root and tells subscribed browsers to reload.
type Reloader struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	clientMu sync.Mutex
	clients  map[chan struct{}]struct{}

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewReloader starts watching dir recursively. Events are debounced so a
// burst of writes (e.g. a docs rebuild) produces a single reload.
func NewReloader(dir string, debounce time.Duration, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	r := &Reloader{
		watcher:  w,
		debounce: debounce,
		logger:   logger,
		clients:  make(map[chan struct{}]struct{}),
		done:     make(chan struct{}),
	}

	if err := r.addRecursive(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	r.wg.Add(1)
	go r.loop()
	return r, nil
}

func (r *Reloader) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip hidden directories like .git
		if path != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return r.watcher.Add(path)
	})
}

func (r *Reloader) loop() {
	defer r.wg.Done()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := r.addRecursive(event.Name); err != nil {
						r.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}

			if debounceTimer != nil {
				debounceTimer.Reset(r.debounce)
			} else {
				debounceTimer = time.AfterFunc(r.debounce, r.Broadcast)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("Watcher error", "error", err)
		}
	}
}

// Subscribe registers a client. The returned cancel func must be called
// when the client goes away.
func (r *Reloader) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	r.clientMu.Lock()
	r.clients[ch] = struct{}{}
	r.clientMu.Unlock()

	return ch, func() {
		r.clientMu.Lock()
		delete(r.clients, ch)
		r.clientMu.Unlock()
	}
}

// Broadcast signals every subscriber; slow clients with a pending signal are skipped.
func (r *Reloader) Broadcast() {
	r.clientMu.Lock()
	defer r.clientMu.Unlock()
	for ch := range r.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Clients returns the number of connected subscribers.
func (r *Reloader) Clients() int {
	r.clientMu.Lock()
	defer r.clientMu.Unlock()
	return len(r.clients)
}

// Close stops the watcher and ends every open event stream. Safe to call twice.
func (r *Reloader) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		err = r.watcher.Close()
		r.wg.Wait()
	})
	return err
}
