package corpus

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ecmafuzz/internal/logging"
)

// Watcher folds "distributed worker synchronization is out of scope"
// down to the one in-scope piece: watching a single state-export directory
// for sibling-worker drops and importing whatever lands there. It never
// writes to the directory itself — only ImportState is ever called.
//
// Structurally this mirrors a debounced file watcher (debounce map,
// stop/done channels, Start/Stop pair) with the validate-and-repair
// domain logic replaced by a single ImportFromFile call, and any second
// watch target dropped — one directory is the whole of this watcher's job.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	corpus  *Corpus
	dir     string

	debounceMap map[string]time.Time
	debounceDur time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a Watcher over dir. dir is created by Start if it does
// not yet exist.
func NewWatcher(dir string, c *Corpus) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		corpus:      c,
		dir:         dir,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching dir for state-export drops in a background
// goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		logging.Get(logging.CategoryCorpus).Warn("corpus watcher: failed to create %s: %v", w.dir, err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		logging.Get(logging.CategoryCorpus).Warn("corpus watcher: initial watch failed: %v", err)
	} else {
		logging.Get(logging.CategoryCorpus).Info("corpus watcher: watching %s", w.dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryCorpus).Error("corpus watcher error: %v", err)
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".ecf") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if err := w.corpus.ImportFromFile(path); err != nil {
			logging.Get(logging.CategoryCorpus).Error("corpus watcher: import %s failed: %v", path, err)
			continue
		}
		logging.Get(logging.CategoryCorpus).Info("corpus watcher: imported state from %s", path)
	}
}
