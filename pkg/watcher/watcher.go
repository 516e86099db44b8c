package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when fsnotify is unavailable.
const DefaultPollInterval = 2 * time.Second

// FileWatcher reports debounced changes to a single file. It watches the
// parent directory so that editors which replace files atomically are seen.
type FileWatcher struct {
	path         string
	pollInterval time.Duration
	logger       *slog.Logger

	debouncer *Debouncer
	changes   chan struct{}

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	polling   bool
	forcePoll bool
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the debounce window for change notifications.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		w.debouncer = NewDebouncer(d, w.notify, DebounceOptions{Trailing: true})
	}
}

// WithPollInterval sets the interval used by the polling fallback.
func WithPollInterval(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling skips fsnotify and always polls the modification time.
func WithPolling() Option {
	return func(w *FileWatcher) {
		w.forcePoll = true
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(w *FileWatcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewFileWatcher creates a watcher for path. Nothing is watched until Start.
func NewFileWatcher(path string, opts ...Option) *FileWatcher {
	w := &FileWatcher{
		path:         filepath.Clean(path),
		pollInterval: DefaultPollInterval,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		changes:      make(chan struct{}, 1),
	}
	w.debouncer = NewDebouncer(0, w.notify, DebounceOptions{Trailing: true})
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Changed delivers one value per settled burst of file changes. Values are
// dropped while a previous one is still unread.
func (w *FileWatcher) Changed() <-chan struct{} {
	return w.changes
}

// Polling reports whether the watcher fell back to mtime polling.
func (w *FileWatcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching. It returns an error if the watcher is already running.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return errors.New("watcher already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	var fsw *fsnotify.Watcher
	if !w.forcePoll {
		var err error
		if fsw, err = w.openWatcher(); err != nil {
			w.logger.Warn("fsnotify unavailable, falling back to polling", "path", w.path, "error", err)
		}
	}
	if fsw == nil {
		w.polling = true
		go w.poll(ctx, done)
	} else {
		w.polling = false
		go w.watch(ctx, fsw, done)
	}

	w.cancel = cancel
	w.done = done
	return nil
}

func (w *FileWatcher) openWatcher() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}
	return fsw, nil
}

// Stop stops watching and drops any pending notification. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	w.debouncer.Cancel()
}

func (w *FileWatcher) watch(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("config file event", "path", ev.Name, "op", ev.Op.String())
			w.debouncer.Trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *FileWatcher) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	last := modTime(w.path)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := modTime(w.path)
			if !cur.Equal(last) {
				last = cur
				w.debouncer.Trigger()
			}
		}
	}
}

func (w *FileWatcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// modTime returns the zero time for missing files so that creation and
// removal both register as changes.
func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
