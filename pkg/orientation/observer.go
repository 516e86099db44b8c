package orientation

import (
	"log/slog"
	"sync"

	"github.com/Dicklesworthstone/orient/pkg/watcher"
	"github.com/Dicklesworthstone/orient/pkg/window"
)

// Observer tracks the orientation of one window. Each Observer owns its
// own subscription and debounce timer; observers never share state.
type Observer struct {
	win    window.Window
	opts   Options
	logger *slog.Logger

	// recomputeMu runs one measurement at a time, so a trailing-edge
	// recompute cannot overwrite a newer leading-edge one.
	recomputeMu sync.Mutex

	mu          sync.Mutex
	current     Orientation
	started     bool
	stopped     bool
	nextSubID   uint64
	subscribers map[uint64]func(Result)
	recomputes  int

	debouncer    *watcher.Debouncer
	removeResize func()
}

// NewObserver validates opts and seeds the observer with the default
// orientation. Nothing is measured or subscribed until Start.
func NewObserver(win window.Window, opts Options) (*Observer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if win == nil {
		win = window.None{}
	}
	opts = opts.withDefaults()
	return &Observer{
		win:         win,
		opts:        opts,
		logger:      opts.Logger,
		current:     opts.DefaultOrientation,
		subscribers: make(map[uint64]func(Result)),
	}, nil
}

// Use is the one-call entry point: it parses untyped options, builds an
// Observer on win and starts it. Configuration errors are returned before
// anything is subscribed. Callers must Stop the returned Observer.
func Use(win window.Window, options any) (*Observer, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	o, err := NewObserver(win, opts)
	if err != nil {
		return nil, err
	}
	o.Start()
	return o, nil
}

// Start measures the window once and begins following resizes. It runs at
// most once per Observer; later calls, and calls after Stop, do nothing.
func (o *Observer) Start() {
	o.mu.Lock()
	if o.started || o.stopped {
		o.mu.Unlock()
		return
	}
	o.started = true
	o.debouncer = watcher.NewDebouncer(o.opts.Debounce, o.recompute, watcher.DebounceOptions{
		Leading:  true,
		Trailing: true,
	})
	o.mu.Unlock()

	// The leading edge measures synchronously and opens the debounce window.
	o.debouncer.Trigger()

	remove := o.win.OnResize(o.debouncer.Trigger)

	o.mu.Lock()
	if o.stopped {
		// Stop raced with Start; undo the registration ourselves.
		o.mu.Unlock()
		remove()
		o.debouncer.Cancel()
		return
	}
	o.removeResize = remove
	o.mu.Unlock()

	o.logger.Debug("orientation observer started", "orientation", o.Result().Orientation)
}

// Stop deregisters the resize listener and cancels any pending recompute.
// After Stop returns the value no longer changes and no subscriber call
// starts; a call already running may still finish. Safe to call more than once.
func (o *Observer) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	remove, deb := o.removeResize, o.debouncer
	o.removeResize = nil
	o.subscribers = nil
	o.mu.Unlock()

	if remove != nil {
		remove()
	}
	if deb != nil {
		deb.Cancel()
	}
	o.logger.Debug("orientation observer stopped")
}

// Result returns the current orientation and its derived flags.
func (o *Observer) Result() Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return NewResult(o.current)
}

// Subscribe registers fn to be called with the new Result whenever the
// orientation changes. fn runs on the goroutine that performed the
// recompute; notifications are delivered in the order of the changes, so
// fn must not resize the observed window itself. The returned function
// removes the subscription.
func (o *Observer) Subscribe(fn func(Result)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return func() {}
	}
	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

// Recomputes returns how many times the window has been measured.
func (o *Observer) Recomputes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.recomputes
}

// recompute re-measures the window. Without a measurement the value is left alone.
func (o *Observer) recompute() {
	o.recomputeMu.Lock()
	defer o.recomputeMu.Unlock()

	width, height, ok := o.win.Size()

	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.recomputes++
	if !ok {
		o.mu.Unlock()
		return
	}
	next := FromSize(width, height)
	if next == o.current {
		o.mu.Unlock()
		return
	}
	o.current = next
	subs := make([]func(Result), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	o.logger.Debug("orientation changed", "orientation", next, "width", width, "height", height)
	res := NewResult(next)
	for _, fn := range subs {
		if o.isStopped() {
			return
		}
		fn(res)
	}
}

func (o *Observer) isStopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}
