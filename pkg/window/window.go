// Package window abstracts the surface whose shape is observed: a terminal,
// a bubbletea program's reported size, or nothing at all.
package window

import "sync"

// Window reports its current size and notifies listeners when it changes.
type Window interface {
	// Size returns the current width and height. ok is false when no
	// measurement is available.
	Size() (width, height int, ok bool)
	// OnResize registers fn to be called after every resize. The returned
	// function removes the registration and is safe to call more than once.
	OnResize(fn func()) (remove func())
}

// None is a Window without a measurement, such as output redirected to a file.
type None struct{}

// Size always reports no measurement.
func (None) Size() (int, int, bool) { return 0, 0, false }

// OnResize never calls fn.
func (None) OnResize(func()) func() { return func() {} }

// listeners is a registry of resize callbacks shared by the Window implementations.
type listeners struct {
	mu     sync.Mutex
	nextID uint64
	fns    map[uint64]func()
}

func (l *listeners) add(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[uint64]func())
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// notify calls every listener outside the lock so that a listener may
// deregister itself.
func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
