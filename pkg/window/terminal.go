package window

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal is a Window backed by a terminal file descriptor. Size is
// measured in character cells unless UsePixels is set and the terminal
// reports its pixel dimensions.
type Terminal struct {
	fd        int
	usePixels bool

	listeners listeners
	stop      chan struct{}
	closeOnce sync.Once
}

// NewTerminal starts listening for resizes of f. Call Close when done.
func NewTerminal(f *os.File, usePixels bool) *Terminal {
	t := &Terminal{
		fd:        int(f.Fd()),
		usePixels: usePixels,
		stop:      make(chan struct{}),
	}
	t.watchResize()
	return t
}

// Detect returns a Terminal when f is a TTY and None otherwise.
func Detect(f *os.File, usePixels bool) Window {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return None{}
	}
	return NewTerminal(f, usePixels)
}

// Size returns the terminal size, or ok == false if it cannot be read.
func (t *Terminal) Size() (int, int, bool) {
	if t.usePixels {
		if w, h, ok := pixelSize(t.fd); ok {
			return w, h, true
		}
	}
	w, h, err := term.GetSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// OnResize registers fn to run after each terminal resize.
func (t *Terminal) OnResize(fn func()) func() {
	return t.listeners.add(fn)
}

// Close stops resize delivery. Safe to call more than once.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() { close(t.stop) })
	return nil
}

// Close releases w if it holds resources.
func Close(w Window) error {
	if c, ok := w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
