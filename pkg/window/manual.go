package window

import "sync"

// Manual is a Window whose size is pushed in by the caller. The TUI feeds
// tea.WindowSizeMsg into one; tests use it to simulate resizes.
type Manual struct {
	mu       sync.Mutex
	width    int
	height   int
	measured bool

	listeners listeners
}

// NewManual returns a Manual that already has a measurement.
func NewManual(width, height int) *Manual {
	return &Manual{width: width, height: height, measured: true}
}

// Size returns the last size passed to Resize or NewManual.
func (m *Manual) Size() (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height, m.measured
}

// OnResize registers fn for future Resize calls.
func (m *Manual) OnResize(fn func()) func() {
	return m.listeners.add(fn)
}

// Resize records the new size and notifies listeners synchronously.
func (m *Manual) Resize(width, height int) {
	m.mu.Lock()
	m.width, m.height, m.measured = width, height, true
	m.mu.Unlock()

	m.listeners.notify()
}

// Listeners returns the number of registered listeners.
func (m *Manual) Listeners() int {
	return m.listeners.len()
}
