//go:build windows

package window

// watchResize is a no-op on Windows as SIGWINCH is not supported.
func (t *Terminal) watchResize() {}

func pixelSize(int) (int, int, bool) { return 0, 0, false }
