//go:build !windows

package window

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// watchResize forwards SIGWINCH to the listeners until Close.
func (t *Terminal) watchResize() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-t.stop:
				return
			case <-sigCh:
				t.listeners.notify()
			}
		}
	}()
}

// pixelSize reads the pixel dimensions some terminals report alongside rows and columns.
func pixelSize(fd int) (int, int, bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 0, 0, false
	}
	return int(ws.Xpixel), int(ws.Ypixel), true
}
