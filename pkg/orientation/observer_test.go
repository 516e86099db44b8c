package orientation

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dicklesworthstone/orient/pkg/window"
)

const testDebounce = 40 * time.Millisecond

func newTestObserver(t *testing.T, win window.Window, def Orientation) *Observer {
	t.Helper()
	o, err := NewObserver(win, Options{DefaultOrientation: def, Debounce: testDebounce})
	if err != nil {
		t.Fatalf("NewObserver: %v", err)
	}
	t.Cleanup(o.Stop)
	return o
}

// settle waits long enough for any trailing recompute to run.
func settle() {
	time.Sleep(3 * testDebounce)
}

func TestFromSize(t *testing.T) {
	tests := []struct {
		width, height int
		want          Orientation
	}{
		{500, 1000, Portrait},
		{1000, 500, Landscape},
		{800, 800, Portrait},
		{0, 0, Portrait},
		{81, 80, Landscape},
	}
	for _, tt := range tests {
		if got := FromSize(tt.width, tt.height); got != tt.want {
			t.Errorf("FromSize(%d, %d) = %q, want %q", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestNewResultFlagsAreExclusive(t *testing.T) {
	for _, o := range []Orientation{Portrait, Landscape, "", "bogus"} {
		r := NewResult(o)
		if r.Portrait == r.Landscape {
			t.Errorf("NewResult(%q): portrait and landscape both %v", o, r.Portrait)
		}
		if r.Portrait != (r.Orientation == Portrait) || r.Landscape != (r.Orientation == Landscape) {
			t.Errorf("NewResult(%q) inconsistent: %+v", o, r)
		}
	}
}

func TestResultString(t *testing.T) {
	got := NewResult(Landscape).String()
	want := `{"orientation":"landscape","portrait":false,"landscape":true}`
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestObserverSeedsDefaultWithoutWindow(t *testing.T) {
	for _, def := range []Orientation{Portrait, Landscape} {
		t.Run(string(def), func(t *testing.T) {
			o := newTestObserver(t, window.None{}, def)
			if got := o.Result().Orientation; got != def {
				t.Fatalf("before Start: %q, want %q", got, def)
			}
			o.Start()
			if got := o.Result().Orientation; got != def {
				t.Fatalf("after Start without window: %q, want %q", got, def)
			}
		})
	}
}

func TestObserverNilWindow(t *testing.T) {
	o := newTestObserver(t, nil, Landscape)
	o.Start()
	if got := o.Result().Orientation; got != Landscape {
		t.Errorf("orientation = %q, want landscape", got)
	}
}

func TestObserverInitialMeasurementOverridesDefault(t *testing.T) {
	win := window.NewManual(1000, 500)
	o := newTestObserver(t, win, Portrait)
	o.Start()

	r := o.Result()
	if r.Orientation != Landscape || !r.Landscape || r.Portrait {
		t.Fatalf("expected landscape from initial measurement, got %+v", r)
	}
	if win.Listeners() != 1 {
		t.Errorf("expected one resize listener, got %d", win.Listeners())
	}
}

func TestObserverFollowsResize(t *testing.T) {
	win := window.NewManual(1000, 500)
	o := newTestObserver(t, win, Portrait)
	o.Start()

	win.Resize(500, 1000)
	settle()
	if got := o.Result().Orientation; got != Portrait {
		t.Fatalf("after 500x1000: %q, want portrait", got)
	}

	win.Resize(1000, 500)
	settle()
	if got := o.Result().Orientation; got != Landscape {
		t.Fatalf("after 1000x500: %q, want landscape", got)
	}
}

func TestObserverDebouncesBursts(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)
	o.Start()
	initial := o.Recomputes()

	for i := 0; i < 10; i++ {
		win.Resize(500+i*100, 1000)
	}
	settle()

	calls := o.Recomputes() - initial
	if calls < 1 || calls > 2 {
		t.Fatalf("expected 1-2 recomputes for a burst of 10 resizes, got %d", calls)
	}
	// 1400x1000 is the settled size.
	if got := o.Result().Orientation; got != Landscape {
		t.Errorf("trailing edge should capture the settled size, got %q", got)
	}
}

func TestObserverLeadingEdgeIsImmediate(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)
	o.Start()
	settle()

	win.Resize(1000, 500)
	if got := o.Result().Orientation; got != Landscape {
		t.Errorf("leading edge should update synchronously, got %q", got)
	}
}

func TestObserverActivationOpensDebounceWindow(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Landscape)
	o.Start()
	if got := o.Result().Orientation; got != Portrait {
		t.Fatalf("activation should measure synchronously, got %q", got)
	}
	if o.Recomputes() != 1 {
		t.Fatalf("Recomputes() = %d after Start, want 1", o.Recomputes())
	}

	// A resize right after activation lands on the trailing edge.
	win.Resize(1000, 500)
	if got := o.Result().Orientation; got != Portrait {
		t.Errorf("resize inside the activation window applied immediately: %q", got)
	}
	settle()
	if got := o.Result().Orientation; got != Landscape {
		t.Errorf("trailing edge should apply the resize, got %q", got)
	}
	if o.Recomputes() != 2 {
		t.Errorf("Recomputes() = %d, want 2", o.Recomputes())
	}
}

// gatedWindow holds one Size call after it has read the size, until the
// test releases it.
type gatedWindow struct {
	*window.Manual
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func (g *gatedWindow) Size() (int, int, bool) {
	w, h, ok := g.Manual.Size()
	if g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return w, h, ok
}

func TestObserverTrailingRecomputeCannotOverwriteNewerSize(t *testing.T) {
	win := &gatedWindow{
		Manual:  window.NewManual(1000, 500),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	o := newTestObserver(t, win, Portrait)
	o.Start()
	settle()

	win.Resize(500, 1000) // leading edge
	win.armed.Store(true)
	win.Resize(500, 1000) // queued for the trailing edge

	select {
	case <-win.reached:
	case <-time.After(time.Second):
		t.Fatal("trailing recompute never measured the window")
	}

	// The trailing call has read 500x1000 and is parked. A new burst starts.
	done := make(chan struct{})
	go func() {
		win.Resize(1000, 500)
		close(done)
	}()
	time.Sleep(testDebounce / 2)
	close(win.release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("leading recompute did not finish")
	}
	settle()

	if got := o.Result().Orientation; got != Landscape {
		t.Fatalf("window is 1000x500 but observer reports %q", got)
	}
}

func TestObserverNotificationsFollowChangeOrder(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)

	var mu sync.Mutex
	var seen []Orientation
	o.Subscribe(func(r Result) {
		mu.Lock()
		seen = append(seen, r.Orientation)
		mu.Unlock()
	})
	o.Start()
	settle()

	for _, size := range [][2]int{{1000, 500}, {500, 1000}, {1000, 500}} {
		win.Resize(size[0], size[1])
		win.Resize(size[0], size[1])
		settle()
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 || seen[len(seen)-1] != Landscape {
		t.Fatalf("last notification should be landscape, got %v", seen)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] == seen[i-1] {
			t.Errorf("notification %d repeats %q: %v", i, seen[i], seen)
		}
	}
	if got := o.Result().Orientation; got != seen[len(seen)-1] {
		t.Errorf("Result() = %q but last notification was %q", got, seen[len(seen)-1])
	}
}

func TestObserverStopInsideSubscriberSkipsRemaining(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)
	o.Start()
	settle()

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		o.Subscribe(func(Result) {
			calls.Add(1)
			o.Stop()
		})
	}

	win.Resize(1000, 500)
	if got := calls.Load(); got != 1 {
		t.Errorf("subscriber calls after Stop: got %d, want 1", got)
	}
}

func TestObserverSubscribe(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)

	var mu sync.Mutex
	var seen []Result
	unsubscribe := o.Subscribe(func(r Result) {
		mu.Lock()
		seen = append(seen, r)
		mu.Unlock()
	})
	o.Start()

	win.Resize(1000, 500)
	settle()
	win.Resize(1200, 500) // still landscape, no notification
	settle()

	mu.Lock()
	if len(seen) != 1 || seen[0].Orientation != Landscape {
		t.Fatalf("expected one landscape notification, got %+v", seen)
	}
	mu.Unlock()

	unsubscribe()
	win.Resize(500, 1000)
	settle()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 {
		t.Errorf("unsubscribed callback was called: %+v", seen)
	}
}

func TestObserverStop(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)
	o.Start()

	called := false
	o.Subscribe(func(Result) { called = true })

	// Both resizes fall inside the activation window; the trailing
	// recompute is still pending when we stop.
	win.Resize(1000, 500)
	win.Resize(500, 1000)
	o.Stop()
	before := o.Result()

	if win.Listeners() != 0 {
		t.Fatalf("listener not removed, %d remain", win.Listeners())
	}

	win.Resize(500, 1000)
	settle()
	if got := o.Result(); got != before {
		t.Errorf("value changed after Stop: %+v -> %+v", before, got)
	}

	called = false
	win.Resize(2000, 100)
	settle()
	if called {
		t.Error("subscriber notified after Stop")
	}

	o.Stop() // idempotent
	o.Start()
	if win.Listeners() != 0 {
		t.Error("Start after Stop must not resubscribe")
	}
}

func TestObserverStartOnce(t *testing.T) {
	win := window.NewManual(500, 1000)
	o := newTestObserver(t, win, Portrait)
	o.Start()
	o.Start()
	if win.Listeners() != 1 {
		t.Errorf("expected a single listener, got %d", win.Listeners())
	}
}

func TestIndependentObservers(t *testing.T) {
	a := window.NewManual(500, 1000)
	b := window.NewManual(500, 1000)
	oa := newTestObserver(t, a, Portrait)
	ob := newTestObserver(t, b, Portrait)
	oa.Start()
	ob.Start()

	a.Resize(1000, 500)
	settle()
	if oa.Result().Orientation != Landscape {
		t.Error("first observer should be landscape")
	}
	if ob.Result().Orientation != Portrait {
		t.Error("second observer must not see the first window's resize")
	}
}

func TestUse(t *testing.T) {
	win := window.NewManual(1000, 500)
	o, err := Use(win, map[string]any{"defaultOrientation": "portrait"})
	if err != nil {
		t.Fatalf("Use: %v", err)
	}
	defer o.Stop()
	if o.Result().Orientation != Landscape {
		t.Errorf("Use should start the observer and measure the window")
	}

	_, err = Use(win, "foo")
	if err == nil {
		t.Fatal("expected error for non-object options")
	}
	if win.Listeners() != 1 {
		t.Errorf("failed activation must not subscribe, listeners = %d", win.Listeners())
	}
}
