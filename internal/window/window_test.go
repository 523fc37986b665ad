package window

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/litecube/litecube/internal/platform"
	"github.com/litecube/litecube/internal/platform/headless"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openWindow(t *testing.T, b *headless.Backend, flags Flags) *Window {
	t.Helper()
	w := New(b, WithLogger(quietLogger()))
	if err := w.Open(800, 600, "test", flags); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func TestOpen_NoCloseRequestedForAnyFlags(t *testing.T) {
	b := headless.New()
	for flags := Flags(0); flags <= Default|Fullscreen|Maximized|Minimized; flags++ {
		w := New(b, WithLogger(quietLogger()))
		if err := w.Open(640, 480, "flags", flags); err != nil {
			t.Fatalf("Open(%s) error: %v", flags, err)
		}
		if w.IsCloseRequested() {
			t.Fatalf("IsCloseRequested() = true right after Open(%s)", flags)
		}
		w.Close()
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	first := w.Handle()

	if err := w.Open(1024, 768, "other", Fullscreen); err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	if w.Handle() != first {
		t.Fatalf("handle changed: got %d, want %d", w.Handle(), first)
	}
	if got := b.Creations(); got != 1 {
		t.Fatalf("Creations() = %d, want 1", got)
	}
	if got := w.Title(); got != "test" {
		t.Fatalf("Title() = %q, want %q", got, "test")
	}
}

func TestClose_QueriesReturnSentinels(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	if !w.IsFocused() {
		t.Fatal("IsFocused() = false for a freshly shown window")
	}

	w.Close()

	if w.IsCreated() {
		t.Fatal("IsCreated() = true after Close")
	}
	if width, height := w.Size(); width != -1 || height != -1 {
		t.Fatalf("Size() = (%d, %d), want (-1, -1)", width, height)
	}
	if x, y := w.Position(); x != -1 || y != -1 {
		t.Fatalf("Position() = (%d, %d), want (-1, -1)", x, y)
	}
	if got := w.Title(); got != "" {
		t.Fatalf("Title() = %q, want empty", got)
	}
	if w.IsFocused() {
		t.Fatal("IsFocused() = true after Close")
	}
	if got := b.LiveWindows(); got != 0 {
		t.Fatalf("LiveWindows() = %d, want 0", got)
	}

	// Close is repeatable and mutators are no-ops.
	w.Close()
	w.SetSize(10, 10)
	w.SetPosition(1, 1)
	w.SetTitle("ignored")
	w.Minimize()
	w.Restore()
	w.Hide()
	w.Show()
	w.PollEvents()
}

func TestNew_QueriesBeforeOpenReturnSentinels(t *testing.T) {
	w := New(headless.New(), WithLogger(quietLogger()))

	if width, height := w.Size(); width != -1 || height != -1 {
		t.Fatalf("Size() = (%d, %d), want (-1, -1)", width, height)
	}
	if w.Title() != "" || w.IsFocused() || w.IsCloseRequested() || w.IsCreated() {
		t.Fatal("unopened window reported state")
	}
	if err := w.RequestClose(); !errors.Is(err, platform.ErrNoWindow) {
		t.Fatalf("RequestClose() error = %v, want ErrNoWindow", err)
	}
	w.PollEvents()
}

func TestCloseRequested_IsSticky(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	w.PollEvents()

	if err := w.RequestClose(); err != nil {
		t.Fatalf("RequestClose() error: %v", err)
	}
	w.PollEvents()
	if !w.IsCloseRequested() {
		t.Fatal("IsCloseRequested() = false after close message")
	}

	// The close was handled, so the window still exists.
	if !w.IsCreated() || b.LiveWindows() != 1 {
		t.Fatal("handled close destroyed the window")
	}

	w.SetSize(300, 200)
	w.SetPosition(5, 5)
	if err := b.Inject(platform.Message{Handle: w.Handle(), ID: platform.MessageOther, Native: 0x1234}); err != nil {
		t.Fatalf("Inject() error: %v", err)
	}
	w.PollEvents()
	w.PollEvents()

	if !w.IsCloseRequested() {
		t.Fatal("IsCloseRequested() reset by later events")
	}
}

func TestIsOpen_TracksExternalDestroy(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	if !w.IsOpen() {
		t.Fatal("IsOpen() = false after Open")
	}

	if err := b.DestroyWindow(w.Handle()); err != nil {
		t.Fatalf("DestroyWindow() error: %v", err)
	}
	if w.IsOpen() {
		t.Fatal("IsOpen() = true after the backend destroyed the window")
	}
	if x, y := w.Position(); x != -1 || y != -1 {
		t.Fatalf("Position() = (%d, %d), want (-1, -1)", x, y)
	}

	w.Close()
	if w.IsOpen() || w.IsCreated() {
		t.Fatal("window still open after Close")
	}
}

func TestSetPosition_PreservesSize(t *testing.T) {
	w := openWindow(t, headless.New(), Default)
	width, height := w.Size()

	w.SetPosition(100, 120)

	if x, y := w.Position(); x != 100 || y != 120 {
		t.Fatalf("Position() = (%d, %d), want (100, 120)", x, y)
	}
	if gw, gh := w.Size(); gw != width || gh != height {
		t.Fatalf("Size() = (%d, %d), want (%d, %d)", gw, gh, width, height)
	}
}

func TestSetSize_PreservesPosition(t *testing.T) {
	w := openWindow(t, headless.New(), Default)
	x, y := w.Position()

	w.SetSize(320, 240)

	if gw, gh := w.Size(); gw != 320 || gh != 240 {
		t.Fatalf("Size() = (%d, %d), want (320, 240)", gw, gh)
	}
	if gx, gy := w.Position(); gx != x || gy != y {
		t.Fatalf("Position() = (%d, %d), want (%d, %d)", gx, gy, x, y)
	}
}

func TestOpen_AdjustsOuterSizeForDecorations(t *testing.T) {
	b := headless.New()

	resizable := openWindow(t, b, Default)
	if width, height := resizable.Size(); width != 816 || height != 639 {
		t.Fatalf("resizable Size() = (%d, %d), want (816, 639)", width, height)
	}

	fixed := openWindow(t, b, MinimizeButton)
	if width, height := fixed.Size(); width != 806 || height != 629 {
		t.Fatalf("fixed Size() = (%d, %d), want (806, 629)", width, height)
	}

	style, ok := b.WindowStyle(fixed.Handle())
	if !ok {
		t.Fatal("WindowStyle() missing for open window")
	}
	want := platform.Style{MinimizeButton: true}
	if style != want {
		t.Fatalf("style = %+v, want %+v", style, want)
	}
}

func TestOpen_SharesClassRegistration(t *testing.T) {
	b := headless.New()
	first := openWindow(t, b, Default)
	second := openWindow(t, b, Default)

	if got := b.Registrations(); got != 1 {
		t.Fatalf("Registrations() = %d, want 1", got)
	}
	if first.Handle() == second.Handle() {
		t.Fatal("two windows share a handle")
	}
	if !first.class.isRegistered() || first.class != second.class {
		t.Fatal("windows do not share the registered class")
	}
}

func TestOpen_SeparateClassNamesRegisterSeparately(t *testing.T) {
	b := headless.New()
	openWindow(t, b, Default)

	other := New(b, WithLogger(quietLogger()), WithClassName("OtherClass"))
	if err := other.Open(200, 100, "other", Default); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer other.Close()

	if got := b.Registrations(); got != 2 {
		t.Fatalf("Registrations() = %d, want 2", got)
	}
}

func TestOpen_RegisterFailureIsRetried(t *testing.T) {
	b := headless.New()
	b.SetFaults(headless.Faults{RegisterClass: true})

	w := New(b, WithLogger(quietLogger()))
	err := w.Open(800, 600, "x", Default)
	if !errors.Is(err, ErrRegisterClass) {
		t.Fatalf("Open() error = %v, want ErrRegisterClass", err)
	}
	if w.IsCreated() || b.Creations() != 0 {
		t.Fatal("window created despite registration failure")
	}

	b.SetFaults(headless.Faults{})
	if err := w.Open(800, 600, "x", Default); err != nil {
		t.Fatalf("Open() after recovery error: %v", err)
	}
	defer w.Close()
	if got := b.Registrations(); got != 1 {
		t.Fatalf("Registrations() = %d, want 1", got)
	}
}

func TestOpen_CreateFailure(t *testing.T) {
	b := headless.New()
	b.SetFaults(headless.Faults{CreateWindow: true})

	w := New(b, WithLogger(quietLogger()))
	err := w.Open(800, 600, "x", Default)
	if !errors.Is(err, ErrCreateWindow) {
		t.Fatalf("Open() error = %v, want ErrCreateWindow", err)
	}
	if w.IsCreated() || w.Handle() != 0 {
		t.Fatal("failed Open left a handle behind")
	}
	if got := w.class.owners.Len(); got != 0 {
		t.Fatalf("registry holds %d handles, want 0", got)
	}
}

func TestOpen_InvalidHandleIsDestroyed(t *testing.T) {
	b := headless.New()
	b.SetFaults(headless.Faults{InvalidHandles: true})

	w := New(b, WithLogger(quietLogger()))
	err := w.Open(800, 600, "x", Fullscreen)
	if !errors.Is(err, ErrInvalidHandle) {
		t.Fatalf("Open() error = %v, want ErrInvalidHandle", err)
	}
	if got := b.LiveWindows(); got != 0 {
		t.Fatalf("LiveWindows() = %d, want 0", got)
	}
	if got := w.class.owners.Len(); got != 0 {
		t.Fatalf("registry holds %d handles, want 0", got)
	}
	if got := b.Screen(); got.Width != 1920 || got.Height != 1080 {
		t.Fatalf("display mode not restored: %+v", got)
	}
}

func TestOpen_FullscreenSwitchesModeAndRestoresOnClose(t *testing.T) {
	b := headless.New()
	w := New(b, WithLogger(quietLogger()))
	if err := w.Open(800, 600, "full", Fullscreen); err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	if got := b.Screen(); got.Width != 800 || got.Height != 600 || got.BitsPerPixel != 32 {
		t.Fatalf("Screen() = %+v, want 800x600x32", got)
	}
	style, _ := b.WindowStyle(w.Handle())
	if !style.Popup {
		t.Fatalf("style = %+v, want popup", style)
	}
	if x, y := w.Position(); x != 0 || y != 0 {
		t.Fatalf("Position() = (%d, %d), want (0, 0)", x, y)
	}
	if width, height := w.Size(); width != 800 || height != 600 {
		t.Fatalf("Size() = (%d, %d), want (800, 600)", width, height)
	}

	w.Close()
	if got := b.Screen(); got.Width != 1920 || got.Height != 1080 {
		t.Fatalf("Screen() after Close = %+v, want 1920x1080", got)
	}
}

func TestOpen_FullscreenFallsBackToWindowed(t *testing.T) {
	b := headless.New()
	b.SetFaults(headless.Faults{DisplayMode: true})

	w := New(b, WithLogger(quietLogger()))
	if err := w.Open(800, 600, "full", Fullscreen|Resizable); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer w.Close()

	style, _ := b.WindowStyle(w.Handle())
	if style.Popup || !style.Resizable {
		t.Fatalf("style = %+v, want bordered resizable", style)
	}
	if width, height := w.Size(); width != 816 || height != 639 {
		t.Fatalf("Size() = (%d, %d), want (816, 639)", width, height)
	}
}

func TestOpen_InitialShowState(t *testing.T) {
	b := headless.New()

	maxed := openWindow(t, b, Default|Maximized)
	if !b.Maximized(maxed.Handle()) {
		t.Fatal("Maximized flag not applied")
	}

	mini := openWindow(t, b, Default|Minimized)
	if !b.Minimized(mini.Handle()) {
		t.Fatal("Minimized flag not applied")
	}
	if mini.IsFocused() {
		t.Fatal("minimized window has focus")
	}
}

func TestVisibilityTransitions(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	h := w.Handle()

	w.Hide()
	if b.Visible(h) || w.IsFocused() {
		t.Fatal("Hide() left the window visible or focused")
	}
	w.Show()
	if !b.Visible(h) || !w.IsFocused() {
		t.Fatal("Show() did not show and focus the window")
	}
	w.Minimize()
	if !b.Minimized(h) {
		t.Fatal("Minimize() did not iconify")
	}
	w.Restore()
	if b.Minimized(h) || !b.Visible(h) {
		t.Fatal("Restore() did not restore")
	}
}

func TestSetTitle(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)

	w.SetTitle("renamed")
	if got := w.Title(); got != "renamed" {
		t.Fatalf("Title() = %q, want %q", got, "renamed")
	}
}

func TestIsFocused_FollowsLastShownWindow(t *testing.T) {
	b := headless.New()
	first := openWindow(t, b, Default)
	second := openWindow(t, b, Default)

	if first.IsFocused() || !second.IsFocused() {
		t.Fatal("focus did not move to the newest window")
	}
	first.Show()
	if !first.IsFocused() || second.IsFocused() {
		t.Fatal("focus did not return to the first window")
	}
}

func TestPollEvent_ProcessesAtMostOneMessage(t *testing.T) {
	b := headless.New()
	w := openWindow(t, b, Default)
	w.PollEvents()
	h := w.Handle()

	if got := b.Pending(h); got != 0 {
		t.Fatalf("Pending() = %d after PollEvents, want 0", got)
	}

	b.Inject(platform.Message{Handle: h, ID: platform.MessageOther})
	b.Inject(platform.Message{Handle: h, ID: platform.MessageClose})

	w.PollEvent()
	if w.IsCloseRequested() {
		t.Fatal("PollEvent processed more than one message")
	}
	if got := b.Pending(h); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}

	w.PollEvent()
	if !w.IsCloseRequested() {
		t.Fatal("second PollEvent did not process the close")
	}

	// Empty queue: repeated polls are no-ops.
	w.PollEvent()
	w.PollEvents()
}

func TestHandleEvent(t *testing.T) {
	w := New(headless.New(), WithLogger(quietLogger()))

	for _, id := range []platform.MessageID{
		platform.MessageOther,
		platform.MessageSize,
		platform.MessageFocus,
		platform.MessageKeyDown,
		platform.MessageDestroy,
	} {
		if got := w.handleEvent(Event{Message: id}); got != platform.Unhandled {
			t.Fatalf("handleEvent(%s) = %d, want Unhandled", id, got)
		}
	}
	if w.IsCloseRequested() {
		t.Fatal("unrelated events requested close")
	}

	if got := w.handleEvent(Event{Message: platform.MessageClose}); got != platform.Handled {
		t.Fatalf("handleEvent(close) = %d, want Handled", got)
	}
	if !w.IsCloseRequested() {
		t.Fatal("close event not recorded")
	}
}

func TestDispatch_RoutesByHandle(t *testing.T) {
	b := headless.New()
	first := openWindow(t, b, Default)
	second := openWindow(t, b, Default)

	owner, ok := first.class.owners.Lookup(first.Handle())
	if !ok || owner != first {
		t.Fatal("registry does not map the first handle to its window")
	}

	b.PostMessage(second.Handle(), platform.MessageClose)
	first.PollEvents()
	second.PollEvents()

	if first.IsCloseRequested() {
		t.Fatal("close for the second window reached the first")
	}
	if !second.IsCloseRequested() {
		t.Fatal("second window missed its close")
	}

	if got := first.class.dispatch(platform.Message{Handle: 9999, ID: platform.MessageClose}); got != platform.Unhandled {
		t.Fatalf("dispatch for unknown handle = %d, want Unhandled", got)
	}
}

func TestRun_ClosesOnEveryPath(t *testing.T) {
	b := headless.New()
	boom := errors.New("boom")

	var seen *Window
	err := Run(b, 320, 240, "run", Default, func(w *Window) error {
		seen = w
		if !w.IsCreated() {
			t.Fatal("Run passed an unopened window")
		}
		return boom
	}, WithLogger(quietLogger()))
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if seen == nil || seen.IsCreated() || b.LiveWindows() != 0 {
		t.Fatal("Run did not close the window")
	}
}

func TestEndToEnd_HelloWorld(t *testing.T) {
	b := headless.New()
	w := New(b, WithLogger(quietLogger()))
	if err := w.Open(800, 600, "Hello, World!", Default); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	w.SetPosition(100, 100)

	frames := 0
	for !w.IsCloseRequested() {
		if frames == 5 {
			if err := w.RequestClose(); err != nil {
				t.Fatalf("RequestClose() error: %v", err)
			}
		}
		w.PollEvents()
		frames++
		if frames > 100 {
			t.Fatal("loop never observed the close request")
		}
	}

	w.Close()
	if width, height := w.Size(); width != -1 || height != -1 {
		t.Fatalf("Size() after Close = (%d, %d), want (-1, -1)", width, height)
	}
}
