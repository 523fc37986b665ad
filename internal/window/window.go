// Package window provides a native OS window with a poll-driven event loop.
//
// A Window starts out not created. Open creates the native window, the
// caller then calls PollEvents regularly (once per frame) until
// IsCloseRequested reports true, and Close releases the native handle.
// Queries on a window that does not exist return sentinel values instead of
// errors: (-1, -1) for geometry, "" for the title and false for focus.
package window

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/litecube/litecube/internal/platform"
)

var (
	// ErrRegisterClass means the window class could not be registered.
	ErrRegisterClass = errors.New("register window class")
	// ErrCreateWindow means the backend failed to create the native window.
	ErrCreateWindow = errors.New("create window")
	// ErrInvalidHandle means creation produced a handle the backend does not
	// recognize as a window.
	ErrInvalidHandle = errors.New("invalid window handle")
)

// Event is a single native message handed to a Window.
type Event struct {
	Message platform.MessageID
	WParam  uintptr
	LParam  uintptr
}

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Window) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClassName overrides the window class name.
func WithClassName(name string) Option {
	return func(w *Window) {
		if name != "" {
			w.className = name
		}
	}
}

// Window is one native on-screen window. It is not safe for concurrent use;
// all methods must be called from the goroutine that polls it.
type Window struct {
	backend   platform.Backend
	className string
	class     *windowClass
	logger    *slog.Logger

	handle         platform.Handle
	created        bool
	closeRequested bool
	switchedMode   bool
}

// New returns a window bound to backend. The native window is not created
// until Open is called.
func New(backend platform.Backend, opts ...Option) *Window {
	w := &Window{
		backend:   backend,
		className: DefaultClassName,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.class = classFor(backend, w.className)
	return w
}

// Run opens a window, calls fn with it and closes it on every exit path.
func Run(backend platform.Backend, width, height int, title string, flags Flags, fn func(*Window) error, opts ...Option) error {
	w := New(backend, opts...)
	defer w.Close()

	if err := w.Open(width, height, title, flags); err != nil {
		return err
	}
	return fn(w)
}

// Open creates and shows the native window so that its client area is
// width x height. Opening an already created window does nothing.
//
// With Fullscreen set, Open first tries to switch the display to
// width x height at 32 bits per pixel and uses a borderless style. When the
// switch fails the window is opened with its regular decorations instead.
func (w *Window) Open(width, height int, title string, flags Flags) error {
	if err := w.class.register(); err != nil {
		return err
	}
	if w.created {
		return nil
	}

	style := flags.style()
	if flags.Has(Fullscreen) {
		mode := platform.DisplayMode{Width: width, Height: height, BitsPerPixel: 32}
		if err := w.backend.SetDisplayMode(mode); err != nil {
			w.logger.Debug("fullscreen unavailable, using windowed style",
				"width", width, "height", height, "error", err)
		} else {
			style = platform.Style{Popup: true}
			w.switchedMode = true
		}
	}

	bounds := w.backend.AdjustWindowRect(platform.Rect{Width: width, Height: height}, style)
	if style.Popup {
		bounds.X, bounds.Y = 0, 0
	} else {
		bounds.X, bounds.Y = platform.UseDefault, platform.UseDefault
	}

	tok := w.class.owners.Reserve(w)
	h, err := w.backend.CreateWindow(platform.CreateParams{
		Class:  w.className,
		Title:  title,
		Style:  style,
		Bounds: bounds,
		Token:  tok,
	})
	if err != nil {
		w.class.owners.Cancel(tok)
		w.restoreDisplayMode()
		return fmt.Errorf("%w: %w", ErrCreateWindow, err)
	}
	if h == 0 || !w.backend.IsWindow(h) {
		w.class.owners.Cancel(tok)
		if h != 0 {
			w.class.owners.Release(h)
			_ = w.backend.DestroyWindow(h)
		}
		w.restoreDisplayMode()
		return fmt.Errorf("%w: %#x", ErrInvalidHandle, uintptr(h))
	}

	// Backends that could not deliver MessageCreate still get bound here.
	w.class.owners.Bind(tok, h, w)
	w.handle = h

	if err := w.backend.ShowWindow(h, flags.showCommand()); err != nil {
		w.logger.Debug("show window failed", "handle", uintptr(h), "error", err)
	}
	if err := w.backend.UpdateWindow(h); err != nil {
		w.logger.Debug("update window failed", "handle", uintptr(h), "error", err)
	}
	w.created = true

	w.logger.Debug("window opened",
		"backend", w.backend.Name(),
		"handle", uintptr(h),
		"width", width,
		"height", height,
		"flags", flags.String())
	return nil
}

// Close destroys the native window. It is safe to call at any time and
// any number of times.
func (w *Window) Close() {
	if w.valid() {
		if err := w.backend.DestroyWindow(w.handle); err != nil {
			w.logger.Debug("destroy window failed", "handle", uintptr(w.handle), "error", err)
		}
	}
	if w.handle != 0 {
		w.class.owners.Release(w.handle)
		w.handle = 0
	}
	w.restoreDisplayMode()
	w.created = false
}

func (w *Window) restoreDisplayMode() {
	if !w.switchedMode {
		return
	}
	if err := w.backend.RestoreDisplayMode(); err != nil {
		w.logger.Debug("restore display mode failed", "error", err)
	}
	w.switchedMode = false
}

// valid reports whether the window has a handle the backend still accepts.
func (w *Window) valid() bool {
	return w.handle != 0 && w.backend.IsWindow(w.handle)
}

// Handle returns the native handle, or zero when the window is not created.
func (w *Window) Handle() platform.Handle {
	return w.handle
}

// IsCreated reports whether Open succeeded and Close has not been called since.
func (w *Window) IsCreated() bool {
	return w.created
}

// IsOpen reports whether the native window still exists. It turns false
// after Close and when the window was destroyed by someone else.
func (w *Window) IsOpen() bool {
	return w.valid()
}

// SetSize resizes the outer window rectangle, keeping its position.
func (w *Window) SetSize(width, height int) {
	if !w.valid() {
		return
	}
	x, y := w.Position()
	w.move(platform.Rect{X: x, Y: y, Width: width, Height: height}, false)
}

// Size returns the outer window size including borders and title bar,
// or (-1, -1) when there is no window.
func (w *Window) Size() (width, height int) {
	r, ok := w.rect()
	if !ok {
		return -1, -1
	}
	return r.Width, r.Height
}

// SetPosition moves the window, keeping its outer size.
func (w *Window) SetPosition(x, y int) {
	if !w.valid() {
		return
	}
	width, height := w.Size()
	w.move(platform.Rect{X: x, Y: y, Width: width, Height: height}, true)
}

// Position returns the top-left corner of the outer window rectangle,
// or (-1, -1) when there is no window.
func (w *Window) Position() (x, y int) {
	r, ok := w.rect()
	if !ok {
		return -1, -1
	}
	return r.X, r.Y
}

func (w *Window) rect() (platform.Rect, bool) {
	if !w.valid() {
		return platform.Rect{}, false
	}
	r, err := w.backend.WindowRect(w.handle)
	if err != nil {
		return platform.Rect{}, false
	}
	return r, true
}

func (w *Window) move(bounds platform.Rect, repaint bool) {
	if err := w.backend.MoveWindow(w.handle, bounds, repaint); err != nil {
		w.logger.Debug("move window failed", "handle", uintptr(w.handle), "error", err)
	}
}

// SetTitle changes the caption text. It does nothing when there is no window.
func (w *Window) SetTitle(title string) {
	if !w.valid() {
		return
	}
	if err := w.backend.SetTitle(w.handle, title); err != nil {
		w.logger.Debug("set title failed", "handle", uintptr(w.handle), "error", err)
	}
}

// Title returns the window title, or "" when there is no window.
func (w *Window) Title() string {
	if !w.valid() {
		return ""
	}
	title, err := w.backend.Title(w.handle)
	if err != nil {
		return ""
	}
	return title
}

// Minimize iconifies the window.
func (w *Window) Minimize() { w.show(platform.ShowMinimized) }

// Restore brings a minimized or maximized window back to its normal state.
func (w *Window) Restore() { w.show(platform.ShowRestore) }

// Hide unmaps the window without destroying it.
func (w *Window) Hide() { w.show(platform.ShowHide) }

// Show makes the window visible in its normal state and activates it.
func (w *Window) Show() { w.show(platform.ShowNormal) }

func (w *Window) show(cmd platform.ShowCommand) {
	if !w.valid() {
		return
	}
	if err := w.backend.ShowWindow(w.handle, cmd); err != nil {
		w.logger.Debug("show window failed", "handle", uintptr(w.handle), "command", cmd.String(), "error", err)
	}
}

// IsFocused reports whether this window has keyboard focus.
func (w *Window) IsFocused() bool {
	if w.handle == 0 {
		return false
	}
	focused, err := w.backend.FocusedWindow()
	if err != nil {
		return false
	}
	return focused == w.handle
}

// IsCloseRequested reports whether the user asked to close the window. Once
// true it stays true.
func (w *Window) IsCloseRequested() bool {
	return w.closeRequested
}

// RequestClose posts a close message to the window's own queue, as if the
// user had clicked the close button. The request is observed by the next
// PollEvents.
func (w *Window) RequestClose() error {
	h := w.handle
	if h == 0 {
		return fmt.Errorf("request close: %w", platform.ErrNoWindow)
	}
	return w.backend.PostMessage(h, platform.MessageClose)
}

// handleEvent is the window's state machine. A close request is consumed;
// every other message is left to the backend's default processing.
func (w *Window) handleEvent(ev Event) platform.Result {
	switch ev.Message {
	case platform.MessageClose:
		w.closeRequested = true
		return platform.Handled
	default:
		return platform.Unhandled
	}
}

// PollEvents processes every message pending for the window without
// blocking. It must be called regularly or the OS will consider the window
// unresponsive.
func (w *Window) PollEvents() {
	w.pollEvents(true)
}

// PollEvent processes at most one pending message.
func (w *Window) PollEvent() {
	w.pollEvents(false)
}

func (w *Window) pollEvents(all bool) {
	if w.handle == 0 {
		return
	}
	for {
		msg, ok := w.backend.PeekMessage(w.handle)
		if !ok {
			return
		}
		w.backend.TranslateMessage(msg)
		w.backend.DispatchMessage(msg)
		if !all {
			return
		}
	}
}
