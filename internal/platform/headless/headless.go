// Package headless implements platform.Backend entirely in memory.
//
// Windows have outer rectangles, titles, visibility and focus like native
// ones, and every window owns a FIFO message queue that PeekMessage drains.
// The backend is used by tests and by the executable's headless mode.
package headless

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/litecube/litecube/internal/platform"
)

const (
	captionHeight     = 23
	thickBorder       = 8
	thinBorder        = 3
	defaultScreenW    = 1920
	defaultScreenH    = 1080
	defaultBitsPerPel = 32
)

// Faults makes selected backend calls fail, for exercising error paths.
type Faults struct {
	RegisterClass bool
	CreateWindow  bool
	// InvalidHandles makes CreateWindow return handles IsWindow rejects.
	InvalidHandles bool
	DisplayMode    bool
}

type window struct {
	class     string
	title     string
	style     platform.Style
	bounds    platform.Rect
	restore   platform.Rect
	valid     bool
	visible   bool
	minimized bool
	maximized bool
	queue     []platform.Message
}

// Backend is an in-memory windowing subsystem. It is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	classes  map[string]platform.DispatchFunc
	windows  map[platform.Handle]*window
	next     platform.Handle
	focused  platform.Handle
	screen   platform.DisplayMode
	original *platform.DisplayMode
	faults   Faults

	registrations int
	creations     int
}

var _ platform.Backend = (*Backend)(nil)

// New returns a backend with a 1920x1080 32-bit screen.
func New() *Backend {
	return &Backend{
		classes: make(map[string]platform.DispatchFunc),
		windows: make(map[platform.Handle]*window),
		screen: platform.DisplayMode{
			Width:        defaultScreenW,
			Height:       defaultScreenH,
			BitsPerPixel: defaultBitsPerPel,
		},
	}
}

func (b *Backend) Name() string { return "headless" }

// SetFaults replaces the active fault set.
func (b *Backend) SetFaults(f Faults) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = f
}

// Registrations returns how many classes were registered successfully.
func (b *Backend) Registrations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registrations
}

// Creations returns how many windows were created.
func (b *Backend) Creations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.creations
}

// LiveWindows returns the number of windows not yet destroyed.
func (b *Backend) LiveWindows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.windows)
}

// Screen returns the current display mode.
func (b *Backend) Screen() platform.DisplayMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen
}

// Pending returns the number of queued messages for h.
func (b *Backend) Pending(h platform.Handle) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[h]; ok {
		return len(w.queue)
	}
	return 0
}

// Visible reports whether h is shown and not minimized.
func (b *Backend) Visible(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	return ok && w.visible && !w.minimized
}

// Minimized reports whether h is iconified.
func (b *Backend) Minimized(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	return ok && w.minimized
}

// Maximized reports whether h fills the screen as a maximized window.
func (b *Backend) Maximized(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	return ok && w.maximized
}

// WindowStyle returns the style h was created with.
func (b *Backend) WindowStyle(h platform.Handle) (platform.Style, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	if !ok {
		return platform.Style{}, false
	}
	return w.style, true
}

func (b *Backend) RegisterClass(class platform.Class) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults.RegisterClass {
		return errors.New("RegisterClass: injected failure")
	}
	if class.Name == "" {
		return errors.New("RegisterClass: empty class name")
	}
	if _, exists := b.classes[class.Name]; exists {
		return fmt.Errorf("RegisterClass %q: %w", class.Name, platform.ErrClassExists)
	}
	b.classes[class.Name] = class.Dispatch
	b.registrations++
	return nil
}

func (b *Backend) CreateWindow(params platform.CreateParams) (platform.Handle, error) {
	b.mu.Lock()

	if b.faults.CreateWindow {
		b.mu.Unlock()
		return 0, errors.New("CreateWindow: injected failure")
	}
	dispatch, ok := b.classes[params.Class]
	if !ok {
		b.mu.Unlock()
		return 0, fmt.Errorf("CreateWindow %q: %w", params.Class, platform.ErrUnknownClass)
	}

	bounds := params.Bounds
	if bounds.X == platform.UseDefault {
		bounds.X = (b.screen.Width - bounds.Width) / 2
	}
	if bounds.Y == platform.UseDefault {
		bounds.Y = (b.screen.Height - bounds.Height) / 2
	}

	b.next++
	h := b.next
	b.windows[h] = &window{
		class:  params.Class,
		title:  params.Title,
		style:  params.Style,
		bounds: bounds,
		valid:  !b.faults.InvalidHandles,
	}
	b.creations++
	b.mu.Unlock()

	if dispatch != nil {
		dispatch(platform.Message{Handle: h, ID: platform.MessageCreate, LParam: uintptr(params.Token)})
	}
	return h, nil
}

func (b *Backend) IsWindow(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	return ok && w.valid
}

func (b *Backend) DestroyWindow(h platform.Handle) error {
	b.mu.Lock()
	w, ok := b.windows[h]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("DestroyWindow %d: %w", h, platform.ErrNoWindow)
	}
	dispatch := b.classes[w.class]
	b.mu.Unlock()

	if dispatch != nil {
		dispatch(platform.Message{Handle: h, ID: platform.MessageDestroy})
	}

	b.mu.Lock()
	delete(b.windows, h)
	if b.focused == h {
		b.focused = 0
	}
	b.mu.Unlock()
	return nil
}

// AdjustWindowRect adds a Win32-like decoration budget: a caption and a
// border that is thicker on resizable windows. Popups have none.
func (b *Backend) AdjustWindowRect(client platform.Rect, style platform.Style) platform.Rect {
	if style.Popup {
		return client
	}
	border := thinBorder
	if style.Resizable {
		border = thickBorder
	}
	return platform.Rect{
		X:      client.X - border,
		Y:      client.Y - border - captionHeight,
		Width:  client.Width + 2*border,
		Height: client.Height + 2*border + captionHeight,
	}
}

func (b *Backend) WindowRect(h platform.Handle) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return platform.Rect{}, err
	}
	return w.bounds, nil
}

func (b *Backend) MoveWindow(h platform.Handle, bounds platform.Rect, _ bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return err
	}

	moved := bounds.X != w.bounds.X || bounds.Y != w.bounds.Y
	resized := bounds.Width != w.bounds.Width || bounds.Height != w.bounds.Height
	w.bounds = bounds
	w.maximized = false
	if moved {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageMove})
	}
	if resized {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageSize})
	}
	return nil
}

func (b *Backend) SetTitle(h platform.Handle, title string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return err
	}
	w.title = title
	return nil
}

func (b *Backend) Title(h platform.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return "", err
	}
	return w.title, nil
}

func (b *Backend) ShowWindow(h platform.Handle, cmd platform.ShowCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(h)
	if err != nil {
		return err
	}

	wasVisible := w.visible && !w.minimized
	switch cmd {
	case platform.ShowNormal:
		w.visible = true
		w.minimized = false
		b.focus(h)
	case platform.ShowHide:
		w.visible = false
		b.blur(h)
	case platform.ShowMinimized:
		w.visible = true
		w.minimized = true
		b.blur(h)
	case platform.ShowMaximized:
		if !w.maximized {
			w.restore = w.bounds
		}
		w.visible = true
		w.minimized = false
		w.maximized = true
		w.bounds = platform.Rect{Width: b.screen.Width, Height: b.screen.Height}
		b.focus(h)
	case platform.ShowRestore:
		w.visible = true
		if w.minimized {
			w.minimized = false
		} else if w.maximized {
			w.maximized = false
			w.bounds = w.restore
		}
		b.focus(h)
	default:
		return fmt.Errorf("ShowWindow: unknown command %d", cmd)
	}

	isVisible := w.visible && !w.minimized
	if isVisible && !wasVisible {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageShow})
	} else if !isVisible && wasVisible {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageHide})
	}
	return nil
}

func (b *Backend) UpdateWindow(h platform.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.lookup(h)
	return err
}

func (b *Backend) FocusedWindow() (platform.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused, nil
}

func (b *Backend) WorkArea() (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return platform.Rect{Width: b.screen.Width, Height: b.screen.Height}, nil
}

func (b *Backend) SetDisplayMode(mode platform.DisplayMode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.faults.DisplayMode {
		return errors.New("SetDisplayMode: injected failure")
	}
	if mode.Width <= 0 || mode.Height <= 0 {
		return fmt.Errorf("SetDisplayMode: invalid mode %dx%d", mode.Width, mode.Height)
	}
	if b.original == nil {
		prev := b.screen
		b.original = &prev
	}
	b.screen = mode
	return nil
}

func (b *Backend) RestoreDisplayMode() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.original != nil {
		b.screen = *b.original
		b.original = nil
	}
	return nil
}

func (b *Backend) PeekMessage(h platform.Handle) (platform.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	if !ok || len(w.queue) == 0 {
		return platform.Message{}, false
	}
	msg := w.queue[0]
	w.queue = w.queue[1:]
	return msg, true
}

// TranslateMessage queues a MessageChar ahead of everything else when msg
// is a key press carrying a printable rune in WParam.
func (b *Backend) TranslateMessage(msg platform.Message) {
	if msg.ID != platform.MessageKeyDown || !unicode.IsPrint(rune(msg.WParam)) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[msg.Handle]
	if !ok {
		return
	}
	char := platform.Message{Handle: msg.Handle, ID: platform.MessageChar, WParam: msg.WParam}
	w.queue = append([]platform.Message{char}, w.queue...)
}

func (b *Backend) DispatchMessage(msg platform.Message) {
	b.mu.Lock()
	w, ok := b.windows[msg.Handle]
	if !ok {
		b.mu.Unlock()
		return
	}
	dispatch := b.classes[w.class]
	b.mu.Unlock()

	result := platform.Unhandled
	if dispatch != nil {
		result = dispatch(msg)
	}
	if result == platform.Unhandled {
		b.defaultProc(msg)
	}
}

// PostMessage queues a parameterless message for h.
func (b *Backend) PostMessage(h platform.Handle, id platform.MessageID) error {
	return b.Inject(platform.Message{Handle: h, ID: id})
}

// Inject queues msg on its window's queue.
func (b *Backend) Inject(msg platform.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.lookup(msg.Handle)
	if err != nil {
		return err
	}
	w.queue = append(w.queue, msg)
	return nil
}

// defaultProc mirrors native default processing: an unhandled close
// destroys the window.
func (b *Backend) defaultProc(msg platform.Message) {
	if msg.ID == platform.MessageClose {
		_ = b.DestroyWindow(msg.Handle)
	}
}

func (b *Backend) lookup(h platform.Handle) (*window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, fmt.Errorf("window %d: %w", h, platform.ErrNoWindow)
	}
	return w, nil
}

func (b *Backend) focus(h platform.Handle) {
	if b.focused == h {
		return
	}
	if prev, ok := b.windows[b.focused]; ok {
		prev.queue = append(prev.queue, platform.Message{Handle: b.focused, ID: platform.MessageBlur})
	}
	b.focused = h
	if w, ok := b.windows[h]; ok {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageFocus})
	}
}

func (b *Backend) blur(h platform.Handle) {
	if b.focused != h {
		return
	}
	b.focused = 0
	if w, ok := b.windows[h]; ok {
		w.queue = append(w.queue, platform.Message{Handle: h, ID: platform.MessageBlur})
	}
}
