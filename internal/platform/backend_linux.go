//go:build linux

package platform

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/litecube/litecube/internal/x11"
)

type x11Window struct {
	class  string
	style  Style
	width  int
	height int
}

// X11Backend drives top-level windows on an X11 server through an
// x11.Connection.
type X11Backend struct {
	conn *x11.Connection

	mu      sync.Mutex
	classes map[string]DispatchFunc
	windows map[xproto.Window]*x11Window
	// pending holds synthesized messages, delivered before server events.
	pending map[Handle][]Message
}

var _ Backend = (*X11Backend)(nil)

// NewNative connects to the native windowing system of this platform.
func NewNative() (Backend, error) {
	return NewX11Backend()
}

// NewX11Backend creates a backend by opening a fresh X11 connection.
func NewX11Backend() (*X11Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Backend{
		conn:    conn,
		classes: make(map[string]DispatchFunc),
		windows: make(map[xproto.Window]*x11Window),
		pending: make(map[Handle][]Message),
	}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *X11Backend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Connection returns the underlying X11 connection for X11-specific queries.
func (b *X11Backend) Connection() *x11.Connection {
	return b.conn
}

func (b *X11Backend) Name() string { return "x11" }

func (b *X11Backend) RegisterClass(class Class) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if class.Name == "" {
		return fmt.Errorf("RegisterClass: empty class name")
	}
	if _, exists := b.classes[class.Name]; exists {
		return fmt.Errorf("RegisterClass %q: %w", class.Name, ErrClassExists)
	}
	b.classes[class.Name] = class.Dispatch
	return nil
}

func (b *X11Backend) CreateWindow(params CreateParams) (Handle, error) {
	b.mu.Lock()
	dispatch, ok := b.classes[params.Class]
	b.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("CreateWindow %q: %w", params.Class, ErrUnknownClass)
	}

	bounds := params.Bounds
	if bounds.X == UseDefault || bounds.Y == UseDefault {
		area, err := b.WorkArea()
		if err != nil {
			area = Rect{}
		}
		if bounds.X == UseDefault {
			bounds.X = area.X + max(0, (area.Width-bounds.Width)/2)
		}
		if bounds.Y == UseDefault {
			bounds.Y = area.Y + max(0, (area.Height-bounds.Height)/2)
		}
	}

	id, err := b.conn.CreateWindow(x11.WindowOptions{
		X:              bounds.X,
		Y:              bounds.Y,
		Width:          max(1, bounds.Width),
		Height:         max(1, bounds.Height),
		Title:          params.Title,
		Class:          params.Class,
		Resizable:      params.Style.Resizable,
		MinimizeButton: params.Style.MinimizeButton,
		MaximizeButton: params.Style.MaximizeButton,
		Undecorated:    params.Style.Popup,
		Fullscreen:     params.Style.Popup,
	})
	if err != nil {
		return 0, fmt.Errorf("CreateWindow %q: %w", params.Class, err)
	}

	b.mu.Lock()
	b.windows[id] = &x11Window{
		class:  params.Class,
		style:  params.Style,
		width:  bounds.Width,
		height: bounds.Height,
	}
	b.mu.Unlock()

	h := Handle(id)
	if dispatch != nil {
		dispatch(Message{Handle: h, ID: MessageCreate, LParam: uintptr(params.Token)})
	}
	return h, nil
}

func (b *X11Backend) IsWindow(h Handle) bool {
	b.mu.Lock()
	_, ok := b.windows[xproto.Window(h)]
	b.mu.Unlock()
	return ok && b.conn.WindowExists(xproto.Window(h))
}

func (b *X11Backend) DestroyWindow(h Handle) error {
	dispatch, err := b.dispatchFor(h)
	if err != nil {
		return fmt.Errorf("DestroyWindow %d: %w", h, err)
	}
	if dispatch != nil {
		dispatch(Message{Handle: h, ID: MessageDestroy})
	}

	b.forget(h)
	return b.conn.DestroyWindow(xproto.Window(h))
}

// AdjustWindowRect returns client unchanged: X11 frames are drawn by the
// window manager after mapping and only show up in WindowRect.
func (b *X11Backend) AdjustWindowRect(client Rect, _ Style) Rect {
	return client
}

func (b *X11Backend) WindowRect(h Handle) (Rect, error) {
	if _, err := b.lookup(h); err != nil {
		return Rect{}, err
	}
	x, y, w, hh, err := b.conn.WindowGeometry(xproto.Window(h))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: hh}, nil
}

func (b *X11Backend) MoveWindow(h Handle, bounds Rect, repaint bool) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	if err := b.conn.MoveResizeWindow(xproto.Window(h), bounds.X, bounds.Y, bounds.Width, bounds.Height); err != nil {
		return err
	}
	if repaint {
		b.conn.Flush()
	}
	return nil
}

func (b *X11Backend) SetTitle(h Handle, title string) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	return b.conn.SetTitle(xproto.Window(h), title)
}

func (b *X11Backend) Title(h Handle) (string, error) {
	if _, err := b.lookup(h); err != nil {
		return "", err
	}
	return b.conn.Title(xproto.Window(h))
}

func (b *X11Backend) ShowWindow(h Handle, cmd ShowCommand) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	win := xproto.Window(h)

	var err error
	switch cmd {
	case ShowNormal:
		if err = b.conn.MapWindow(win); err == nil {
			err = b.conn.FocusWindow(win)
		}
	case ShowHide:
		err = b.conn.UnmapWindow(win)
	case ShowMinimized:
		if err = b.conn.MapWindow(win); err == nil {
			err = b.conn.IconifyWindow(win)
		}
	case ShowMaximized:
		if err = b.conn.MapWindow(win); err == nil {
			err = b.conn.SetMaximized(win, true)
		}
	case ShowRestore:
		switch {
		case b.conn.IsIconic(win):
			if err = b.conn.MapWindow(win); err == nil {
				err = b.conn.FocusWindow(win)
			}
		case b.conn.IsMaximized(win):
			err = b.conn.SetMaximized(win, false)
		default:
			err = b.conn.MapWindow(win)
		}
	default:
		return fmt.Errorf("ShowWindow: unknown command %d", cmd)
	}
	if err != nil {
		return fmt.Errorf("ShowWindow %s: %w", cmd, err)
	}
	b.conn.Flush()
	return nil
}

func (b *X11Backend) UpdateWindow(h Handle) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	b.conn.Flush()
	return nil
}

func (b *X11Backend) FocusedWindow() (Handle, error) {
	win, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return Handle(win), nil
}

func (b *X11Backend) WorkArea() (Rect, error) {
	x, y, w, h, err := b.conn.WorkArea()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

func (b *X11Backend) SetDisplayMode(mode DisplayMode) error {
	return b.conn.SetDisplayMode(mode.Width, mode.Height, mode.BitsPerPixel)
}

func (b *X11Backend) RestoreDisplayMode() error {
	return b.conn.RestoreDisplayMode()
}

func (b *X11Backend) PeekMessage(h Handle) (Message, bool) {
	b.mu.Lock()
	if q := b.pending[h]; len(q) > 0 {
		b.pending[h] = q[1:]
		b.mu.Unlock()
		return q[0], true
	}
	b.mu.Unlock()

	ev, ok := b.conn.NextEvent(xproto.Window(h))
	if !ok {
		return Message{}, false
	}
	return b.translateEvent(h, ev), true
}

// translateEvent maps an X event to a platform message. Key events carry the
// keycode in WParam and the modifier state in LParam.
func (b *X11Backend) translateEvent(h Handle, ev xgb.Event) Message {
	msg := Message{Handle: h, ID: MessageOther}

	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		msg.Native = xproto.ClientMessage
		if b.conn.IsDeleteWindow(e) {
			msg.ID = MessageClose
		}
	case xproto.DestroyNotifyEvent:
		msg.Native = xproto.DestroyNotify
		msg.ID = MessageDestroy
	case xproto.MapNotifyEvent:
		msg.Native = xproto.MapNotify
		msg.ID = MessageShow
	case xproto.UnmapNotifyEvent:
		msg.Native = xproto.UnmapNotify
		msg.ID = MessageHide
	case xproto.ConfigureNotifyEvent:
		msg.Native = xproto.ConfigureNotify
		msg.ID = MessageMove
		b.mu.Lock()
		if w, ok := b.windows[xproto.Window(h)]; ok {
			if int(e.Width) != w.width || int(e.Height) != w.height {
				msg.ID = MessageSize
				w.width, w.height = int(e.Width), int(e.Height)
			}
		}
		b.mu.Unlock()
	case xproto.FocusInEvent:
		msg.Native = xproto.FocusIn
		msg.ID = MessageFocus
	case xproto.FocusOutEvent:
		msg.Native = xproto.FocusOut
		msg.ID = MessageBlur
	case xproto.KeyPressEvent:
		msg.Native = xproto.KeyPress
		msg.ID = MessageKeyDown
		msg.WParam = uintptr(e.Detail)
		msg.LParam = uintptr(e.State)
	case xproto.KeyReleaseEvent:
		msg.Native = xproto.KeyRelease
		msg.ID = MessageKeyUp
		msg.WParam = uintptr(e.Detail)
		msg.LParam = uintptr(e.State)
	case xproto.ExposeEvent:
		msg.Native = xproto.Expose
	}
	return msg
}

// TranslateMessage looks up the text of a key press under the current
// keyboard mapping and queues it as a MessageChar ahead of other messages.
func (b *X11Backend) TranslateMessage(msg Message) {
	if msg.ID != MessageKeyDown {
		return
	}
	text := b.conn.KeyText(xproto.KeyPressEvent{
		Detail: xproto.Keycode(msg.WParam),
		State:  uint16(msg.LParam),
	})
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || size != len(text) || r == utf8.RuneError {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	char := Message{Handle: msg.Handle, ID: MessageChar, WParam: uintptr(r)}
	b.pending[msg.Handle] = append([]Message{char}, b.pending[msg.Handle]...)
}

func (b *X11Backend) DispatchMessage(msg Message) {
	dispatch, err := b.dispatchFor(msg.Handle)
	if err != nil {
		return
	}

	result := Unhandled
	if dispatch != nil {
		result = dispatch(msg)
	}
	if result == Unhandled {
		b.defaultProc(msg)
	}
}

// PostMessage queues a message for h. A close is routed through the server
// as WM_DELETE_WINDOW so it arrives exactly like the close button.
func (b *X11Backend) PostMessage(h Handle, id MessageID) error {
	if _, err := b.lookup(h); err != nil {
		return err
	}
	if id == MessageClose {
		return b.conn.SendDeleteWindow(xproto.Window(h))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[h] = append(b.pending[h], Message{Handle: h, ID: id})
	return nil
}

// defaultProc matches the behavior of the Win32 default window procedure
// for the messages we route: an unhandled close destroys the window, and a
// window destroyed behind our back is forgotten.
func (b *X11Backend) defaultProc(msg Message) {
	switch msg.ID {
	case MessageClose:
		_ = b.DestroyWindow(msg.Handle)
	case MessageDestroy:
		b.forget(msg.Handle)
		b.conn.Forget(xproto.Window(msg.Handle))
	}
}

func (b *X11Backend) dispatchFor(h Handle) (DispatchFunc, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[xproto.Window(h)]
	if !ok {
		return nil, ErrNoWindow
	}
	return b.classes[w.class], nil
}

func (b *X11Backend) lookup(h Handle) (*x11Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[xproto.Window(h)]
	if !ok {
		return nil, fmt.Errorf("window %d: %w", h, ErrNoWindow)
	}
	return w, nil
}

func (b *X11Backend) forget(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, xproto.Window(h))
	delete(b.pending, h)
}
