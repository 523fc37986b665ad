//go:build windows

package platform

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/litecube/litecube/internal/win32"
	"golang.org/x/sys/windows"
)

// Win32Backend drives top-level windows through user32. All calls, and the
// dispatch functions they trigger, run on the thread that created the
// windows.
type Win32Backend struct{}

var (
	_ Backend     = (*Win32Backend)(nil)
	_ ClassScoper = (*Win32Backend)(nil)
)

// win32Classes holds the dispatch functions of the classes registered by this
// process. Window classes belong to the process, so every Win32Backend shares
// them.
var win32Classes = struct {
	mu sync.Mutex
	m  map[string]DispatchFunc
}{m: make(map[string]DispatchFunc)}

// NewNative connects to the native windowing system of this platform.
func NewNative() (Backend, error) {
	return NewWin32Backend(), nil
}

func NewWin32Backend() *Win32Backend {
	return &Win32Backend{}
}

func (b *Win32Backend) Name() string { return "win32" }

// ClassScope reports the process scope: a class registered through one
// Win32Backend is visible to all of them.
func (b *Win32Backend) ClassScope() string { return "win32" }

func (b *Win32Backend) RegisterClass(class Class) error {
	if class.Name == "" {
		return fmt.Errorf("RegisterClass: empty class name")
	}
	if registeredClass(class.Name) {
		return fmt.Errorf("RegisterClass %q: %w", class.Name, ErrClassExists)
	}

	name, err := windows.UTF16PtrFromString(class.Name)
	if err != nil {
		return fmt.Errorf("RegisterClass %q: %w", class.Name, err)
	}

	dispatch := class.Dispatch
	proc := windows.NewCallback(func(hwnd, msg, wParam, lParam uintptr) uintptr {
		return wndProc(dispatch, hwnd, uint32(msg), wParam, lParam)
	})

	err = win32.RegisterClassEx(&win32.WNDCLASSEX{
		Style:     win32.CS_HREDRAW | win32.CS_VREDRAW,
		WndProc:   proc,
		Instance:  win32.ModuleHandle(),
		ClassName: name,
	})
	if err != nil {
		if errors.Is(err, syscall.Errno(win32.ERROR_CLASS_ALREADY_EXISTS)) {
			err = ErrClassExists
		}
		return fmt.Errorf("RegisterClass %q: %w", class.Name, err)
	}

	win32Classes.mu.Lock()
	win32Classes.m[class.Name] = dispatch
	win32Classes.mu.Unlock()
	return nil
}

func registeredClass(name string) bool {
	win32Classes.mu.Lock()
	defer win32Classes.mu.Unlock()
	_, ok := win32Classes.m[name]
	return ok
}

// wndProc is the window procedure of every class registered here. Creation
// is reported on WM_NCCREATE, the first message a window receives, with the
// creation token from CREATESTRUCT. WM_NCCREATE always gets default
// processing since the window is not created otherwise.
func wndProc(dispatch DispatchFunc, hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	h := Handle(hwnd)
	hw := windows.HWND(hwnd)

	if msg == win32.WM_NCCREATE {
		cs := (*win32.CREATESTRUCT)(unsafe.Pointer(lParam))
		if dispatch != nil {
			dispatch(Message{Handle: h, ID: MessageCreate, Native: msg, LParam: cs.CreateParams})
		}
		return win32.DefWindowProc(hw, msg, wParam, lParam)
	}

	m := translate(h, msg, wParam, lParam)
	result := Unhandled
	if dispatch != nil {
		result = dispatch(m)
	}
	if result == Handled {
		return 0
	}
	return win32.DefWindowProc(hw, msg, wParam, lParam)
}

func translate(h Handle, msg uint32, wParam, lParam uintptr) Message {
	m := Message{Handle: h, ID: MessageOther, Native: msg, WParam: wParam, LParam: lParam}
	switch msg {
	case win32.WM_CLOSE:
		m.ID = MessageClose
	case win32.WM_DESTROY:
		m.ID = MessageDestroy
	case win32.WM_SHOWWINDOW:
		m.ID = MessageHide
		if wParam != 0 {
			m.ID = MessageShow
		}
	case win32.WM_MOVE:
		m.ID = MessageMove
	case win32.WM_SIZE:
		m.ID = MessageSize
	case win32.WM_SETFOCUS:
		m.ID = MessageFocus
	case win32.WM_KILLFOCUS:
		m.ID = MessageBlur
	case win32.WM_KEYDOWN, win32.WM_SYSKEYDOWN:
		m.ID = MessageKeyDown
	case win32.WM_KEYUP, win32.WM_SYSKEYUP:
		m.ID = MessageKeyUp
	case win32.WM_CHAR:
		m.ID = MessageChar
	}
	return m
}

func nativeStyle(s Style) (style, exStyle uint32) {
	if s.Popup {
		return win32.WS_POPUP | win32.WS_CLIPSIBLINGS | win32.WS_CLIPCHILDREN, win32.WS_EX_APPWINDOW
	}

	style = win32.WS_CAPTION | win32.WS_SYSMENU | win32.WS_CLIPSIBLINGS | win32.WS_CLIPCHILDREN
	if s.Resizable {
		style |= win32.WS_THICKFRAME
	}
	if s.MinimizeButton {
		style |= win32.WS_MINIMIZEBOX
	}
	if s.MaximizeButton {
		style |= win32.WS_MAXIMIZEBOX
	}
	return style, win32.WS_EX_OVERLAPPEDWINDOW
}

func (b *Win32Backend) CreateWindow(params CreateParams) (Handle, error) {
	if !registeredClass(params.Class) {
		return 0, fmt.Errorf("CreateWindow %q: %w", params.Class, ErrUnknownClass)
	}

	style, exStyle := nativeStyle(params.Style)
	r := params.Bounds
	hwnd, err := win32.CreateWindowEx(exStyle, params.Class, params.Title, style,
		r.X, r.Y, r.Width, r.Height, uintptr(params.Token))
	if err != nil {
		return 0, fmt.Errorf("CreateWindow %q: %w", params.Class, err)
	}
	return Handle(hwnd), nil
}

func (b *Win32Backend) IsWindow(h Handle) bool {
	return h != 0 && win32.IsWindow(windows.HWND(h))
}

func (b *Win32Backend) DestroyWindow(h Handle) error {
	if !b.IsWindow(h) {
		return fmt.Errorf("DestroyWindow %d: %w", h, ErrNoWindow)
	}
	return win32.DestroyWindow(windows.HWND(h))
}

func (b *Win32Backend) AdjustWindowRect(client Rect, s Style) Rect {
	style, exStyle := nativeStyle(s)
	r := win32.RECT{
		Left:   int32(client.X),
		Top:    int32(client.Y),
		Right:  int32(client.X + client.Width),
		Bottom: int32(client.Y + client.Height),
	}
	if err := win32.AdjustWindowRectEx(&r, style, false, exStyle); err != nil {
		return client
	}
	return fromRECT(r)
}

func fromRECT(r win32.RECT) Rect {
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}
}

func (b *Win32Backend) WindowRect(h Handle) (Rect, error) {
	r, err := win32.GetWindowRect(windows.HWND(h))
	if err != nil {
		return Rect{}, err
	}
	return fromRECT(r), nil
}

func (b *Win32Backend) MoveWindow(h Handle, bounds Rect, repaint bool) error {
	return win32.MoveWindow(windows.HWND(h), bounds.X, bounds.Y, bounds.Width, bounds.Height, repaint)
}

func (b *Win32Backend) SetTitle(h Handle, title string) error {
	return win32.SetWindowText(windows.HWND(h), title)
}

func (b *Win32Backend) Title(h Handle) (string, error) {
	return win32.GetWindowText(windows.HWND(h))
}

var showCommands = map[ShowCommand]int{
	ShowNormal:    win32.SW_SHOW,
	ShowHide:      win32.SW_HIDE,
	ShowMinimized: win32.SW_MINIMIZE,
	ShowMaximized: win32.SW_MAXIMIZE,
	ShowRestore:   win32.SW_RESTORE,
}

func (b *Win32Backend) ShowWindow(h Handle, cmd ShowCommand) error {
	sw, ok := showCommands[cmd]
	if !ok {
		return fmt.Errorf("ShowWindow: unknown command %d", cmd)
	}
	if !b.IsWindow(h) {
		return fmt.Errorf("ShowWindow %d: %w", h, ErrNoWindow)
	}
	win32.ShowWindow(windows.HWND(h), sw)
	return nil
}

func (b *Win32Backend) UpdateWindow(h Handle) error {
	return win32.UpdateWindow(windows.HWND(h))
}

func (b *Win32Backend) FocusedWindow() (Handle, error) {
	return Handle(win32.GetFocus()), nil
}

func (b *Win32Backend) WorkArea() (Rect, error) {
	r, err := win32.WorkArea()
	if err != nil {
		return Rect{}, err
	}
	return fromRECT(r), nil
}

func (b *Win32Backend) SetDisplayMode(mode DisplayMode) error {
	dm := win32.DEVMODE{
		Fields:     win32.DM_BITSPERPEL | win32.DM_PELSWIDTH | win32.DM_PELSHEIGHT,
		BitsPerPel: uint32(mode.BitsPerPixel),
		PelsWidth:  uint32(mode.Width),
		PelsHeight: uint32(mode.Height),
	}
	return win32.ChangeDisplaySettings(&dm, win32.CDS_FULLSCREEN)
}

func (b *Win32Backend) RestoreDisplayMode() error {
	return win32.ChangeDisplaySettings(nil, 0)
}

func (b *Win32Backend) PeekMessage(h Handle) (Message, bool) {
	var m win32.MSG
	if !win32.PeekMessage(&m, windows.HWND(h)) {
		return Message{}, false
	}
	return translate(Handle(m.Hwnd), m.Message, m.WParam, m.LParam), true
}

func toMSG(msg Message) *win32.MSG {
	return &win32.MSG{
		Hwnd:    windows.HWND(msg.Handle),
		Message: msg.Native,
		WParam:  msg.WParam,
		LParam:  msg.LParam,
	}
}

func (b *Win32Backend) TranslateMessage(msg Message) {
	win32.TranslateMessage(toMSG(msg))
}

func (b *Win32Backend) DispatchMessage(msg Message) {
	win32.DispatchMessage(toMSG(msg))
}

func (b *Win32Backend) PostMessage(h Handle, id MessageID) error {
	if id != MessageClose {
		return fmt.Errorf("PostMessage %s: %w", id, ErrUnsupported)
	}
	return win32.PostMessage(windows.HWND(h), win32.WM_CLOSE, 0, 0)
}
