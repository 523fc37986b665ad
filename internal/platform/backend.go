package platform

import "errors"

// Handle is an opaque native window identifier. The zero Handle means "no window".
type Handle uintptr

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// UseDefault asks the backend to pick a position for a new window.
const UseDefault = -1 << 31

// Style is the semantic window style. Backends translate it into native bits.
type Style struct {
	Resizable      bool
	MinimizeButton bool
	MaximizeButton bool
	// Popup is a borderless window without caption, used for fullscreen.
	Popup bool
}

// ShowCommand selects a visibility transition for ShowWindow.
type ShowCommand int

const (
	ShowNormal ShowCommand = iota
	ShowHide
	ShowMinimized
	ShowMaximized
	ShowRestore
)

func (c ShowCommand) String() string {
	switch c {
	case ShowNormal:
		return "normal"
	case ShowHide:
		return "hide"
	case ShowMinimized:
		return "minimized"
	case ShowMaximized:
		return "maximized"
	case ShowRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// DisplayMode is a requested screen resolution and color depth.
type DisplayMode struct {
	Width        int
	Height       int
	BitsPerPixel int
}

// DispatchFunc receives every message delivered to windows of a class.
type DispatchFunc func(msg Message) Result

// Class is a window template registered once and referenced by name on creation.
type Class struct {
	Name     string
	Dispatch DispatchFunc
}

// CreateParams describes a window to create.
type CreateParams struct {
	Class  string
	Title  string
	Style  Style
	Bounds Rect
	// Token is echoed back in the LParam of the MessageCreate the backend
	// dispatches for the new handle.
	Token Token
}

var (
	// ErrClassExists is returned when a class name is registered twice.
	ErrClassExists = errors.New("window class already registered")
	// ErrUnknownClass is returned when creating a window of an unregistered class.
	ErrUnknownClass = errors.New("window class not registered")
	// ErrNoWindow is returned by operations on a handle the backend does not know.
	ErrNoWindow = errors.New("no such window")
	// ErrUnsupported is returned when no native backend exists for this platform.
	ErrUnsupported = errors.New("windowing backend not supported on this platform")
)

// ClassScoper is implemented by backends whose class registrations belong to
// something wider than the backend value, such as the process on Win32.
// Backends reporting the same scope share their registered classes.
type ClassScoper interface {
	ClassScope() string
}

// Backend abstracts the native windowing subsystem.
//
// Every call happens on the goroutine that owns the windows, except
// PostMessage which may be called from any goroutine.
type Backend interface {
	Name() string

	RegisterClass(class Class) error
	CreateWindow(params CreateParams) (Handle, error)
	IsWindow(h Handle) bool
	DestroyWindow(h Handle) error

	// AdjustWindowRect grows a client rectangle by the decoration budget
	// of style, returning the outer rectangle.
	AdjustWindowRect(client Rect, style Style) Rect
	WindowRect(h Handle) (Rect, error)
	MoveWindow(h Handle, bounds Rect, repaint bool) error

	SetTitle(h Handle, title string) error
	Title(h Handle) (string, error)

	ShowWindow(h Handle, cmd ShowCommand) error
	UpdateWindow(h Handle) error
	FocusedWindow() (Handle, error)
	// WorkArea is the usable part of the primary screen, excluding panels
	// and task bars.
	WorkArea() (Rect, error)

	SetDisplayMode(mode DisplayMode) error
	RestoreDisplayMode() error

	// PeekMessage removes and returns the next pending message for h
	// without blocking.
	PeekMessage(h Handle) (Message, bool)
	TranslateMessage(msg Message)
	// DispatchMessage routes msg to its class dispatch function and runs
	// default processing when the message is left unhandled.
	DispatchMessage(msg Message)
	PostMessage(h Handle, id MessageID) error
}
