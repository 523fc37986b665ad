//go:build windows

// Package win32 is a thin binding to the user32 window and message APIs.
package win32

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	CS_HREDRAW = 0x0002
	CS_VREDRAW = 0x0001

	WS_POPUP        = 0x80000000
	WS_CAPTION      = 0x00C00000
	WS_SYSMENU      = 0x00080000
	WS_THICKFRAME   = 0x00040000
	WS_MINIMIZEBOX  = 0x00020000
	WS_MAXIMIZEBOX  = 0x00010000
	WS_CLIPSIBLINGS = 0x04000000
	WS_CLIPCHILDREN = 0x02000000

	WS_EX_APPWINDOW        = 0x00040000
	WS_EX_WINDOWEDGE       = 0x00000100
	WS_EX_CLIENTEDGE       = 0x00000200
	WS_EX_OVERLAPPEDWINDOW = WS_EX_WINDOWEDGE | WS_EX_CLIENTEDGE

	CW_USEDEFAULT = -0x80000000

	SW_HIDE     = 0
	SW_NORMAL   = 1
	SW_MAXIMIZE = 3
	SW_SHOW     = 5
	SW_MINIMIZE = 6
	SW_RESTORE  = 9

	PM_REMOVE = 0x0001

	WM_CREATE     = 0x0001
	WM_DESTROY    = 0x0002
	WM_MOVE       = 0x0003
	WM_SIZE       = 0x0005
	WM_SETFOCUS   = 0x0007
	WM_KILLFOCUS  = 0x0008
	WM_CLOSE      = 0x0010
	WM_SHOWWINDOW = 0x0018
	WM_NCCREATE   = 0x0081
	WM_KEYDOWN    = 0x0100
	WM_KEYUP      = 0x0101
	WM_CHAR       = 0x0102
	WM_SYSKEYDOWN = 0x0104
	WM_SYSKEYUP   = 0x0105

	DM_BITSPERPEL = 0x00040000
	DM_PELSWIDTH  = 0x00080000
	DM_PELSHEIGHT = 0x00100000

	CDS_FULLSCREEN         = 0x00000004
	DISP_CHANGE_SUCCESSFUL = 0

	SPI_GETWORKAREA = 0x0030

	ERROR_CLASS_ALREADY_EXISTS = 1410
)

type WNDCLASSEX struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type POINT struct {
	X, Y int32
}

type RECT struct {
	Left, Top, Right, Bottom int32
}

type MSG struct {
	Hwnd     windows.HWND
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       POINT
	LPrivate uint32
}

// CREATESTRUCT is what WM_NCCREATE and WM_CREATE point to in lParam.
type CREATESTRUCT struct {
	CreateParams uintptr
	Instance     windows.Handle
	Menu         windows.Handle
	Parent       windows.HWND
	Cy, Cx       int32
	Y, X         int32
	Style        int32
	Name         *uint16
	ClassName    *uint16
	ExStyle      uint32
}

// DEVMODE mirrors DEVMODEW with the display variant of its unions
// (must be 220 bytes).
type DEVMODE struct {
	DeviceName         [32]uint16
	SpecVersion        uint16
	DriverVersion      uint16
	Size               uint16
	DriverExtra        uint16
	Fields             uint32
	Position           POINT
	DisplayOrientation uint32
	DisplayFixedOutput uint32
	Color              int16
	Duplex             int16
	YResolution        int16
	TTOption           int16
	Collate            int16
	FormName           [32]uint16
	LogPixels          uint16
	BitsPerPel         uint32
	PelsWidth          uint32
	PelsHeight         uint32
	DisplayFlags       uint32
	DisplayFrequency   uint32
	ICMMethod          uint32
	ICMIntent          uint32
	MediaType          uint32
	DitherType         uint32
	Reserved1          uint32
	Reserved2          uint32
	PanningWidth       uint32
	PanningHeight      uint32
}

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassEx       = user32.NewProc("RegisterClassExW")
	procCreateWindowEx        = user32.NewProc("CreateWindowExW")
	procDefWindowProc         = user32.NewProc("DefWindowProcW")
	procDestroyWindow         = user32.NewProc("DestroyWindow")
	procIsWindow              = user32.NewProc("IsWindow")
	procAdjustWindowRectEx    = user32.NewProc("AdjustWindowRectEx")
	procGetWindowRect         = user32.NewProc("GetWindowRect")
	procMoveWindow            = user32.NewProc("MoveWindow")
	procSetWindowText         = user32.NewProc("SetWindowTextW")
	procGetWindowText         = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength   = user32.NewProc("GetWindowTextLengthW")
	procShowWindow            = user32.NewProc("ShowWindow")
	procUpdateWindow          = user32.NewProc("UpdateWindow")
	procGetFocus              = user32.NewProc("GetFocus")
	procPeekMessage           = user32.NewProc("PeekMessageW")
	procTranslateMessage      = user32.NewProc("TranslateMessage")
	procDispatchMessage       = user32.NewProc("DispatchMessageW")
	procPostMessage           = user32.NewProc("PostMessageW")
	procChangeDisplaySettings = user32.NewProc("ChangeDisplaySettingsW")
	procSystemParametersInfo  = user32.NewProc("SystemParametersInfoW")

	procGetModuleHandle = kernel32.NewProc("GetModuleHandleW")
)

func winErr(op string, err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return fmt.Errorf("%s failed: %w", op, errno)
	}
	return fmt.Errorf("%s failed", op)
}

// ModuleHandle returns the instance handle of the running executable.
func ModuleHandle() windows.Handle {
	h, _, _ := procGetModuleHandle.Call(0)
	return windows.Handle(h)
}

// RegisterClassEx registers wc. The returned error wraps
// ERROR_CLASS_ALREADY_EXISTS as a syscall.Errno when the name is taken.
func RegisterClassEx(wc *WNDCLASSEX) error {
	wc.Size = uint32(unsafe.Sizeof(*wc))
	ret, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(wc)))
	if ret == 0 {
		return winErr("RegisterClassExW", err)
	}
	return nil
}

func CreateWindowEx(exStyle uint32, className, title string, style uint32, x, y, width, height int, param uintptr) (windows.HWND, error) {
	classPtr, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return 0, err
	}
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}

	ret, _, callErr := procCreateWindowEx.Call(
		uintptr(exStyle),
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(style),
		coord(x), coord(y),
		coord(width), coord(height),
		0, 0,
		uintptr(ModuleHandle()),
		param,
	)
	if ret == 0 {
		return 0, winErr("CreateWindowExW", callErr)
	}
	return windows.HWND(ret), nil
}

// coord passes a signed coordinate through a uintptr argument.
func coord(v int) uintptr {
	return uintptr(int32(v))
}

func DefWindowProc(hwnd windows.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return ret
}

func DestroyWindow(hwnd windows.HWND) error {
	ret, _, err := procDestroyWindow.Call(uintptr(hwnd))
	if ret == 0 {
		return winErr("DestroyWindow", err)
	}
	return nil
}

func IsWindow(hwnd windows.HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

func AdjustWindowRectEx(r *RECT, style uint32, menu bool, exStyle uint32) error {
	ret, _, err := procAdjustWindowRectEx.Call(
		uintptr(unsafe.Pointer(r)),
		uintptr(style),
		boolArg(menu),
		uintptr(exStyle),
	)
	if ret == 0 {
		return winErr("AdjustWindowRectEx", err)
	}
	return nil
}

func GetWindowRect(hwnd windows.HWND) (RECT, error) {
	var r RECT
	ret, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return RECT{}, winErr("GetWindowRect", err)
	}
	return r, nil
}

func MoveWindow(hwnd windows.HWND, x, y, width, height int, repaint bool) error {
	ret, _, err := procMoveWindow.Call(uintptr(hwnd),
		coord(x), coord(y), coord(width), coord(height), boolArg(repaint))
	if ret == 0 {
		return winErr("MoveWindow", err)
	}
	return nil
}

func SetWindowText(hwnd windows.HWND, text string) error {
	p, err := windows.UTF16PtrFromString(text)
	if err != nil {
		return err
	}
	ret, _, callErr := procSetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
	if ret == 0 {
		return winErr("SetWindowTextW", callErr)
	}
	return nil
}

// GetWindowText reads the full title, sizing the buffer from
// GetWindowTextLengthW.
func GetWindowText(hwnd windows.HWND) (string, error) {
	n, _, err := procGetWindowTextLength.Call(uintptr(hwnd))
	if n == 0 {
		if errno, ok := err.(syscall.Errno); ok && errno != 0 {
			return "", winErr("GetWindowTextLengthW", err)
		}
		return "", nil
	}

	buf := make([]uint16, n+1)
	ret, _, err := procGetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if ret == 0 {
		return "", winErr("GetWindowTextW", err)
	}
	return windows.UTF16ToString(buf[:ret]), nil
}

// ShowWindow returns whether the window was previously visible.
func ShowWindow(hwnd windows.HWND, cmd int) bool {
	ret, _, _ := procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
	return ret != 0
}

func UpdateWindow(hwnd windows.HWND) error {
	ret, _, err := procUpdateWindow.Call(uintptr(hwnd))
	if ret == 0 {
		return winErr("UpdateWindow", err)
	}
	return nil
}

func GetFocus() windows.HWND {
	ret, _, _ := procGetFocus.Call()
	return windows.HWND(ret)
}

// PeekMessage removes the next message for hwnd, if any.
func PeekMessage(m *MSG, hwnd windows.HWND) bool {
	ret, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(m)), uintptr(hwnd), 0, 0, PM_REMOVE)
	return ret != 0
}

func TranslateMessage(m *MSG) {
	procTranslateMessage.Call(uintptr(unsafe.Pointer(m)))
}

func DispatchMessage(m *MSG) {
	procDispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

func PostMessage(hwnd windows.HWND, msg uint32, wParam, lParam uintptr) error {
	ret, _, err := procPostMessage.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	if ret == 0 {
		return winErr("PostMessageW", err)
	}
	return nil
}

// ChangeDisplaySettings applies dm with flags. A nil dm restores the
// registry mode.
func ChangeDisplaySettings(dm *DEVMODE, flags uint32) error {
	var p uintptr
	if dm != nil {
		dm.Size = uint16(unsafe.Sizeof(*dm))
		p = uintptr(unsafe.Pointer(dm))
	}
	ret, _, _ := procChangeDisplaySettings.Call(p, uintptr(flags))
	if int32(ret) != DISP_CHANGE_SUCCESSFUL {
		return fmt.Errorf("ChangeDisplaySettingsW failed: code %d", int32(ret))
	}
	return nil
}

func WorkArea() (RECT, error) {
	var r RECT
	ret, _, err := procSystemParametersInfo.Call(SPI_GETWORKAREA, 0, uintptr(unsafe.Pointer(&r)), 0)
	if ret == 0 {
		return RECT{}, winErr("SystemParametersInfoW", err)
	}
	return r, nil
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
