//go:build windows

package platform

import (
	"errors"
	"testing"

	"github.com/litecube/litecube/internal/win32"
)

func TestWin32Translate(t *testing.T) {
	const h Handle = 0x10a2

	tests := []struct {
		name   string
		msg    uint32
		wParam uintptr
		want   MessageID
	}{
		{"close", win32.WM_CLOSE, 0, MessageClose},
		{"destroy", win32.WM_DESTROY, 0, MessageDestroy},
		{"show", win32.WM_SHOWWINDOW, 1, MessageShow},
		{"hide", win32.WM_SHOWWINDOW, 0, MessageHide},
		{"move", win32.WM_MOVE, 0, MessageMove},
		{"size", win32.WM_SIZE, 0, MessageSize},
		{"set focus", win32.WM_SETFOCUS, 0, MessageFocus},
		{"kill focus", win32.WM_KILLFOCUS, 0, MessageBlur},
		{"key down", win32.WM_KEYDOWN, 0x41, MessageKeyDown},
		{"sys key down", win32.WM_SYSKEYDOWN, 0x73, MessageKeyDown},
		{"key up", win32.WM_KEYUP, 0x41, MessageKeyUp},
		{"sys key up", win32.WM_SYSKEYUP, 0x73, MessageKeyUp},
		{"char", win32.WM_CHAR, 'a', MessageChar},
		{"create", win32.WM_CREATE, 0, MessageOther},
		{"unknown", 0x0400, 0, MessageOther},
	}

	for _, tt := range tests {
		m := translate(h, tt.msg, tt.wParam, 0xbeef)
		if m.ID != tt.want {
			t.Fatalf("translate(%s) ID = %s, want %s", tt.name, m.ID, tt.want)
		}
		if m.Handle != h || m.Native != tt.msg {
			t.Fatalf("translate(%s) = %+v, want handle %#x native %#x", tt.name, m, h, tt.msg)
		}
		if m.WParam != tt.wParam || m.LParam != 0xbeef {
			t.Fatalf("translate(%s) params = (%#x, %#x), want (%#x, 0xbeef)", tt.name, m.WParam, m.LParam, tt.wParam)
		}
	}
}

func TestWin32NativeStyle(t *testing.T) {
	const base = win32.WS_CAPTION | win32.WS_SYSMENU | win32.WS_CLIPSIBLINGS | win32.WS_CLIPCHILDREN

	tests := []struct {
		name      string
		style     Style
		wantStyle uint32
		wantEx    uint32
	}{
		{
			name:      "popup",
			style:     Style{Popup: true, Resizable: true, MaximizeButton: true},
			wantStyle: win32.WS_POPUP | win32.WS_CLIPSIBLINGS | win32.WS_CLIPCHILDREN,
			wantEx:    win32.WS_EX_APPWINDOW,
		},
		{
			name:      "fixed",
			style:     Style{},
			wantStyle: base,
			wantEx:    win32.WS_EX_OVERLAPPEDWINDOW,
		},
		{
			name:      "default",
			style:     Style{Resizable: true, MinimizeButton: true, MaximizeButton: true},
			wantStyle: base | win32.WS_THICKFRAME | win32.WS_MINIMIZEBOX | win32.WS_MAXIMIZEBOX,
			wantEx:    win32.WS_EX_OVERLAPPEDWINDOW,
		},
		{
			name:      "maximize only",
			style:     Style{MaximizeButton: true},
			wantStyle: base | win32.WS_MAXIMIZEBOX,
			wantEx:    win32.WS_EX_OVERLAPPEDWINDOW,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style, ex := nativeStyle(tt.style)
			if style != tt.wantStyle {
				t.Fatalf("style = %#x, want %#x", style, tt.wantStyle)
			}
			if ex != tt.wantEx {
				t.Fatalf("exStyle = %#x, want %#x", ex, tt.wantEx)
			}
		})
	}
}

func TestWin32Backend_ClassesAreProcessWide(t *testing.T) {
	const name = "LiteCubeSharedTestClass"
	win32Classes.mu.Lock()
	win32Classes.m[name] = nil
	win32Classes.mu.Unlock()
	t.Cleanup(func() {
		win32Classes.mu.Lock()
		delete(win32Classes.m, name)
		win32Classes.mu.Unlock()
	})

	a, b := NewWin32Backend(), NewWin32Backend()
	if a.ClassScope() != b.ClassScope() {
		t.Fatalf("ClassScope() = %q and %q, want equal", a.ClassScope(), b.ClassScope())
	}
	if err := b.RegisterClass(Class{Name: name}); !errors.Is(err, ErrClassExists) {
		t.Fatalf("RegisterClass() on second backend error = %v, want ErrClassExists", err)
	}
	if _, err := b.CreateWindow(CreateParams{Class: "LiteCubeMissingClass"}); !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("CreateWindow() error = %v, want ErrUnknownClass", err)
	}
}
