//go:build linux

package platform

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// newTestX11Backend returns a backend without a server connection. Only
// paths that never reach the connection may be used with it.
func newTestX11Backend(wins ...xproto.Window) *X11Backend {
	b := &X11Backend{
		classes: make(map[string]DispatchFunc),
		windows: make(map[xproto.Window]*x11Window),
		pending: make(map[Handle][]Message),
	}
	for _, w := range wins {
		b.windows[w] = &x11Window{class: "test", width: 800, height: 600}
	}
	return b
}

func TestX11TranslateEvent(t *testing.T) {
	const win xproto.Window = 0x400001
	h := Handle(win)

	tests := []struct {
		name       string
		ev         xgb.Event
		wantID     MessageID
		wantNative uint32
		wantWParam uintptr
		wantLParam uintptr
	}{
		{"destroy", xproto.DestroyNotifyEvent{Window: win}, MessageDestroy, xproto.DestroyNotify, 0, 0},
		{"map", xproto.MapNotifyEvent{Window: win}, MessageShow, xproto.MapNotify, 0, 0},
		{"unmap", xproto.UnmapNotifyEvent{Window: win}, MessageHide, xproto.UnmapNotify, 0, 0},
		{"focus in", xproto.FocusInEvent{Event: win}, MessageFocus, xproto.FocusIn, 0, 0},
		{"focus out", xproto.FocusOutEvent{Event: win}, MessageBlur, xproto.FocusOut, 0, 0},
		{"key press", xproto.KeyPressEvent{Event: win, Detail: 38, State: xproto.ModMaskShift}, MessageKeyDown, xproto.KeyPress, 38, xproto.ModMaskShift},
		{"key release", xproto.KeyReleaseEvent{Event: win, Detail: 38}, MessageKeyUp, xproto.KeyRelease, 38, 0},
		{"expose", xproto.ExposeEvent{Window: win}, MessageOther, xproto.Expose, 0, 0},
	}

	b := newTestX11Backend(win)
	for _, tt := range tests {
		msg := b.translateEvent(h, tt.ev)
		if msg.Handle != h {
			t.Fatalf("%s: Handle = %#x, want %#x", tt.name, msg.Handle, h)
		}
		if msg.ID != tt.wantID {
			t.Fatalf("%s: ID = %s, want %s", tt.name, msg.ID, tt.wantID)
		}
		if msg.Native != tt.wantNative {
			t.Fatalf("%s: Native = %d, want %d", tt.name, msg.Native, tt.wantNative)
		}
		if msg.WParam != tt.wantWParam || msg.LParam != tt.wantLParam {
			t.Fatalf("%s: params = (%d, %d), want (%d, %d)", tt.name, msg.WParam, msg.LParam, tt.wantWParam, tt.wantLParam)
		}
	}
}

func TestX11TranslateEvent_ConfigureMoveVersusSize(t *testing.T) {
	const win xproto.Window = 0x400002
	h := Handle(win)
	b := newTestX11Backend(win)

	moved := b.translateEvent(h, xproto.ConfigureNotifyEvent{Window: win, X: 10, Y: 20, Width: 800, Height: 600})
	if moved.ID != MessageMove {
		t.Fatalf("same size: ID = %s, want %s", moved.ID, MessageMove)
	}

	resized := b.translateEvent(h, xproto.ConfigureNotifyEvent{Window: win, Width: 640, Height: 480})
	if resized.ID != MessageSize {
		t.Fatalf("new size: ID = %s, want %s", resized.ID, MessageSize)
	}
	if w := b.windows[win]; w.width != 640 || w.height != 480 {
		t.Fatalf("tracked size = %dx%d, want 640x480", w.width, w.height)
	}

	// The size is remembered, so repeating it is a plain move.
	again := b.translateEvent(h, xproto.ConfigureNotifyEvent{Window: win, X: 5, Width: 640, Height: 480})
	if again.ID != MessageMove {
		t.Fatalf("repeated size: ID = %s, want %s", again.ID, MessageMove)
	}
}

func TestX11DispatchMessage_RoutesToClass(t *testing.T) {
	const win xproto.Window = 0x400003
	h := Handle(win)
	b := newTestX11Backend(win)

	var got []MessageID
	b.classes["test"] = func(msg Message) Result {
		got = append(got, msg.ID)
		return Handled
	}

	b.DispatchMessage(Message{Handle: h, ID: MessageFocus})
	b.DispatchMessage(Message{Handle: Handle(0x999), ID: MessageFocus})
	if len(got) != 1 || got[0] != MessageFocus {
		t.Fatalf("dispatched = %v, want [focus]", got)
	}
}

func TestX11PendingMessages(t *testing.T) {
	const win xproto.Window = 0x400004
	h := Handle(win)
	b := newTestX11Backend(win)

	if err := b.PostMessage(h, MessageOther); err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	msg, ok := b.PeekMessage(h)
	if !ok || msg.ID != MessageOther || msg.Handle != h {
		t.Fatalf("PeekMessage() = %+v, %v", msg, ok)
	}

	if err := b.PostMessage(Handle(0x999), MessageOther); !errors.Is(err, ErrNoWindow) {
		t.Fatalf("PostMessage(unknown) error = %v, want ErrNoWindow", err)
	}
}

func TestX11RegisterClass(t *testing.T) {
	b := newTestX11Backend()
	if err := b.RegisterClass(Class{Name: "test"}); err != nil {
		t.Fatalf("RegisterClass() error = %v", err)
	}
	if err := b.RegisterClass(Class{Name: "test"}); !errors.Is(err, ErrClassExists) {
		t.Fatalf("second RegisterClass() error = %v, want ErrClassExists", err)
	}
	if err := b.RegisterClass(Class{}); err == nil {
		t.Fatal("expected error for empty class name")
	}
}
