package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

const sourceIndication = 1 // normal application

// sendRootMessage sends a 32-bit client message about windowID to the root
// window, where the window manager listens for it.
// We build the message manually because the xgbutil ewmh request helpers
// panic on this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(windowID xproto.Window, atomName string, data ...uint32) error {
	atom, err := c.Atom(atomName)
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atomName, err)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(pad5(data)),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func pad5(data []uint32) []uint32 {
	out := make([]uint32, 5)
	copy(out, data)
	return out
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", sourceIndication)
}

// IconifyWindow asks the window manager to minimize a window (ICCCM 4.1.4).
func (c *Connection) IconifyWindow(windowID xproto.Window) error {
	return c.sendRootMessage(windowID, "WM_CHANGE_STATE", icccm.StateIconic)
}

// SetMaximized adds or removes both maximized states.
func (c *Connection) SetMaximized(windowID xproto.Window, on bool) error {
	horz, err := c.Atom("_NET_WM_STATE_MAXIMIZED_HORZ")
	if err != nil {
		return err
	}
	vert, err := c.Atom("_NET_WM_STATE_MAXIMIZED_VERT")
	if err != nil {
		return err
	}

	action := uint32(ewmh.StateRemove)
	if on {
		action = ewmh.StateAdd
	}
	return c.sendRootMessage(windowID, "_NET_WM_STATE",
		action, uint32(horz), uint32(vert), sourceIndication)
}

// SendDeleteWindow delivers WM_DELETE_WINDOW to a window the same way the
// window manager does when the user clicks the close button.
func (c *Connection) SendDeleteWindow(windowID xproto.Window) error {
	protocols, err := c.Atom("WM_PROTOCOLS")
	if err != nil {
		return err
	}
	del, err := c.Atom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New(pad5([]uint32{uint32(del), uint32(xproto.TimeCurrentTime)})),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, windowID, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// IsDeleteWindow reports whether ev is a WM_DELETE_WINDOW protocol message.
func (c *Connection) IsDeleteWindow(ev xproto.ClientMessageEvent) bool {
	protocols, err := c.Atom("WM_PROTOCOLS")
	if err != nil || ev.Type != protocols || ev.Format != 32 {
		return false
	}
	del, err := c.Atom("WM_DELETE_WINDOW")
	if err != nil {
		return false
	}
	data := ev.Data.Data32
	return len(data) > 0 && xproto.Atom(data[0]) == del
}

// WorkArea returns the usable area of the current desktop, excluding panels
// and docks. Without an EWMH window manager it is the primary monitor.
func (c *Connection) WorkArea() (x, y, width, height int, err error) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err == nil && len(workArea) > 0 {
		desktopIndex := 0
		if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
			if int(currentDesktop) < len(workArea) {
				desktopIndex = int(currentDesktop)
			}
		}
		wa := workArea[desktopIndex]
		return wa.X, wa.Y, int(wa.Width), int(wa.Height), nil
	}

	mon, err := c.PrimaryMonitor()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return mon.X, mon.Y, mon.Width, mon.Height, nil
}
