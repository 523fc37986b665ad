package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// EventMask is the set of events selected on every created window.
const EventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskExposure

// pump moves every event already received from the server into the
// per-window queues. It never blocks. Caller holds c.mu.
func (c *Connection) pump() {
	for {
		ev, xerr := c.XUtil.Conn().PollForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if ev == nil {
			// Asynchronous request errors carry no window to report to.
			continue
		}
		// Events for windows we did not create, or already destroyed,
		// are dropped.
		win := EventWindow(ev)
		if q, ok := c.queues[win]; ok {
			c.queues[win] = append(q, ev)
		}
	}
}

// NextEvent removes and returns the oldest pending event for win without
// blocking.
func (c *Connection) NextEvent(win xproto.Window) (xgb.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pump()
	q := c.queues[win]
	if len(q) == 0 {
		return nil, false
	}
	c.queues[win] = q[1:]
	return q[0], true
}

// Track starts queueing events for win.
func (c *Connection) Track(win xproto.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.queues[win]; !ok {
		c.queues[win] = nil
	}
}

// Forget drops everything queued for win and stops tracking it.
func (c *Connection) Forget(win xproto.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queues, win)
}

// EventWindow returns the window an event is reported for, or 0 for events
// that are not tied to a single window.
func EventWindow(ev xgb.Event) xproto.Window {
	switch e := ev.(type) {
	case xproto.ClientMessageEvent:
		return e.Window
	case xproto.DestroyNotifyEvent:
		return e.Window
	case xproto.MapNotifyEvent:
		return e.Window
	case xproto.UnmapNotifyEvent:
		return e.Window
	case xproto.ConfigureNotifyEvent:
		return e.Window
	case xproto.FocusInEvent:
		return e.Event
	case xproto.FocusOutEvent:
		return e.Event
	case xproto.KeyPressEvent:
		return e.Event
	case xproto.KeyReleaseEvent:
		return e.Event
	case xproto.ExposeEvent:
		return e.Window
	default:
		return 0
	}
}

// KeyText returns the text a key press produces under the current keyboard
// mapping, or "" for keys without text.
func (c *Connection) KeyText(ev xproto.KeyPressEvent) string {
	return keybind.LookupString(c.XUtil, ev.State, ev.Detail)
}
