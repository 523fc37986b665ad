package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowOptions describes a top-level window to create
type WindowOptions struct {
	X, Y          int
	Width, Height int
	Title         string
	Class         string

	Resizable      bool
	MinimizeButton bool
	MaximizeButton bool
	// Undecorated windows get no frame from the window manager.
	Undecorated bool
	Fullscreen  bool
}

// CreateWindow creates an unmapped top-level window and sets the ICCCM/EWMH
// properties the window manager reads before the first map.
func (c *Connection) CreateWindow(opts WindowOptions) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(c.Root, opts.X, opts.Y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		c.XUtil.Screen().BlackPixel, EventMask)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	id := win.Id
	c.Track(id)

	if err := icccm.WmClassSet(c.XUtil, id, &icccm.WmClass{
		Instance: "litecube",
		Class:    opts.Class,
	}); err != nil {
		c.Forget(id)
		win.Destroy()
		return 0, fmt.Errorf("failed to set WM_CLASS: %w", err)
	}

	// Ask for WM_DELETE_WINDOW so the close button reaches us instead of
	// killing the client.
	if err := icccm.WmProtocolsSet(c.XUtil, id, []string{"WM_DELETE_WINDOW"}); err != nil {
		c.Forget(id)
		win.Destroy()
		return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	_ = c.SetTitle(id, opts.Title)
	_ = motif.WmHintsSet(c.XUtil, id, decorationHints(opts))

	if !opts.Resizable {
		_ = icccm.WmNormalHintsSet(c.XUtil, id, &icccm.NormalHints{
			Flags: icccm.SizeHintPPosition | icccm.SizeHintPSize |
				icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
			X:         opts.X,
			Y:         opts.Y,
			Width:     uint(opts.Width),
			Height:    uint(opts.Height),
			MinWidth:  uint(opts.Width),
			MinHeight: uint(opts.Height),
			MaxWidth:  uint(opts.Width),
			MaxHeight: uint(opts.Height),
		})
	}

	if opts.Fullscreen {
		_ = ewmh.WmStateSet(c.XUtil, id, []string{"_NET_WM_STATE_FULLSCREEN"})
	}

	return id, nil
}

func decorationHints(opts WindowOptions) *motif.Hints {
	hints := &motif.Hints{
		Flags: motif.HintFunctions | motif.HintDecorations,
	}
	if opts.Undecorated {
		hints.Decoration = motif.DecorationNone
		hints.Function = motif.FunctionMove | motif.FunctionClose
		return hints
	}

	hints.Decoration = motif.DecorationBorder | motif.DecorationTitle | motif.DecorationMenu
	hints.Function = motif.FunctionMove | motif.FunctionClose
	if opts.Resizable {
		hints.Decoration |= motif.DecorationResizeH
		hints.Function |= motif.FunctionResize
	}
	if opts.MinimizeButton {
		hints.Decoration |= motif.DecorationMinimize
		hints.Function |= motif.FunctionMinimize
	}
	if opts.MaximizeButton {
		hints.Decoration |= motif.DecorationMaximize
		hints.Function |= motif.FunctionMaximize
	}
	return hints
}

// DestroyWindow destroys a window created by CreateWindow and drops its
// queued events.
func (c *Connection) DestroyWindow(windowID xproto.Window) error {
	c.Forget(windowID)
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// WindowExists reports whether the server still knows windowID.
func (c *Connection) WindowExists(windowID xproto.Window) bool {
	if windowID == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// WindowGeometry returns the outer rectangle of a window in root coordinates,
// including the frame drawn by the window manager.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}
	pos, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	left, right, top, bottom, _ := c.GetFrameExtents(windowID)
	return int(pos.DstX) - left,
		int(pos.DstY) - top,
		int(geom.Width) + left + right,
		int(geom.Height) + top + bottom,
		nil
}

// MoveResizeWindow moves the frame of a window to x, y and resizes it so the
// outer size is width by height. The EWMH request is only used when a
// window manager advertises it; otherwise nobody would act on it, so the
// window is configured directly.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	left, right, top, bottom, _ := c.GetFrameExtents(windowID)
	clientW := max(1, width-left-right)
	clientH := max(1, height-top-bottom)

	if c.wmSupports("_NET_MOVERESIZE_WINDOW") {
		if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, clientW, clientH); err == nil {
			return nil
		}
	}

	mask, values := configureGeometry(x, y, clientW, clientH)
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
		return fmt.Errorf("failed to configure window: %w", err)
	}
	return nil
}

// wmSupports reports whether a running EWMH window manager lists atom in
// _NET_SUPPORTED. A stale _NET_SUPPORTED left by a dead window manager does
// not count.
func (c *Connection) wmSupports(atom string) bool {
	if _, err := ewmh.GetEwmhWM(c.XUtil); err != nil {
		return false
	}
	supported, err := ewmh.SupportedGet(c.XUtil)
	if err != nil {
		return false
	}
	return slices.Contains(supported, atom)
}

// configureGeometry builds the ConfigureWindow mask and value list for a
// position and size. Coordinates are sent as INT16 in 32-bit slots.
func configureGeometry(x, y, width, height int) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return mask, []uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

// SetTitle sets both the EWMH (UTF-8) and ICCCM window names.
func (c *Connection) SetTitle(windowID xproto.Window, title string) error {
	if err := ewmh.WmNameSet(c.XUtil, windowID, title); err != nil {
		return err
	}
	return icccm.WmNameSet(c.XUtil, windowID, title)
}

// Title returns the window name, preferring _NET_WM_NAME.
func (c *Connection) Title(windowID xproto.Window) (string, error) {
	name, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil && name != "" {
		return name, nil
	}
	return icccm.WmNameGet(c.XUtil, windowID)
}

// MapWindow shows a window.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides a window without iconifying it.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Flush pushes buffered requests to the server.
func (c *Connection) Flush() {
	c.XUtil.Conn().Sync()
}

// IsIconic reports whether the window manager has iconified a window.
func (c *Connection) IsIconic(windowID xproto.Window) bool {
	state, err := icccm.WmStateGet(c.XUtil, windowID)
	return err == nil && state.State == icccm.StateIconic
}

// IsMaximized reports whether a window carries both maximized states.
func (c *Connection) IsMaximized(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	var horz, vert bool
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		}
	}
	return horz && vert
}

// GetActiveWindow returns the focused window, falling back to the core input
// focus when no EWMH window manager is running.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		return win, nil
	}
	focus, err := xproto.GetInputFocus(c.XUtil.Conn()).Reply()
	if err != nil {
		return 0, err
	}
	return focus.Focus, nil
}
