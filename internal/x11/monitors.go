package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrNoMode is returned when no output mode matches a requested resolution.
var ErrNoMode = errors.New("no matching display mode")

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// crtcState is what RestoreDisplayMode puts back.
type crtcState struct {
	crtc     randr.Crtc
	x, y     int16
	mode     randr.Mode
	rotation uint16
	outputs  []randr.Output
}

func (c *Connection) screenResources() (*randr.GetScreenResourcesReply, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	return resources, nil
}

func (c *Connection) primaryCrtc(resources *randr.GetScreenResourcesReply) randr.Crtc {
	primary, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply()
	if err != nil || primary.Output == 0 {
		return 0
	}
	info, err := randr.GetOutputInfo(c.XUtil.Conn(), primary.Output, resources.ConfigTimestamp).Reply()
	if err != nil {
		return 0
	}
	return info.Crtc
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := c.screenResources()
	if err != nil {
		return nil, err
	}
	primary := c.primaryCrtc(resources)

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    outputName,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
			Primary: crtc == primary,
		})
	}

	return monitors, nil
}

// PrimaryMonitor returns the RandR primary monitor, or the first active one
// when no primary output is configured.
func (c *Connection) PrimaryMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	for i := range monitors {
		if monitors[i].Primary {
			return &monitors[i], nil
		}
	}
	return &monitors[0], nil
}

// SetDisplayMode switches the primary CRTC to a mode of exactly width by
// height. The first successful switch records the previous configuration
// for RestoreDisplayMode. bitsPerPixel is checked against the root depth
// since RandR cannot change it.
func (c *Connection) SetDisplayMode(width, height, bitsPerPixel int) error {
	// 32bpp modes carry 24 bits of color.
	if want := min(bitsPerPixel, 24); c.RootDepth() < want {
		return fmt.Errorf("root depth %d below %d bpp", c.RootDepth(), bitsPerPixel)
	}

	resources, err := c.screenResources()
	if err != nil {
		return err
	}

	crtc := c.primaryCrtc(resources)
	if crtc == 0 {
		if len(resources.Crtcs) == 0 {
			return fmt.Errorf("no crtcs")
		}
		crtc = resources.Crtcs[0]
	}
	info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
	if err != nil {
		return fmt.Errorf("failed to get crtc info: %w", err)
	}
	if len(info.Outputs) == 0 {
		return fmt.Errorf("crtc %d has no outputs", crtc)
	}

	mode, err := c.findMode(resources, info.Outputs[0], width, height)
	if err != nil {
		return err
	}

	if c.saved == nil {
		c.saved = &crtcState{
			crtc:     crtc,
			x:        info.X,
			y:        info.Y,
			mode:     info.Mode,
			rotation: info.Rotation,
			outputs:  info.Outputs,
		}
	}

	return c.setCrtc(resources, crtc, info.X, info.Y, mode, info.Rotation, info.Outputs)
}

// RestoreDisplayMode puts back the configuration recorded by the first
// SetDisplayMode. It is a no-op when nothing was changed.
func (c *Connection) RestoreDisplayMode() error {
	if c.saved == nil {
		return nil
	}
	resources, err := c.screenResources()
	if err != nil {
		return err
	}
	s := c.saved
	if err := c.setCrtc(resources, s.crtc, s.x, s.y, s.mode, s.rotation, s.outputs); err != nil {
		return err
	}
	c.saved = nil
	return nil
}

func (c *Connection) findMode(resources *randr.GetScreenResourcesReply, output randr.Output, width, height int) (randr.Mode, error) {
	outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), output, resources.ConfigTimestamp).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to get output info: %w", err)
	}

	supported := make(map[randr.Mode]bool, len(outputInfo.Modes))
	for _, m := range outputInfo.Modes {
		supported[m] = true
	}
	for _, m := range resources.Modes {
		if int(m.Width) == width && int(m.Height) == height && supported[randr.Mode(m.Id)] {
			return randr.Mode(m.Id), nil
		}
	}
	return 0, fmt.Errorf("%w: %dx%d", ErrNoMode, width, height)
}

func (c *Connection) setCrtc(resources *randr.GetScreenResourcesReply, crtc randr.Crtc, x, y int16, mode randr.Mode, rotation uint16, outputs []randr.Output) error {
	reply, err := randr.SetCrtcConfig(c.XUtil.Conn(), crtc,
		xproto.TimeCurrentTime, resources.ConfigTimestamp,
		x, y, mode, rotation, outputs).Reply()
	if err != nil {
		return fmt.Errorf("failed to set crtc config: %w", err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("set crtc config: status %d", reply.Status)
	}
	return nil
}
