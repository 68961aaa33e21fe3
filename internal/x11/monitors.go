package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor is an active CRTC and the outputs it drives.
type Monitor struct {
	Crtc     randr.Crtc
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	Mode     randr.Mode
	Rotation uint16
	Outputs  []randr.Output
}

// Contains reports whether the root coordinate x,y lies on the monitor.
func (m Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

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
			Crtc:     crtc,
			Name:     outputName,
			X:        int(crtcInfo.X),
			Y:        int(crtcInfo.Y),
			Width:    int(crtcInfo.Width),
			Height:   int(crtcInfo.Height),
			Mode:     crtcInfo.Mode,
			Rotation: crtcInfo.Rotation,
			Outputs:  crtcInfo.Outputs,
		})
	}

	return monitors, nil
}

// monitorForWindow returns the monitor containing the center of window,
// falling back to the monitor under the pointer and then the first monitor.
func (c *Connection) monitorForWindow(window xproto.Window) (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	if window != 0 {
		if x, y, ok := c.windowCenter(window); ok {
			if mon, ok := pickMonitor(monitors, x, y); ok {
				return mon, nil
			}
		}
	}
	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if mon, ok := pickMonitor(monitors, int(pointer.RootX), int(pointer.RootY)); ok {
			return mon, nil
		}
	}
	return monitors[0], nil
}

func pickMonitor(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, mon := range monitors {
		if mon.Contains(x, y) {
			return mon, true
		}
	}
	return Monitor{}, false
}

func (c *Connection) windowCenter(window xproto.Window) (int, int, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(window)).Reply()
	if err != nil {
		return 0, 0, false
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		window,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, false
	}

	return int(translate.DstX) + int(geom.Width)/2, int(translate.DstY) + int(geom.Height)/2, true
}
