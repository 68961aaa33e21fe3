package x11

import (
	"fmt"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// DisplayModes lists the modes the outputs of mon support, in the order the
// first output advertises them (preferred modes first).
func (c *Connection) DisplayModes(mon Monitor) ([]displaymode.Mode, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	if len(mon.Outputs) == 0 {
		return nil, fmt.Errorf("monitor %s has no outputs", mon.Name)
	}
	output, err := randr.GetOutputInfo(c.XUtil.Conn(), mon.Outputs[0], resources.ConfigTimestamp).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get output info for %s: %w", mon.Name, err)
	}
	return modesFromInfo(resources.Modes, output.Modes, c.depth()), nil
}

// CurrentMode returns the mode mon is driven with.
func (c *Connection) CurrentMode(mon Monitor) (displaymode.Mode, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return displaymode.Mode{}, fmt.Errorf("failed to get screen resources: %w", err)
	}
	modes := modesFromInfo(resources.Modes, []randr.Mode{mon.Mode}, c.depth())
	if len(modes) == 0 {
		return displaymode.Mode{}, fmt.Errorf("mode %d of %s not in screen resources", mon.Mode, mon.Name)
	}
	return modes[0], nil
}

// SetMode drives mon's CRTC with mode m, keeping its position, rotation and
// outputs.
func (c *Connection) SetMode(mon Monitor, m displaymode.Mode) error {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}
	reply, err := randr.SetCrtcConfig(
		c.XUtil.Conn(),
		mon.Crtc,
		xproto.TimeCurrentTime,
		resources.ConfigTimestamp,
		int16(mon.X), int16(mon.Y),
		randr.Mode(m.ID),
		mon.Rotation,
		mon.Outputs,
	).Reply()
	if err != nil {
		return fmt.Errorf("failed to set crtc config: %w", err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("crtc config for %s refused with status %d", mon.Name, reply.Status)
	}
	return nil
}

func (c *Connection) depth() int {
	return int(c.XUtil.Screen().RootDepth)
}

// modesFromInfo converts the screen's mode table entries named in allowed.
func modesFromInfo(infos []randr.ModeInfo, allowed []randr.Mode, depth int) []displaymode.Mode {
	byID := make(map[uint32]randr.ModeInfo, len(infos))
	for _, info := range infos {
		byID[info.Id] = info
	}

	modes := make([]displaymode.Mode, 0, len(allowed))
	for _, id := range allowed {
		info, ok := byID[uint32(id)]
		if !ok {
			continue
		}
		modes = append(modes, displaymode.Mode{
			ID:             info.Id,
			Width:          int(info.Width),
			Height:         int(info.Height),
			RefreshMilliHz: displaymode.RefreshFromTimings(info.DotClock, info.Htotal, info.Vtotal),
			Depth:          depth,
		})
	}
	return modes
}
