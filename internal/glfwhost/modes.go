package glfwhost

import (
	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func modeFromVidMode(id int, vm *glfw.VidMode) displaymode.Mode {
	return displaymode.Mode{
		ID:             uint32(id),
		Width:          vm.Width,
		Height:         vm.Height,
		RefreshMilliHz: vm.RefreshRate * 1000,
		Depth:          vm.RedBits + vm.GreenBits + vm.BlueBits,
	}
}

// refreshHz converts back to the whole-hertz rate GLFW takes.
func refreshHz(m displaymode.Mode) int {
	if m.RefreshMilliHz <= 0 {
		return glfw.DontCare
	}
	return (m.RefreshMilliHz + 500) / 1000
}

func (h *Host) DisplayModes() ([]displaymode.Mode, error) {
	mon := h.monitor()
	vms := mon.GetVideoModes()
	modes := make([]displaymode.Mode, 0, len(vms))
	// GLFW sorts modes ascending; larger modes first reads better in lists.
	for i := len(vms) - 1; i >= 0; i-- {
		modes = append(modes, modeFromVidMode(i+1, vms[i]))
	}
	return modes, nil
}

// CurrentMode returns the fullscreen mode while the window owns a monitor
// and the monitor's desktop mode otherwise.
func (h *Host) CurrentMode() (displaymode.Mode, error) {
	if h.win != nil && h.win.GetMonitor() != nil {
		return h.active, nil
	}
	return modeFromVidMode(0, h.monitor().GetVideoMode()), nil
}

// SetMode puts the window on its monitor in mode m. While the window is
// fullscreen, setting the desktop mode gives the monitor back and restores
// the windowed rect instead; this is how a fullscreen session ends.
func (h *Host) SetMode(m displaymode.Mode) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	mon := h.monitor()

	if win.GetMonitor() == nil {
		x, y := win.GetPos()
		w, hh := win.GetSize()
		h.windowed = windowedRect{x: x, y: y, width: w, height: hh}
		h.desktop = modeFromVidMode(0, mon.GetVideoMode())
		win.SetMonitor(mon, 0, 0, m.Width, m.Height, refreshHz(m))
		h.active = m
		h.logger.Info("glfw: entered fullscreen", "monitor", mon.GetName(), "mode", m.String())
		return nil
	}

	if m.Same(h.desktop) {
		r := h.windowed
		win.SetMonitor(nil, r.x, r.y, r.width, r.height, glfw.DontCare)
		h.active = displaymode.Mode{}
		h.logger.Info("glfw: left fullscreen", "monitor", mon.GetName())
		return nil
	}

	win.SetMonitor(mon, 0, 0, m.Width, m.Height, refreshHz(m))
	h.active = m
	h.logger.Info("glfw: display mode set", "monitor", mon.GetName(), "mode", m.String())
	return nil
}

// monitor returns the monitor the window is on, or the primary monitor.
func (h *Host) monitor() *glfw.Monitor {
	if h.win != nil {
		if mon := h.win.GetMonitor(); mon != nil {
			return mon
		}
		x, y := h.win.GetPos()
		w, hh := h.win.GetSize()
		cx, cy := x+w/2, y+hh/2
		for _, mon := range glfw.GetMonitors() {
			mx, my := mon.GetPos()
			vm := mon.GetVideoMode()
			if cx >= mx && cx < mx+vm.Width && cy >= my && cy < my+vm.Height {
				return mon
			}
		}
	}
	return glfw.GetPrimaryMonitor()
}
