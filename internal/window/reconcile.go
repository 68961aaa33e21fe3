package window

import (
	"errors"
	"fmt"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
)

// reconcileNative applies req to the native window in a fixed order:
// fullscreen, minimized, size, origin, title, fixed-size, undecorated,
// foreground, cursor-hidden, z-order, parent-window. Failures are logged and
// leave the field set.
func reconcileNative(w *Window, req *props.Properties) {
	if !w.state.Open {
		w.logger.Error("window: cannot apply properties before the window is open", "fields", req.Fields())
		return
	}

	before := w.state

	// A rejected fullscreen change leaves size and origin for a later
	// attempt; they depend on which mode the window ends up in.
	resolved := true
	if req.HasFullscreen() {
		resolved = w.applyFullscreen(req)
	}
	if req.HasMinimized() {
		w.applyMinimized(req)
	}
	if resolved && req.HasSize() {
		w.applySize(req)
	}
	if resolved && req.HasOrigin() {
		w.applyOrigin(req)
	}
	if req.HasTitle() {
		if err := w.host.SetTitle(req.Title()); err != nil {
			w.logger.Error("window: failed to set title", "error", err)
		} else {
			w.state.Title = req.Title()
			req.ClearTitle()
		}
	}
	if req.HasFixedSize() {
		w.applyStyle(req.FixedSize(), w.state.Undecorated, req.ClearFixedSize)
	}
	if req.HasUndecorated() {
		w.applyStyle(w.state.FixedSize, req.Undecorated(), req.ClearUndecorated)
	}
	if req.HasForeground() {
		w.applyForeground(req)
	}
	if req.HasCursorHidden() {
		w.applyCursorHidden(req)
	}
	if req.HasZOrder() {
		w.applyZOrder(req)
	}
	if req.HasParent() {
		if err := w.host.SetParent(req.Parent()); err != nil {
			w.logger.Error("window: failed to set parent window", "parent", req.Parent(), "error", err)
		} else {
			w.state.Parent = req.Parent()
			req.ClearParent()
		}
	}

	if w.state != before {
		w.changed()
	}
}

func (w *Window) applyFullscreen(req *props.Properties) bool {
	want := req.Fullscreen()
	if want == w.state.Fullscreen {
		// Any size change is left to applySize, which goes through the
		// mode switch while fullscreen.
		req.ClearFullscreen()
		return true
	}

	if want {
		size := w.state.Size
		if req.HasSize() {
			size = req.Size()
		}
		mode, err := w.findMode(size)
		if err != nil {
			w.logger.Error("window: cannot enter fullscreen", "size", fmt.Sprintf("%dx%d", size.Width, size.Height), "error", err)
			return false
		}
		saved := windowedGeometry{origin: w.state.Origin, size: w.state.Size}
		if err := w.withContext(func() error { return w.switcher.Enter(mode) }); err != nil {
			w.logger.Error("window: display mode switch failed", "mode", mode.String(), "error", err)
			return false
		}
		w.saved = &saved
		w.coverScreen(mode)

		req.ClearFullscreen()
		req.ClearSize()
		req.ClearOrigin()
		w.state.Fullscreen = true
		w.state.Origin = props.Point{}
		w.state.Size = props.Size{Width: mode.Width, Height: mode.Height}
		w.state.ContextNeedsUpdate = true
		w.logger.Info("window: entered fullscreen", "mode", mode.String())
		return true
	}

	if err := w.withContext(w.switcher.Exit); err != nil {
		w.logger.Error("window: failed to leave fullscreen", "error", err)
		return false
	}
	req.ClearFullscreen()
	w.state.Fullscreen = false
	w.state.ContextNeedsUpdate = true
	w.uncoverScreen()
	w.logger.Info("window: left fullscreen")
	return true
}

// coverScreen makes the window a borderless, top-level window over the
// whole display. Cosmetic failures are logged only; the mode switch already
// happened.
func (w *Window) coverScreen(mode displaymode.Mode) {
	w.runSteps("fullscreen setup", []step{
		{"fullscreen state", func() error { return w.host.SetFullscreenState(true) }},
		{"style", func() error { return w.host.SetStyle(platform.Style{}) }},
		{"level", func() error { return w.host.SetLevel(platform.LevelAbove) }},
		{"size", func() error { return w.host.SetContentSize(mode.Width, mode.Height) }},
		{"origin", func() error { return w.host.SetFrameOrigin(0, 0) }},
	})
}

// step is one native call of a multi-call transition.
type step struct {
	what string
	fn   func() error
}

// runSteps runs every step, logging failures other than ErrUnsupported.
func (w *Window) runSteps(phase string, steps []step) {
	for _, s := range steps {
		if err := s.fn(); err != nil && !errors.Is(err, platform.ErrUnsupported) {
			w.logger.Warn("window: "+phase+" step failed", "step", s.what, "error", err)
		}
	}
}

// uncoverScreen re-publishes the windowed style, level and geometry that
// fullscreen overrode.
func (w *Window) uncoverScreen() {
	saved := w.saved
	w.saved = nil

	steps := []step{
		{"fullscreen state", func() error { return w.host.SetFullscreenState(false) }},
		{"style", func() error { return w.host.SetStyle(w.state.style()) }},
		{"level", func() error { return w.host.SetLevel(levelFor(w.state.ZOrder)) }},
	}
	if saved != nil {
		steps = append(steps,
			step{"size", func() error { return w.host.SetContentSize(saved.size.Width, saved.size.Height) }},
			step{"origin", func() error { return w.moveTo(saved.origin) }},
		)
	}
	w.runSteps("windowed restore", steps)
	if saved != nil {
		w.state.Size = saved.size
		w.state.Origin = saved.origin
	}
}

func (w *Window) findMode(size props.Size) (displaymode.Mode, error) {
	modes, err := w.host.DisplayModes()
	if err != nil {
		return displaymode.Mode{}, fmt.Errorf("failed to enumerate display modes: %w", err)
	}
	current, err := w.host.CurrentMode()
	if err != nil {
		return displaymode.Mode{}, fmt.Errorf("failed to read current display mode: %w", err)
	}
	return displaymode.Find(modes, current, size.Width, size.Height)
}

func (w *Window) applyMinimized(req *props.Properties) {
	if w.state.Fullscreen {
		w.logger.Error("window: cannot minimize a fullscreen window")
		return
	}
	want := req.Minimized()
	if want != w.state.Minimized {
		var err error
		if want {
			err = w.host.Minimize()
		} else {
			err = w.host.Restore()
		}
		if err != nil {
			w.logger.Error("window: failed to change minimized state", "minimized", want, "error", err)
			return
		}
		w.state.Minimized = want
	}
	req.ClearMinimized()
}

func (w *Window) applySize(req *props.Properties) {
	size := req.Size()
	if size.Width <= 0 || size.Height <= 0 {
		w.logger.Error("window: invalid size", "width", size.Width, "height", size.Height)
		return
	}

	if w.state.Fullscreen {
		if size == w.state.Size {
			req.ClearSize()
			return
		}
		mode, err := w.findMode(size)
		if err != nil {
			w.logger.Error("window: cannot resize fullscreen window", "size", fmt.Sprintf("%dx%d", size.Width, size.Height), "error", err)
			return
		}
		if err := w.withContext(func() error { return w.switcher.Enter(mode) }); err != nil {
			w.logger.Error("window: display mode switch failed", "mode", mode.String(), "error", err)
			if !w.switcher.Fullscreen() {
				// The second leg failed after the desktop mode came back.
				w.state.Fullscreen = false
				w.uncoverScreen()
			}
			w.state.ContextNeedsUpdate = true
			return
		}
		if err := w.host.SetContentSize(mode.Width, mode.Height); err != nil && !errors.Is(err, platform.ErrUnsupported) {
			w.logger.Warn("window: failed to resize fullscreen window", "error", err)
		}
		w.state.Size = props.Size{Width: mode.Width, Height: mode.Height}
		w.state.ContextNeedsUpdate = true
		req.ClearSize()
		return
	}

	if err := w.host.SetContentSize(size.Width, size.Height); err != nil {
		w.logger.Error("window: failed to resize", "error", err)
		return
	}
	w.state.Size = size
	w.state.ContextNeedsUpdate = true
	req.ClearSize()
}

func (w *Window) applyOrigin(req *props.Properties) {
	if w.state.Fullscreen {
		// The origin is pinned to the screen corner; drop the request.
		req.ClearOrigin()
		return
	}
	origin, err := w.resolveOrigin(req.Origin())
	if err != nil {
		w.logger.Error("window: cannot resolve origin", "error", err)
		return
	}
	if err := w.moveTo(origin); err != nil {
		w.logger.Error("window: failed to move", "error", err)
		return
	}
	w.state.Origin = origin
	req.ClearOrigin()
}

// resolveOrigin replaces negative coordinates with the position that centers
// the window frame in its container.
func (w *Window) resolveOrigin(p props.Point) (props.Point, error) {
	if p.X >= 0 && p.Y >= 0 {
		return p, nil
	}
	container, err := w.host.ContainerBounds(w.state.Parent)
	if err != nil {
		return p, err
	}
	frame, err := w.host.Frame()
	if err != nil {
		return p, err
	}
	return centerOrigin(p, container, frame), nil
}

func centerOrigin(p props.Point, container, frame platform.Rect) props.Point {
	if p.X < 0 {
		p.X = floorDiv(container.Width-frame.Width, 2)
	}
	if p.Y < 0 {
		p.Y = floorDiv(container.Height-frame.Height, 2)
	}
	return p
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// moveTo positions the frame at the engine (top-left) origin p, flipping
// the vertical axis for bottom-left hosts.
func (w *Window) moveTo(p props.Point) error {
	x, y := p.X, p.Y
	if w.host.Origin() == platform.BottomLeft {
		container, err := w.host.ContainerBounds(w.state.Parent)
		if err != nil {
			return err
		}
		frame, err := w.host.Frame()
		if err != nil {
			return err
		}
		y = flipY(y, container.Height, frame.Height)
	}
	return w.host.SetFrameOrigin(x, y)
}

// flipY converts between top-left and bottom-left vertical coordinates.
func flipY(y, containerHeight, frameHeight int) int {
	return containerHeight - y - frameHeight
}

func (w *Window) applyStyle(fixedSize, undecorated bool, consume func()) {
	next := w.state
	next.FixedSize = fixedSize
	next.Undecorated = undecorated

	if !w.state.Fullscreen && next.style() != w.state.style() {
		if err := w.host.SetStyle(next.style()); err != nil {
			w.logger.Error("window: failed to change window style", "error", err)
			return
		}
	}
	w.state.FixedSize = fixedSize
	w.state.Undecorated = undecorated
	consume()
}

func (w *Window) applyForeground(req *props.Properties) {
	if req.Foreground() {
		if err := w.host.Focus(); err != nil {
			w.logger.Error("window: failed to bring window to foreground", "error", err)
			return
		}
		w.state.Foreground = true
	}
	req.ClearForeground()
}

func (w *Window) applyCursorHidden(req *props.Properties) {
	hidden := req.CursorHidden()
	w.refreshPointerInside()
	if w.state.PointerInside && hidden != w.state.CursorHidden {
		if err := w.host.SetCursorVisible(!hidden); err != nil {
			w.logger.Error("window: failed to change cursor visibility", "error", err)
			return
		}
	}
	w.state.CursorHidden = hidden
	req.ClearCursorHidden()
}

func (w *Window) applyZOrder(req *props.Properties) {
	z := req.ZOrder()
	if !w.state.Fullscreen {
		if err := w.host.SetLevel(levelFor(z)); err != nil {
			w.logger.Error("window: failed to change z-order", "z_order", z.String(), "error", err)
			return
		}
	}
	w.state.ZOrder = z
	req.ClearZOrder()
}
