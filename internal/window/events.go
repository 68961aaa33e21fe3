package window

import (
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/props"
)

func (w *Window) enqueue(e events.Event) {
	w.queue = append(w.queue, e)
}

func (w *Window) drainEvents() {
	for len(w.queue) > 0 {
		e := w.queue[0]
		w.queue = w.queue[1:]
		w.handleEvent(e)
	}
	w.queue = nil
}

func (w *Window) handleEvent(e events.Event) {
	switch ev := e.(type) {
	case events.Moved:
		if !w.state.Fullscreen {
			w.systemChanged(func(s *State) { s.Origin = props.Point{X: ev.X, Y: ev.Y} })
		}
	case events.Resized:
		w.systemChanged(func(s *State) {
			if s.Size.Width != ev.Width || s.Size.Height != ev.Height {
				s.Size = props.Size{Width: ev.Width, Height: ev.Height}
				s.ContextNeedsUpdate = true
			}
		})
	case events.MinimizedChanged:
		w.systemChanged(func(s *State) { s.Minimized = ev.Minimized })
	case events.FocusChanged:
		w.systemChanged(func(s *State) { s.Foreground = ev.Focused })
	case events.PointerEntered:
		w.systemChanged(func(s *State) { s.PointerInside = true })
		if w.state.CursorHidden {
			w.setCursorVisible(false)
		}
	case events.PointerLeft:
		w.systemChanged(func(s *State) { s.PointerInside = false })
		if w.state.CursorHidden {
			w.setCursorVisible(true)
		}
	case events.CloseRequested:
		if w.closeRequest != nil && !w.closeRequest() {
			w.logger.Info("window: close request vetoed")
			return
		}
		if err := w.Close(); err != nil {
			w.logger.Error("window: close failed", "error", err)
		}
	case events.Closed:
		// The native window is already gone; only the display mode is left
		// to put back.
		if err := w.withContext(w.switcher.Exit); err != nil {
			w.logger.Error("window: failed to restore display mode", "error", err)
		}
		w.saved = nil
		w.systemChanged(func(s *State) {
			s.Open = false
			s.Fullscreen = false
		})
	}

	if w.input != nil {
		for _, in := range w.translator.Translate(e) {
			w.input(in)
		}
	}
}

// systemChanged applies a change the native side made on its own and
// publishes it if it differs from the current state.
func (w *Window) systemChanged(fn func(*State)) {
	before := w.state
	fn(&w.state)
	if w.state != before {
		w.changed()
	}
}

// refreshPointerInside asks the host where the pointer is. Enter and leave
// events only report crossings, not where the pointer started.
func (w *Window) refreshPointerInside() {
	inside, err := w.host.PointerInside()
	if err != nil {
		w.logger.Debug("window: failed to query pointer position", "error", err)
		return
	}
	w.state.PointerInside = inside
}

func (w *Window) setCursorVisible(visible bool) {
	if err := w.host.SetCursorVisible(visible); err != nil {
		w.logger.Error("window: failed to change cursor visibility", "visible", visible, "error", err)
	}
}
