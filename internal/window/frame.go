package window

// BeginFrame takes the rendering context lock and makes the context current.
// It returns false, with the lock released, when there is nothing to draw
// into. A true return must be paired with EndFrame.
func (w *Window) BeginFrame() bool {
	if !w.state.Open || w.state.Minimized {
		return false
	}

	w.ctxMu.Lock()
	ok := false
	defer func() {
		if !ok {
			w.ctxMu.Unlock()
		}
	}()

	if err := w.host.MakeCurrent(); err != nil {
		w.logger.Error("window: failed to make context current", "error", err)
		return false
	}
	if w.state.ContextNeedsUpdate {
		if err := w.host.UpdateContext(w.state.Size.Width, w.state.Size.Height); err != nil {
			w.logger.Error("window: failed to update context", "error", err)
			return false
		}
		w.state.ContextNeedsUpdate = false
	}
	ok = true
	return true
}

// EndFrame presents the frame and releases the context lock taken by a
// successful BeginFrame.
func (w *Window) EndFrame() {
	defer w.ctxMu.Unlock()
	if err := w.host.SwapBuffers(); err != nil {
		w.logger.Error("window: failed to swap buffers", "error", err)
	}
}
