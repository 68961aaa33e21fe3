package window

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
)

// ErrNotOpen is returned by operations that need an open window.
var ErrNotOpen = errors.New("window is not open")

// Reconciler applies the part of a property request it understands. It
// clears every field it applied; fields left set are passed to the next
// reconciler in the chain.
type Reconciler interface {
	Reconcile(w *Window, req *props.Properties)
}

// ReconcilerFunc adapts a function to the Reconciler interface.
type ReconcilerFunc func(w *Window, req *props.Properties)

func (f ReconcilerFunc) Reconcile(w *Window, req *props.Properties) { f(w, req) }

// Config holds the optional collaborators of a Window.
type Config struct {
	Logger *slog.Logger
	// OnChange is called with a copy of the state after every change.
	OnChange func(State)
	// Input receives engine input translated from native events.
	Input func(events.Input)
	// CloseRequest decides whether a user close request proceeds. A nil
	// handler always allows it.
	CloseRequest func() bool
}

// Window owns one native window, its rendering context and its State.
//
// A Window is driven from a single goroutine (the window thread); only the
// rendering context lock is safe to take from elsewhere.
type Window struct {
	host     platform.Host
	switcher *displaymode.Switcher
	logger   *slog.Logger

	onChange     func(State)
	input        func(events.Input)
	closeRequest func() bool

	state       State
	saved       *windowedGeometry
	reconcilers []Reconciler
	translator  events.Translator

	requested props.Properties
	rejected  props.Properties
	queue     []events.Event

	ctxMu sync.Mutex
}

// New creates a closed window on host.
func New(host platform.Host, cfg Config) *Window {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Window{
		host:         host,
		switcher:     displaymode.NewSwitcher(host),
		logger:       logger.With("host", host.Name()),
		onChange:     cfg.OnChange,
		input:        cfg.Input,
		closeRequest: cfg.CloseRequest,
	}
	w.reconcilers = []Reconciler{ReconcilerFunc(reconcileNative)}
	return w
}

// AddReconciler appends r to the chain. It sees only the fields the earlier
// reconcilers left set.
func (w *Window) AddReconciler(r Reconciler) {
	w.reconcilers = append(w.reconcilers, r)
}

// State returns a copy of the current state.
func (w *Window) State() State {
	return w.state
}

// Session returns the live fullscreen session, if any.
func (w *Window) Session() (displaymode.Session, bool) {
	return w.switcher.Session()
}

// DisplayModes lists the modes the window's display supports.
func (w *Window) DisplayModes() ([]displaymode.Mode, error) {
	return w.host.DisplayModes()
}

// CurrentMode returns the mode the window's display is in now.
func (w *Window) CurrentMode() (displaymode.Mode, error) {
	return w.host.CurrentMode()
}

// RequestProperties queues props to be applied at the next ProcessEvents.
// Later requests override earlier ones field by field.
func (w *Window) RequestProperties(p props.Properties) {
	w.requested.AddProperties(p)
}

// RejectedProperties returns the fields of earlier requests that could not
// be applied, and forgets them.
func (w *Window) RejectedProperties() props.Properties {
	r := w.rejected
	w.rejected.Clear()
	return r
}

// Open creates the native window from initial and then reconciles whatever
// of initial window creation did not cover (fullscreen, z-order, cursor...).
func (w *Window) Open(initial props.Properties) error {
	if w.state.Open {
		return nil
	}

	w.state = State{
		Size:  props.Size{Width: 800, Height: 600},
		Title: "glwindow",
	}
	if initial.HasSize() {
		w.state.Size = initial.Size()
	}
	if initial.HasTitle() {
		w.state.Title = initial.Title()
	}
	if initial.HasUndecorated() {
		w.state.Undecorated = initial.Undecorated()
	}
	if initial.HasFixedSize() {
		w.state.FixedSize = initial.FixedSize()
	}
	if initial.HasParent() {
		w.state.Parent = initial.Parent()
	}

	spec := platform.WindowSpec{
		Title:  w.state.Title,
		Bounds: platform.Rect{Width: w.state.Size.Width, Height: w.state.Size.Height},
		Style:  w.state.style(),
		Parent: w.state.Parent,
	}

	w.ctxMu.Lock()
	_, err := w.host.CreateWindow(spec)
	w.ctxMu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to create %s window: %w", w.host.Name(), err)
	}

	w.state.Open = true
	w.state.ContextNeedsUpdate = true
	if frame, err := w.host.Frame(); err == nil {
		w.state.Origin = props.Point{X: frame.X, Y: frame.Y}
	}
	w.refreshPointerInside()

	initial.ClearSize()
	initial.ClearTitle()
	initial.ClearUndecorated()
	initial.ClearFixedSize()
	initial.ClearParent()
	if !initial.HasOrigin() {
		// Centered unless the caller said otherwise.
		initial.SetOrigin(-1, -1)
	}
	w.logger.Info("window: opened", "size", fmt.Sprintf("%dx%d", w.state.Size.Width, w.state.Size.Height))

	w.SetPropertiesNow(&initial)
	if initial.IsAny() {
		w.rejected.AddProperties(initial)
	}
	w.changed()
	return nil
}

// Close leaves fullscreen, destroys the native window and marks the state
// closed. It is safe to call more than once.
func (w *Window) Close() error {
	if !w.state.Open {
		return nil
	}

	if w.state.Fullscreen {
		var req props.Properties
		req.SetFullscreen(false)
		w.SetPropertiesNow(&req)
	}
	if w.state.CursorHidden && w.state.PointerInside {
		if err := w.host.SetCursorVisible(true); err != nil {
			w.logger.Warn("window: failed to show cursor on close", "error", err)
		}
	}

	w.ctxMu.Lock()
	defer w.ctxMu.Unlock()

	// Switch back to the desktop mode even if the request path failed.
	if err := w.switcher.Exit(); err != nil {
		w.logger.Error("window: failed to restore display mode on close", "error", err)
	}
	err := w.host.DestroyWindow()
	w.state.Open = false
	w.changed()
	if err != nil {
		return fmt.Errorf("failed to destroy window: %w", err)
	}
	w.logger.Info("window: closed")
	return nil
}

// SetPropertiesNow runs the reconciler chain on req immediately. Fields that
// were applied are cleared from req; whatever is left was not applied.
func (w *Window) SetPropertiesNow(req *props.Properties) {
	if !req.IsAny() {
		return
	}
	w.logger.Debug("window: set properties", "request", req.String())

	for _, r := range w.reconcilers {
		if !req.IsAny() {
			break
		}
		r.Reconcile(w, req)
	}

	if req.IsAny() {
		w.logger.Warn("window: properties not applied", "fields", req.Fields())
	}
}

// ProcessEvents pulls native events, applies them and then applies queued
// property requests. Fields that could not be applied are kept for
// RejectedProperties.
func (w *Window) ProcessEvents() {
	if w.state.Open {
		if err := w.host.PollEvents(w.enqueue); err != nil {
			w.logger.Error("window: failed to poll events", "error", err)
		}
	}
	w.drainEvents()

	if w.requested.IsAny() {
		req := w.requested
		w.requested.Clear()
		w.SetPropertiesNow(&req)
		if req.IsAny() {
			w.rejected.AddProperties(req)
		}
	}
}

// withContext runs fn while holding the rendering context lock.
func (w *Window) withContext(fn func() error) error {
	w.ctxMu.Lock()
	defer w.ctxMu.Unlock()
	return fn()
}

func (w *Window) changed() {
	if w.onChange != nil {
		w.onChange(w.state)
	}
}
