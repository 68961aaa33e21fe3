// Package hotkeys binds global X11 key sequences to window property
// requests.
package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/glwindow/internal/config"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/window"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Poster runs a function on the window thread.
type Poster interface {
	Post(fn func(*window.Window)) bool
}

// Action computes the request a hotkey makes from the current state.
type Action func(window.State) props.Properties

// x11Accessor is an optional interface for hosts that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	poster Poster
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. Hosts without X11 internals have no
// global shortcuts.
func NewHandler(host platform.Host, poster Poster, logger *slog.Logger) (*Handler, error) {
	accessor, ok := host.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("global hotkeys on %s: %w", host.Name(), platform.ErrUnsupported)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		poster: poster,
		logger: logger,
	}, nil
}

// RegisterConfig registers every non-empty binding in cfg.
func (h *Handler) RegisterConfig(cfg config.Hotkeys) error {
	bindings := []struct {
		name   string
		keys   string
		action Action
	}{
		{"toggle_fullscreen", cfg.ToggleFullscreen, ToggleFullscreen},
		{"toggle_cursor", cfg.ToggleCursor, ToggleCursor},
		{"cycle_z_order", cfg.CycleZOrder, CycleZOrder},
	}
	for _, b := range bindings {
		if b.keys == "" {
			continue
		}
		if err := h.Register(b.name, b.keys, b.action); err != nil {
			return err
		}
	}
	return nil
}

// Register binds keySequence to action.
func (h *Handler) Register(name, keySequence string, action Action) error {
	err := h.RegisterFunc(keySequence, func() {
		h.logger.Debug("hotkeys: triggered", "action", name, "keys", keySequence)
		posted := h.poster.Post(func(w *window.Window) {
			w.RequestProperties(action(w.State()))
		})
		if !posted {
			h.logger.Warn("hotkeys: window thread did not take request", "action", name)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register %s hotkey %q: %w", name, keySequence, err)
	}
	h.logger.Info("hotkeys: registered", "action", name, "keys", keySequence)
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// ToggleFullscreen flips the fullscreen property.
func ToggleFullscreen(s window.State) props.Properties {
	var p props.Properties
	p.SetFullscreen(!s.Fullscreen)
	return p
}

// ToggleCursor flips the hidden-cursor property.
func ToggleCursor(s window.State) props.Properties {
	var p props.Properties
	p.SetCursorHidden(!s.CursorHidden)
	return p
}

// CycleZOrder steps normal -> top -> bottom -> normal.
func CycleZOrder(s window.State) props.Properties {
	var p props.Properties
	switch s.ZOrder {
	case props.ZNormal:
		p.SetZOrder(props.ZTop)
	case props.ZTop:
		p.SetZOrder(props.ZBottom)
	default:
		p.SetZOrder(props.ZNormal)
	}
	return p
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock masks, including none,
// so a binding fires whichever locks are on.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
