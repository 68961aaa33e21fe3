package window

import (
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
)

// State is the current state of the window. It is owned by the Window and
// only changes through reconciliation or native notifications; callers get
// copies.
type State struct {
	Open         bool              `json:"open"`
	Origin       props.Point       `json:"origin"`
	Size         props.Size        `json:"size"`
	Fullscreen   bool              `json:"fullscreen"`
	Minimized    bool              `json:"minimized"`
	Foreground   bool              `json:"foreground"`
	Undecorated  bool              `json:"undecorated"`
	FixedSize    bool              `json:"fixed_size"`
	CursorHidden bool              `json:"cursor_hidden"`
	ZOrder       props.ZOrder      `json:"z_order"`
	Title        string            `json:"title"`
	Parent       platform.WindowID `json:"parent_window"`
	// PointerInside is the last pointer enter/leave notification.
	PointerInside bool `json:"pointer_inside"`
	// ContextNeedsUpdate is set when the drawable size may have changed and
	// cleared at the next frame.
	ContextNeedsUpdate bool `json:"context_needs_update"`
}

// style returns the native border style for the window's properties.
// Undecorated takes precedence over fixed-size.
func (s State) style() platform.Style {
	switch {
	case s.Undecorated:
		return platform.Style{Decorated: false, Resizable: false}
	case s.FixedSize:
		return platform.Style{Decorated: true, Resizable: false}
	default:
		return platform.Style{Decorated: true, Resizable: true}
	}
}

func levelFor(z props.ZOrder) platform.Level {
	switch z {
	case props.ZBottom:
		return platform.LevelBelow
	case props.ZTop:
		return platform.LevelAbove
	default:
		return platform.LevelNormal
	}
}

// windowedGeometry is the geometry saved when entering fullscreen.
type windowedGeometry struct {
	origin props.Point
	size   props.Size
}
