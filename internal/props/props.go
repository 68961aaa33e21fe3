package props

import (
	"fmt"
	"strings"

	"github.com/1broseidon/glwindow/internal/platform"
)

// Point is a window origin in engine coordinates (top-left of the screen or
// parent). Negative components mean "center on that axis".
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Size is a window content size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// ZOrder is the requested stacking level of the window.
type ZOrder int

const (
	ZNormal ZOrder = iota
	ZBottom
	ZTop
)

// String returns the string representation of the z-order
func (z ZOrder) String() string {
	switch z {
	case ZBottom:
		return "bottom"
	case ZNormal:
		return "normal"
	case ZTop:
		return "top"
	default:
		return "unknown"
	}
}

// ParseZOrder parses "bottom", "normal" or "top".
func ParseZOrder(s string) (ZOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom":
		return ZBottom, nil
	case "normal", "":
		return ZNormal, nil
	case "top":
		return ZTop, nil
	default:
		return ZNormal, fmt.Errorf("invalid z-order %q (want bottom, normal or top)", s)
	}
}

func (z ZOrder) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *ZOrder) UnmarshalText(text []byte) error {
	v, err := ParseZOrder(string(text))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

// Properties is a sparse set of window properties. Every field is either
// present or absent; absence means "no change requested".
//
// The zero value has no fields set.
type Properties struct {
	origin       *Point
	size         *Size
	fullscreen   *bool
	minimized    *bool
	foreground   *bool
	undecorated  *bool
	fixedSize    *bool
	cursorHidden *bool
	zOrder       *ZOrder
	title        *string
	parent       *platform.WindowID
}

func ptr[T any](v T) *T { return &v }

func (p *Properties) HasOrigin() bool { return p.origin != nil }
func (p *Properties) Origin() Point { return deref(p.origin) }
func (p *Properties) SetOrigin(x, y int) { p.origin = &Point{X: x, Y: y} }
func (p *Properties) ClearOrigin() { p.origin = nil }
func (p *Properties) HasSize() bool { return p.size != nil }
func (p *Properties) Size() Size { return deref(p.size) }
func (p *Properties) SetSize(w, h int) { p.size = &Size{Width: w, Height: h} }
func (p *Properties) ClearSize() { p.size = nil }
func (p *Properties) HasFullscreen() bool { return p.fullscreen != nil }
func (p *Properties) Fullscreen() bool { return deref(p.fullscreen) }
func (p *Properties) SetFullscreen(v bool) { p.fullscreen = ptr(v) }
func (p *Properties) ClearFullscreen() { p.fullscreen = nil }
func (p *Properties) HasMinimized() bool { return p.minimized != nil }
func (p *Properties) Minimized() bool { return deref(p.minimized) }
func (p *Properties) SetMinimized(v bool) { p.minimized = ptr(v) }
func (p *Properties) ClearMinimized() { p.minimized = nil }
func (p *Properties) HasForeground() bool { return p.foreground != nil }
func (p *Properties) Foreground() bool { return deref(p.foreground) }
func (p *Properties) SetForeground(v bool) { p.foreground = ptr(v) }
func (p *Properties) ClearForeground() { p.foreground = nil }
func (p *Properties) HasUndecorated() bool { return p.undecorated != nil }
func (p *Properties) Undecorated() bool { return deref(p.undecorated) }
func (p *Properties) SetUndecorated(v bool) { p.undecorated = ptr(v) }
func (p *Properties) ClearUndecorated() { p.undecorated = nil }
func (p *Properties) HasFixedSize() bool { return p.fixedSize != nil }
func (p *Properties) FixedSize() bool { return deref(p.fixedSize) }
func (p *Properties) SetFixedSize(v bool) { p.fixedSize = ptr(v) }
func (p *Properties) ClearFixedSize() { p.fixedSize = nil }
func (p *Properties) HasCursorHidden() bool { return p.cursorHidden != nil }
func (p *Properties) CursorHidden() bool { return deref(p.cursorHidden) }
func (p *Properties) SetCursorHidden(v bool) { p.cursorHidden = ptr(v) }
func (p *Properties) ClearCursorHidden() { p.cursorHidden = nil }
func (p *Properties) HasZOrder() bool { return p.zOrder != nil }
func (p *Properties) ZOrder() ZOrder { return deref(p.zOrder) }
func (p *Properties) SetZOrder(z ZOrder) { p.zOrder = ptr(z) }
func (p *Properties) ClearZOrder() { p.zOrder = nil }
func (p *Properties) HasTitle() bool { return p.title != nil }
func (p *Properties) Title() string { return deref(p.title) }
func (p *Properties) SetTitle(s string) { p.title = ptr(s) }
func (p *Properties) ClearTitle() { p.title = nil }
func (p *Properties) HasParent() bool { return p.parent != nil }
func (p *Properties) Parent() platform.WindowID { return deref(p.parent) }
func (p *Properties) SetParent(id platform.WindowID) { p.parent = ptr(id) }
func (p *Properties) ClearParent() { p.parent = nil }

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// IsAny reports whether any field is present.
func (p Properties) IsAny() bool {
	return p.origin != nil || p.size != nil || p.fullscreen != nil ||
		p.minimized != nil || p.foreground != nil || p.undecorated != nil ||
		p.fixedSize != nil || p.cursorHidden != nil || p.zOrder != nil ||
		p.title != nil || p.parent != nil
}

// Clear removes every field.
func (p *Properties) Clear() {
	*p = Properties{}
}

// AddProperties copies every field present in other into p, overwriting
// fields p already has.
func (p *Properties) AddProperties(other Properties) {
	if other.origin != nil {
		p.origin = ptr(*other.origin)
	}
	if other.size != nil {
		p.size = ptr(*other.size)
	}
	if other.fullscreen != nil {
		p.fullscreen = ptr(*other.fullscreen)
	}
	if other.minimized != nil {
		p.minimized = ptr(*other.minimized)
	}
	if other.foreground != nil {
		p.foreground = ptr(*other.foreground)
	}
	if other.undecorated != nil {
		p.undecorated = ptr(*other.undecorated)
	}
	if other.fixedSize != nil {
		p.fixedSize = ptr(*other.fixedSize)
	}
	if other.cursorHidden != nil {
		p.cursorHidden = ptr(*other.cursorHidden)
	}
	if other.zOrder != nil {
		p.zOrder = ptr(*other.zOrder)
	}
	if other.title != nil {
		p.title = ptr(*other.title)
	}
	if other.parent != nil {
		p.parent = ptr(*other.parent)
	}
}

// Fields returns the names of the present fields in reconciliation order.
func (p Properties) Fields() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(p.fullscreen != nil, "fullscreen")
	add(p.minimized != nil, "minimized")
	add(p.size != nil, "size")
	add(p.origin != nil, "origin")
	add(p.title != nil, "title")
	add(p.fixedSize != nil, "fixed_size")
	add(p.undecorated != nil, "undecorated")
	add(p.foreground != nil, "foreground")
	add(p.cursorHidden != nil, "cursor_hidden")
	add(p.zOrder != nil, "z_order")
	add(p.parent != nil, "parent_window")
	return names
}

// String renders the present fields, e.g. "size=640x480 fullscreen=true".
func (p Properties) String() string {
	var parts []string
	if p.fullscreen != nil {
		parts = append(parts, fmt.Sprintf("fullscreen=%t", *p.fullscreen))
	}
	if p.minimized != nil {
		parts = append(parts, fmt.Sprintf("minimized=%t", *p.minimized))
	}
	if p.size != nil {
		parts = append(parts, fmt.Sprintf("size=%dx%d", p.size.Width, p.size.Height))
	}
	if p.origin != nil {
		parts = append(parts, fmt.Sprintf("origin=%d,%d", p.origin.X, p.origin.Y))
	}
	if p.title != nil {
		parts = append(parts, fmt.Sprintf("title=%q", *p.title))
	}
	if p.fixedSize != nil {
		parts = append(parts, fmt.Sprintf("fixed_size=%t", *p.fixedSize))
	}
	if p.undecorated != nil {
		parts = append(parts, fmt.Sprintf("undecorated=%t", *p.undecorated))
	}
	if p.foreground != nil {
		parts = append(parts, fmt.Sprintf("foreground=%t", *p.foreground))
	}
	if p.cursorHidden != nil {
		parts = append(parts, fmt.Sprintf("cursor_hidden=%t", *p.cursorHidden))
	}
	if p.zOrder != nil {
		parts = append(parts, "z_order="+p.zOrder.String())
	}
	if p.parent != nil {
		parts = append(parts, fmt.Sprintf("parent_window=0x%x", uint32(*p.parent)))
	}
	return strings.Join(parts, " ")
}
