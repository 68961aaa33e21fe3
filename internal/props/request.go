package props

import (
	"github.com/1broseidon/glwindow/internal/platform"
)

// Request is the wire form of Properties used by the config file and the IPC
// protocol. Nil fields are absent.
type Request struct {
	Origin       *Point             `json:"origin,omitempty" yaml:"origin,omitempty"`
	Size         *Size              `json:"size,omitempty" yaml:"size,omitempty"`
	Fullscreen   *bool              `json:"fullscreen,omitempty" yaml:"fullscreen,omitempty"`
	Minimized    *bool              `json:"minimized,omitempty" yaml:"minimized,omitempty"`
	Foreground   *bool              `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Undecorated  *bool              `json:"undecorated,omitempty" yaml:"undecorated,omitempty"`
	FixedSize    *bool              `json:"fixed_size,omitempty" yaml:"fixed_size,omitempty"`
	CursorHidden *bool              `json:"cursor_hidden,omitempty" yaml:"cursor_hidden,omitempty"`
	ZOrder       string             `json:"z_order,omitempty" yaml:"z_order,omitempty"`
	Title        *string            `json:"title,omitempty" yaml:"title,omitempty"`
	Parent       *platform.WindowID `json:"parent_window,omitempty" yaml:"parent_window,omitempty"`
}

// Properties converts the wire form, validating the z-order name.
func (r Request) Properties() (Properties, error) {
	var p Properties
	if r.Origin != nil {
		p.SetOrigin(r.Origin.X, r.Origin.Y)
	}
	if r.Size != nil {
		p.SetSize(r.Size.Width, r.Size.Height)
	}
	if r.Fullscreen != nil {
		p.SetFullscreen(*r.Fullscreen)
	}
	if r.Minimized != nil {
		p.SetMinimized(*r.Minimized)
	}
	if r.Foreground != nil {
		p.SetForeground(*r.Foreground)
	}
	if r.Undecorated != nil {
		p.SetUndecorated(*r.Undecorated)
	}
	if r.FixedSize != nil {
		p.SetFixedSize(*r.FixedSize)
	}
	if r.CursorHidden != nil {
		p.SetCursorHidden(*r.CursorHidden)
	}
	if r.ZOrder != "" {
		z, err := ParseZOrder(r.ZOrder)
		if err != nil {
			return Properties{}, err
		}
		p.SetZOrder(z)
	}
	if r.Title != nil {
		p.SetTitle(*r.Title)
	}
	if r.Parent != nil {
		p.SetParent(*r.Parent)
	}
	return p, nil
}

// ToRequest converts p to its wire form.
func (p *Properties) ToRequest() Request {
	var r Request
	if p.origin != nil {
		r.Origin = ptr(*p.origin)
	}
	if p.size != nil {
		r.Size = ptr(*p.size)
	}
	if p.fullscreen != nil {
		r.Fullscreen = ptr(*p.fullscreen)
	}
	if p.minimized != nil {
		r.Minimized = ptr(*p.minimized)
	}
	if p.foreground != nil {
		r.Foreground = ptr(*p.foreground)
	}
	if p.undecorated != nil {
		r.Undecorated = ptr(*p.undecorated)
	}
	if p.fixedSize != nil {
		r.FixedSize = ptr(*p.fixedSize)
	}
	if p.cursorHidden != nil {
		r.CursorHidden = ptr(*p.cursorHidden)
	}
	if p.zOrder != nil {
		r.ZOrder = p.zOrder.String()
	}
	if p.title != nil {
		r.Title = ptr(*p.title)
	}
	if p.parent != nil {
		r.Parent = ptr(*p.parent)
	}
	return r
}
