package mcp

import (
	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/ipc"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
)

// PointInput is a window origin. Negative components center on that axis.
type PointInput struct {
	X int `json:"x" jsonschema:"Horizontal position of the window frame in pixels from the left of the screen; negative centers horizontally"`
	Y int `json:"y" jsonschema:"Vertical position of the window frame in pixels from the top of the screen; negative centers vertically"`
}

// SizeInput is a content size in pixels.
type SizeInput struct {
	Width  int `json:"width" jsonschema:"Content width in pixels"`
	Height int `json:"height" jsonschema:"Content height in pixels"`
}

// SetWindowPropertiesInput is the input for the set_window_properties tool.
// Omitted fields are left unchanged.
type SetWindowPropertiesInput struct {
	Origin       *PointInput `json:"origin,omitempty" jsonschema:"Window origin; ignored while fullscreen"`
	Size         *SizeInput  `json:"size,omitempty" jsonschema:"Content size; while fullscreen this selects the display mode"`
	Fullscreen   *bool       `json:"fullscreen,omitempty" jsonschema:"Switch the display to a fullscreen mode (true) or back to the desktop (false)"`
	Minimized    *bool       `json:"minimized,omitempty" jsonschema:"Minimize or restore the window; rejected while fullscreen"`
	Foreground   *bool       `json:"foreground,omitempty" jsonschema:"Raise and focus the window when true"`
	Undecorated  *bool       `json:"undecorated,omitempty" jsonschema:"Remove the title bar and borders"`
	FixedSize    *bool       `json:"fixed_size,omitempty" jsonschema:"Prevent the user from resizing the window"`
	CursorHidden *bool       `json:"cursor_hidden,omitempty" jsonschema:"Hide the mouse cursor while it is over the window"`
	ZOrder       string      `json:"z_order,omitempty" jsonschema:"Stacking level: bottom, normal or top"`
	Title        *string     `json:"title,omitempty" jsonschema:"Window title"`
}

// Request converts the tool input to the IPC wire form.
func (in SetWindowPropertiesInput) Request() props.Request {
	req := props.Request{
		Fullscreen:   in.Fullscreen,
		Minimized:    in.Minimized,
		Foreground:   in.Foreground,
		Undecorated:  in.Undecorated,
		FixedSize:    in.FixedSize,
		CursorHidden: in.CursorHidden,
		ZOrder:       in.ZOrder,
		Title:        in.Title,
	}
	if in.Origin != nil {
		req.Origin = &props.Point{X: in.Origin.X, Y: in.Origin.Y}
	}
	if in.Size != nil {
		req.Size = &props.Size{Width: in.Size.Width, Height: in.Size.Height}
	}
	return req
}

// WindowState mirrors the window state with the z-order spelled out.
type WindowState struct {
	Open         bool              `json:"open"`
	X            int               `json:"x"`
	Y            int               `json:"y"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	Fullscreen   bool              `json:"fullscreen"`
	Minimized    bool              `json:"minimized"`
	Foreground   bool              `json:"foreground"`
	Undecorated  bool              `json:"undecorated"`
	FixedSize    bool              `json:"fixed_size"`
	CursorHidden bool              `json:"cursor_hidden"`
	ZOrder       string            `json:"z_order"`
	Title        string            `json:"title"`
	Parent       platform.WindowID `json:"parent_window"`
	// FullscreenMode and WindowedMode are set while fullscreen.
	FullscreenMode string `json:"fullscreen_mode,omitempty"`
	WindowedMode   string `json:"windowed_mode,omitempty"`
}

func windowStateFrom(data *ipc.StateData) WindowState {
	s := data.Window
	out := WindowState{
		Open:         s.Open,
		X:            s.Origin.X,
		Y:            s.Origin.Y,
		Width:        s.Size.Width,
		Height:       s.Size.Height,
		Fullscreen:   s.Fullscreen,
		Minimized:    s.Minimized,
		Foreground:   s.Foreground,
		Undecorated:  s.Undecorated,
		FixedSize:    s.FixedSize,
		CursorHidden: s.CursorHidden,
		ZOrder:       s.ZOrder.String(),
		Title:        s.Title,
		Parent:       s.Parent,
	}
	if data.FullscreenMode != nil {
		out.FullscreenMode = data.FullscreenMode.String()
	}
	if data.WindowedMode != nil {
		out.WindowedMode = data.WindowedMode.String()
	}
	return out
}

// SetWindowPropertiesOutput is the output for the set_window_properties tool.
type SetWindowPropertiesOutput struct {
	Rejected []string    `json:"rejected"`
	State    WindowState `json:"state"`
}

// GetWindowStateInput is the input for the get_window_state tool.
type GetWindowStateInput struct{}

// ListDisplayModesInput is the input for the list_display_modes tool.
type ListDisplayModesInput struct {
	Width  int `json:"width,omitempty" jsonschema:"Only list modes with this width"`
	Height int `json:"height,omitempty" jsonschema:"Only list modes with this height"`
}

// DisplayMode describes one hardware video mode.
type DisplayMode struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	RefreshHz float64 `json:"refresh_hz"`
	Depth     int     `json:"depth"`
	Current   bool    `json:"current"`
	Label     string  `json:"label"`
}

// ListDisplayModesOutput is the output for the list_display_modes tool.
type ListDisplayModesOutput struct {
	Current string        `json:"current"`
	Modes   []DisplayMode `json:"modes"`
}

func displayModeFrom(m, current displaymode.Mode) DisplayMode {
	return DisplayMode{
		Width:     m.Width,
		Height:    m.Height,
		RefreshHz: float64(m.RefreshMilliHz) / 1000,
		Depth:     m.Depth,
		Current:   m.Same(current),
		Label:     m.String(),
	}
}
