package platform

import (
	"errors"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in native coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Origin is the corner native window coordinates are measured from.
type Origin int

const (
	// TopLeft hosts grow y downward, like the engine.
	TopLeft Origin = iota
	// BottomLeft hosts grow y upward and need flipping.
	BottomLeft
)

// Style is the border and resize affordance of a window.
type Style struct {
	Decorated bool
	Resizable bool
}

// Level is a native stacking level.
type Level int

const (
	LevelNormal Level = iota
	LevelBelow
	LevelAbove
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelBelow:
		return "below"
	case LevelAbove:
		return "above"
	default:
		return "unknown"
	}
}

// WindowSpec describes the native window to create.
type WindowSpec struct {
	Title  string
	Bounds Rect // content rect, container-relative native coordinates
	Style  Style
	Parent WindowID
}

var (
	// ErrNoWindow is returned by window operations before CreateWindow.
	ErrNoWindow = errors.New("native window not created")
	// ErrUnsupported is returned for operations a host cannot perform.
	ErrUnsupported = errors.New("operation not supported by host")
)

// EventSink receives translated native events.
type EventSink func(events.Event)

// Host abstracts the native windowing toolkit and rendering context for a
// single window. All methods are called from the window thread.
type Host interface {
	displaymode.Setter

	Name() string
	Origin() Origin

	CreateWindow(spec WindowSpec) (WindowID, error)
	DestroyWindow() error

	// Frame returns the outer window rect, decorations included.
	Frame() (Rect, error)
	SetContentSize(width, height int) error
	// SetFrameOrigin positions the outer frame, container-relative.
	SetFrameOrigin(x, y int) error
	// ContainerBounds returns the bounds of parent, or of the screen the
	// window is on when parent is 0.
	ContainerBounds(parent WindowID) (Rect, error)

	SetStyle(Style) error
	SetTitle(title string) error
	Minimize() error
	Restore() error
	Focus() error
	SetLevel(Level) error
	SetParent(parent WindowID) error
	// SetFullscreenState marks the window as covering the whole screen.
	SetFullscreenState(on bool) error

	SetCursorVisible(visible bool) error
	PointerInside() (bool, error)

	DisplayModes() ([]displaymode.Mode, error)

	MakeCurrent() error
	UpdateContext(width, height int) error
	SwapBuffers() error

	// PollEvents delivers pending native events to sink without blocking.
	PollEvents(sink EventSink) error
	Close() error
}
