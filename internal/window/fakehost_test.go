package window

import (
	"errors"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
)

var (
	modeDesktop = displaymode.Mode{ID: 1, Width: 1920, Height: 1080, RefreshMilliHz: 60000, Depth: 24}
	modeVGA     = displaymode.Mode{ID: 2, Width: 640, Height: 480, RefreshMilliHz: 60000, Depth: 24}
	modeSVGA    = displaymode.Mode{ID: 3, Width: 800, Height: 600, RefreshMilliHz: 60000, Depth: 24}
)

// fakeHost records what the window asked of the native side. Frame X/Y are
// container-relative and frame size equals content size.
type fakeHost struct {
	origin    platform.Origin
	created   bool
	frame     platform.Rect
	container platform.Rect

	modes       []displaymode.Mode
	current     displaymode.Mode
	setModes    []displaymode.Mode
	failSetMode bool

	style         platform.Style
	level         platform.Level
	title         string
	minimized     bool
	focused       bool
	fullscreen    bool
	parent        platform.WindowID
	cursorVisible bool
	pointerInside bool
	cursorErr     error

	resizes        []platform.Rect
	contextUpdates int
	swaps          int
	makeCurrentErr error

	pending []events.Event
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		container:     platform.Rect{Width: 1920, Height: 1080},
		modes:         []displaymode.Mode{modeDesktop, modeSVGA, modeVGA},
		current:       modeDesktop,
		cursorVisible: true,
	}
}

func (f *fakeHost) Name() string { return "fake" }
func (f *fakeHost) Origin() platform.Origin { return f.origin }

func (f *fakeHost) CreateWindow(spec platform.WindowSpec) (platform.WindowID, error) {
	f.created = true
	f.frame = spec.Bounds
	f.style = spec.Style
	f.title = spec.Title
	f.parent = spec.Parent
	return 1, nil
}

func (f *fakeHost) DestroyWindow() error {
	if !f.created {
		return platform.ErrNoWindow
	}
	f.created = false
	return nil
}

func (f *fakeHost) Frame() (platform.Rect, error) {
	if !f.created {
		return platform.Rect{}, platform.ErrNoWindow
	}
	return f.frame, nil
}

func (f *fakeHost) SetContentSize(width, height int) error {
	f.frame.Width, f.frame.Height = width, height
	f.resizes = append(f.resizes, platform.Rect{Width: width, Height: height})
	return nil
}

func (f *fakeHost) SetFrameOrigin(x, y int) error {
	f.frame.X, f.frame.Y = x, y
	return nil
}

func (f *fakeHost) ContainerBounds(platform.WindowID) (platform.Rect, error) {
	return f.container, nil
}

func (f *fakeHost) SetStyle(s platform.Style) error { f.style = s; return nil }
func (f *fakeHost) SetTitle(title string) error { f.title = title; return nil }
func (f *fakeHost) Minimize() error { f.minimized = true; return nil }
func (f *fakeHost) Restore() error { f.minimized = false; return nil }
func (f *fakeHost) Focus() error { f.focused = true; return nil }
func (f *fakeHost) SetLevel(l platform.Level) error { f.level = l; return nil }
func (f *fakeHost) SetParent(parent platform.WindowID) error { f.parent = parent; return nil }
func (f *fakeHost) SetFullscreenState(on bool) error { f.fullscreen = on; return nil }
func (f *fakeHost) PointerInside() (bool, error) { return f.pointerInside, nil }

func (f *fakeHost) SetCursorVisible(visible bool) error {
	if f.cursorErr != nil {
		return f.cursorErr
	}
	f.cursorVisible = visible
	return nil
}

func (f *fakeHost) DisplayModes() ([]displaymode.Mode, error) { return f.modes, nil }
func (f *fakeHost) CurrentMode() (displaymode.Mode, error) { return f.current, nil }

func (f *fakeHost) SetMode(m displaymode.Mode) error {
	if f.failSetMode {
		return errors.New("mode switch refused")
	}
	f.setModes = append(f.setModes, m)
	f.current = m
	return nil
}

func (f *fakeHost) MakeCurrent() error { return f.makeCurrentErr }

func (f *fakeHost) UpdateContext(width, height int) error {
	f.contextUpdates++
	return nil
}

func (f *fakeHost) SwapBuffers() error { f.swaps++; return nil }

func (f *fakeHost) PollEvents(sink platform.EventSink) error {
	for _, e := range f.pending {
		switch e.(type) {
		case events.PointerEntered:
			f.pointerInside = true
		case events.PointerLeft:
			f.pointerInside = false
		}
		sink(e)
	}
	f.pending = nil
	return nil
}

func (f *fakeHost) Close() error { return nil }
