// Package glfwhost implements platform.Host on top of GLFW and an OpenGL 2.1
// context.
package glfwhost

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type windowedRect struct {
	x, y, width, height int
}

// Host is the GLFW implementation of platform.Host. GLFW must be driven from
// a single OS thread: create the host on the window thread and keep it there.
type Host struct {
	logger *slog.Logger

	win      *glfw.Window
	glReady  bool
	desktop  displaymode.Mode
	active   displaymode.Mode
	windowed windowedRect

	// sink is set while PollEvents runs; callbacks fired from other GLFW
	// calls are kept in pending until the next poll.
	sink    platform.EventSink
	pending []events.Event
}

var _ platform.Host = (*Host)(nil)

// NewHost initializes GLFW. Call it from the window thread.
func NewHost(logger *slog.Logger) (*Host, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	logger.Info("glfw: initialized", "version", glfw.GetVersionString())
	return &Host{logger: logger}, nil
}

func (h *Host) Name() string            { return "glfw" }
func (h *Host) Origin() platform.Origin { return platform.TopLeft }

func (h *Host) CreateWindow(spec platform.WindowSpec) (platform.WindowID, error) {
	if h.win != nil {
		return 0, fmt.Errorf("glfw host already has a window")
	}
	if spec.Parent != 0 {
		return 0, fmt.Errorf("child windows: %w", platform.ErrUnsupported)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	// Start with an invisible window so that we can position it first
	glfw.WindowHint(glfw.Visible, glfw.False)
	// Fullscreen windows must not iconify when they lose focus
	glfw.WindowHint(glfw.AutoIconify, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfwBool(spec.Style.Decorated))
	glfw.WindowHint(glfw.Resizable, glfwBool(spec.Style.Resizable))

	win, err := glfw.CreateWindow(spec.Bounds.Width, spec.Bounds.Height, spec.Title, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	h.win = win

	mx, my := h.monitor().GetPos()
	win.SetPos(mx+spec.Bounds.X, my+spec.Bounds.Y)
	h.installCallbacks()
	win.Show()

	win.MakeContextCurrent()
	if !h.glReady {
		if err := gl.Init(); err != nil {
			win.Destroy()
			h.win = nil
			return 0, fmt.Errorf("failed to initialize OpenGL: %w", err)
		}
		h.glReady = true
		h.logger.Info("glfw: OpenGL ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))
	}
	return 1, nil
}

func (h *Host) DestroyWindow() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	if win.GetMonitor() != nil {
		// Hand the monitor back at the desktop mode.
		r := h.windowed
		win.SetMonitor(nil, r.x, r.y, r.width, r.height, glfw.DontCare)
	}
	win.Destroy()
	h.win = nil
	h.active = displaymode.Mode{}
	h.pending = nil
	return nil
}

func (h *Host) window() (*glfw.Window, error) {
	if h.win == nil {
		return nil, platform.ErrNoWindow
	}
	return h.win, nil
}

// Frame returns the decorated window rect relative to the monitor the
// window is on.
func (h *Host) Frame() (platform.Rect, error) {
	win, err := h.window()
	if err != nil {
		return platform.Rect{}, err
	}
	x, y := win.GetPos()
	w, hh := win.GetSize()
	left, top, right, bottom := win.GetFrameSize()
	mx, my := h.monitor().GetPos()
	return platform.Rect{
		X:      x - left - mx,
		Y:      y - top - my,
		Width:  w + left + right,
		Height: hh + top + bottom,
	}, nil
}

func (h *Host) SetContentSize(width, height int) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.SetSize(width, height)
	return nil
}

func (h *Host) SetFrameOrigin(x, y int) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	left, top, _, _ := win.GetFrameSize()
	mx, my := h.monitor().GetPos()
	win.SetPos(mx+x+left, my+y+top)
	return nil
}

func (h *Host) ContainerBounds(parent platform.WindowID) (platform.Rect, error) {
	if parent != 0 {
		return platform.Rect{}, fmt.Errorf("child windows: %w", platform.ErrUnsupported)
	}
	mon := h.monitor()
	mx, my := mon.GetPos()
	vm := mon.GetVideoMode()
	return platform.Rect{X: mx, Y: my, Width: vm.Width, Height: vm.Height}, nil
}

func (h *Host) SetStyle(s platform.Style) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.SetAttrib(glfw.Decorated, glfwBool(s.Decorated))
	win.SetAttrib(glfw.Resizable, glfwBool(s.Resizable))
	return nil
}

func (h *Host) SetTitle(title string) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.SetTitle(title)
	return nil
}

func (h *Host) Minimize() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.Iconify()
	return nil
}

func (h *Host) Restore() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.Restore()
	return nil
}

func (h *Host) Focus() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.Focus()
	return nil
}

// SetLevel maps LevelAbove to a floating window. GLFW has no way to keep a
// window below the others.
func (h *Host) SetLevel(l platform.Level) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.SetAttrib(glfw.Floating, glfwBool(l == platform.LevelAbove))
	if l == platform.LevelBelow {
		return fmt.Errorf("level %s: %w", l, platform.ErrUnsupported)
	}
	return nil
}

func (h *Host) SetParent(parent platform.WindowID) error {
	if parent != 0 {
		return fmt.Errorf("child windows: %w", platform.ErrUnsupported)
	}
	return nil
}

// SetFullscreenState is a no-op: SetMode already moved the window onto the
// monitor.
func (h *Host) SetFullscreenState(on bool) error {
	_, err := h.window()
	return err
}

func (h *Host) SetCursorVisible(visible bool) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	if visible {
		win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	}
	return nil
}

func (h *Host) PointerInside() (bool, error) {
	win, err := h.window()
	if err != nil {
		return false, err
	}
	return win.GetAttrib(glfw.Hovered) == glfw.True, nil
}

func (h *Host) MakeCurrent() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.MakeContextCurrent()
	return nil
}

// UpdateContext resizes the viewport to the framebuffer, which differs from
// the window size on scaled displays.
func (h *Host) UpdateContext(width, height int) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	fbw, fbh := win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	return nil
}

func (h *Host) SwapBuffers() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.SwapBuffers()
	return nil
}

func (h *Host) PollEvents(sink platform.EventSink) error {
	for _, e := range h.pending {
		sink(e)
	}
	h.pending = nil

	h.sink = sink
	glfw.PollEvents()
	h.sink = nil
	return nil
}

func (h *Host) emit(e events.Event) {
	if h.sink != nil {
		h.sink(e)
		return
	}
	h.pending = append(h.pending, e)
}

func (h *Host) Close() error {
	if h.win != nil {
		if err := h.DestroyWindow(); err != nil {
			return err
		}
	}
	glfw.Terminate()
	return nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// ClearFrame clears the back buffer of the current context to black.
func ClearFrame() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
