package x11

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Host is the X11 implementation of platform.Host. Window calls come from
// the window thread; X events arrive on the xevent loop goroutine and are
// queued until PollEvents.
type Host struct {
	conn   *Connection
	logger *slog.Logger

	win    *xwindow.Window
	parent xproto.Window
	ctx    *glContext
	style  platform.Style
	width  int
	height int
	// crtc pins display mode changes to the monitor the window was on when
	// the first mode operation happened.
	crtc randr.Crtc

	atoms struct {
		wmProtocols    xproto.Atom
		wmDeleteWindow xproto.Atom
		wmState        xproto.Atom
	}

	mu            sync.Mutex
	pending       []events.Event
	geometryDirty bool
	stateDirty    bool
}

var _ platform.Host = (*Host)(nil)

// NewHost connects to display ("" means $DISPLAY) and starts the X event
// loop.
func NewHost(display string, logger *slog.Logger) (*Host, error) {
	conn, err := NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	h := &Host{conn: conn, logger: logger}

	for name, dst := range map[string]*xproto.Atom{
		"WM_PROTOCOLS":     &h.atoms.wmProtocols,
		"WM_DELETE_WINDOW": &h.atoms.wmDeleteWindow,
		"WM_STATE":         &h.atoms.wmState,
	} {
		if *dst, err = conn.atom(name); err != nil {
			conn.Close()
			return nil, err
		}
	}

	go conn.EventLoop()
	return h, nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (h *Host) XUtil() *xgbutil.XUtil {
	return h.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (h *Host) RootWindow() xproto.Window {
	return h.conn.Root
}

func (h *Host) Name() string            { return "x11" }
func (h *Host) Origin() platform.Origin { return platform.TopLeft }

func (h *Host) CreateWindow(spec platform.WindowSpec) (platform.WindowID, error) {
	if h.win != nil {
		return 0, fmt.Errorf("x11 host already has window %d", h.win.Id)
	}
	xu := h.conn.XUtil

	parent := xproto.Window(spec.Parent)
	x, y := spec.Bounds.X, spec.Bounds.Y
	if parent == 0 {
		mon, err := h.conn.monitorForWindow(0)
		if err != nil {
			return 0, err
		}
		x += mon.X
		y += mon.Y
	}

	win, err := xwindow.Generate(xu)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}
	err = win.CreateChecked(h.containerWindow(parent), x, y, spec.Bounds.Width, spec.Bounds.Height,
		xproto.CwBackPixel|xproto.CwEventMask, 0, windowEventMask)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	ctx, err := newGLContext(h.conn)
	if err != nil {
		win.Destroy()
		return 0, err
	}

	h.win = win
	h.ctx = ctx
	h.parent = parent
	h.width, h.height = spec.Bounds.Width, spec.Bounds.Height
	h.style = spec.Style

	if err := icccm.WmProtocolsSet(xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		h.logger.Warn("x11: failed to set WM_PROTOCOLS", "error", err)
	}
	if err := icccm.WmClassSet(xu, win.Id, &icccm.WmClass{Instance: "glwindow", Class: "glwindow"}); err != nil {
		h.logger.Warn("x11: failed to set WM_CLASS", "error", err)
	}
	if err := h.SetTitle(spec.Title); err != nil {
		h.logger.Warn("x11: failed to set title", "error", err)
	}
	if err := h.applyStyle(); err != nil {
		h.logger.Warn("x11: failed to set window style", "error", err)
	}

	h.connectEvents(win.Id)
	win.Map()
	h.logger.Debug("x11: window created", "window", win.Id, "parent", parent)
	return platform.WindowID(win.Id), nil
}

func (h *Host) DestroyWindow() error {
	if h.win == nil {
		return platform.ErrNoWindow
	}
	if err := h.ctx.destroy(); err != nil {
		h.logger.Warn("x11: failed to destroy glx context", "error", err)
	}
	// Destroy also detaches the window's event handlers, so our own destroy
	// does not come back as a Closed event.
	h.win.Destroy()
	h.win = nil
	h.ctx = nil

	h.mu.Lock()
	h.pending = nil
	h.geometryDirty, h.stateDirty = false, false
	h.mu.Unlock()
	return nil
}

func (h *Host) window() (*xwindow.Window, error) {
	if h.win == nil {
		return nil, platform.ErrNoWindow
	}
	return h.win, nil
}

func (h *Host) containerWindow(parent xproto.Window) xproto.Window {
	if parent == 0 {
		return h.conn.Root
	}
	return parent
}

// Frame returns the decorated window rect relative to its container: the
// parent window, or the monitor the window is on.
func (h *Host) Frame() (platform.Rect, error) {
	win, err := h.window()
	if err != nil {
		return platform.Rect{}, err
	}
	geom, err := xproto.GetGeometry(h.conn.XUtil.Conn(), xproto.Drawable(win.Id)).Reply()
	if err != nil {
		return platform.Rect{}, fmt.Errorf("failed to get geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(
		h.conn.XUtil.Conn(),
		win.Id,
		h.containerWindow(h.parent),
		0, 0,
	).Reply()
	if err != nil {
		return platform.Rect{}, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	content := platform.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
	var extents *ewmh.FrameExtents
	if h.parent == 0 {
		mon, err := h.monitor()
		if err != nil {
			return platform.Rect{}, err
		}
		content.X -= mon.X
		content.Y -= mon.Y
		// No frame extents available means no decorations.
		extents, _ = ewmh.FrameExtentsGet(h.conn.XUtil, win.Id)
	}
	return frameRect(content, extents), nil
}

// frameRect grows a content rect by the window manager's decorations.
func frameRect(content platform.Rect, extents *ewmh.FrameExtents) platform.Rect {
	if extents == nil {
		return content
	}
	return platform.Rect{
		X:      content.X - extents.Left,
		Y:      content.Y - extents.Top,
		Width:  content.Width + extents.Left + extents.Right,
		Height: content.Height + extents.Top + extents.Bottom,
	}
}

func (h *Host) SetContentSize(width, height int) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	h.width, h.height = width, height
	if !h.style.Resizable {
		// Fixed-size windows carry their size in the normal hints.
		if err := icccm.WmNormalHintsSet(h.conn.XUtil, win.Id, normalHints(h.style, width, height)); err != nil {
			return fmt.Errorf("failed to update size hints: %w", err)
		}
	}
	win.Resize(width, height)
	return nil
}

// SetFrameOrigin moves the decorated window. Top-level windows go through
// the window manager and fall back to a direct move.
func (h *Host) SetFrameOrigin(x, y int) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	if h.parent != 0 {
		win.Move(x, y)
		return nil
	}

	mon, err := h.monitor()
	if err != nil {
		return err
	}
	if err := ewmh.MoveWindow(h.conn.XUtil, win.Id, mon.X+x, mon.Y+y); err != nil {
		win.Move(mon.X+x, mon.Y+y)
	}
	return nil
}

func (h *Host) ContainerBounds(parent platform.WindowID) (platform.Rect, error) {
	if parent != 0 {
		geom, err := xproto.GetGeometry(h.conn.XUtil.Conn(), xproto.Drawable(parent)).Reply()
		if err != nil {
			return platform.Rect{}, fmt.Errorf("failed to get parent geometry: %w", err)
		}
		return platform.Rect{Width: int(geom.Width), Height: int(geom.Height)}, nil
	}
	mon, err := h.monitor()
	if err != nil {
		return platform.Rect{}, err
	}
	return platform.Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

func (h *Host) SetStyle(s platform.Style) error {
	if _, err := h.window(); err != nil {
		return err
	}
	h.style = s
	return h.applyStyle()
}

func (h *Host) applyStyle() error {
	xu := h.conn.XUtil
	if err := motif.WmHintsSet(xu, h.win.Id, motifHints(h.style)); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	if err := icccm.WmNormalHintsSet(xu, h.win.Id, normalHints(h.style, h.width, h.height)); err != nil {
		return fmt.Errorf("failed to set size hints: %w", err)
	}
	return nil
}

func (h *Host) SetTitle(title string) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	if err := ewmh.WmNameSet(h.conn.XUtil, win.Id, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	return icccm.WmNameSet(h.conn.XUtil, win.Id, title)
}

func (h *Host) Minimize() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	return h.conn.iconify(win.Id)
}

func (h *Host) Restore() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	win.Map()
	return h.conn.activate(win.Id)
}

func (h *Host) Focus() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	return h.conn.activate(win.Id)
}

func (h *Host) SetLevel(l platform.Level) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	const above, below = "_NET_WM_STATE_ABOVE", "_NET_WM_STATE_BELOW"
	switch l {
	case platform.LevelAbove:
		if err := h.conn.setWMState(win.Id, false, below, ""); err != nil {
			return err
		}
		return h.conn.setWMState(win.Id, true, above, "")
	case platform.LevelBelow:
		if err := h.conn.setWMState(win.Id, false, above, ""); err != nil {
			return err
		}
		return h.conn.setWMState(win.Id, true, below, "")
	default:
		return h.conn.setWMState(win.Id, false, above, below)
	}
}

func (h *Host) SetParent(parent platform.WindowID) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	target := h.containerWindow(xproto.Window(parent))
	if err := xproto.ReparentWindowChecked(h.conn.XUtil.Conn(), win.Id, target, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to reparent window: %w", err)
	}
	h.parent = xproto.Window(parent)
	return nil
}

func (h *Host) SetFullscreenState(on bool) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	return h.conn.setWMState(win.Id, on, "_NET_WM_STATE_FULLSCREEN", "")
}

func (h *Host) SetCursorVisible(visible bool) error {
	win, err := h.window()
	if err != nil {
		return err
	}
	if visible {
		return xfixes.ShowCursorChecked(h.conn.XUtil.Conn(), win.Id).Check()
	}
	return xfixes.HideCursorChecked(h.conn.XUtil.Conn(), win.Id).Check()
}

func (h *Host) PointerInside() (bool, error) {
	win, err := h.window()
	if err != nil {
		return false, err
	}
	pointer, err := xproto.QueryPointer(h.conn.XUtil.Conn(), win.Id).Reply()
	if err != nil {
		return false, fmt.Errorf("failed to query pointer: %w", err)
	}
	if !pointer.SameScreen {
		return false, nil
	}
	bounds := platform.Rect{Width: h.width, Height: h.height}
	return bounds.Contains(int(pointer.WinX), int(pointer.WinY)), nil
}

// monitor returns the monitor display modes are switched on.
func (h *Host) monitor() (Monitor, error) {
	if h.crtc != 0 {
		monitors, err := h.conn.GetMonitors()
		if err != nil {
			return Monitor{}, err
		}
		for _, mon := range monitors {
			if mon.Crtc == h.crtc {
				return mon, nil
			}
		}
	}
	var id xproto.Window
	if h.win != nil {
		id = h.win.Id
	}
	mon, err := h.conn.monitorForWindow(id)
	if err != nil {
		return Monitor{}, err
	}
	h.crtc = mon.Crtc
	return mon, nil
}

func (h *Host) DisplayModes() ([]displaymode.Mode, error) {
	mon, err := h.monitor()
	if err != nil {
		return nil, err
	}
	return h.conn.DisplayModes(mon)
}

func (h *Host) CurrentMode() (displaymode.Mode, error) {
	mon, err := h.monitor()
	if err != nil {
		return displaymode.Mode{}, err
	}
	return h.conn.CurrentMode(mon)
}

func (h *Host) SetMode(m displaymode.Mode) error {
	mon, err := h.monitor()
	if err != nil {
		return err
	}
	if err := h.conn.SetMode(mon, m); err != nil {
		return err
	}
	h.logger.Info("x11: display mode set", "monitor", mon.Name, "mode", m.String())
	return nil
}

func (h *Host) MakeCurrent() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	return h.ctx.makeCurrent(win.Id)
}

// UpdateContext is a no-op: indirect GLX contexts track their drawable.
func (h *Host) UpdateContext(width, height int) error {
	_, err := h.window()
	return err
}

func (h *Host) SwapBuffers() error {
	win, err := h.window()
	if err != nil {
		return err
	}
	return h.ctx.swap(win.Id)
}

func (h *Host) queue(e events.Event) {
	h.mu.Lock()
	h.pending = append(h.pending, e)
	h.mu.Unlock()
}

func (h *Host) markGeometry() {
	h.mu.Lock()
	h.geometryDirty = true
	h.mu.Unlock()
}

func (h *Host) markState() {
	h.mu.Lock()
	h.stateDirty = true
	h.mu.Unlock()
}

// PollEvents hands the events queued by the X event loop to sink. Position
// and minimized changes are read back from the server here, on the window
// thread.
func (h *Host) PollEvents(sink platform.EventSink) error {
	h.mu.Lock()
	pending := h.pending
	geometryDirty, stateDirty := h.geometryDirty, h.stateDirty
	h.pending = nil
	h.geometryDirty, h.stateDirty = false, false
	h.mu.Unlock()

	for _, e := range pending {
		sink(e)
	}
	if h.win == nil {
		return nil
	}

	if geometryDirty {
		frame, err := h.Frame()
		if err != nil {
			return err
		}
		sink(events.Moved{X: frame.X, Y: frame.Y})
	}
	if stateDirty {
		state, err := icccm.WmStateGet(h.conn.XUtil, h.win.Id)
		if err != nil {
			return fmt.Errorf("failed to read WM_STATE: %w", err)
		}
		sink(events.MinimizedChanged{Minimized: state.State == icccm.StateIconic})
	}
	return nil
}

func (h *Host) Close() error {
	if h.win != nil {
		if err := h.DestroyWindow(); err != nil {
			return err
		}
	}
	h.conn.Close()
	return nil
}
