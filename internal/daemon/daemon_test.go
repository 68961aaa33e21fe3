package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/window"
)

var (
	modeDesktop = displaymode.Mode{ID: 1, Width: 1920, Height: 1080, RefreshMilliHz: 60000, Depth: 24}
	modeVGA     = displaymode.Mode{ID: 2, Width: 640, Height: 480, RefreshMilliHz: 60000, Depth: 24}
)

// stubHost is a minimal native side. It is only touched from the window
// thread while Run is active.
type stubHost struct {
	frame   platform.Rect
	current displaymode.Mode
	title   string
	pending []events.Event

	destroyed bool
	closed    bool
	swaps     int
}

func newStubHost() *stubHost { return &stubHost{current: modeDesktop} }

func (h *stubHost) Name() string { return "stub" }
func (h *stubHost) Origin() platform.Origin { return platform.TopLeft }

func (h *stubHost) CreateWindow(spec platform.WindowSpec) (platform.WindowID, error) {
	h.frame = spec.Bounds
	h.title = spec.Title
	return 1, nil
}

func (h *stubHost) DestroyWindow() error { h.destroyed = true; return nil }
func (h *stubHost) Frame() (platform.Rect, error) { return h.frame, nil }
func (h *stubHost) SetContentSize(width, height int) error {
	h.frame.Width, h.frame.Height = width, height
	return nil
}
func (h *stubHost) SetFrameOrigin(x, y int) error { h.frame.X, h.frame.Y = x, y; return nil }
func (h *stubHost) ContainerBounds(platform.WindowID) (platform.Rect, error) {
	return platform.Rect{Width: modeDesktop.Width, Height: modeDesktop.Height}, nil
}
func (h *stubHost) SetStyle(platform.Style) error { return nil }
func (h *stubHost) SetTitle(title string) error { h.title = title; return nil }
func (h *stubHost) Minimize() error { return nil }
func (h *stubHost) Restore() error { return nil }
func (h *stubHost) Focus() error { return nil }
func (h *stubHost) SetLevel(platform.Level) error { return nil }
func (h *stubHost) SetParent(platform.WindowID) error { return nil }
func (h *stubHost) SetFullscreenState(bool) error { return nil }
func (h *stubHost) SetCursorVisible(bool) error { return nil }
func (h *stubHost) PointerInside() (bool, error) { return false, nil }
func (h *stubHost) DisplayModes() ([]displaymode.Mode, error) {
	return []displaymode.Mode{modeDesktop, modeVGA}, nil
}
func (h *stubHost) CurrentMode() (displaymode.Mode, error) { return h.current, nil }
func (h *stubHost) SetMode(m displaymode.Mode) error { h.current = m; return nil }
func (h *stubHost) MakeCurrent() error { return nil }
func (h *stubHost) UpdateContext(width, height int) error { return nil }
func (h *stubHost) SwapBuffers() error { h.swaps++; return nil }
func (h *stubHost) Close() error { h.closed = true; return nil }

func (h *stubHost) PollEvents(sink platform.EventSink) error {
	for _, e := range h.pending {
		sink(e)
	}
	h.pending = nil
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startDaemon(t *testing.T, cfg Config, host *stubHost) (*Daemon, chan error) {
	t.Helper()
	cfg.Logger = testLogger()
	cfg.Backend = "stub"
	if cfg.FrameInterval == 0 {
		cfg.FrameInterval = time.Millisecond
	}
	d := New(cfg, func() (platform.Host, error) { return host, nil })
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background()) }()
	t.Cleanup(func() {
		d.Stop()
		<-d.Done()
	})
	return d, errCh
}

func waitRun(t *testing.T, errCh chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return")
		return nil
	}
}

func TestDaemon_SetPropertiesAndState(t *testing.T) {
	host := newStubHost()
	var initial props.Properties
	initial.SetTitle("first")
	d, errCh := startDaemon(t, Config{Initial: initial}, host)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	title := "second"
	on := true
	got, err := d.SetProperties(ctx, props.Request{Title: &title, Fullscreen: &on, Size: &props.Size{Width: 640, Height: 480}})
	if err != nil {
		t.Fatalf("SetProperties: %v", err)
	}
	if len(got.Rejected) != 0 {
		t.Fatalf("expected everything applied, rejected %v", got.Rejected)
	}

	state, err := d.State(ctx)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Window.Title != "second" || !state.Window.Fullscreen {
		t.Fatalf("unexpected state %+v", state.Window)
	}
	if state.FullscreenMode == nil || !state.FullscreenMode.Same(modeVGA) {
		t.Fatalf("expected VGA session, got %v", state.FullscreenMode)
	}
	if state.WindowedMode == nil || !state.WindowedMode.Same(modeDesktop) {
		t.Fatalf("expected desktop windowed mode, got %v", state.WindowedMode)
	}

	modes, err := d.Modes(ctx)
	if err != nil {
		t.Fatalf("Modes: %v", err)
	}
	if len(modes.Modes) != 2 || !modes.Current.Same(modeVGA) {
		t.Fatalf("unexpected modes %+v", modes)
	}

	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !host.destroyed || !host.closed {
		t.Fatalf("expected window destroyed and host closed")
	}
	if !host.current.Same(modeDesktop) {
		t.Fatalf("expected desktop mode restored, got %v", host.current)
	}
}

func TestDaemon_RejectedFieldsReported(t *testing.T) {
	host := newStubHost()
	var initial props.Properties
	initial.SetSize(modeVGA.Width, modeVGA.Height)
	d, _ := startDaemon(t, Config{Initial: initial}, host)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	minimized := true
	on := true
	first, err := d.SetProperties(ctx, props.Request{Fullscreen: &on})
	if err != nil {
		t.Fatalf("SetProperties: %v", err)
	}
	if len(first.Rejected) != 0 {
		t.Fatalf("expected fullscreen applied, rejected %v", first.Rejected)
	}
	got, err := d.SetProperties(ctx, props.Request{Minimized: &minimized})
	if err != nil {
		t.Fatalf("SetProperties: %v", err)
	}
	if len(got.Rejected) != 1 || got.Rejected[0] != "minimized" {
		t.Fatalf("expected [minimized] rejected, got %v", got.Rejected)
	}
}

func TestDaemon_FramesRender(t *testing.T) {
	host := newStubHost()
	var rendered atomic.Uint64
	d, _ := startDaemon(t, Config{
		Render: func(state window.State, frame uint64) { rendered.Store(frame) },
	}, host)

	deadline := time.Now().Add(5 * time.Second)
	for rendered.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("expected frames to render, got %d", rendered.Load())
		}
		time.Sleep(time.Millisecond)
	}

	status, err := d.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Frames < 3 || !status.WindowOpen || status.Backend != "stub" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestDaemon_TimedOutCommandIsSkipped(t *testing.T) {
	host := newStubHost()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	d, _ := startDaemon(t, Config{
		Render: func(window.State, uint64) {
			once.Do(func() {
				close(entered)
				<-release
			})
		},
	}, host)

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("frame never rendered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	title := "late"
	if _, err := d.SetProperties(ctx, props.Request{Title: &title}); !errors.Is(err, context.DeadlineExceeded) {
		close(release)
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)

	state, err := d.State(context.Background())
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Window.Title == "late" {
		t.Fatalf("timed out request was applied")
	}
}

func TestDaemon_UserCloseEndsLoop(t *testing.T) {
	host := newStubHost()
	host.pending = []events.Event{events.CloseRequested{}}
	d, errCh := startDaemon(t, Config{}, host)

	if err := waitRun(t, errCh); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !host.destroyed {
		t.Fatalf("expected window destroyed")
	}
	if _, err := d.State(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after close, got %v", err)
	}
	if d.Post(func(*window.Window) {}) {
		t.Fatalf("Post succeeded after stop")
	}
}

func TestDaemon_ReloadQueuesProperties(t *testing.T) {
	host := newStubHost()
	d, _ := startDaemon(t, Config{
		Reload: func() (props.Properties, error) {
			var p props.Properties
			p.SetTitle("reloaded")
			return p, nil
		},
	}, host)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		state, err := d.State(ctx)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if state.Window.Title == "reloaded" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("reloaded title never applied")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDaemon_HostFailure(t *testing.T) {
	d := New(Config{Logger: testLogger(), Backend: "stub"}, func() (platform.Host, error) {
		return nil, errors.New("no display")
	})
	if err := d.Run(context.Background()); err == nil {
		t.Fatalf("expected host error")
	}
	if err := d.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload without config to fail")
	}
	if _, err := d.State(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
