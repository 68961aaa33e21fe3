// Package daemon runs the window thread: it owns the native host and the
// window, draws frames on a ticker and serializes every outside request
// onto that thread.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/window"
)

// ErrStopped is returned for commands posted after the window thread ended.
var ErrStopped = errors.New("daemon is not running")

// HostFactory creates the native host. It is called on the window thread.
type HostFactory func() (platform.Host, error)

// Config holds configuration for the daemon.
type Config struct {
	Backend       string
	FrameInterval time.Duration
	Logger        *slog.Logger
	// Initial is the property set the window is opened with.
	Initial props.Properties
	// Reload re-reads the window properties for RELOAD.
	Reload func() (props.Properties, error)
	// Ready is called on the window thread once the window is open.
	Ready func(host platform.Host)
	// Render draws one frame between BeginFrame and EndFrame.
	Render func(state window.State, frame uint64)
	// Input receives engine input.
	Input func(events.Input)
}

// Daemon drives one window from a dedicated OS thread.
type Daemon struct {
	cfg      Config
	logger   *slog.Logger
	newHost  HostFactory
	commands chan func(*window.Window)

	host  platform.Host
	win   *window.Window
	start time.Time

	frames   atomic.Uint64
	open     atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a daemon. Nothing native happens until Run.
func New(cfg Config, newHost HostFactory) *Daemon {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 60
	}
	return &Daemon{
		cfg:      cfg,
		logger:   cfg.Logger,
		newHost:  newHost,
		commands: make(chan func(*window.Window), 16),
		start:    time.Now(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run opens the window and runs the frame loop. Blocks until ctx is
// cancelled, the window is closed or Stop is called.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.done)

	// Native windowing and GL contexts are bound to the thread that made them.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	host, err := d.newHost()
	if err != nil {
		return fmt.Errorf("failed to create %s host: %w", d.cfg.Backend, err)
	}
	d.host = host
	defer func() {
		if err := host.Close(); err != nil {
			d.logger.Warn("daemon: failed to close host", "error", err)
		}
	}()

	d.win = window.New(host, window.Config{
		Logger:   d.logger,
		OnChange: d.stateChanged,
		Input:    d.cfg.Input,
	})
	if err := d.win.Open(d.cfg.Initial); err != nil {
		return err
	}
	defer d.win.Close()
	d.open.Store(true)

	if d.cfg.Ready != nil {
		d.cfg.Ready(host)
	}

	ticker := time.NewTicker(d.cfg.FrameInterval)
	defer ticker.Stop()

	d.logger.Info("daemon: started", "backend", d.cfg.Backend, "frame_interval", d.cfg.FrameInterval)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon: stopped", "reason", ctx.Err())
			return nil
		case <-d.stop:
			d.logger.Info("daemon: stopped")
			return nil
		case fn := <-d.commands:
			d.runCommand(fn)
		case <-ticker.C:
			d.frame()
		}
		if !d.win.State().Open {
			d.logger.Info("daemon: window closed")
			return nil
		}
	}
}

// frame processes pending events and requests and draws one frame.
func (d *Daemon) frame() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("daemon: frame panic recovered", "error", err)
		}
	}()

	d.win.ProcessEvents()
	if rejected := d.win.RejectedProperties(); rejected.IsAny() {
		d.logger.Warn("daemon: requested properties rejected", "fields", rejected.Fields())
	}

	if !d.win.BeginFrame() {
		return
	}
	defer d.win.EndFrame()
	n := d.frames.Add(1)
	if d.cfg.Render != nil {
		d.cfg.Render(d.win.State(), n)
	}
}

func (d *Daemon) runCommand(fn func(*window.Window)) {
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("daemon: command panic recovered", "error", err)
		}
	}()
	fn(d.win)
}

func (d *Daemon) stateChanged(s window.State) {
	d.open.Store(s.Open)
	d.logger.Debug("daemon: window state changed",
		"open", s.Open,
		"origin", fmt.Sprintf("%d,%d", s.Origin.X, s.Origin.Y),
		"size", fmt.Sprintf("%dx%d", s.Size.Width, s.Size.Height),
		"fullscreen", s.Fullscreen,
		"minimized", s.Minimized)
}

// Post queues fn to run on the window thread without waiting for it. It is
// safe to call from any goroutine; it reports false if the queue is full or
// the daemon has stopped.
func (d *Daemon) Post(fn func(*window.Window)) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.commands <- fn:
		return true
	default:
		d.logger.Warn("daemon: command queue full, dropping command")
		return false
	}
}

// Do runs fn on the window thread and waits for it to finish. If ctx ends
// before the window thread picks fn up, fn is skipped and ctx's error is
// returned; once fn has started, Do waits for it.
func (d *Daemon) Do(ctx context.Context, fn func(*window.Window)) error {
	const (
		queued int32 = iota
		running
		abandoned
	)
	var phase atomic.Int32
	finished := make(chan struct{})
	wrapped := func(w *window.Window) {
		defer close(finished)
		if !phase.CompareAndSwap(queued, running) {
			return
		}
		fn(w)
	}

	select {
	case d.commands <- wrapped:
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-d.done:
		// The command may have been what ended the loop.
		if phase.CompareAndSwap(queued, abandoned) {
			return ErrStopped
		}
		<-finished
		return nil
	case <-ctx.Done():
		if phase.CompareAndSwap(queued, abandoned) {
			return ctx.Err()
		}
		<-finished
		return nil
	}
}

// Stop ends the frame loop. The window is closed on the window thread.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Done is closed when Run returns.
func (d *Daemon) Done() <-chan struct{} {
	return d.done
}
