package daemon

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/1broseidon/glwindow/internal/ipc"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/window"
)

var _ ipc.Handler = (*Daemon)(nil)

// SetProperties applies req right away and reports the fields left over.
func (d *Daemon) SetProperties(ctx context.Context, req props.Request) (ipc.SetPropertiesData, error) {
	p, err := req.Properties()
	if err != nil {
		return ipc.SetPropertiesData{}, err
	}

	out := ipc.SetPropertiesData{Rejected: []string{}}
	err = d.Do(ctx, func(w *window.Window) {
		w.SetPropertiesNow(&p)
		if p.IsAny() {
			out.Rejected = p.Fields()
		}
	})
	return out, err
}

func (d *Daemon) State(ctx context.Context) (ipc.StateData, error) {
	var out ipc.StateData
	err := d.Do(ctx, func(w *window.Window) {
		out.Window = w.State()
		if s, ok := w.Session(); ok {
			out.FullscreenMode = &s.Active
			out.WindowedMode = &s.Windowed
		}
	})
	return out, err
}

func (d *Daemon) Modes(ctx context.Context) (ipc.ModesData, error) {
	var out ipc.ModesData
	var modesErr error
	err := d.Do(ctx, func(w *window.Window) {
		modes, err := w.DisplayModes()
		if err != nil {
			modesErr = fmt.Errorf("failed to list display modes: %w", err)
			return
		}
		current, err := w.CurrentMode()
		if err != nil {
			modesErr = fmt.Errorf("failed to get current display mode: %w", err)
			return
		}
		out = ipc.ModesData{Modes: modes, Current: current}
	})
	if err != nil {
		return ipc.ModesData{}, err
	}
	return out, modesErr
}

// Status does not touch the window thread.
func (d *Daemon) Status(ctx context.Context) (ipc.StatusData, error) {
	return ipc.StatusData{
		Backend:       d.cfg.Backend,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(d.start).Seconds()),
		Frames:        d.frames.Load(),
		FrameRate:     int(time.Second / d.cfg.FrameInterval),
		WindowOpen:    d.open.Load(),
		DaemonRunning: true,
	}, nil
}

// Reload re-reads the window properties and queues them for the next frame.
func (d *Daemon) Reload(ctx context.Context) error {
	if d.cfg.Reload == nil {
		return fmt.Errorf("reload is not configured")
	}
	p, err := d.cfg.Reload()
	if err != nil {
		return err
	}
	return d.Do(ctx, func(w *window.Window) {
		w.RequestProperties(p)
	})
}

// Close closes the window and ends the frame loop.
func (d *Daemon) Close(ctx context.Context) error {
	var closeErr error
	err := d.Do(ctx, func(w *window.Window) {
		closeErr = w.Close()
	})
	if err != nil {
		return err
	}
	d.Stop()
	return closeErr
}
