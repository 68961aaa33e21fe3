package hotkeys

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/window"
	"github.com/BurntSushi/xgb/xproto"
)

func TestToggleFullscreen(t *testing.T) {
	p := ToggleFullscreen(window.State{Fullscreen: true})
	if !p.HasFullscreen() || p.Fullscreen() {
		t.Fatalf("expected fullscreen=false request, got %s", p.String())
	}
	if fields := p.Fields(); len(fields) != 1 {
		t.Fatalf("expected a single field, got %v", fields)
	}
}

func TestToggleCursor(t *testing.T) {
	p := ToggleCursor(window.State{})
	if !p.HasCursorHidden() || !p.CursorHidden() {
		t.Fatalf("expected cursor_hidden=true request, got %s", p.String())
	}
}

func TestCycleZOrder(t *testing.T) {
	tests := []struct {
		from props.ZOrder
		want props.ZOrder
	}{
		{props.ZNormal, props.ZTop},
		{props.ZTop, props.ZBottom},
		{props.ZBottom, props.ZNormal},
	}
	for _, tt := range tests {
		p := CycleZOrder(window.State{ZOrder: tt.from})
		if !p.HasZOrder() || p.ZOrder() != tt.want {
			t.Fatalf("CycleZOrder(%s)=%s, want %s", tt.from, p.ZOrder(), tt.want)
		}
	}
}

func TestIgnoreMasks(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	numLock := uint16(xproto.ModMask2)

	got := ignoreMasks(caps, numLock, 0)
	want := []uint16{0, caps, numLock, caps | numLock}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ignoreMasks()=%v, want %v", got, want)
	}

	// A lock bound to the same mask as CapsLock is not counted twice.
	if got := ignoreMasks(caps, caps, 0); len(got) != 2 {
		t.Fatalf("expected 2 masks, got %v", got)
	}
}

type namedHost struct{ platform.Host }

func (namedHost) Name() string { return "glfw" }

func TestNewHandler_RequiresX11(t *testing.T) {
	_, err := NewHandler(namedHost{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
