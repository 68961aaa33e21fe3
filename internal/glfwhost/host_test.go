package glfwhost

import (
	"testing"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestModeFromVidMode(t *testing.T) {
	got := modeFromVidMode(3, &glfw.VidMode{Width: 1280, Height: 720, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60})
	want := displaymode.Mode{ID: 3, Width: 1280, Height: 720, RefreshMilliHz: 60000, Depth: 24}
	if got != want {
		t.Fatalf("modeFromVidMode()=%+v, want %+v", got, want)
	}
}

func TestRefreshHz(t *testing.T) {
	tests := []struct {
		milliHz int
		want    int
	}{
		{60000, 60},
		{59940, 60},
		{74973, 75},
		{0, glfw.DontCare},
	}
	for _, tt := range tests {
		if got := refreshHz(displaymode.Mode{RefreshMilliHz: tt.milliHz}); got != tt.want {
			t.Fatalf("refreshHz(%d)=%d, want %d", tt.milliHz, got, tt.want)
		}
	}
}

func TestModifiers(t *testing.T) {
	got := modifiers(glfw.ModShift | glfw.ModSuper | glfw.ModCapsLock)
	if want := events.ModShift | events.ModMeta | events.ModCapsLock; got != want {
		t.Fatalf("modifiers()=%v, want %v", got, want)
	}
}

func TestKeyModifiers(t *testing.T) {
	tests := []struct {
		name   string
		key    glfw.Key
		action glfw.Action
		mods   glfw.ModifierKey
		want   events.Modifiers
	}{
		{"plain key keeps state", glfw.KeyA, glfw.Press, glfw.ModControl, events.ModControl},
		{"shift press folds in", glfw.KeyLeftShift, glfw.Press, 0, events.ModShift},
		{"alt release folds out", glfw.KeyRightAlt, glfw.Release, glfw.ModAlt | glfw.ModShift, events.ModShift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyModifiers(tt.key, tt.action, tt.mods); got != tt.want {
				t.Fatalf("keyModifiers()=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestGLFWBool(t *testing.T) {
	if glfwBool(true) != glfw.True || glfwBool(false) != glfw.False {
		t.Fatalf("glfwBool mapping is wrong")
	}
}
