package glfwhost

import (
	"fmt"

	"github.com/1broseidon/glwindow/internal/events"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func (h *Host) installCallbacks() {
	h.win.SetPosCallback(h.posChange)
	h.win.SetSizeCallback(h.sizeChange)
	h.win.SetIconifyCallback(h.iconifyChange)
	h.win.SetFocusCallback(h.focusChange)
	h.win.SetCloseCallback(h.closeRequest)
	h.win.SetCursorEnterCallback(h.cursorEnter)
	h.win.SetCursorPosCallback(h.cursorMove)
	h.win.SetMouseButtonCallback(h.mouseButtonChange)
	h.win.SetScrollCallback(h.mouseScrollChange)
	h.win.SetKeyCallback(h.keyChange)
}

func (h *Host) posChange(w *glfw.Window, x, y int) {
	frame, err := h.Frame()
	if err != nil {
		return
	}
	h.emit(events.Moved{X: frame.X, Y: frame.Y})
}

func (h *Host) sizeChange(w *glfw.Window, width, height int) {
	h.emit(events.Resized{Width: width, Height: height})
}

func (h *Host) iconifyChange(w *glfw.Window, iconified bool) {
	h.emit(events.MinimizedChanged{Minimized: iconified})
}

func (h *Host) focusChange(w *glfw.Window, focused bool) {
	h.emit(events.FocusChanged{Focused: focused})
}

// closeRequest vetoes the close natively; the window decides and destroys
// the native window itself when the close goes ahead.
func (h *Host) closeRequest(w *glfw.Window) {
	w.SetShouldClose(false)
	h.emit(events.CloseRequested{})
}

func (h *Host) cursorEnter(w *glfw.Window, entered bool) {
	if !entered {
		h.emit(events.PointerLeft{})
		return
	}
	x, y := w.GetCursorPos()
	h.emit(events.PointerEntered{X: int(x), Y: int(y)})
}

func (h *Host) cursorMove(w *glfw.Window, x, y float64) {
	h.emit(events.MouseMoved{X: int(x), Y: int(y)})
}

func (h *Host) mouseButtonChange(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Release {
		return
	}
	x, y := w.GetCursorPos()
	h.emit(events.MouseButton{
		// GLFW numbers buttons from 0.
		Button: int(button) + 1,
		Down:   action == glfw.Press,
		X:      int(x),
		Y:      int(y),
		Mods:   modifiers(mods),
	})
}

func (h *Host) mouseScrollChange(w *glfw.Window, x, y float64) {
	h.emit(events.Wheel{DX: x, DY: y})
}

func (h *Host) keyChange(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// Auto-repeat is not a new press.
	if action != glfw.Press && action != glfw.Release {
		return
	}
	state := keyModifiers(key, action, mods)
	if _, ok := modifierKeys[key]; ok {
		// Modifier keys reach the engine through the modifier diff.
		h.emit(events.Key{Mods: state})
		return
	}
	name, ok := namedKeys[key]
	if !ok {
		name = glfw.GetKeyName(key, scancode)
	}
	if name == "" {
		name = fmt.Sprintf("key%d", scancode)
	}
	h.emit(events.Key{Name: name, Down: action == glfw.Press, Mods: state})
}

func modifiers(mods glfw.ModifierKey) events.Modifiers {
	var out events.Modifiers
	if mods&glfw.ModShift != 0 {
		out |= events.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= events.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		out |= events.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= events.ModMeta
	}
	if mods&glfw.ModCapsLock != 0 {
		out |= events.ModCapsLock
	}
	return out
}

// keyModifiers returns the modifier state after the event. GLFW reports the
// state from before a modifier key itself went down or up.
func keyModifiers(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) events.Modifiers {
	out := modifiers(mods)
	mod, ok := modifierKeys[key]
	if !ok {
		return out
	}
	if action == glfw.Press {
		return out | mod
	}
	return out &^ mod
}

var modifierKeys = map[glfw.Key]events.Modifiers{
	glfw.KeyLeftShift:    events.ModShift,
	glfw.KeyRightShift:   events.ModShift,
	glfw.KeyLeftControl:  events.ModControl,
	glfw.KeyRightControl: events.ModControl,
	glfw.KeyLeftAlt:      events.ModAlt,
	glfw.KeyRightAlt:     events.ModAlt,
	glfw.KeyLeftSuper:    events.ModMeta,
	glfw.KeyRightSuper:   events.ModMeta,
}

// namedKeys covers the keys GetKeyName has no printable name for.
var namedKeys = map[glfw.Key]string{
	glfw.KeySpace:     "space",
	glfw.KeyEscape:    "escape",
	glfw.KeyEnter:     "enter",
	glfw.KeyTab:       "tab",
	glfw.KeyBackspace: "backspace",
	glfw.KeyInsert:    "insert",
	glfw.KeyDelete:    "delete",
	glfw.KeyRight:     "arrow_right",
	glfw.KeyLeft:      "arrow_left",
	glfw.KeyDown:      "arrow_down",
	glfw.KeyUp:        "arrow_up",
	glfw.KeyPageUp:    "page_up",
	glfw.KeyPageDown:  "page_down",
	glfw.KeyHome:      "home",
	glfw.KeyEnd:       "end",
	glfw.KeyF1:        "f1",
	glfw.KeyF2:        "f2",
	glfw.KeyF3:        "f3",
	glfw.KeyF4:        "f4",
	glfw.KeyF5:        "f5",
	glfw.KeyF6:        "f6",
	glfw.KeyF7:        "f7",
	glfw.KeyF8:        "f8",
	glfw.KeyF9:        "f9",
	glfw.KeyF10:       "f10",
	glfw.KeyF11:       "f11",
	glfw.KeyF12:       "f12",
}
