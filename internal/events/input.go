package events

import "fmt"

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModMeta
	ModCapsLock
)

var modifierButtons = []struct {
	mod  Modifiers
	name string
}{
	{ModShift, "shift"},
	{ModControl, "control"},
	{ModAlt, "alt"},
	{ModMeta, "meta"},
	{ModCapsLock, "caps_lock"},
}

// InputKind distinguishes the engine input shapes.
type InputKind int

const (
	ButtonDown InputKind = iota
	ButtonUp
	PointerMove
)

// String returns the string representation of the input kind
func (k InputKind) String() string {
	switch k {
	case ButtonDown:
		return "button-down"
	case ButtonUp:
		return "button-up"
	case PointerMove:
		return "pointer-move"
	default:
		return "unknown"
	}
}

// Input is what the engine's input layer receives: a named button going
// down or up, or a pointer position.
type Input struct {
	Kind   InputKind
	Button string
	X, Y   int
}

// Translator turns native input events into engine input. It remembers the
// last modifier state so that changes can be reported as button transitions.
type Translator struct {
	mods Modifiers
}

// Modifiers returns the last modifier state seen.
func (t *Translator) Modifiers() Modifiers {
	return t.mods
}

// Translate converts one event. Non-input events yield nothing.
func (t *Translator) Translate(e Event) []Input {
	switch ev := e.(type) {
	case Key:
		out := t.diffModifiers(ev.Mods)
		if ev.Name == "" {
			return out
		}
		return append(out, Input{Kind: buttonKind(ev.Down), Button: ev.Name})
	case MouseButton:
		out := t.diffModifiers(ev.Mods)
		return append(out,
			Input{Kind: PointerMove, X: ev.X, Y: ev.Y},
			Input{Kind: buttonKind(ev.Down), Button: MouseButtonName(ev.Button)},
		)
	case MouseMoved:
		return []Input{{Kind: PointerMove, X: ev.X, Y: ev.Y}}
	case PointerEntered:
		return []Input{{Kind: PointerMove, X: ev.X, Y: ev.Y}}
	case ModifiersChanged:
		return t.diffModifiers(ev.Mods)
	case Wheel:
		return WheelButtons(ev.DX, ev.DY)
	case FocusChanged:
		// Keys released while unfocused never reach us.
		if !ev.Focused {
			return t.diffModifiers(0)
		}
	}
	return nil
}

func (t *Translator) diffModifiers(mods Modifiers) []Input {
	changed := t.mods ^ mods
	if changed == 0 {
		return nil
	}
	var out []Input
	for _, mb := range modifierButtons {
		if changed&mb.mod == 0 {
			continue
		}
		out = append(out, Input{Kind: buttonKind(mods&mb.mod != 0), Button: mb.name})
	}
	t.mods = mods
	return out
}

// WheelButtons maps a scroll delta to momentary wheel button presses. The
// vertical direction is taken from dy and the horizontal one from dx.
func WheelButtons(dx, dy float64) []Input {
	var names []string
	switch {
	case dy > 0:
		names = append(names, "wheel_up")
	case dy < 0:
		names = append(names, "wheel_down")
	}
	switch {
	case dx < 0:
		names = append(names, "wheel_left")
	case dx > 0:
		names = append(names, "wheel_right")
	}

	out := make([]Input, 0, 2*len(names))
	for _, n := range names {
		out = append(out,
			Input{Kind: ButtonDown, Button: n},
			Input{Kind: ButtonUp, Button: n},
		)
	}
	return out
}

// MouseButtonName returns the engine name of pointer button n.
func MouseButtonName(n int) string {
	return fmt.Sprintf("mouse%d", n)
}

func buttonKind(down bool) InputKind {
	if down {
		return ButtonDown
	}
	return ButtonUp
}
