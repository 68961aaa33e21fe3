// Package events defines the engine-neutral shapes native window callbacks
// are translated into.
package events

// Event is a native window notification after translation. Hosts produce
// them; the window consumes them on its own thread.
type Event interface {
	isEvent()
}

// Moved reports a new window origin in engine (top-left) coordinates.
type Moved struct{ X, Y int }

// Resized reports a new content size.
type Resized struct{ Width, Height int }

// MinimizedChanged reports the window being minimized or restored.
type MinimizedChanged struct{ Minimized bool }

// FocusChanged reports keyboard focus gain or loss.
type FocusChanged struct{ Focused bool }

// CloseRequested is sent when the user asks the window manager to close the
// window. The window decides whether the close proceeds.
type CloseRequested struct{}

// Closed is sent once the native window has gone away.
type Closed struct{}

// PointerEntered and PointerLeft track the pointer crossing the window edge.
type PointerEntered struct{ X, Y int }
type PointerLeft struct{}

// Key is a key press or release. Name is the engine key name ("a", "f1",
// "escape"); Mods is the modifier state reported with the event.
type Key struct {
	Name string
	Down bool
	Mods Modifiers
}

// MouseButton is a press or release of a pointer button (1 = primary).
type MouseButton struct {
	Button int
	Down   bool
	X, Y   int
	Mods   Modifiers
}

// MouseMoved is a pointer motion inside the window.
type MouseMoved struct{ X, Y int }

// Wheel is a scroll. Positive DY scrolls up, positive DX scrolls right.
type Wheel struct{ DX, DY float64 }

// ModifiersChanged carries the complete modifier state after a change.
type ModifiersChanged struct{ Mods Modifiers }

func (Moved) isEvent()            {}
func (Resized) isEvent()          {}
func (MinimizedChanged) isEvent() {}
func (FocusChanged) isEvent()     {}
func (CloseRequested) isEvent()   {}
func (Closed) isEvent()           {}
func (PointerEntered) isEvent()   {}
func (PointerLeft) isEvent()      {}
func (Key) isEvent()              {}
func (MouseButton) isEvent()      {}
func (MouseMoved) isEvent()       {}
func (Wheel) isEvent()            {}
func (ModifiersChanged) isEvent() {}
