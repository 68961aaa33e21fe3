package x11

import (
	"strings"

	"github.com/1broseidon/glwindow/internal/events"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const windowEventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskPropertyChange

// connectEvents registers the window's callbacks with the xevent loop. The
// callbacks run on the event loop goroutine and only queue events.
func (h *Host) connectEvents(window xproto.Window) {
	xu := h.conn.XUtil

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		h.queue(events.Resized{Width: int(ev.Width), Height: int(ev.Height)})
		h.markGeometry()
	}).Connect(xu, window)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == h.atoms.wmState {
			h.markState()
		}
	}).Connect(xu, window)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			h.queue(events.FocusChanged{Focused: true})
		}
	}).Connect(xu, window)

	xevent.FocusOutFun(func(xu *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			h.queue(events.FocusChanged{Focused: false})
		}
	}).Connect(xu, window)

	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			h.queue(events.PointerEntered{X: int(ev.EventX), Y: int(ev.EventY)})
		}
	}).Connect(xu, window)

	xevent.LeaveNotifyFun(func(xu *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		if ev.Mode == xproto.NotifyModeNormal {
			h.queue(events.PointerLeft{})
		}
	}).Connect(xu, window)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.queue(keyEvent(keybind.LookupString(xu, ev.State, ev.Detail), true, ev.State))
	}).Connect(xu, window)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		h.queue(keyEvent(keybind.LookupString(xu, ev.State, ev.Detail), false, ev.State))
	}).Connect(xu, window)

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if e := buttonEvent(ev.Detail, true, int(ev.EventX), int(ev.EventY), ev.State); e != nil {
			h.queue(e)
		}
	}).Connect(xu, window)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if e := buttonEvent(ev.Detail, false, int(ev.EventX), int(ev.EventY), ev.State); e != nil {
			h.queue(e)
		}
	}).Connect(xu, window)

	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		h.queue(events.MouseMoved{X: int(ev.EventX), Y: int(ev.EventY)})
	}).Connect(xu, window)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Type == h.atoms.wmProtocols && len(ev.Data.Data32) > 0 &&
			xproto.Atom(ev.Data.Data32[0]) == h.atoms.wmDeleteWindow {
			h.queue(events.CloseRequested{})
		}
	}).Connect(xu, window)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window == window {
			h.queue(events.Closed{})
		}
	}).Connect(xu, window)
}

// modifiersFromState converts a core protocol key/button state mask.
func modifiersFromState(state uint16) events.Modifiers {
	var mods events.Modifiers
	if state&xproto.ModMaskShift != 0 {
		mods |= events.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= events.ModControl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= events.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= events.ModMeta
	}
	if state&xproto.ModMaskLock != 0 {
		mods |= events.ModCapsLock
	}
	return mods
}

// buttonEvent converts a core button event. Buttons 4 to 7 are the scroll
// wheel; only their presses are reported, as one wheel step.
func buttonEvent(detail xproto.Button, down bool, x, y int, state uint16) events.Event {
	var dx, dy float64
	switch detail {
	case 4:
		dy = 1
	case 5:
		dy = -1
	case 6:
		dx = -1
	case 7:
		dx = 1
	default:
		return events.MouseButton{
			Button: int(detail),
			Down:   down,
			X:      x,
			Y:      y,
			Mods:   modifiersFromState(state),
		}
	}
	if !down {
		return nil
	}
	return events.Wheel{DX: dx, DY: dy}
}

// keyEvent converts a key press or release. The core protocol reports the
// modifier state from before the event, so a modifier key's own transition
// is folded in and reaches the engine through the modifier diff only.
func keyEvent(keysym string, down bool, state uint16) events.Key {
	mods := modifiersFromState(state)
	if mod, ok := modifierKeysyms[keysym]; ok {
		if down {
			return events.Key{Mods: mods | mod}
		}
		return events.Key{Mods: mods &^ mod}
	}
	// "Return" -> "return", "A" -> "a"
	return events.Key{Name: strings.ToLower(keysym), Down: down, Mods: mods}
}

var modifierKeysyms = map[string]events.Modifiers{
	"Shift_L":   events.ModShift,
	"Shift_R":   events.ModShift,
	"Control_L": events.ModControl,
	"Control_R": events.ModControl,
	"Alt_L":     events.ModAlt,
	"Alt_R":     events.ModAlt,
	"Super_L":   events.ModMeta,
	"Super_R":   events.ModMeta,
	"Caps_Lock": events.ModCapsLock,
}
