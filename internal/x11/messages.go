package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Source indication for EWMH requests: a normal application.
const sourceApplication = 1

// _NET_WM_STATE actions.
const (
	wmStateRemove = 0
	wmStateAdd    = 1
)

// ICCCM WM_CHANGE_STATE argument.
const iconicState = 3

// sendRootMessage sends a 32-bit client message about window to the root
// window, where the window manager picks it up.
//
// We build the message manually because the xgbutil ewmh request helpers
// panic on this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(window xproto.Window, atomName string, data ...uint32) error {
	atom, err := c.atom(atomName)
	if err != nil {
		return err
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// setWMState adds or removes up to two _NET_WM_STATE atoms on window.
func (c *Connection) setWMState(window xproto.Window, add bool, first, second string) error {
	action := uint32(wmStateRemove)
	if add {
		action = wmStateAdd
	}
	a1, err := c.atom(first)
	if err != nil {
		return err
	}
	var a2 xproto.Atom
	if second != "" {
		if a2, err = c.atom(second); err != nil {
			return err
		}
	}
	return c.sendRootMessage(window, "_NET_WM_STATE", action, uint32(a1), uint32(a2), sourceApplication)
}

// activate asks the window manager to raise and focus window.
func (c *Connection) activate(window xproto.Window) error {
	return c.sendRootMessage(window, "_NET_ACTIVE_WINDOW", sourceApplication, 0, 0)
}

// iconify asks the window manager to minimize window.
func (c *Connection) iconify(window xproto.Window) error {
	return c.sendRootMessage(window, "WM_CHANGE_STATE", iconicState)
}
