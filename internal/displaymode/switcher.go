package displaymode

import "fmt"

// Setter is the native side of a display-mode switch.
type Setter interface {
	CurrentMode() (Mode, error)
	SetMode(Mode) error
}

// Session records the mode that was active before fullscreen was entered
// and the fullscreen mode that is active now.
type Session struct {
	Windowed Mode
	Active   Mode
}

// Switcher moves a display between its windowed mode and a fullscreen mode.
// It holds at most one Session; a nil session means the Windowed state.
type Switcher struct {
	setter  Setter
	session *Session
}

// NewSwitcher creates a switcher in the Windowed state.
func NewSwitcher(setter Setter) *Switcher {
	return &Switcher{setter: setter}
}

// Fullscreen reports whether a fullscreen session is live.
func (s *Switcher) Fullscreen() bool {
	return s.session != nil
}

// Session returns a copy of the live session, if any.
func (s *Switcher) Session() (Session, bool) {
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

// Enter switches the display to m.
//
// Requesting the mode that is already active is a no-op. Switching from one
// fullscreen mode to another restores the windowed mode first and keeps the
// originally saved windowed mode in the new session. On failure the switcher
// stays in the state it was in when the failing native call was issued.
func (s *Switcher) Enter(m Mode) error {
	if s.session != nil {
		if s.session.Active.Same(m) {
			return nil
		}
		windowed := s.session.Windowed
		if err := s.Exit(); err != nil {
			return err
		}
		return s.enter(windowed, m)
	}

	current, err := s.setter.CurrentMode()
	if err != nil {
		return fmt.Errorf("failed to read current display mode: %w", err)
	}
	return s.enter(current, m)
}

func (s *Switcher) enter(windowed, m Mode) error {
	if err := s.setter.SetMode(m); err != nil {
		return fmt.Errorf("failed to set display mode %s: %w", m, err)
	}
	s.session = &Session{Windowed: windowed, Active: m}
	return nil
}

// Exit restores the saved windowed mode and discards the session. It is a
// no-op when no session is live.
func (s *Switcher) Exit() error {
	if s.session == nil {
		return nil
	}
	if err := s.setter.SetMode(s.session.Windowed); err != nil {
		return fmt.Errorf("failed to restore display mode %s: %w", s.session.Windowed, err)
	}
	s.session = nil
	return nil
}
