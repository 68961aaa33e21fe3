package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"
)

// glContext is an indirect GLX rendering context bound to one window.
// Indirect contexts resize with their drawable, so there is nothing to do
// when the window size changes.
type glContext struct {
	conn *Connection
	id   glx.Context
	tag  glx.ContextTag
}

func newGLContext(conn *Connection) (*glContext, error) {
	id, err := glx.NewContextId(conn.XUtil.Conn())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate glx context id: %w", err)
	}
	screen := conn.XUtil.Screen()
	err = glx.CreateContextChecked(
		conn.XUtil.Conn(),
		id,
		screen.RootVisual,
		uint32(conn.XUtil.Conn().DefaultScreen),
		0,
		false,
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create glx context: %w", err)
	}
	return &glContext{conn: conn, id: id}, nil
}

func (g *glContext) makeCurrent(window xproto.Window) error {
	reply, err := glx.MakeCurrent(g.conn.XUtil.Conn(), glx.Drawable(window), g.id, g.tag).Reply()
	if err != nil {
		return fmt.Errorf("glx make current failed: %w", err)
	}
	g.tag = reply.ContextTag
	return nil
}

func (g *glContext) swap(window xproto.Window) error {
	if g.tag == 0 {
		return fmt.Errorf("glx context is not current")
	}
	return glx.SwapBuffersChecked(g.conn.XUtil.Conn(), g.tag, glx.Drawable(window)).Check()
}

func (g *glContext) destroy() error {
	return glx.DestroyContextChecked(g.conn.XUtil.Conn(), g.id).Check()
}
