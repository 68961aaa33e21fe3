package x11

import (
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

// motifHints maps a window style to _MOTIF_WM_HINTS. Window managers that
// ignore Motif hints keep their own decorations.
func motifHints(s platform.Style) *motif.Hints {
	hints := &motif.Hints{Flags: motif.HintDecorations | motif.HintFunctions}
	switch {
	case !s.Decorated:
		hints.Decoration = motif.DecorationNone
		hints.Function = motif.FunctionMove | motif.FunctionMinimize | motif.FunctionClose
	case !s.Resizable:
		hints.Decoration = motif.DecorationBorder | motif.DecorationTitle | motif.DecorationMenu | motif.DecorationMinimize
		hints.Function = motif.FunctionMove | motif.FunctionMinimize | motif.FunctionClose
	default:
		hints.Decoration = motif.DecorationAll
		hints.Function = motif.FunctionAll
	}
	return hints
}

// normalHints pins the size of windows that are not resizable.
func normalHints(s platform.Style, width, height int) *icccm.NormalHints {
	if s.Resizable {
		return &icccm.NormalHints{}
	}
	return &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(width),
		MinHeight: uint(height),
		MaxWidth:  uint(width),
		MaxHeight: uint(height),
	}
}
