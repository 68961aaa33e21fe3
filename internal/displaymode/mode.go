package displaymode

import (
	"errors"
	"fmt"
)

// ErrNoMatchingMode is returned when no supported mode fits a requested size.
var ErrNoMatchingMode = errors.New("no matching display mode")

// Mode is a hardware video mode.
type Mode struct {
	// ID is the native handle of the mode. It is not used for matching.
	ID uint32 `json:"id" yaml:"id"`

	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	// RefreshMilliHz is the refresh rate in millihertz (59940 for 59.94Hz).
	RefreshMilliHz int `json:"refresh_millihz" yaml:"refresh_millihz"`
	// Depth is the pixel encoding expressed as bits per pixel.
	Depth int `json:"depth" yaml:"depth"`
}

// Same reports whether two modes describe the same video timing, ignoring
// the native handle.
func (m Mode) Same(o Mode) bool {
	return m.Width == o.Width && m.Height == o.Height &&
		m.RefreshMilliHz == o.RefreshMilliHz && m.Depth == o.Depth
}

// String returns e.g. "1920x1080@59.94Hz/24bpp".
func (m Mode) String() string {
	hz := m.RefreshMilliHz / 1000
	frac := m.RefreshMilliHz % 1000
	rate := fmt.Sprintf("%d", hz)
	if frac != 0 {
		rate = fmt.Sprintf("%d.%02d", hz, frac/10)
	}
	return fmt.Sprintf("%dx%d@%sHz/%dbpp", m.Width, m.Height, rate, m.Depth)
}

// Find picks the mode to use for a fullscreen window of width x height.
// The current mode wins if it already has the requested size; otherwise the
// first supported mode with the requested size and the current mode's
// refresh rate and depth is returned.
func Find(modes []Mode, current Mode, width, height int) (Mode, error) {
	if current.Width == width && current.Height == height {
		return current, nil
	}
	for _, m := range modes {
		if m.Width == width && m.Height == height &&
			m.RefreshMilliHz == current.RefreshMilliHz && m.Depth == current.Depth {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("%w for %dx%d at %s", ErrNoMatchingMode, width, height, current)
}

// RefreshFromTimings computes a refresh rate in millihertz from a pixel
// clock in Hz and the total horizontal and vertical timings.
func RefreshFromTimings(dotClock uint32, hTotal, vTotal uint16) int {
	if hTotal == 0 || vTotal == 0 {
		return 0
	}
	return int(uint64(dotClock) * 1000 / (uint64(hTotal) * uint64(vTotal)))
}
