package config

import (
	"fmt"

	"github.com/1broseidon/glwindow/internal/props"
	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawHotkeys struct {
	ToggleFullscreen *string `yaml:"toggle_fullscreen"`
	ToggleCursor     *string `yaml:"toggle_cursor"`
	CycleZOrder      *string `yaml:"cycle_z_order"`
}

type RawLogging struct {
	Level      *string `yaml:"level"`
	File       *string `yaml:"file"`
	MaxSizeMB  *int    `yaml:"max_size_mb"`
	MaxBackups *int    `yaml:"max_backups"`
	MaxAgeDays *int    `yaml:"max_age_days"`
}

// RawConfig is one config file as written. Nil fields were not set by the
// file and fall through to includes and then to the defaults.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Backend      *string `yaml:"backend"`
	Display      *string `yaml:"display"`
	XAuthority   *string `yaml:"xauthority"`
	FrameRate    *int    `yaml:"frame_rate"`
	IPCTimeoutMS *int    `yaml:"ipc_timeout_ms"`

	Window  *props.Request `yaml:"window"`
	Hotkeys *RawHotkeys    `yaml:"hotkeys"`
	Logging *RawLogging    `yaml:"logging"`
}

// merge returns r overlaid with the fields other sets.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil
	setIf(&out.Backend, other.Backend)
	setIf(&out.Display, other.Display)
	setIf(&out.XAuthority, other.XAuthority)
	setIf(&out.FrameRate, other.FrameRate)
	setIf(&out.IPCTimeoutMS, other.IPCTimeoutMS)

	if other.Window != nil {
		w := props.Request{}
		if r.Window != nil {
			w = *r.Window
		}
		w = mergeRequest(w, *other.Window)
		out.Window = &w
	}
	if other.Hotkeys != nil {
		h := RawHotkeys{}
		if r.Hotkeys != nil {
			h = *r.Hotkeys
		}
		setIf(&h.ToggleFullscreen, other.Hotkeys.ToggleFullscreen)
		setIf(&h.ToggleCursor, other.Hotkeys.ToggleCursor)
		setIf(&h.CycleZOrder, other.Hotkeys.CycleZOrder)
		out.Hotkeys = &h
	}
	if other.Logging != nil {
		l := RawLogging{}
		if r.Logging != nil {
			l = *r.Logging
		}
		setIf(&l.Level, other.Logging.Level)
		setIf(&l.File, other.Logging.File)
		setIf(&l.MaxSizeMB, other.Logging.MaxSizeMB)
		setIf(&l.MaxBackups, other.Logging.MaxBackups)
		setIf(&l.MaxAgeDays, other.Logging.MaxAgeDays)
		out.Logging = &l
	}
	return out
}

func mergeRequest(base, overlay props.Request) props.Request {
	setIf(&base.Origin, overlay.Origin)
	setIf(&base.Size, overlay.Size)
	setIf(&base.Fullscreen, overlay.Fullscreen)
	setIf(&base.Minimized, overlay.Minimized)
	setIf(&base.Foreground, overlay.Foreground)
	setIf(&base.Undecorated, overlay.Undecorated)
	setIf(&base.FixedSize, overlay.FixedSize)
	setIf(&base.CursorHidden, overlay.CursorHidden)
	setIf(&base.Title, overlay.Title)
	setIf(&base.Parent, overlay.Parent)
	if overlay.ZOrder != "" {
		base.ZOrder = overlay.ZOrder
	}
	return base
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
