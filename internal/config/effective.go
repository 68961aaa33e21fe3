package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig lays raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.FrameRate != nil {
		cfg.FrameRate = *raw.FrameRate
	}
	if raw.IPCTimeoutMS != nil {
		cfg.IPCTimeoutMS = *raw.IPCTimeoutMS
	}
	if raw.Window != nil {
		cfg.Window = mergeRequest(cfg.Window, *raw.Window)
	}
	if h := raw.Hotkeys; h != nil {
		if h.ToggleFullscreen != nil {
			cfg.Hotkeys.ToggleFullscreen = *h.ToggleFullscreen
		}
		if h.ToggleCursor != nil {
			cfg.Hotkeys.ToggleCursor = *h.ToggleCursor
		}
		if h.CycleZOrder != nil {
			cfg.Hotkeys.CycleZOrder = *h.CycleZOrder
		}
	}
	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = *l.Level
		}
		if l.File != nil {
			cfg.Logging.File = *l.File
		}
		cfg.Logging.MaxSizeMB = derefInt(l.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxBackups = derefInt(l.MaxBackups, cfg.Logging.MaxBackups)
		cfg.Logging.MaxAgeDays = derefInt(l.MaxAgeDays, cfg.Logging.MaxAgeDays)
	}
	return cfg
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
