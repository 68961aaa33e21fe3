package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/glwindow/internal/props"
	"gopkg.in/yaml.v3"
)

const (
	BackendX11  = "x11"
	BackendGLFW = "glfw"
)

// Config represents the glwindow configuration
type Config struct {
	Backend    string `yaml:"backend"`
	Display    string `yaml:"display"`
	XAuthority string `yaml:"xauthority"`

	// FrameRate is the number of frames the daemon draws per second.
	FrameRate int `yaml:"frame_rate"`
	// IPCTimeoutMS bounds how long the IPC server waits for the window
	// thread to answer a command.
	IPCTimeoutMS int `yaml:"ipc_timeout_ms"`

	// Window holds the properties the window is opened with.
	Window props.Request `yaml:"window"`

	Hotkeys Hotkeys `yaml:"hotkeys"`
	Logging Logging `yaml:"logging"`
}

// Hotkeys are global key bindings in xgbutil keybind syntax (Mod4-Mod1-f).
// An empty binding is not registered.
type Hotkeys struct {
	ToggleFullscreen string `yaml:"toggle_fullscreen"`
	ToggleCursor     string `yaml:"toggle_cursor"`
	CycleZOrder      string `yaml:"cycle_z_order"`
}

// Logging configures the daemon logger.
type Logging struct {
	Level string `yaml:"level"`
	// File switches to JSON logs in a rotating file.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	title := "glwindow"
	return &Config{
		Backend:      BackendX11,
		FrameRate:    60,
		IPCTimeoutMS: 2000,
		Window: props.Request{
			Title: &title,
			Size:  &props.Size{Width: 800, Height: 600},
		},
		Hotkeys: Hotkeys{
			ToggleFullscreen: "Mod4-Mod1-f",
			ToggleCursor:     "Mod4-Mod1-c",
			CycleZOrder:      "Mod4-Mod1-z",
		},
		Logging: Logging{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Properties returns the initial window properties.
func (c *Config) Properties() (props.Properties, error) {
	return c.Window.Properties()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendX11, BackendGLFW:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: %s, %s", BackendX11, BackendGLFW)}
	}
	if c.FrameRate < 1 || c.FrameRate > 1000 {
		return &ValidationError{Path: "frame_rate", Err: fmt.Errorf("frame_rate must be between 1 and 1000")}
	}
	if c.IPCTimeoutMS < 1 {
		return &ValidationError{Path: "ipc_timeout_ms", Err: fmt.Errorf("ipc_timeout_ms must be > 0")}
	}
	if err := validateWindow(c.Window); err != nil {
		return err
	}
	for path, binding := range map[string]string{
		"hotkeys.toggle_fullscreen": c.Hotkeys.ToggleFullscreen,
		"hotkeys.toggle_cursor":     c.Hotkeys.ToggleCursor,
		"hotkeys.cycle_z_order":     c.Hotkeys.CycleZOrder,
	} {
		if binding != "" && strings.TrimSpace(binding) != binding {
			return &ValidationError{Path: path, Err: fmt.Errorf("hotkey must not have surrounding whitespace")}
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("logging.max_size_mb must be >= 0")}
	}
	if c.Logging.MaxBackups < 0 {
		return &ValidationError{Path: "logging.max_backups", Err: fmt.Errorf("logging.max_backups must be >= 0")}
	}
	if c.Logging.MaxAgeDays < 0 {
		return &ValidationError{Path: "logging.max_age_days", Err: fmt.Errorf("logging.max_age_days must be >= 0")}
	}
	return nil
}

func validateWindow(w props.Request) error {
	if w.Size != nil && (w.Size.Width <= 0 || w.Size.Height <= 0) {
		return &ValidationError{Path: "window.size", Err: fmt.Errorf("window.size must be positive")}
	}
	if w.ZOrder != "" {
		if _, err := props.ParseZOrder(w.ZOrder); err != nil {
			return &ValidationError{Path: "window.z_order", Err: err}
		}
	}
	if w.Minimized != nil && *w.Minimized && w.Fullscreen != nil && *w.Fullscreen {
		return &ValidationError{Path: "window.minimized", Err: fmt.Errorf("a fullscreen window cannot start minimized")}
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
