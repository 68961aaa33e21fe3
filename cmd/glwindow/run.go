package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/1broseidon/glwindow/internal/config"
	"github.com/1broseidon/glwindow/internal/daemon"
	"github.com/1broseidon/glwindow/internal/events"
	"github.com/1broseidon/glwindow/internal/glfwhost"
	"github.com/1broseidon/glwindow/internal/hotkeys"
	"github.com/1broseidon/glwindow/internal/ipc"
	"github.com/1broseidon/glwindow/internal/logging"
	"github.com/1broseidon/glwindow/internal/platform"
	"github.com/1broseidon/glwindow/internal/props"
	"github.com/1broseidon/glwindow/internal/runtimepath"
	"github.com/1broseidon/glwindow/internal/window"
	"github.com/1broseidon/glwindow/internal/x11"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/glwindow/config.yaml)")
	backend := fs.String("backend", "", "Windowing backend: x11 or glfw (overrides config)")
	display := fs.String("display", "", "X display to connect to (overrides config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glwindow run [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the window and serve IPC requests until it is closed.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}
	cfg := res.Config
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *display != "" {
		cfg.Display = *display
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid config: %v", err)
		return 1
	}

	logger := logging.New(cfg.Logging)
	defer logger.Close()
	for _, f := range res.Files {
		logger.Debug("config: loaded", "file", f)
	}

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	if cfg.Backend == config.BackendGLFW && cfg.Display != "" {
		// GLFW only reads the display name from the environment.
		os.Setenv("DISPLAY", cfg.Display)
	}

	initial, err := cfg.Properties()
	if err != nil {
		log.Printf("Invalid window properties: %v", err)
		return 1
	}

	var d *daemon.Daemon
	dc := daemonConfig(cfg, *configPath, initial, logger)
	dc.Ready = func(host platform.Host) {
		registerHotkeys(host, d, cfg.Hotkeys, logger.Logger)
	}
	d = daemon.New(dc, hostFactory(cfg, logger))

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Printf("Failed to resolve socket path: %v", err)
		return 1
	}
	timeout := time.Duration(cfg.IPCTimeoutMS) * time.Millisecond
	srv := ipc.NewServer(socketPath, d, timeout, logger.Logger)
	if err := srv.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer srv.Stop()

	if pidPath, err := runtimepath.PIDPath(); err == nil {
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0600); err != nil {
			logger.Warn("daemon: failed to write pid file", "path", pidPath, "error", err)
		} else {
			defer os.Remove(pidPath)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		log.Printf("Daemon failed: %v", err)
		return 1
	}
	return 0
}

func hostFactory(cfg *config.Config, logger *logging.Logger) daemon.HostFactory {
	return func() (platform.Host, error) {
		if cfg.Backend == config.BackendGLFW {
			h, err := glfwhost.NewHost(logger.Logger)
			if err != nil {
				return nil, err
			}
			return h, nil
		}
		h, err := x11.NewHost(cfg.Display, logger.Logger)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
}

func daemonConfig(cfg *config.Config, configPath string, initial props.Properties, logger *logging.Logger) daemon.Config {
	dc := daemon.Config{
		Backend:       cfg.Backend,
		FrameInterval: time.Second / time.Duration(cfg.FrameRate),
		Logger:        logger.Logger,
		Initial:       initial,
		Reload: func() (props.Properties, error) {
			res, err := loadConfig(configPath)
			if err != nil {
				return props.Properties{}, err
			}
			return res.Config.Properties()
		},
		Input: func(in events.Input) {
			logger.Debug("input: event", "kind", in.Kind.String(), "button", in.Button, "x", in.X, "y", in.Y)
		},
	}
	if cfg.Backend == config.BackendGLFW {
		dc.Render = func(window.State, uint64) { glfwhost.ClearFrame() }
	}
	return dc
}

// registerHotkeys binds the configured shortcuts once the window is open.
func registerHotkeys(host platform.Host, poster hotkeys.Poster, cfg config.Hotkeys, logger *slog.Logger) {
	h, err := hotkeys.NewHandler(host, poster, logger)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			logger.Info("hotkeys: disabled", "reason", err)
			return
		}
		logger.Warn("hotkeys: failed to initialize", "error", err)
		return
	}
	if err := h.RegisterConfig(cfg); err != nil {
		logger.Warn("hotkeys: failed to register", "error", err)
	}
}
