// Package logging builds the daemon's slog logger from config.
package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/1broseidon/glwindow/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a slog.Logger plus the file it writes to, if any.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New returns a text logger on stderr, or a JSON logger on a rotating file
// when cfg.File is set.
func New(cfg config.Logging) *Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}
	if cfg.File == "" {
		return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, opts))}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	l := &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts)), closer: w}

	attrs := []any{
		slog.String("goos", runtime.GOOS),
		slog.String("goarch", runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		attrs = append(attrs, slog.String("go_version", bi.GoVersion), slog.String("module", bi.Main.Path))
	}
	l.Info("logging: started", attrs...)
	return l
}

// Level maps a config level name to a slog level. Unknown names log at info.
func Level(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
