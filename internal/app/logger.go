package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dori/weektodo/internal/config"
)

// NewLogger builds the application logger. The TUI owns the terminal, so
// interactive runs write JSON lines to the log file; commands write to
// stderr through a console writer.
func NewLogger(cfg config.LogConfig, interactive bool) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log.level %q: %w", cfg.Level, err)
	}
	zerolog.TimestampFieldName = "timestamp"

	if !interactive {
		w := zerolog.NewConsoleWriter()
		w.TimeFormat = time.DateTime
		w.Out = os.Stderr
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, f, nil
}
