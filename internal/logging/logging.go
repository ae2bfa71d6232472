// Package logging builds the zap logger. The terminal belongs to the TUI, so
// logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a config level name onto zap; unknown names are info.
func ParseLevel(name string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New writes JSON entries at level and above to w.
func New(w io.Writer, level string) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// Open appends to the log file at path, creating its directory. The returned
// close func syncs and closes the file.
func Open(path, level string) (*zap.Logger, func() error, error) {
	if path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	log := New(f, level)
	return log, func() error {
		_ = log.Sync()
		return f.Close()
	}, nil
}
