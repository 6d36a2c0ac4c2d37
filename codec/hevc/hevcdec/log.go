package hevcdec

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logger is the package's debug/warn sink. It defaults to a no-op logger so
// that importing this package never forces logging output; callers that
// want visibility into WPP save/load and tile resets call
// SetLogger with a configured *zap.Logger, optionally backed by a
// lumberjack.Logger for rotation.
var logger = zap.NewNop().Sugar()

// SetLogger installs l as the package-wide debug/warn sink. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

// RotatingLogConfig configures NewRotatingLogger's lumberjack-backed sink.
type RotatingLogConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingLogger builds a *zap.Logger whose core writes JSON-encoded
// entries through a lumberjack.Logger, so long-running decode sessions (e.g.
// a tile-parallel batch job) can log context-reinit and WPP save/load events
// to a size-rotated file instead of growing one unbounded log.
func NewRotatingLogger(cfg RotatingLogConfig) *zap.Logger {
	sink := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(sink), zap.DebugLevel)
	return zap.New(core)
}
