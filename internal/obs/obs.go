// Package obs provides structured logging for the loader using zap, in the
// same init-once style as galago's internal/log: a package-level logger
// that stub invocations, symbol resolutions, and relocation application can
// report to without threading a logger parameter through every call.
package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once sync.Once
	l    *zap.Logger
)

// Init configures the global logger. Safe to call multiple times; only the
// first call takes effect. Uninitialized use falls back to a no-op logger.
func Init(debug bool) {
	once.Do(func() {
		l = build(debug)
	})
}

func build(debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func logger() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Stub logs a stub invocation: the symbol name and what it did.
func Stub(name, detail string) {
	logger().Debug("stub", zap.String("fn", name), zap.String("detail", detail))
}

// Resolve logs a symbol resolution decision: which source supplied addr.
func Resolve(name, source string, addr uintptr) {
	logger().Debug("resolve", zap.String("fn", name), zap.String("source", source), zap.Uintptr("addr", addr))
}

// Reloc logs application of a single relocation entry.
func Reloc(arch string, kind uint32, offset uint64, value uint64) {
	logger().Debug("reloc",
		zap.String("arch", arch),
		zap.Uint32("kind", kind),
		zap.Uint64("offset", offset),
		zap.Uint64("value", value),
	)
}

// Fallback logs that the panicking default stub was invoked for name.
func Fallback(name string) {
	logger().Error("unresolved symbol invoked", zap.String("fn", name))
}
