package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// global is read from the session loop, debounce timers and HTTP handlers
// at once, so every access goes through the atomic pointer.
var global atomic.Pointer[zap.Logger]

// Init initializes zap logger depending on the environment.
func Init(env string) {
	global.Store(build(env))
}

func build(env string) *zap.Logger {
	var cfg zap.Config

	switch env {
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.CallerKey = "caller"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		cfg.InitialFields = map[string]any{"service": "storefront"}
	case "test":
		return zap.NewNop()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		// stdout carries CLI output; keep logs on stderr
		cfg.OutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	return l
}

// L returns the global logger, initializing it from APP_ENV on first use.
// Concurrent first calls agree on a single logger.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, build(os.Getenv("APP_ENV")))
	return global.Load()
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := global.Swap(l)
	return func() { global.Store(prev) }
}

// Sync flushes logs.
func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}
