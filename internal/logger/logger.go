package logger

import (
	"os"
	"strings"

	"github.com/samvad-hq/samvad-hn-harvester/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface the runtime components depend on.
// Each call logs obj as a single field named key.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, interface{})  {}
func (*NopLogger) DebugObj(string, string, interface{}) {}
func (*NopLogger) WarnObj(string, string, interface{})  {}
func (*NopLogger) ErrorObj(string, string, interface{}) {}

// S is the process-wide sugared logger, nil until Init.
var S *zap.SugaredLogger

// Init builds the JSON stdout logger, tags every entry with the app name and
// environment, and installs it as S.
func Init(cfg *config.Config) (Logger, error) {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(os.Stdout),
		ParseLevel(cfg.LogLevel),
	)

	base := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("app", cfg.AppName), zap.String("env", cfg.Env)),
	)
	S = base.Sugar()
	return New(base), nil
}

// New wraps an existing zap logger.
func New(l *zap.Logger) Logger {
	if l == nil {
		return &NopLogger{}
	}
	return &zapLogger{l: l}
}

// ParseLevel maps a config string onto a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	if name == "" || lvl.UnmarshalText([]byte(name)) != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc
}

// Close flushes S.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) InfoObj(msg, key string, obj interface{})  { z.l.Info(msg, zap.Any(key, obj)) }
func (z *zapLogger) DebugObj(msg, key string, obj interface{}) { z.l.Debug(msg, zap.Any(key, obj)) }
func (z *zapLogger) WarnObj(msg, key string, obj interface{})  { z.l.Warn(msg, zap.Any(key, obj)) }
func (z *zapLogger) ErrorObj(msg, key string, obj interface{}) { z.l.Error(msg, zap.Any(key, obj)) }

// global returns a Logger over S, or a no-op one before Init.
func global() Logger {
	if S == nil {
		return &NopLogger{}
	}
	return New(S.Desugar().WithOptions(zap.AddCallerSkip(2)))
}

// InfoObj logs through S; a no-op before Init.
func InfoObj(msg, key string, obj interface{}) { global().InfoObj(msg, key, obj) }

// DebugObj logs through S; a no-op before Init.
func DebugObj(msg, key string, obj interface{}) { global().DebugObj(msg, key, obj) }

// WarnObj logs through S; a no-op before Init.
func WarnObj(msg, key string, obj interface{}) { global().WarnObj(msg, key, obj) }

// ErrorObj logs through S; a no-op before Init.
func ErrorObj(msg, key string, obj interface{}) { global().ErrorObj(msg, key, obj) }
