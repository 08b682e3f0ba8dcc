package log

import (
	"os"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// New builds the process logger. Production mode writes JSON to stdout,
// development mode writes console lines. A non-empty file adds a rotating JSON sink.
func New(mode, file string) (*zap.Logger, error) {
	var zc zap.Config
	if mode == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if file == "" {
		return zc.Build()
	}

	var stdoutEnc zapcore.Encoder
	if mode == "production" {
		stdoutEnc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		stdoutEnc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	tee := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotating), zc.Level),
		zapcore.NewCore(stdoutEnc, zapcore.AddSync(os.Stdout), zc.Level),
	)
	// WrapCore swaps the sinks and keeps the options of the chosen mode.
	return zc.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core { return tee }))
}

// SetLogger replaces the logger used by the request helpers and returns the previous one.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return current.Swap(l)
}

// L returns the process logger for code that has no request context.
func L() *zap.Logger { return current.Load() }

func requestFields(c *fiber.Ctx, kind string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, 8)
	out = append(out, zap.String("kind", kind))
	if c != nil {
		out = append(out,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			out = append(out, zap.String("req_id", rid))
		}
		if uid, ok := c.Locals("userId").(string); ok && uid != "" {
			out = append(out, zap.String("user_id", uid))
		}
	}
	if len(fields) > 0 {
		out = append(out, zap.Any("fields", fields))
	}
	return out
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, requestFields(c, "info", fields)...)
}

// Audit records a successful state change.
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	L().Info(action, requestFields(c, "audit", fields)...)
}

// Security records denied or suspicious requests.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	L().Warn(action, requestFields(c, "security", fields)...)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	L().Error(action, append(requestFields(c, "error", fields), zap.Error(err))...)
}
