package log

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestHelpersAttachContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("userId", "u-alice")
		Audit(c, "color.patch", map[string]any{"color_id": "c1"})
		Security(c, "access.denied.store", nil)
		Error(c, "color.delete", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)

	audit := entries[0]
	assert.Equal(t, "color.patch", audit.Message)
	assert.Equal(t, zapcore.InfoLevel, audit.Level)
	ctx := audit.ContextMap()
	assert.Equal(t, "audit", ctx["kind"])
	assert.Equal(t, "/x", ctx["path"])
	assert.Equal(t, "u-alice", ctx["user_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestNilContextIsAllowed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Info(nil, "seed.users", map[string]any{"n": 1})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "info", logs.All()[0].ContextMap()["kind"])
}

func TestNewWithFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storeadmin.log")
	l, err := New("production", path)
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestFileSinkKeepsModeOptions(t *testing.T) {
	dir := t.TempDir()

	dev, err := New("development", filepath.Join(dir, "dev.log"))
	require.NoError(t, err)
	assert.Panics(t, func() { dev.DPanic("dev.dpanic") })

	prod, err := New("production", filepath.Join(dir, "prod.log"))
	require.NoError(t, err)
	assert.NotPanics(t, func() { prod.DPanic("prod.dpanic") })
}
