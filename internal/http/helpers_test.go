package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storeadmin/internal/config"
	"storeadmin/internal/domain"
	apphttp "storeadmin/internal/http"
	"storeadmin/internal/http/handlers"
	applog "storeadmin/internal/log"
	"storeadmin/internal/repos"
	"storeadmin/internal/services"
)

const testSecret = "test-secret"

type testEnv struct {
	app   *fiber.App
	db    *sqlx.DB
	auth  *services.AuthService
	store *domain.Store // owned by u-alice
	color *domain.Color
	alice string
	bob   string
}

func newEnv(t *testing.T, limits apphttp.Limits) *testEnv {
	t.Helper()
	db, err := repos.OpenDB("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = repos.SeedUsers(ctx, db)
	require.NoError(t, err)

	cfg := config.Config{TemplatesDir: "../../web/templates", LogMode: "development"}
	auth := services.NewAuthService(repos.NewUserRepo(db), testSecret, "storeadmin", time.Hour)

	st, err := repos.NewStoreRepo(db).Create(ctx, "u-alice", "Loja da Alice")
	require.NoError(t, err)
	col, err := repos.NewColorRepo(db).Create(ctx, st.ID, "Blue", "#0000FF")
	require.NoError(t, err)

	alice, err := auth.Issue("u-alice")
	require.NoError(t, err)
	bob, err := auth.Issue("u-bob")
	require.NoError(t, err)

	return &testEnv{
		app:   apphttp.NewApp(cfg, db, auth, limits),
		db:    db,
		auth:  auth,
		store: st,
		color: col,
		alice: alice,
		bob:   bob,
	}
}

// observeLogs routes the request logger into an in-memory core for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(prev) })
	return logs
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

// api sends a JSON request wrapped in the {"values": ...} envelope when values is non-nil.
func (e *testEnv) api(t *testing.T, method, path, token string, values any) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if values != nil {
		b, err := json.Marshal(map[string]any{"values": values})
		require.NoError(t, err)
		body = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req)
}

func newPageRequest(t *testing.T, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: token})
	}
	return req
}

func newFormRequest(t *testing.T, path string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// page issues a browser GET carrying the session cookie.
func (e *testEnv) page(t *testing.T, path, token string) (*http.Response, string) {
	t.Helper()
	return e.do(t, newPageRequest(t, path, token))
}

// form fetches a csrf token from csrfFrom and posts form to path with it.
func (e *testEnv) form(t *testing.T, csrfFrom, path, token string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, _ := e.page(t, csrfFrom, token)
	csrfTok := cookie(resp, "csrf_")
	require.NotEmpty(t, csrfTok, "csrf cookie missing on %s", csrfFrom)

	form.Set("csrf", csrfTok)
	req := newFormRequest(t, path, form)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	if token != "" {
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: token})
	}
	return e.do(t, req)
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func actions(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}
