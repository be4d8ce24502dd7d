package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/config"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/storage"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/viewcache"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/web/handler"
)

const tenantAcme = `{"id":7,"name":"Acme","code":"acme","type":"standard","status":"active"}`

type testEnv struct {
	svc      *Service
	backend  *storage.Memory
	views    *viewcache.Registry
	sessions *session.Manager
}

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "itsm-authz-test",
		Webserver: config.Webserver{
			URL:  "http://localhost",
			Port: 3000,
		},
		Session: config.Session{
			CookieName: config.DefaultCookieName,
			ExpiryTime: time.Hour,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := storage.NewMemory()
	views := viewcache.NewRegistry()

	manager := session.NewManager(
		func(id string) session.Storage { return storage.NewPrefixed(backend, id) },
		session.WithStoreHook(views.Hook),
		session.WithDropHook(views.Drop),
	)

	svc := New(newTestConfig(), &handler.Deps{Sessions: manager, Views: views})

	return &testEnv{svc: svc, backend: backend, views: views, sessions: manager}
}

func (e *testEnv) do(t *testing.T, method, target, body, cookie string) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: config.DefaultCookieName, Value: cookie})
	}

	resp, err := e.svc.App.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

// login opens a session for role and returns its cookie value.
func (e *testEnv) login(t *testing.T, role, tenant string) string {
	t.Helper()

	body := `{"user":{"id":1,"username":"u1","role":"` + role + `"},"token":"secret-token"`
	if tenant != "" {
		body += `,"tenant":` + tenant
	}

	body += `}`

	resp, _ := e.do(t, http.MethodPost, "/api/session/login", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == config.DefaultCookieName {
			require.True(t, session.ValidID(c.Value))

			return c.Value
		}
	}

	t.Fatal("no session cookie issued")

	return ""
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}

func TestCheckAlive(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, CheckAlivePath, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	env.svc.alive.Store(false)
	assert.False(t, env.svc.Alive())

	resp, _ = env.do(t, http.MethodGet, CheckAlivePath, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, MetricsPath, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/session", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[handler.SessionView](t, body).IsAuthenticated)

	id := env.login(t, "agent", tenantAcme)

	resp, body = env.do(t, http.MethodGet, "/api/session", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "secret-token")

	view := decode[handler.SessionView](t, body)
	assert.True(t, view.IsAuthenticated)
	require.NotNil(t, view.User)
	assert.Equal(t, "agent", view.User.Role)
	require.NotNil(t, view.CurrentTenant)
	assert.Equal(t, uint64(7), view.CurrentTenant.ID)
	assert.Contains(t, view.Permissions, "ticket:read")

	// persisted under the session namespace
	token, err := env.backend.GetItem(t.Context(), id+storage.Separator+session.DefaultKeys().Token)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	resp, body = env.do(t, http.MethodPut, "/api/session/tenant",
		`{"id":8,"name":"Beta","code":"beta","type":"trial","status":"trial"}`, id)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view = decode[handler.SessionView](t, body)
	require.NotNil(t, view.CurrentTenant)
	assert.Equal(t, "beta", view.CurrentTenant.Code)

	resp, body = env.do(t, http.MethodDelete, "/api/session/tenant", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[handler.SessionView](t, body).CurrentTenant)

	resp, _ = env.do(t, http.MethodPost, "/api/session/logout", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == config.DefaultCookieName && c.Value == "" {
			cleared = true
		}
	}

	assert.True(t, cleared, "session cookie must be cleared")

	// the old cookie rehydrates to nothing
	resp, body = env.do(t, http.MethodGet, "/api/session", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[handler.SessionView](t, body).IsAuthenticated)
}

func TestSessionSurvivesRestart(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, "manager", tenantAcme)

	// a second host on the same backend
	manager := session.NewManager(func(sid string) session.Storage {
		return storage.NewPrefixed(env.backend, sid)
	})
	other := New(newTestConfig(), &handler.Deps{Sessions: manager})
	env2 := &testEnv{svc: other, backend: env.backend}

	resp, body := env2.do(t, http.MethodGet, "/api/session", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decode[handler.SessionView](t, body)
	assert.True(t, view.IsAuthenticated)
	require.NotNil(t, view.CurrentTenant)
	assert.Equal(t, "acme", view.CurrentTenant.Code)
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing token", `{"user":{"id":1,"username":"u","role":"agent"}}`},
		{"missing username", `{"user":{"id":1,"role":"agent"},"token":"t"}`},
		{"invalid tenant", `{"user":{"id":1,"username":"u","role":"agent"},"token":"t","tenant":{"id":1}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/session/login", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(body), "invalid form data")
			assert.Empty(t, resp.Cookies())
		})
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/api/permissions", ""},
		{http.MethodPost, "/api/permissions/check", `{"permissions":["ticket:read"]}`},
		{http.MethodGet, "/api/permissions/actions/ticket", ""},
		{http.MethodPut, "/api/session/tenant", tenantAcme},
		{http.MethodDelete, "/api/session/tenant", ""},
		{http.MethodGet, "/api/navigation", ""},
		{http.MethodGet, "/api/roles", ""},
		{http.MethodGet, "/api/dashboard", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			// an unknown but well formed session id is just as anonymous
			for _, cookie := range []string{"", strings.Repeat("ab", 32), "garbage"} {
				resp, _ := env.do(t, tc.method, tc.target, tc.body, cookie)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			}
		})
	}

	assert.Equal(t, 0, env.sessions.Len(), "anonymous requests keep no session")
	assert.Equal(t, 0, env.views.Len())
}

func TestUnknownSessionIDsAreNotKept(t *testing.T) {
	env := newTestEnv(t)

	for range 200 {
		id, err := session.GenerateID()
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/api/session", "", id)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 0, env.sessions.Len())
	assert.Equal(t, 0, env.views.Len())

	id := env.login(t, "agent", "")
	assert.Equal(t, 1, env.sessions.Len())
	assert.NotNil(t, env.views.For(id))

	resp, _ := env.do(t, http.MethodPost, "/api/session/logout", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, env.sessions.Len())
	assert.Nil(t, env.views.For(id))
}

func TestExpiredTenantIsRejected(t *testing.T) {
	env := newTestEnv(t)

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	tenant := func(expiresAt string) string {
		return `{"id":8,"name":"Beta","code":"beta","type":"trial","status":"trial","expires_at":"` + expiresAt + `"}`
	}

	body := `{"user":{"id":1,"username":"u1","role":"agent"},"token":"t","tenant":` + tenant(past) + `}`
	resp, data := env.do(t, http.MethodPost, "/api/session/login", body, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(data), handler.ErrTenantExpired.Error())
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, 0, env.sessions.Len())

	id := env.login(t, "agent", tenantAcme)

	testCases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"expired", tenant(past), http.StatusForbidden, "acme"},
		{"running", tenant(future), http.StatusOK, "beta"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := env.do(t, http.MethodPut, "/api/session/tenant", tc.body, id)
			require.Equal(t, tc.status, resp.StatusCode)

			resp, data := env.do(t, http.MethodGet, "/api/session", "", id)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			view := decode[handler.SessionView](t, data)
			require.NotNil(t, view.CurrentTenant)
			assert.Equal(t, tc.code, view.CurrentTenant.Code)
		})
	}
}

func TestPermissionsEndpoints(t *testing.T) {
	env := newTestEnv(t)
	agent := env.login(t, "agent", "")
	root := env.login(t, "super_admin", "")

	resp, body := env.do(t, http.MethodGet, "/api/permissions", "", agent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"agent"`, mustJSON(t, decode[map[string]any](t, body)["role"]))

	checks := []struct {
		name    string
		body    string
		status  int
		allowed bool
	}{
		{"held grant", `{"permissions":["ticket:read","ticket:update"]}`, http.StatusOK, true},
		{"missing grant", `{"permissions":["ticket:delete"]}`, http.StatusOK, false},
		{"matching role", `{"roles":["manager","agent"]}`, http.StatusOK, true},
		{"foreign role", `{"roles":["admin"]}`, http.StatusOK, false},
		{"no constraints", `{}`, http.StatusOK, true},
		{"unknown grant", `{"permissions":["ticket:fly"]}`, http.StatusBadRequest, false},
		{"unknown role", `{"roles":["root"]}`, http.StatusBadRequest, false},
	}

	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/permissions/check", tc.body, agent)
			require.Equal(t, tc.status, resp.StatusCode)

			if tc.status == http.StatusOK {
				assert.Equal(t, tc.allowed, decode[map[string]bool](t, body)["allowed"])
			}
		})
	}

	resp, body = env.do(t, http.MethodGet, "/api/permissions/actions/ticket", "", agent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t,
		`{"resource":"ticket","actions":["close","create","read","resolve","update"],"batch":[]}`,
		string(body))

	resp, body = env.do(t, http.MethodGet, "/api/permissions/actions/ticket", "", root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"delete"}, decode[map[string]any](t, body)["batch"])

	resp, _ = env.do(t, http.MethodGet, "/api/permissions/actions/spaceship", "", agent)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRolesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/roles", "", env.login(t, "admin", ""))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	root := env.login(t, "super_admin", "")

	resp, body := env.do(t, http.MethodGet, "/api/roles", "", root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, body), 5)

	resp, body = env.do(t, http.MethodGet, "/api/roles/user", "", root)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[map[string]any](t, body)["permissions"], 6)

	resp, _ = env.do(t, http.MethodGet, "/api/roles/root", "", root)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNavigationIsCachedPerTenant(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, "agent", tenantAcme)

	resp, body := env.do(t, http.MethodGet, "/api/navigation", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), `"admin"`)
	assert.Contains(t, string(body), `"tickets"`)

	cache := env.views.For(id)
	require.NotNil(t, cache)
	assert.Equal(t, 1, cache.Len())

	resp, _ = env.do(t, http.MethodPut, "/api/session/tenant",
		`{"id":8,"name":"Beta","code":"beta","type":"trial","status":"trial"}`, id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, cache.Len())

	resp, body = env.do(t, http.MethodGet, "/api/navigation?path=/tickets/create", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"pageTitle"`)

	resp, _ = env.do(t, http.MethodGet, "/api/navigation?path=/admin/users", "", id)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNavigationGuardsPatternPaths(t *testing.T) {
	env := newTestEnv(t)
	user := env.login(t, "user", "")
	agent := env.login(t, "agent", "")

	testCases := []struct {
		cookie string
		path   string
		status int
	}{
		{user, "/problems/5", http.StatusForbidden},
		{user, "/tickets/42/edit", http.StatusForbidden},
		{user, "/admin/anything", http.StatusForbidden},
		{user, "/tickets/42", http.StatusOK},
		{agent, "/problems/5", http.StatusOK},
		{agent, "/tickets/42/edit", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, _ := env.do(t, http.MethodGet, "/api/navigation?path="+tc.path, "", tc.cookie)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	id := env.login(t, "user", tenantAcme)

	resp, body := env.do(t, http.MethodGet, "/api/dashboard", "", id)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decode[map[string]any](t, body)
	assert.Equal(t, false, data["isAdmin"])
	assert.Len(t, data["modules"], 4)
	assert.NotContains(t, string(body), "secret-token")
}

func TestLoginReplacesSession(t *testing.T) {
	env := newTestEnv(t)
	first := env.login(t, "agent", "")

	body := `{"user":{"id":2,"username":"u2","role":"manager"},"token":"t2"}`
	resp, _ := env.do(t, http.MethodPost, "/api/session/login", body, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second string
	for _, c := range resp.Cookies() {
		if c.Name == config.DefaultCookieName {
			second = c.Value
		}
	}

	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	resp, data := env.do(t, http.MethodGet, "/api/session", "", first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[handler.SessionView](t, data).IsAuthenticated)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return string(b)
}
