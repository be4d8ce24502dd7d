package fiber_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/itsm-authz/internal/db/models"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/logger"
	adapter "github.com/GoPowerDNS-Admin/itsm-authz/internal/logger/adapter/fiber"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/session"
	"github.com/GoPowerDNS-Admin/itsm-authz/internal/storage"
	authmw "github.com/GoPowerDNS-Admin/itsm-authz/internal/web/middleware/auth"
)

const cookieName = "session"

// accessLine is the json form of one access log event.
type accessLine struct {
	Status       int     `json:"status"`
	URI          string  `json:"URI"`
	Method       string  `json:"method"`
	Host         string  `json:"host"`
	XPerformance float64 `json:"X-Performance"`
	Error        string  `json:"error"`
	UserID       uint64  `json:"user_id"`
	Role         string  `json:"role"`
	Tenant       string  `json:"tenant"`
}

// newApp serves a few session routes behind the access log and the session middleware.
func newApp(t *testing.T, cfg adapter.Config) (*fiber.App, string) {
	t.Helper()

	backend := storage.NewMemory()
	sessions := session.NewManager(func(id string) session.Storage {
		return storage.NewPrefixed(backend, id)
	})

	id, err := session.GenerateID()
	require.NoError(t, err)

	store, err := sessions.Open(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, store.Login(context.Background(),
		&models.User{ID: 42, Username: "agent", Role: "agent"}, "tok",
		&models.Tenant{ID: 7, Code: "acme"}))

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(cfg))
	app.Use(authmw.New(authmw.Config{
		Sessions:     sessions,
		CookieName:   cookieName,
		SkipPrefixes: []string{"/checkalive"},
	}))

	app.Get("/checkalive", func(c fiber.Ctx) error { return c.SendString("OK") })
	app.Get("/api/session", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"isAuthenticated": authmw.StoreFrom(c) != nil})
	})
	app.Get("/api/roles", func(fiber.Ctx) error { return fiber.ErrForbidden })
	app.Put("/api/session/tenant", func(fiber.Ctx) error { return errors.New("backend down") })

	return app, id
}

func doRequest(t *testing.T, app *fiber.App, method, target, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie})
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)

	return resp
}

func lines(t *testing.T, out *bytes.Buffer) []accessLine {
	t.Helper()

	var got []accessLine

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var l accessLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		got = append(got, l)
	}

	return got
}

func TestAccessLog(t *testing.T) {
	testCases := []struct {
		name      string
		method    string
		target    string
		withLogin bool
		status    int
		body      string
		want      accessLine
	}{
		{
			name:   "anonymous session read",
			method: fiber.MethodGet,
			target: "/api/session",
			status: fiber.StatusOK,
			want:   accessLine{Status: 200, URI: "/api/session", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:      "principal and tenant are logged",
			method:    fiber.MethodGet,
			target:    "/api/session?fields=all",
			withLogin: true,
			status:    fiber.StatusOK,
			want: accessLine{
				Status: 200, URI: "/api/session?fields=all", Method: fiber.MethodGet, Host: "example.com",
				UserID: 42, Role: "agent", Tenant: "acme",
			},
		},
		{
			name:      "fiber error keeps its code",
			method:    fiber.MethodGet,
			target:    "/api/roles",
			withLogin: true,
			status:    fiber.StatusForbidden,
			body:      `{"error":"Forbidden"}`,
			want: accessLine{
				Status: 403, URI: "/api/roles", Method: fiber.MethodGet, Host: "example.com",
				Error: "Forbidden", UserID: 42, Role: "agent", Tenant: "acme",
			},
		},
		{
			name:   "plain error becomes 500",
			method: fiber.MethodPut,
			target: "/api/session/tenant",
			status: fiber.StatusInternalServerError,
			body:   `{"error":"Internal Server Error"}`,
			want: accessLine{
				Status: 500, URI: "/api/session/tenant", Method: fiber.MethodPut, Host: "example.com",
				Error: "backend down",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			app, id := newApp(t, adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					Console:                  logger.Console{Enabled: true},
				},
				Output:   &out,
				Annotate: authmw.Annotate,
			})

			cookie := ""
			if tc.withLogin {
				cookie = id
			}

			resp := doRequest(t, app, tc.method, tc.target, cookie)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			_ = resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if tc.body != "" {
				assert.JSONEq(t, tc.body, string(body))
				assert.Equal(t, "max-age=0", resp.Header.Get(fiber.HeaderCacheControl))
			}

			got := lines(t, &out)
			require.Len(t, got, 1)

			got[0].XPerformance = 0
			assert.Equal(t, tc.want, got[0])
		})
	}
}

func TestAccessLogSkips(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    adapter.Config
		target string
	}{
		{
			name:   "console access log disabled",
			cfg:    adapter.Config{Config: logger.Log{Console: logger.Console{Enabled: true}}},
			target: "/api/session",
		},
		{
			name: "checkalive is not logged",
			cfg: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					DisableCheckAlive:        true,
					Console:                  logger.Console{Enabled: true},
				},
				CheckAliveURI: "/checkalive",
			},
			target: "/checkalive",
		},
		{
			name: "next skips the middleware",
			cfg: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					Console:                  logger.Console{Enabled: true},
				},
				Next: func(c fiber.Ctx) bool { return c.Path() == "/api/session" },
			},
			target: "/api/session",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			tc.cfg.Output = &out
			app, _ := newApp(t, tc.cfg)

			resp := doRequest(t, app, fiber.MethodGet, tc.target, "")
			_ = resp.Body.Close()

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Empty(t, out.String())
		})
	}
}
