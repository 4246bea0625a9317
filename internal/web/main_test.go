package web

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/db/models"
	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/middleware/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		Title: "systeminfo test",
		DB:    config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			ShutDownTime: 1,
		},
	}
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()

	db := dbtest.Open(t, true)
	dbtest.Seed(t, db,
		*models.NewSystemInfo("ckan.site_title", "Open Data Portal"),
		*models.NewSystemInfo("ckan.site_about", "about <b>us</b>"),
	)

	service, err := New(cfg, db)
	require.NoError(t, err)

	return service
}

func get(t *testing.T, app *fiber.App, target string, headers ...string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second, FailOnTimeout: true})
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestCheckAlive(t *testing.T) {
	s := newTestService(t, testConfig())

	status, _ := get(t, s.App, CheckAlivePath)
	assert.Equal(t, fiber.StatusServiceUnavailable, status, "not alive before start")

	s.alive.Store(true)

	status, body := get(t, s.App, CheckAlivePath)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", body)
	assert.True(t, s.Alive())
}

func TestMetrics(t *testing.T) {
	s := newTestService(t, testConfig())

	status, body := get(t, s.App, MetricsPath)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")

	cfg := testConfig()
	cfg.Webserver.DisableMetrics = true
	s = newTestService(t, cfg)

	status, _ = get(t, s.App, MetricsPath)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAdminPage(t *testing.T) {
	s := newTestService(t, testConfig())

	status, body := get(t, s.App, "/admin/system-info")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, "systeminfo test")
	assert.Contains(t, body, "ckan.site_title")
	assert.Contains(t, body, "Open Data Portal")
	assert.Contains(t, body, "about &lt;b&gt;us&lt;/b&gt;", "values are html escaped")

	status, body = get(t, s.App, "/admin/system-info?search=about")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "ckan.site_about")
	assert.NotContains(t, body, "ckan.site_title")
}

func TestRootRedirect(t *testing.T) {
	s := newTestService(t, testConfig())

	resp, err := s.App.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/system-info", resp.Header.Get(fiber.HeaderLocation))
}

func TestAdminToken(t *testing.T) {
	hash, err := argon2id.CreateHash("s3cret", &argon2id.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Webserver.AdminTokenHash = hash
	s := newTestService(t, cfg)

	status, body := get(t, s.App, "/api/system-info/ckan.site_title")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, body)

	status, _ = get(t, s.App, "/admin/system-info")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = get(t, s.App, "/api/system-info/ckan.site_title", fiber.HeaderAuthorization, "Bearer s3cret")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"key":"ckan.site_title","value":"Open Data Portal"}`, body)

	status, _ = get(t, s.App, "/admin/system-info", fiber.HeaderCookie, auth.CookieName+"=s3cret")
	assert.Equal(t, fiber.StatusOK, status)

	// metrics stay open
	status, _ = get(t, s.App, MetricsPath)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Webserver.RateLimit = config.RateLimit{Enabled: true, Max: 1, Expiration: time.Minute}
	s := newTestService(t, cfg)

	status, _ := get(t, s.App, "/api/system-info")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := get(t, s.App, "/api/system-info")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.JSONEq(t, `{"error":"Too Many Requests"}`, body)

	// only the api is limited
	status, _ = get(t, s.App, "/admin/system-info")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestShutdownFailsCheckAlive(t *testing.T) {
	s := newTestService(t, testConfig())
	s.alive.Store(true)
	s.SetFastShutDown(true)

	s.Shutdown()

	// fast shutdown skips the drain period, the flag stays as it was
	assert.True(t, s.Alive())

	s = newTestService(t, testConfig())
	s.alive.Store(true)
	s.Shutdown()

	assert.False(t, s.Alive())
}
