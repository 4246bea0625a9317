package auth_test

import (
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/web/middleware/auth"
)

// testParams keeps hashing fast in tests.
var testParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newApp(hash string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(hash))
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestMiddleware(t *testing.T) {
	hash, err := argon2id.CreateHash("s3cret-token", testParams)
	require.NoError(t, err)

	tests := []struct {
		name       string
		hash       string
		header     string
		cookie     string
		wantStatus int
	}{
		{
			name:       "no hash configured",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing token",
			hash:       hash,
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "valid bearer token",
			hash:       hash,
			header:     "Bearer s3cret-token",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "lower case scheme",
			hash:       hash,
			header:     "bearer s3cret-token",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "wrong bearer token",
			hash:       hash,
			header:     "Bearer guess",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "basic auth is not accepted",
			hash:       hash,
			header:     "Basic czNjcmV0LXRva2Vu",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "valid cookie",
			hash:       hash,
			cookie:     "s3cret-token",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "broken hash",
			hash:       "not-a-hash",
			header:     "Bearer s3cret-token",
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, auth.CookieName+"="+tt.cookie)
			}

			resp, err := newApp(tt.hash).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAcceptedTokenIsRemembered(t *testing.T) {
	hash, err := argon2id.CreateHash("s3cret-token", testParams)
	require.NoError(t, err)

	app := newApp(hash)

	for range 3 {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret-tokeN")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
