package auth_test

import (
	"net/http/httptest"
	"testing"

	"transease/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/server", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/swagger/index.html", func(c *fiber.Ctx) error { return c.SendString("docs") })
	return app
}

func TestAuth(t *testing.T) {
	app := newApp(auth.Config{ApiKey: "secret", Skip: []string{"/swagger"}})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"MissingKey", "/server", "", fiber.StatusUnauthorized},
		{"WrongKey", "/server", "nope", fiber.StatusUnauthorized},
		{"ValidKey", "/server", "secret", fiber.StatusOK},
		{"QueryKey", "/server?api_key=secret", "", fiber.StatusOK},
		{"SkippedPrefix", "/swagger/index.html", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	app := newApp(auth.Config{})
	resp, err := app.Test(httptest.NewRequest("GET", "/server", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
