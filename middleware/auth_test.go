package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(UserContextMiddleware(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CallerID(c))
	})
	app.Post("/secured", RequireUser(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestUserContextFromGatewayHeader(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-User-ID", "user-42")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "user-42" {
		t.Fatalf("expected user-42, got %q", body)
	}
}

func TestUserContextFromBearerToken(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "user-7"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "user-7" {
		t.Fatalf("expected user-7, got %q", body)
	}
}

func TestUserContextGatewayHeaderWins(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-User-ID", "gateway-user")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "token-user"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "gateway-user" {
		t.Fatalf("expected gateway-user, got %q", body)
	}
}

func TestUserContextRejectsBadSignature(t *testing.T) {
	app := newAuthApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "user-7"))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "" {
		t.Fatalf("forged token must not authenticate, got %q", body)
	}
}

func TestRequireUser(t *testing.T) {
	app := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/secured", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("POST", "/secured", nil)
	req.Header.Set("X-User-ID", "user-1")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
