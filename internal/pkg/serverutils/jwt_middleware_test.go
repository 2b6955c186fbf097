package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(jti string) bool { return r[jti] }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp(secret string, revoked RevocationChecker) *fiber.App {
	app := fiber.New()
	app.Get("/me", NewJwtMiddleware(secret, revoked), func(ctx *fiber.Ctx) error {
		userID, err := GetUserID(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(userID.String())
	})
	return app
}

func TestJwtMiddleware(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()
	valid := signToken(t, secret, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "user",
		"jti":     "token-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, secret, jwt.MapClaims{
		"user_id": userID.String(),
		"jti":     "token-2",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	otherSecret := signToken(t, "other", jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name    string
		header  string
		revoked revokedSet
		want    int
	}{
		{name: "missing header", header: "", want: fiber.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + valid, want: fiber.StatusOK},
		{name: "expired", header: "Bearer " + expired, want: fiber.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + otherSecret, want: fiber.StatusUnauthorized},
		{name: "revoked", header: "Bearer " + valid, revoked: revokedSet{"token-1": true}, want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(secret, tt.revoked)
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestParseAccessTokenReadsClaims(t *testing.T) {
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed := signToken(t, "s", jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "admin",
		"jti":     "abc",
		"exp":     exp.Unix(),
	})

	claims, err := ParseAccessToken("s", signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "abc", claims.TokenID)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestSocketClaimsReadsQueryToken(t *testing.T) {
	secret := "ws-secret"
	userID := uuid.New()
	valid := signToken(t, secret, jwt.MapClaims{"user_id": userID.String(), "jti": "live", "exp": time.Now().Add(time.Hour).Unix()})
	revokedTok := signToken(t, secret, jwt.MapClaims{"user_id": userID.String(), "jti": "gone", "exp": time.Now().Add(time.Hour).Unix()})

	app := fiber.New()
	app.Get("/ws", func(ctx *fiber.Ctx) error {
		claims, err := SocketClaims(ctx, secret, revokedSet{"gone": true})
		if err != nil {
			return err
		}
		return ctx.SendString(claims.UserID.String())
	})

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "query token", url: "/ws?token=" + valid, want: 200},
		{name: "missing", url: "/ws", want: 401},
		{name: "garbage", url: "/ws?token=abc", want: 401},
		{name: "revoked", url: "/ws?token=" + revokedTok, want: 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	secret := "role-secret"
	app := fiber.New()
	app.Get("/admin", NewJwtMiddleware(secret, nil), RequireRole("admin"), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	for role, want := range map[string]int{"admin": 204, "user": 403} {
		tok := signToken(t, secret, jwt.MapClaims{"user_id": uuid.NewString(), "role": role, "exp": time.Now().Add(time.Hour).Unix()})
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
