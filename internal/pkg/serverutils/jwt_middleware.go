package serverutils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID   = "user_id"
	LocalRole     = "role"
	LocalTokenID  = "jti"
	LocalTokenExp = "token_exp"
)

// RevocationChecker reports whether an access token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(jti string) bool
}

type AccessClaims struct {
	UserID    uuid.UUID
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

var ErrInvalidToken = errors.New("invalid token")

// ParseAccessToken validates an HS256 token and extracts the claims the
// application relies on.
func ParseAccessToken(secret, tokenStr string) (*AccessClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &AccessClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: exp.Time,
	}, nil
}

// BearerToken returns the token from the Authorization header, or "".
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// NewJwtMiddleware guards a route group. Missing, invalid, expired and
// revoked tokens are all answered with 401.
func NewJwtMiddleware(secret string, revoked RevocationChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		claims, err := ParseAccessToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		if revoked != nil && claims.TokenID != "" && revoked.IsRevoked(claims.TokenID) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Session has ended"))
		}

		ctx.Locals(LocalUserID, claims.UserID.String())
		ctx.Locals(LocalRole, claims.Role)
		ctx.Locals(LocalTokenID, claims.TokenID)
		ctx.Locals(LocalTokenExp, claims.ExpiresAt)
		return ctx.Next()
	}
}

// GetUserID reads the authenticated user set by NewJwtMiddleware.
func GetUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := ctx.Locals(LocalUserID).(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userID, nil
}

// SocketClaims authenticates a websocket handshake. Browsers cannot set
// headers on the upgrade request, so the "token" query parameter is read
// first.
func SocketClaims(ctx *fiber.Ctx, secret string, revoked RevocationChecker) (*AccessClaims, error) {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		tokenStr = BearerToken(ctx)
	}
	if tokenStr == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}

	claims, err := ParseAccessToken(secret, tokenStr)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if revoked != nil && claims.TokenID != "" && revoked.IsRevoked(claims.TokenID) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Session has ended")
	}
	return claims, nil
}

// SocketAuth bundles what websocket routes need to run SocketClaims.
type SocketAuth struct {
	Secret  string
	Revoked RevocationChecker
}

func (a SocketAuth) Claims(ctx *fiber.Ctx) (*AccessClaims, error) {
	return SocketClaims(ctx, a.Secret, a.Revoked)
}

// RequireRole must run after NewJwtMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if got, _ := ctx.Locals(LocalRole).(string); got != role {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Access denied"))
		}
		return ctx.Next()
	}
}
