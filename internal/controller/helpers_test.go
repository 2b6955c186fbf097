package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testTokenID = "test-jti"

var testTokenExp = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeAuth stands in for the JWT middleware. uuid.Nil means anonymous.
func fakeAuth(userID uuid.UUID) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if userID == uuid.Nil {
			return fiber.ErrUnauthorized
		}
		ctx.Locals(serverutils.LocalUserID, userID.String())
		ctx.Locals(serverutils.LocalRole, "user")
		ctx.Locals(serverutils.LocalTokenID, testTokenID)
		ctx.Locals(serverutils.LocalTokenExp, testTokenExp)
		return ctx.Next()
	}
}

type routable interface {
	RegisterRoutes(r fiber.Router)
}

func newTestApp(c routable) *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.FiberErrorHandler(log)})
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	c.RegisterRoutes(app.Group("/api"))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}
