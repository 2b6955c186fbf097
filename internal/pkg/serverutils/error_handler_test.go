package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"mitr-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createReq struct {
	Title string `json:"title" validate:"required"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/conflict", func(ctx *fiber.Ctx) error {
		return apperror.Conflict("slot already booked")
	})
	app.Get("/validation", func(ctx *fiber.Ctx) error {
		return ValidateRequest(createReq{})
	})
	app.Get("/fiber", func(ctx *fiber.Ctx) error {
		return fiber.ErrUpgradeRequired
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("db down")
	})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{path: "/conflict", code: 409, message: "slot already booked"},
		{path: "/validation", code: 400, message: "validation failed"},
		{path: "/fiber", code: 426, message: "Upgrade Required"},
		{path: "/boom", code: 500, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			if tt.path == "/validation" {
				assert.Equal(t, []string{"title: required"}, body.Errors)
			}
		})
	}
}
