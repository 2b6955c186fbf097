package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/journals/:id", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", Handler())

	for _, id := range []string{"a", "b"} {
		_, err := app.Test(httptest.NewRequest("GET", "/api/journals/"+id, nil))
		require.NoError(t, err)
	}

	out := scrape(t, app)
	assert.Contains(t, out, `mitr_http_requests_total{method="GET",route="/api/journals/:id",status="204"} 2`)
}

func TestDomainCounters(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", Handler())

	RecordAssessment("GAD-7", "severe")
	RecordFlaggedMessage("anxiety")

	out := scrape(t, app)
	assert.Contains(t, out, `mitr_assessment_submitted_total{severity="severe",type="GAD-7"} 1`)
	assert.Contains(t, out, `mitr_groups_flagged_messages_total{room="anxiety"} 1`)
}
