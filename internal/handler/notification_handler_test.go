package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mitr-be/internal/model"
	"mitr-be/internal/pkg/apperror"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/serverutils"
	internalWS "mitr-be/internal/websocket"
	"mitr-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifications struct {
	limit, offset int
	owned         map[uuid.UUID]uuid.UUID
}

func (s *stubNotifications) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	s.limit, s.offset = limit, offset
	return []model.Notification{{ID: uuid.New(), UserID: userID, Title: "Session booked"}}, 1, nil
}

func (s *stubNotifications) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 3, nil
}

func (s *stubNotifications) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	if s.owned[id] != userID {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (s *stubNotifications) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func asUser(userID uuid.UUID, role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(serverutils.LocalUserID, userID.String())
		ctx.Locals(serverutils.LocalRole, role)
		return ctx.Next()
	}
}

func newNotificationApp(svc *stubNotifications, pub events.Publisher, userID uuid.UUID, role string) *fiber.App {
	log := logger.NewNopLogger()
	h := NewNotificationHandler(svc, pub, internalWS.NewHub(nil, log), asUser(userID, role), serverutils.SocketAuth{Secret: "s"}, log)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.FiberErrorHandler(log)})
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	h.RegisterRoutes(app.Group("/api"))
	return app
}

func TestListClampsPaging(t *testing.T) {
	svc := &stubNotifications{}
	app := newNotificationApp(svc, nil, uuid.New(), "user")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/notifications?limit=500&offset=-3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 20, svc.limit)
	assert.Equal(t, 0, svc.offset)

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Data notificationPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, int64(1), body.Data.Total)
	assert.Equal(t, 1, body.Data.Page)
	assert.Len(t, body.Data.Items, 1)
}

func TestMarkAsReadIsOwnerScoped(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	svc := &stubNotifications{owned: map[uuid.UUID]uuid.UUID{id: owner}}

	resp, err := newNotificationApp(svc, nil, owner, "user").Test(httptest.NewRequest("PATCH", "/api/notifications/"+id.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = newNotificationApp(svc, nil, uuid.New(), "user").Test(httptest.NewRequest("PATCH", "/api/notifications/"+id.String()+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = newNotificationApp(svc, nil, owner, "user").Test(httptest.NewRequest("PATCH", "/api/notifications/read-all", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBroadcastIsAdminOnly(t *testing.T) {
	rec := events.NewRecorder()
	body := `{"title":"Maintenance","message":"Back at 6am"}`
	post := func(role string) *http.Response {
		req := httptest.NewRequest("POST", "/api/notifications/broadcast", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := newNotificationApp(&stubNotifications{}, rec, uuid.New(), role).Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusForbidden, post("user").StatusCode)
	assert.Equal(t, http.StatusAccepted, post("admin").StatusCode)
	assert.Equal(t, []string{events.SystemBroadcast}, rec.Types())
}

func TestWebsocketNeedsToken(t *testing.T) {
	app := newNotificationApp(&stubNotifications{}, nil, uuid.New(), "user")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
