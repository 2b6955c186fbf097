package controller

import (
	"context"
	"net/http"
	"testing"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminService struct {
	service.IAdminService

	query   dto.AdminUserQuery
	actor   uuid.UUID
	target  uuid.UUID
	status  string
	page    int
	limit   int
	reports []*dto.GroupReportResponse
}

func (f *fakeAdminService) GetAllUsers(ctx context.Context, q dto.AdminUserQuery) ([]*dto.AdminUserResponse, error) {
	f.query = q
	return []*dto.AdminUserResponse{}, nil
}

func (f *fakeAdminService) UpdateUserStatus(ctx context.Context, actorId, userId uuid.UUID, req *dto.UpdateUserStatusRequest) (*dto.AdminUserResponse, error) {
	f.actor, f.target, f.status = actorId, userId, req.Status
	return &dto.AdminUserResponse{Id: userId, Status: req.Status}, nil
}

func (f *fakeAdminService) GetGroupReports(ctx context.Context, page, limit int) ([]*dto.GroupReportResponse, error) {
	f.page, f.limit = page, limit
	return f.reports, nil
}

func withRole(userID uuid.UUID, role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(serverutils.LocalUserID, userID.String())
		ctx.Locals(serverutils.LocalRole, role)
		return ctx.Next()
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := newTestApp(NewAdminController(&fakeAdminService{}, withRole(uuid.New(), "user")))

	resp, _ := do(t, app, "GET", "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminListUsersParsesQuery(t *testing.T) {
	svc := &fakeAdminService{}
	app := newTestApp(NewAdminController(svc, withRole(uuid.New(), "admin")))

	resp, _ := do(t, app, "GET", "/api/admin/users?page=2&limit=5&q=asha", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.AdminUserQuery{Page: 2, Limit: 5, Query: "asha"}, svc.query)
}

func TestAdminUpdateUserStatus(t *testing.T) {
	svc := &fakeAdminService{}
	adminID := uuid.New()
	app := newTestApp(NewAdminController(svc, withRole(adminID, "admin")))
	target := uuid.New()

	resp, env := do(t, app, "PATCH", "/api/admin/users/"+target.String()+"/status", map[string]string{"status": "suspended"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, env.Errors)

	resp, _ = do(t, app, "PATCH", "/api/admin/users/not-a-uuid/status", map[string]string{"status": "blocked"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "PATCH", "/api/admin/users/"+target.String()+"/status", map[string]string{"status": "blocked"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, adminID, svc.actor)
	assert.Equal(t, target, svc.target)
	assert.Equal(t, "blocked", svc.status)
}

func TestAdminGroupReportsDefaults(t *testing.T) {
	svc := &fakeAdminService{reports: []*dto.GroupReportResponse{{Reason: "spam"}}}
	app := newTestApp(NewAdminController(svc, withRole(uuid.New(), "admin")))

	resp, env := do(t, app, "GET", "/api/admin/group-reports", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.page)
	assert.Equal(t, 20, svc.limit)
	assert.Contains(t, string(env.Data), "spam")
}
