package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/entity"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetAllUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	GetGroupReports(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
	auth    fiber.Handler
}

func NewAdminController(service service.IAdminService, auth fiber.Handler) IAdminController {
	return &adminController{service: service, auth: auth}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", c.auth, serverutils.RequireRole(string(entity.UserRoleAdmin)))
	h.Get("/users", c.GetAllUsers)
	h.Patch("/users/:id/status", c.UpdateUserStatus)
	h.Get("/group-reports", c.GetGroupReports)
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	var q dto.AdminUserQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.GetAllUsers(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	actorId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}
	userId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateUserStatus(ctx.UserContext(), actorId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Status updated", res))
}

func (c *adminController) GetGroupReports(ctx *fiber.Ctx) error {
	res, err := c.service.GetGroupReports(ctx.UserContext(), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reported messages", res))
}
