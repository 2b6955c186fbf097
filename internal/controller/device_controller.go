package controller

import (
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDeviceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Connect(ctx *fiber.Ctx) error
	Disconnect(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
	Analytics(ctx *fiber.Ctx) error
}

type deviceController struct {
	service service.IDeviceService
	auth    fiber.Handler
}

func NewDeviceController(service service.IDeviceService, auth fiber.Handler) IDeviceController {
	return &deviceController{service: service, auth: auth}
}

func (c *deviceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/devices", c.auth)
	h.Get("/", c.List)
	h.Get("/analytics", c.Analytics)
	h.Post("/sync", c.Sync)
	h.Post("/:id/connect", c.Connect)
	h.Post("/:id/disconnect", c.Disconnect)
}

func (c *deviceController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Devices", res))
}

func (c *deviceController) Connect(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Connect(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Device connected", res))
}

func (c *deviceController) Disconnect(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Disconnect(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Device disconnected", res))
}

func (c *deviceController) Sync(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Sync(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Devices synced", res))
}

func (c *deviceController) Analytics(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Analytics(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Device analytics", res))
}
