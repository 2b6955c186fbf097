package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICounsellorController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Recommend(ctx *fiber.Ctx) error
	Slots(ctx *fiber.Ctx) error
}

type counsellorController struct {
	service service.ICounsellorService
}

func NewCounsellorController(service service.ICounsellorService) ICounsellorController {
	return &counsellorController{service: service}
}

func (c *counsellorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/counsellors")
	h.Get("/", c.List)
	h.Get("/recommend", c.Recommend)
	h.Get("/:id/slots", c.Slots)
}

func (c *counsellorController) List(ctx *fiber.Ctx) error {
	var q dto.CounsellorQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.List(q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Counsellors", res))
}

func (c *counsellorController) Recommend(ctx *fiber.Ctx) error {
	res, err := c.service.Recommend(ctx.Query("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Recommended counsellors", res))
}

func (c *counsellorController) Slots(ctx *fiber.Ctx) error {
	res, err := c.service.Slots(ctx.UserContext(), ctx.Params("id"), ctx.Query("date"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Available slots", res))
}
