package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	Latest(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type reviewController struct {
	service service.IReviewService
	auth    fiber.Handler
}

func NewReviewController(service service.IReviewService, auth fiber.Handler) IReviewController {
	return &reviewController{service: service, auth: auth}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reviews")
	h.Get("/", c.Latest)
	h.Post("/", c.auth, c.Create)
}

func (c *reviewController) Latest(ctx *fiber.Ctx) error {
	res, err := c.service.Latest(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reviews", res))
}

func (c *reviewController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Thanks for the review", res))
}
