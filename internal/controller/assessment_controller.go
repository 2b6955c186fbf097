package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssessmentController interface {
	RegisterRoutes(r fiber.Router)
	Questions(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Trend(ctx *fiber.Ctx) error
}

type assessmentController struct {
	service service.IAssessmentService
	auth    fiber.Handler
}

func NewAssessmentController(service service.IAssessmentService, auth fiber.Handler) IAssessmentController {
	return &assessmentController{service: service, auth: auth}
}

func (c *assessmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assessments")
	h.Get("/gad7/questions", c.Questions)
	h.Post("/", c.auth, c.Submit)
	h.Get("/", c.auth, c.History)
	h.Get("/trend", c.auth, c.Trend)
}

func (c *assessmentController) Questions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("GAD-7 questions", c.service.Questions()))
}

func (c *assessmentController) Submit(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitAssessmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.Submit(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Assessment saved", res))
}

func (c *assessmentController) History(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Assessment history", res))
}

func (c *assessmentController) Trend(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Trend(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Assessment trend", res))
}
