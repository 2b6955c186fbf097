package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IFunctionsController serves the /functions/v1 endpoints the web client
// calls by function name.
type IFunctionsController interface {
	RegisterRoutes(r fiber.Router)
	SendBookingEmail(ctx *fiber.Ctx) error
	AnalyzeRecord(ctx *fiber.Ctx) error
	RecordInsights(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type functionsController struct {
	bookings   service.IBookingService
	records    service.IHealthRecordService
	recordChat service.IRecordChatService
	auth       fiber.Handler
}

func NewFunctionsController(
	bookings service.IBookingService,
	records service.IHealthRecordService,
	recordChat service.IRecordChatService,
	auth fiber.Handler,
) IFunctionsController {
	return &functionsController{bookings: bookings, records: records, recordChat: recordChat, auth: auth}
}

func (c *functionsController) RegisterRoutes(r fiber.Router) {
	r.Post("/send-booking-email", c.auth, c.SendBookingEmail)
	r.Post("/health_records-analyze", c.auth, c.AnalyzeRecord)
	r.Get("/health_records-insights", c.auth, c.RecordInsights)
	r.Post("/chat", c.auth, c.Chat)
}

func (c *functionsController) SendBookingEmail(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendBookingEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.bookings.SendConfirmation(ctx.UserContext(), userId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Email sent", nil))
}

func (c *functionsController) AnalyzeRecord(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.records.Analyze(ctx.UserContext(), userId, req.RecordId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Insight generated", res))
}

func (c *functionsController) RecordInsights(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}
	recordId, err := uuid.Parse(ctx.Query("record_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "record_id is required")
	}

	res, err := c.records.LatestInsight(ctx.UserContext(), userId, recordId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Latest insight", res))
}

func (c *functionsController) Chat(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.RecordChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.recordChat.Chat(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply", res))
}
