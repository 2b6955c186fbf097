package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	RecordChatHistory(ctx *fiber.Ctx) error
}

// chatController covers both assistants: the wellness chatbot and the
// health record chat history.
type chatController struct {
	chatbot    service.IChatbotService
	recordChat service.IRecordChatService
	auth       fiber.Handler
}

func NewChatController(chatbot service.IChatbotService, recordChat service.IRecordChatService, auth fiber.Handler) IChatController {
	return &chatController{chatbot: chatbot, recordChat: recordChat, auth: auth}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot", c.auth)
	h.Post("/messages", c.SendMessage)
	h.Get("/messages", c.History)
	h.Delete("/messages", c.Clear)

	r.Get("/chat-history", c.auth, c.RecordChatHistory)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatbotMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbot.Send(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbot.History(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	if err := c.chatbot.Clear(ctx.UserContext(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat history cleared", nil))
}

func (c *chatController) RecordChatHistory(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var recordId *uuid.UUID
	if raw := ctx.Query("record_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid record_id")
		}
		recordId = &id
	}

	res, err := c.recordChat.History(ctx.UserContext(), userId, recordId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}
