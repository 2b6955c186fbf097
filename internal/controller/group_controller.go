package controller

import (
	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/logger"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"
	internalWS "mitr-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type IGroupController interface {
	RegisterRoutes(r fiber.Router)
	Rooms(ctx *fiber.Ctx) error
	Templates(ctx *fiber.Ctx) error
	Channels(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Post(ctx *fiber.Ctx) error
	React(ctx *fiber.Ctx) error
	Pin(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	ServeRoom(ctx *fiber.Ctx) error
}

type groupController struct {
	service     service.IGroupService
	preferences service.IUserService
	hub         *internalWS.Hub
	auth        fiber.Handler
	socket      serverutils.SocketAuth
	logger      logger.ILogger
}

func NewGroupController(
	service service.IGroupService,
	preferences service.IUserService,
	hub *internalWS.Hub,
	auth fiber.Handler,
	socket serverutils.SocketAuth,
	log logger.ILogger,
) IGroupController {
	return &groupController{
		service:     service,
		preferences: preferences,
		hub:         hub,
		auth:        auth,
		socket:      socket,
		logger:      log,
	}
}

func (c *groupController) RegisterRoutes(r fiber.Router) {
	// the websocket authenticates from the query string, so it sits
	// outside the bearer-guarded group
	r.Get("/groups/rooms/:room/ws", c.ServeRoom)

	h := r.Group("/groups", c.auth)
	h.Get("/rooms", c.Rooms)
	h.Get("/templates", c.Templates)
	h.Get("/channels", c.Channels)
	h.Get("/rooms/:room/messages", c.Messages)
	h.Post("/rooms/:room/messages", c.Post)
	h.Get("/rooms/:room/search", c.Search)
	h.Post("/messages/:id/reactions", c.React)
	h.Post("/messages/:id/pin", c.Pin)
	h.Post("/messages/:id/report", c.Report)
}

func (c *groupController) Rooms(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Rooms", c.service.Rooms()))
}

func (c *groupController) Templates(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Support templates", c.service.Templates()))
}

func (c *groupController) Channels(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Channels", c.service.Channels(ctx.Query("category"))))
}

func (c *groupController) Messages(ctx *fiber.Ctx) error {
	var q dto.MessageQuery
	if err := ctx.QueryParser(&q); err != nil {
		return fiber.ErrBadRequest
	}

	res, err := c.service.Messages(ctx.UserContext(), ctx.Params("room"), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *groupController) Post(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.PostMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Post(ctx.UserContext(), userId, ctx.Params("room"), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Message posted", res))
}

func (c *groupController) React(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var req dto.ReactionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.React(ctx.UserContext(), id, req.Emoji)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reaction added", res))
}

func (c *groupController) Pin(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	if err := c.service.Pin(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Message pinned", nil))
}

func (c *groupController) Report(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var req dto.ReportMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if err := c.service.Report(ctx.UserContext(), userId, id, req.Reason); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Report received", nil))
}

func (c *groupController) Search(ctx *fiber.Ctx) error {
	res, err := c.service.Search(ctx.UserContext(), ctx.Params("room"), ctx.Query("q"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

// ServeRoom upgrades to the room's change feed. Subscribers who muted
// groups still get messages but not risk alerts.
func (c *groupController) ServeRoom(ctx *fiber.Ctx) error {
	claims, err := c.socket.Claims(ctx)
	if err != nil {
		return err
	}

	room := ctx.Params("room")
	if !c.knownRoom(room) {
		return fiber.NewError(fiber.StatusNotFound, "room not found")
	}
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	muted := false
	if prefs, err := c.preferences.GetPreferences(ctx.UserContext(), claims.UserID); err == nil {
		muted = prefs.GroupsMuted
	}

	userID := claims.UserID
	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Debug("GroupController", "Room socket opened", map[string]interface{}{"user_id": userID, "room": room})
		internalWS.ServeRoom(c.hub, conn, userID, room, muted)
		c.logger.Debug("GroupController", "Room socket closed", map[string]interface{}{"user_id": userID, "room": room})
	})(ctx)
}

func (c *groupController) knownRoom(room string) bool {
	for _, r := range c.service.Rooms() {
		if r.Key == room {
			return true
		}
	}
	return false
}
