package controller

import (
	"fmt"
	"io"
	"strconv"

	"mitr-be/internal/dto"
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHealthRecordController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	File(ctx *fiber.Ctx) error
	Trends(ctx *fiber.Ctx) error
}

type healthRecordController struct {
	service service.IHealthRecordService
	auth    fiber.Handler
}

func NewHealthRecordController(service service.IHealthRecordService, auth fiber.Handler) IHealthRecordController {
	return &healthRecordController{service: service, auth: auth}
}

func (c *healthRecordController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/health-records", c.auth)
	h.Get("/trends", c.Trends)
	h.Post("/", c.Upload)
	h.Get("/", c.List)
	h.Get("/:id/file", c.File)
	h.Delete("/:id", c.Delete)
}

// Upload takes a multipart form: consent, record_type, metadata (JSON text)
// and file.
func (c *healthRecordController) Upload(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	consent, _ := strconv.ParseBool(ctx.FormValue("consent"))
	req := &dto.UploadHealthRecordRequest{
		Consent:    consent,
		RecordType: ctx.FormValue("record_type"),
		Metadata:   ctx.FormValue("metadata"),
	}

	var file io.Reader
	if fh, err := ctx.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		file = f
		req.FileName = fh.Filename
		req.ContentType = fh.Header.Get(fiber.HeaderContentType)
	}

	res, err := c.service.Upload(ctx.UserContext(), userId, req, file)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Health record uploaded", res))
}

func (c *healthRecordController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Health records", res))
}

func (c *healthRecordController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	if err := c.service.Delete(ctx.UserContext(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Health record deleted", nil))
}

// File streams the stored document back to its owner.
func (c *healthRecordController) File(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	rc, name, contentType, err := c.service.OpenFile(ctx.UserContext(), userId, id)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name))
	// the response body closes rc once written
	return ctx.SendStream(rc)
}

func (c *healthRecordController) Trends(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Trends(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Marker trends", res))
}
