package controller

import (
	"mitr-be/internal/pkg/serverutils"
	"mitr-be/internal/service"
	"mitr-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type IResourceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Helplines(ctx *fiber.Ctx) error
}

type resourceController struct {
	service service.IResourceService
}

func NewResourceController(service service.IResourceService) IResourceController {
	return &resourceController{service: service}
}

func (c *resourceController) RegisterRoutes(r fiber.Router) {
	r.Get("/resources", c.List)
	r.Get("/resources/:id", c.Show)
	r.Get("/emergency/helplines", c.Helplines)
}

func (c *resourceController) List(ctx *fiber.Ctx) error {
	res := c.service.Search(catalog.ResourceQuery{
		Type:  ctx.Query("type"),
		Query: ctx.Query("q"),
		Tag:   ctx.Query("tag"),
	})
	return ctx.JSON(serverutils.SuccessResponse("Resources", res))
}

func (c *resourceController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Resource", res))
}

func (c *resourceController) Helplines(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Emergency helplines", c.service.Helplines()))
}
