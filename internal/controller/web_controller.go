package controller

import (
	"cognihub-be/internal/dto"
	"cognihub-be/internal/pkg/serverutils"
	"cognihub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebController interface {
	RegisterRoutes(r fiber.Router)
	Fetch(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type webController struct {
	webService service.IWebService
}

func NewWebController(webService service.IWebService) IWebController {
	return &webController{
		webService: webService,
	}
}

func (c *webController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/web")
	h.Post("fetch", c.Fetch)
	h.Get("pages", c.GetAll)
	h.Delete("pages", c.Delete)
}

func (c *webController) Fetch(ctx *fiber.Ctx) error {
	var req dto.FetchWebPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.webService.Fetch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch page", res))
}

func (c *webController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.webService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list pages", res))
}

func (c *webController) Delete(ctx *fiber.Ctx) error {
	url := ctx.Query("url")
	if url == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing url parameter"))
	}

	if err := c.webService.Delete(ctx.Context(), url); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete page", nil))
}
