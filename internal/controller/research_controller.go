package controller

import (
	"cognihub-be/internal/dto"
	"cognihub-be/internal/pkg/serverutils"
	"cognihub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	UpdateSourceFlags(ctx *fiber.Ctx) error
}

type researchController struct {
	researchService service.IResearchService
}

func NewResearchController(researchService service.IResearchService) IResearchController {
	return &researchController{
		researchService: researchService,
	}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research")
	h.Post("", c.Start)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/sources/:refId", c.UpdateSourceFlags)
}

func (c *researchController) Start(ctx *fiber.Ctx) error {
	var req dto.StartResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	// The question doubles as the retrieval query, so nested options
	// need not repeat it.
	if req.Options != nil && req.Options.Query == "" {
		req.Options.Query = req.Question
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.researchService.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start research run", res))
}

func (c *researchController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.researchService.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list research runs", res))
}

func (c *researchController) Show(ctx *fiber.Ctx) error {
	res, err := c.researchService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show research run", res))
}

func (c *researchController) Delete(ctx *fiber.Ctx) error {
	if err := c.researchService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete research run", nil))
}

func (c *researchController) UpdateSourceFlags(ctx *fiber.Ctx) error {
	var req dto.UpdateSourceFlagsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.RunId = ctx.Params("id")
	req.RefId = ctx.Params("refId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.researchService.UpdateSourceFlags(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update source flags", nil))
}
