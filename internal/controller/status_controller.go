package controller

import (
	"cognihub-be/internal/pkg/serverutils"
	"cognihub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStatusController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Models(ctx *fiber.Ctx) error
}

type statusController struct {
	statusService service.IStatusService
}

func NewStatusController(statusService service.IStatusService) IStatusController {
	return &statusController{
		statusService: statusService,
	}
}

func (c *statusController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/status", c.Status)
	r.Get("/models", c.Models)
}

func (c *statusController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

func (c *statusController) Status(ctx *fiber.Ctx) error {
	res, err := c.statusService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Service status", res))
}

func (c *statusController) Models(ctx *fiber.Ctx) error {
	res, err := c.statusService.Models(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Available models", res))
}
