package controller

import (
	"ai-knowledge-base-be/internal/pkg/serverutils"
	"ai-knowledge-base-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type systemController struct {
	systemService service.ISystemService
}

func NewSystemController(systemService service.ISystemService) ISystemController {
	return &systemController{
		systemService: systemService,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/v1")
	h.Get("health", c.Health)
	h.Post("reindex", c.Reindex)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	res, err := c.systemService.Health(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success health check", res))
}

func (c *systemController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.systemService.Reindex(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rebuild vector index", res))
}
