package controller

import (
	"ai-knowledge-base-be/internal/dto"
	"ai-knowledge-base-be/internal/pkg/apperror"
	"ai-knowledge-base-be/internal/pkg/serverutils"
	"ai-knowledge-base-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IItemController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type itemController struct {
	itemService service.IItemService
}

func NewItemController(itemService service.IItemService) IItemController {
	return &itemController{
		itemService: itemService,
	}
}

func (c *itemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/item/v1")
	h.Post("", c.Ingest)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *itemController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.itemService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest item", res))
}

func (c *itemController) GetAll(ctx *fiber.Ctx) error {
	sourceKind := ctx.Query("source_kind", "")

	res, err := c.itemService.GetAll(ctx.Context(), sourceKind)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get items", res))
}

func (c *itemController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidation("invalid item id")
	}

	res, err := c.itemService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show item", res))
}

func (c *itemController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidation("invalid item id")
	}

	res, err := c.itemService.Delete(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete item", res))
}
