package controller

import (
	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProviderController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	Stages(ctx *fiber.Ctx) error
}

type providerController struct {
	service service.IProviderService
}

func NewProviderController(service service.IProviderService) IProviderController {
	return &providerController{service: service}
}

func (c *providerController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/providers")
	h.Use(authMiddleware)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/stages", c.Stages)
	h.Patch(":id/status", c.UpdateStatus)
}

func (c *providerController) List(ctx *fiber.Ctx) error {
	var req dto.ListProvidersRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Parâmetros de consulta inválidos")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	items, total, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prestadores encontrados", fiber.Map{
		"items":  items,
		"total":  total,
		"limit":  req.Limit,
		"offset": req.Offset,
	}))
}

func (c *providerController) Show(ctx *fiber.Ctx) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Prestador encontrado", res))
}

func (c *providerController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProviderStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody()
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateStatus(ctx.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Status atualizado", res))
}

func (c *providerController) Stages(ctx *fiber.Ctx) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Stages(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Etapas do cadastro", res))
}

func pathID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID inválido")
	}
	return id, nil
}
