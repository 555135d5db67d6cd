package controller

import (
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Single(ctx *fiber.Ctx) error
	Multiple(ctx *fiber.Ctx) error
}

type uploadController struct {
	service service.IUploadService
}

func NewUploadController(service service.IUploadService) IUploadController {
	return &uploadController{service: service}
}

func (c *uploadController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/upload")
	h.Use(authMiddleware)
	h.Post("/single", c.Single)
	h.Post("/multiple", c.Multiple)
}

func (c *uploadController) Single(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		return service.ErrFileMissing
	}

	res, err := c.service.UploadSingle(ctx.UserContext(), id, file, ctx.FormValue("campo"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Arquivo enviado", res))
}

func (c *uploadController) Multiple(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return service.ErrNoFiles
	}

	res, err := c.service.UploadMultiple(ctx.UserContext(), id, form.File["files"])
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Arquivos enviados", res))
}
