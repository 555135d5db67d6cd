package controller

import (
	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ValidateField(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/chatbot")
	h.Post("/chat", authMiddleware, c.Chat)
	h.Post("/reset", authMiddleware, c.Reset)
	h.Get("/history", authMiddleware, c.History)
	h.Post("/validate-field", authMiddleware, c.ValidateField)
	h.Patch("/profile", authMiddleware, c.UpdateProfile)
}

func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody()
	}

	res, err := c.chatbotService.Chat(ctx.UserContext(), id, req.Message)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Mensagem processada", res))
}

func (c *chatbotController) Reset(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	if err := c.chatbotService.ResetConversation(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversa reiniciada", nil))
}

func (c *chatbotController) History(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatbotService.GetHistory(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Histórico da conversa", res))
}

func (c *chatbotController) ValidateField(ctx *fiber.Ctx) error {
	var req dto.ValidateFieldRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody()
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.ValidateField(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Campo validado", res))
}

func (c *chatbotController) UpdateProfile(ctx *fiber.Ctx) error {
	id, err := principalID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badBody()
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.UpdateProfile(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Perfil atualizado", res))
}
