package handler

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/service"
	internalWS "cadastro-prestador-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// turnTimeout bounds a whole websocket turn; the generator has its own,
// shorter budget inside the service.
const turnTimeout = 2 * time.Minute

// ChatbotWsHandler carries assistant turns over a websocket and relays
// provider events to the same socket.
type ChatbotWsHandler struct {
	chatbotService service.IChatbotService
	hub            *internalWS.Hub
	jwtSecret      string
	logger         logger.ILogger
}

func NewChatbotWsHandler(chatbotService service.IChatbotService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ChatbotWsHandler {
	return &ChatbotWsHandler{
		chatbotService: chatbotService,
		hub:            hub,
		jwtSecret:      jwtSecret,
		logger:         log,
	}
}

func (h *ChatbotWsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chatbot/ws", h.ServeWs)
}

// ServeWs authenticates the handshake and upgrades the connection. Browsers
// cannot set headers on a websocket, so the token may come as ?token=.
func (h *ChatbotWsHandler) ServeWs(c *fiber.Ctx) error {
	// 1. Token source
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Token não informado")
	}

	// 2. Validate
	userIDStr, _, err := serverutils.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("WS", "Invalid token in handshake", map[string]interface{}{"error": err.Error()})
		return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
	}
	principalID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
	}

	// 3. Upgrade
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("WS", "Session started", map[string]interface{}{"provider_id": principalID.String()})
		internalWS.ServeWs(h.hub, conn, principalID, h.Turn)
		h.logger.Info("WS", "Session ended", map[string]interface{}{"provider_id": principalID.String()})
	})(c)
}

// Turn accepts {"message": "..."} or plain text.
func (h *ChatbotWsHandler) Turn(principalID uuid.UUID, payload []byte) internalWS.Frame {
	var req dto.ChatRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		req.Message = string(payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	res, err := h.chatbotService.Chat(ctx, principalID, req.Message)
	if err != nil {
		code := serverutils.StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError && !serverutils.IsPublic(err) {
			message = "Erro interno do servidor"
		}
		return internalWS.Frame{Type: "error", Code: code, Message: message}
	}
	return internalWS.Frame{Type: "chat", Data: res}
}
