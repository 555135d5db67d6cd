package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/internal/service"
	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "controller-secret"

type stubChatbot struct {
	service.IChatbotService
	chatErr error
	lastID  uuid.UUID
}

func (s *stubChatbot) Chat(ctx context.Context, principalId uuid.UUID, message string) (*dto.ChatResponse, error) {
	s.lastID = principalId
	if s.chatErr != nil {
		return nil, s.chatErr
	}
	return &dto.ChatResponse{Response: "ok", ExtractedData: onboarding.Delta{}}, nil
}

type stubAuth struct {
	service.IAuthService
	called bool
}

func (s *stubAuth) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	s.called = true
	return &dto.AuthResponse{Token: "t", Message: "Cadastro inicial realizado com sucesso!"}, nil
}

func newApp(chat service.IChatbotService, auth service.IAuthService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	mw := serverutils.JwtMiddleware(secret)
	NewChatbotController(chat).RegisterRoutes(api, mw)
	NewAuthController(auth).RegisterRoutes(api, mw)
	return app
}

func bearer(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id.String(),
		"email":   "a@b.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, app *fiber.App, method, path, body, auth string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestChatEndpoint(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		auth     string
		chatErr  error
		wantCode int
		wantMsg  string
	}{
		{name: "ok", auth: bearer(t, id), wantCode: http.StatusOK, wantMsg: "Mensagem processada"},
		{name: "no token", wantCode: http.StatusUnauthorized, wantMsg: "Token não informado"},
		{name: "bad token", auth: "Bearer nope", wantCode: http.StatusUnauthorized, wantMsg: "Token inválido"},
		{name: "generator not configured", auth: bearer(t, id), chatErr: llm.ErrNotConfigured, wantCode: http.StatusServiceUnavailable, wantMsg: llm.ErrNotConfigured.Error()},
		{name: "unknown provider", auth: bearer(t, id), chatErr: onboarding.ErrProviderNotFound, wantCode: http.StatusNotFound, wantMsg: onboarding.ErrProviderNotFound.Error()},
		{name: "processing failure", auth: bearer(t, id), chatErr: service.ErrProcessingFailed, wantCode: http.StatusInternalServerError, wantMsg: "Erro ao processar mensagem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChatbot{chatErr: tt.chatErr}
			app := newApp(chat, &stubAuth{})

			code, body := do(t, app, http.MethodPost, "/api/chatbot/chat", `{"message":"oi"}`, tt.auth)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, body["message"])
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, id, chat.lastID)
				assert.Equal(t, true, body["success"])
			}
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "valid", body: `{"nome":"João","email":"j@x.com","senha":"123456","cpf":"12345678909"}`, wantCode: http.StatusCreated},
		{name: "bad email", body: `{"nome":"João","email":"x","senha":"123456","cpf":"12345678909"}`, wantCode: http.StatusBadRequest, wantMsg: "E-mail inválido"},
		{name: "short cpf", body: `{"nome":"João","email":"j@x.com","senha":"123456","cpf":"123"}`, wantCode: http.StatusBadRequest, wantMsg: "CPF deve ter 11 dígitos"},
		{name: "broken json", body: `{`, wantCode: http.StatusBadRequest, wantMsg: "Corpo da requisição inválido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuth{}
			app := newApp(&stubChatbot{}, auth)

			code, body := do(t, app, http.MethodPost, "/api/auth/register", tt.body, "")

			assert.Equal(t, tt.wantCode, code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
				assert.False(t, auth.called)
			}
		})
	}
}
