package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"cadastro-prestador-be/internal/constant"
	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/dialogue"
	"cadastro-prestador-be/pkg/onboarding/extract"
	"cadastro-prestador-be/pkg/onboarding/stage"
	"cadastro-prestador-be/pkg/onboarding/updater"

	"github.com/google/uuid"
)

const validationUnavailableMessage = "Não foi possível validar automaticamente. O valor foi aceito."

type IChatbotService interface {
	Chat(ctx context.Context, principalId uuid.UUID, message string) (*dto.ChatResponse, error)
	ResetConversation(ctx context.Context, principalId uuid.UUID) error
	GetHistory(ctx context.Context, principalId uuid.UUID) (*dto.ConversationHistoryResponse, error)
	ValidateField(ctx context.Context, req *dto.ValidateFieldRequest) (*dto.ValidateFieldResponse, error)
	UpdateProfile(ctx context.Context, principalId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileUpdateResponse, error)
}

// GenerationOptions are the sampling settings sent with every generator call.
type GenerationOptions struct {
	Timeout     time.Duration
	Temperature float64
	TopK        int
	TopP        float64
	MaxTokens   int
}

type chatbotService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	conversations  contract.ConversationRepository
	store          updater.Store
	updater        *updater.Updater
	eventPublisher events.Publisher
	opts           GenerationOptions
	locks          *principalLock
	logger         logger.ILogger
	llmLogger      logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	conversations contract.ConversationRepository,
	store updater.Store,
	eventPublisher events.Publisher,
	opts GenerationOptions,
	log logger.ILogger,
	llmLogger logger.ILogger,
) IChatbotService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &chatbotService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		conversations:  conversations,
		store:          store,
		updater:        updater.New(store),
		eventPublisher: eventPublisher,
		opts:           opts,
		locks:          newPrincipalLock(),
		logger:         log,
		llmLogger:      llmLogger,
	}
}

// Chat runs one assistant turn for the principal.
func (cs *chatbotService) Chat(ctx context.Context, principalId uuid.UUID, message string) (*dto.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return &dto.ChatResponse{
			Response:      constant.EmptyChatMessageReply,
			ExtractedData: onboarding.Delta{},
		}, nil
	}

	// 1. Preconditions, nothing is written before these pass
	if !llm.IsConfigured(cs.llmProvider) {
		return nil, llm.ErrNotConfigured
	}
	if _, err := cs.store.FindProfile(ctx, principalId); err != nil {
		return nil, err
	}

	unlock := cs.locks.Lock(principalId)
	defer unlock()

	// 2. Record the user turn
	if _, err := cs.conversations.Append(ctx, principalId, onboarding.Message{Role: onboarding.RoleUser, Content: message}); err != nil {
		return nil, err
	}

	// 3. Extract and persist
	extracted := extract.Extract(message)
	result, err := cs.updater.Apply(ctx, principalId, extracted)
	if err != nil {
		cs.clear(ctx, principalId)
		cs.logger.Error("CHATBOT", "Failed to apply extracted data", map[string]interface{}{
			"provider_id": principalId.String(),
			"error":       err.Error(),
		})
		return nil, err
	}
	if len(result.Dropped) > 0 {
		cs.logger.Info("CHATBOT", "Dropped fields from delta", map[string]interface{}{
			"provider_id": principalId.String(),
			"dropped":     result.Dropped,
		})
	}

	profile := result.Profile
	snap := stage.Evaluate(profile)

	conv, err := cs.conversations.GetOrCreate(ctx, principalId)
	if err != nil {
		return nil, err
	}

	// 4. Generate, degrading to the scripted dialogue
	reply, source, err := cs.generate(ctx, principalId, message, conv.Messages, snap, profile)
	if err != nil {
		cs.clear(ctx, principalId)
		return nil, ErrProcessingFailed
	}

	// 5. Record the assistant turn
	conv, err = cs.conversations.Append(ctx, principalId, onboarding.Message{Role: onboarding.RoleAssistant, Content: reply})
	if err != nil {
		return nil, err
	}

	// 6. Registration completion
	if snap.AllComplete() && !profile.CadastroCompleto {
		cs.completeRegistration(ctx, profile)
	}

	return &dto.ChatResponse{
		Response:       reply,
		ExtractedData:  extracted,
		ConversationId: conv.ID,
		Stages:         &snap,
		Source:         source,
	}, nil
}

// generate asks the generator for a reply. Rate limiting, timeouts and empty
// answers fall back to the scripted dialogue; any other failure is returned.
func (cs *chatbotService) generate(ctx context.Context, principalId uuid.UUID, message string, history []onboarding.Message, snap stage.Snapshot, profile *onboarding.Profile) (string, string, error) {
	prompt := constant.BuildChatPrompt(profile, snap, history)

	genCtx, cancel := context.WithTimeout(ctx, cs.opts.Timeout)
	defer cancel()

	start := time.Now()
	reply, err := cs.llmProvider.Generate(genCtx, prompt, cs.options()...)
	details := map[string]interface{}{
		"provider_id": principalId.String(),
		"duration_ms": time.Since(start).Milliseconds(),
		"turns":       len(history),
	}

	switch {
	case err == nil && strings.TrimSpace(reply) != "":
		details["source"] = constant.ChatSourceGenerator
		cs.llmLogger.Info("ASSISTANT", "Generator reply", details)
		return strings.TrimSpace(reply), constant.ChatSourceGenerator, nil
	case err == nil, errors.Is(err, llm.ErrRateLimited), errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, context.DeadlineExceeded):
		details["source"] = constant.ChatSourceFallback
		if err != nil {
			details["error"] = err.Error()
		}
		cs.llmLogger.Warn("ASSISTANT", "Using fallback dialogue", details)
		return dialogue.Respond(message, history, snap, profile), constant.ChatSourceFallback, nil
	default:
		details["error"] = err.Error()
		cs.llmLogger.Error("ASSISTANT", "Generator failed", details)
		cs.logger.Error("CHATBOT", "Generator failed", details)
		return "", "", err
	}
}

func (cs *chatbotService) options() []llm.Option {
	return []llm.Option{
		llm.WithTemperature(cs.opts.Temperature),
		llm.WithTopK(cs.opts.TopK),
		llm.WithTopP(cs.opts.TopP),
		llm.WithMaxTokens(cs.opts.MaxTokens),
	}
}

func (cs *chatbotService) clear(ctx context.Context, principalId uuid.UUID) {
	if err := cs.conversations.Clear(ctx, principalId); err != nil {
		cs.logger.Warn("CHATBOT", "Failed to clear conversation", map[string]interface{}{
			"provider_id": principalId.String(),
			"error":       err.Error(),
		})
	}
}

func (cs *chatbotService) completeRegistration(ctx context.Context, profile *onboarding.Profile) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProviderRepository().MarkRegistrationComplete(ctx, profile.ID, true); err != nil {
		cs.logger.Error("CHATBOT", "Failed to mark registration complete", map[string]interface{}{
			"provider_id": profile.ID.String(),
			"error":       err.Error(),
		})
		return
	}
	profile.CadastroCompleto = true

	if cs.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.ProviderRegistrationCompleted,
		Data: map[string]interface{}{
			"provider_id": profile.ID.String(),
			"email":       profile.Email,
			"nome":        profile.Nome,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("CHATBOT", "Failed to publish registration completed", map[string]interface{}{
			"provider_id": profile.ID.String(),
			"error":       err.Error(),
		})
	}
}

func (cs *chatbotService) ResetConversation(ctx context.Context, principalId uuid.UUID) error {
	unlock := cs.locks.Lock(principalId)
	defer unlock()
	return cs.conversations.Clear(ctx, principalId)
}

func (cs *chatbotService) GetHistory(ctx context.Context, principalId uuid.UUID) (*dto.ConversationHistoryResponse, error) {
	conv, err := cs.conversations.Get(ctx, principalId)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &dto.ConversationHistoryResponse{Messages: []onboarding.Message{}}, nil
	}
	return &dto.ConversationHistoryResponse{
		ConversationId: conv.ID,
		Messages:       conv.Messages,
	}, nil
}

// ValidateField never rejects a value because the generator misbehaved.
func (cs *chatbotService) ValidateField(ctx context.Context, req *dto.ValidateFieldRequest) (*dto.ValidateFieldResponse, error) {
	failOpen := &dto.ValidateFieldResponse{Valid: true, Message: validationUnavailableMessage}
	if !llm.IsConfigured(cs.llmProvider) {
		return failOpen, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, cs.opts.Timeout)
	defer cancel()

	raw, err := cs.llmProvider.Generate(genCtx, constant.BuildFieldValidationPrompt(req.Field, req.Value), llm.WithTemperature(0))
	if err != nil {
		cs.llmLogger.Warn("ASSISTANT", "Field validation failed", map[string]interface{}{
			"field": req.Field,
			"error": err.Error(),
		})
		return failOpen, nil
	}

	// a verdict without "valid" is as useless as no verdict
	var out struct {
		Valid   *bool  `json:"valid"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(jsonObject(raw)), &out); err != nil || out.Valid == nil {
		cs.llmLogger.Warn("ASSISTANT", "Unparseable field validation", map[string]interface{}{
			"field": req.Field,
			"raw":   raw,
		})
		return failOpen, nil
	}
	return &dto.ValidateFieldResponse{Valid: *out.Valid, Message: out.Message}, nil
}

// jsonObject cuts the outermost {...} out of a generator answer, which often
// arrives wrapped in a markdown fence.
func jsonObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

func (cs *chatbotService) UpdateProfile(ctx context.Context, principalId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileUpdateResponse, error) {
	unlock := cs.locks.Lock(principalId)
	defer unlock()

	result, err := cs.updater.Apply(ctx, principalId, req.ToDelta())
	if err != nil {
		return nil, err
	}

	snap := stage.Evaluate(result.Profile)
	if snap.AllComplete() && !result.Profile.CadastroCompleto {
		cs.completeRegistration(ctx, result.Profile)
	}

	dropped := result.Dropped
	if dropped == nil {
		dropped = []string{}
	}
	return &dto.ProfileUpdateResponse{
		Profile: result.Profile,
		Applied: result.Applied.Keys(),
		Dropped: dropped,
		Stages:  snap,
	}, nil
}
