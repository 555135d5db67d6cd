package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cadastro-prestador-be/internal/constant"
	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/repository/memory"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addressMessage = "RG: 123456789, Estado: SP, Cidade: São Paulo, CEP: 01310-100"

type chatbotFixture struct {
	svc           IChatbotService
	repo          *fakeProviderRepository
	conversations *memory.ConversationRepository
	llm           *fakeLLM
	events        *recordingPublisher
	provider      *entity.Provider
}

func newChatbotFixture(t *testing.T, gen *fakeLLM) *chatbotFixture {
	t.Helper()
	repo := newFakeProviderRepository()
	provider := repo.add(&entity.Provider{Profile: onboarding.Profile{
		Nome:  "João Silva",
		Email: "joao@email.com",
		Cpf:   "12345678909",
	}})
	factory := &fakeRepositoryFactory{repo: repo}
	conversations := memory.NewConversationRepository(0)
	pub := &recordingPublisher{}

	svc := NewChatbotService(factory, gen, conversations, NewProfileStore(factory), pub,
		GenerationOptions{Timeout: 50 * time.Millisecond, Temperature: 0.7, TopK: 40, TopP: 0.95, MaxTokens: 1024},
		logger.NewNopLogger(), logger.NewNopLogger())

	return &chatbotFixture{
		svc:           svc,
		repo:          repo,
		conversations: conversations,
		llm:           gen,
		events:        pub,
		provider:      provider,
	}
}

// completeProfile fills everything but the CEP.
func completeProfile(p *onboarding.Profile) {
	p.Rg, p.Estado, p.Cidade = "123456789", "SP", "Santos"
	p.EstadoInteresse, p.CidadeInteresse, p.Categorias = "SP", "Santos", []string{"eletricista"}
	p.Referencias = []onboarding.Reference{{Nome: "Ana", Telefone: "11987654321"}, {Nome: "Bia", Telefone: "11912345678"}}
	p.PixTipo, p.PixChave, p.BancoNome, p.Agencia, p.Conta = "CPF", "12345678909", "Itaú", "1234", "56789-0"
	p.FotoPerfil, p.FotoDocumento, p.CertidaoAntecedentes = "/uploads/a.png", "/uploads/b.png", "/uploads/c.pdf"
}

func TestChatGeneratorReply(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "  Ótimo, recebi seus dados!  "})

	resp, err := f.svc.Chat(context.Background(), f.provider.ID, addressMessage)

	require.NoError(t, err)
	assert.Equal(t, "Ótimo, recebi seus dados!", resp.Response)
	assert.Equal(t, constant.ChatSourceGenerator, resp.Source)
	assert.Equal(t, "SP", resp.ExtractedData.String(onboarding.FieldEstado))
	require.NotNil(t, resp.Stages)
	assert.True(t, resp.Stages.Etapa1)
	assert.False(t, resp.Stages.Etapa2)

	stored := f.repo.get(f.provider.ID)
	assert.Equal(t, "01310100", stored.Cep)

	conv, err := f.conversations.Get(context.Background(), f.provider.ID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, onboarding.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, onboarding.RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, conv.ID, resp.ConversationId)

	require.Len(t, f.llm.prompts, 1)
	assert.Contains(t, f.llm.prompts[0], addressMessage)
	assert.Contains(t, f.llm.prompts[0], "Etapa 1 (Dados pessoais e endereço): completa")
}

func TestChatFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeLLM
	}{
		{name: "rate limited", gen: &fakeLLM{configured: true, err: fmt.Errorf("gemini: %w", llm.ErrRateLimited)}},
		{name: "timeout", gen: &fakeLLM{configured: true, block: true}},
		{name: "empty reply", gen: &fakeLLM{configured: true, reply: "   "}},
		{name: "blocked reply", gen: &fakeLLM{configured: true, err: fmt.Errorf("gemini: %w (blocked: SAFETY)", llm.ErrEmptyResponse)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatbotFixture(t, tt.gen)

			resp, err := f.svc.Chat(context.Background(), f.provider.ID, "Olá")

			require.NoError(t, err)
			assert.Equal(t, constant.ChatSourceFallback, resp.Source)
			assert.Contains(t, resp.Response, "Olá! 👋")

			conv, err := f.conversations.Get(context.Background(), f.provider.ID)
			require.NoError(t, err)
			assert.Len(t, conv.Messages, 2)
		})
	}
}

func TestChatBankingTurnKeepsStoredCEP(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, err: fmt.Errorf("gemini: %w", llm.ErrRateLimited)})
	f.repo.providers[f.provider.ID].Cep = "01310100"

	resp, err := f.svc.Chat(context.Background(), f.provider.ID, "Banco: Nubank, Agência: 0001, Conta: 12345-678")

	require.NoError(t, err)
	assert.False(t, resp.ExtractedData.Has(onboarding.FieldCep))
	stored := f.repo.get(f.provider.ID)
	assert.Equal(t, "01310100", stored.Cep)
	assert.Equal(t, "12345-678", stored.Conta)
}

func TestChatRGAloneDoesNotCompleteFirstStage(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, err: fmt.Errorf("gemini: %w", llm.ErrRateLimited)})

	resp, err := f.svc.Chat(context.Background(), f.provider.ID, "RG: 12345678, Estado: SP, Cidade: Santos")

	require.NoError(t, err)
	stored := f.repo.get(f.provider.ID)
	assert.Equal(t, "12345678", stored.Rg)
	assert.Empty(t, stored.Cep)
	assert.False(t, resp.Stages.Etapa1)
}

func TestChatGeneratorFailureClearsConversation(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "primeira"})
	_, err := f.svc.Chat(context.Background(), f.provider.ID, "Olá")
	require.NoError(t, err)

	f.llm.reply, f.llm.err = "", errors.New("invalid argument")
	_, err = f.svc.Chat(context.Background(), f.provider.ID, "quero continuar")

	assert.ErrorIs(t, err, ErrProcessingFailed)
	conv, err := f.conversations.Get(context.Background(), f.provider.ID)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestChatPersistenceFailureClearsConversation(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "ok"})
	f.repo.updateErr = errors.New("connection refused")

	_, err := f.svc.Chat(context.Background(), f.provider.ID, addressMessage)

	require.Error(t, err)
	conv, err := f.conversations.Get(context.Background(), f.provider.ID)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestChatPreconditions(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		f := newChatbotFixture(t, &fakeLLM{})

		resp, err := f.svc.Chat(context.Background(), f.provider.ID, "   ")

		require.NoError(t, err)
		assert.Equal(t, constant.EmptyChatMessageReply, resp.Response)
		assert.Empty(t, resp.ExtractedData)
	})

	t.Run("generator not configured", func(t *testing.T) {
		f := newChatbotFixture(t, &fakeLLM{configured: false})

		_, err := f.svc.Chat(context.Background(), f.provider.ID, addressMessage)

		assert.ErrorIs(t, err, llm.ErrNotConfigured)
		assert.Empty(t, f.repo.get(f.provider.ID).Rg)
		conv, _ := f.conversations.Get(context.Background(), f.provider.ID)
		assert.Nil(t, conv)
	})

	t.Run("unknown principal", func(t *testing.T) {
		f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "oi"})

		_, err := f.svc.Chat(context.Background(), uuid.New(), "Olá")

		assert.ErrorIs(t, err, onboarding.ErrProviderNotFound)
	})
}

func TestChatCompletesRegistration(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "Parabéns!"})
	completeProfile(&f.repo.providers[f.provider.ID].Profile)

	resp, err := f.svc.Chat(context.Background(), f.provider.ID, "CEP: 11000-000")

	require.NoError(t, err)
	assert.True(t, resp.Stages.AllComplete())
	assert.True(t, f.repo.get(f.provider.ID).CadastroCompleto)
	assert.Equal(t, []string{events.ProviderRegistrationCompleted}, f.events.types())
}

func TestChatSerialisesSamePrincipal(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "ok"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Chat(context.Background(), f.provider.ID, "Olá")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	conv, err := f.conversations.Get(context.Background(), f.provider.ID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 16)
	for i, m := range conv.Messages {
		want := onboarding.RoleUser
		if i%2 == 1 {
			want = onboarding.RoleAssistant
		}
		assert.Equal(t, want, m.Role, "message %d", i)
	}
}

func TestResetAndHistory(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{configured: true, reply: "ok"})
	ctx := context.Background()

	hist, err := f.svc.GetHistory(ctx, f.provider.ID)
	require.NoError(t, err)
	assert.Empty(t, hist.Messages)

	first, err := f.svc.Chat(ctx, f.provider.ID, "Olá")
	require.NoError(t, err)

	hist, err = f.svc.GetHistory(ctx, f.provider.ID)
	require.NoError(t, err)
	assert.Len(t, hist.Messages, 2)
	assert.Equal(t, first.ConversationId, hist.ConversationId)

	require.NoError(t, f.svc.ResetConversation(ctx, f.provider.ID))

	second, err := f.svc.Chat(ctx, f.provider.ID, "Olá")
	require.NoError(t, err)
	assert.NotEqual(t, first.ConversationId, second.ConversationId)
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name      string
		gen       *fakeLLM
		wantValid bool
		wantMsg   string
	}{
		{
			name:      "fenced json",
			gen:       &fakeLLM{configured: true, reply: "```json\n{\"valid\": false, \"message\": \"CEP deve ter 8 dígitos\"}\n```"},
			wantValid: false,
			wantMsg:   "CEP deve ter 8 dígitos",
		},
		{
			name:      "garbage fails open",
			gen:       &fakeLLM{configured: true, reply: "não sei"},
			wantValid: true,
			wantMsg:   validationUnavailableMessage,
		},
		{
			name:      "object without verdict fails open",
			gen:       &fakeLLM{configured: true, reply: `{"message": "parece ok"}`},
			wantValid: true,
			wantMsg:   validationUnavailableMessage,
		},
		{
			name:      "empty object fails open",
			gen:       &fakeLLM{configured: true, reply: "{}"},
			wantValid: true,
			wantMsg:   validationUnavailableMessage,
		},
		{
			name:      "generator error fails open",
			gen:       &fakeLLM{configured: true, err: errors.New("boom")},
			wantValid: true,
			wantMsg:   validationUnavailableMessage,
		},
		{
			name:      "not configured fails open",
			gen:       &fakeLLM{},
			wantValid: true,
			wantMsg:   validationUnavailableMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newChatbotFixture(t, tt.gen)

			resp, err := f.svc.ValidateField(context.Background(), &dto.ValidateFieldRequest{Field: "cep", Value: "123"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, resp.Valid)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newChatbotFixture(t, &fakeLLM{})
	f.repo.providers[f.provider.ID].Cnpj = "12345678000190"

	resp, err := f.svc.UpdateProfile(context.Background(), f.provider.ID, &dto.UpdateProfileRequest{
		Rg:     "123456789",
		Estado: "SP",
		Cidade: "Santos",
		Cep:    "11000000",
		Cnpj:   "99999999000199",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"cep", "cidade", "estado", "rg"}, resp.Applied)
	assert.Equal(t, []string{onboarding.FieldCnpj}, resp.Dropped)
	assert.True(t, resp.Stages.Etapa1)
	assert.Equal(t, "12345678000190", resp.Profile.Cnpj)
}
