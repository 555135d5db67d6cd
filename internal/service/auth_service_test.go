package service

import (
	"context"
	"testing"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/pkg/serverutils"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newAuthFixture() (IAuthService, *fakeProviderRepository, *recordingPublisher) {
	repo := newFakeProviderRepository()
	pub := &recordingPublisher{}
	svc := NewAuthService(&fakeRepositoryFactory{repo: repo}, pub, AuthOptions{
		JWTSecret:     testSecret,
		JWTExpiration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}, logger.NewNopLogger())
	return svc, repo, pub
}

func TestRegister(t *testing.T) {
	svc, repo, pub := newAuthFixture()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Nome:  "João Silva",
		Email: "joao@email.com",
		Senha: "123456",
		Cpf:   "12345678909",
	})

	require.NoError(t, err)
	assert.Equal(t, registerMessage, resp.Message)
	assert.Equal(t, "pendente", resp.Provider.Status)
	assert.False(t, resp.Provider.CadastroCompleto)
	assert.Empty(t, resp.Provider.Cpf)

	userID, email, err := serverutils.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Provider.Id.String(), userID)
	assert.Equal(t, "joao@email.com", email)

	stored := repo.get(resp.Provider.Id)
	require.NotNil(t, stored)
	assert.NotEqual(t, "123456", stored.SenhaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SenhaHash), []byte("123456")))
	assert.Equal(t, []string{events.ProviderRegistered}, pub.types())
}

func TestRegisterDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr error
	}{
		{
			name:    "email taken",
			req:     dto.RegisterRequest{Nome: "Outro", Email: "joao@email.com", Senha: "123456", Cpf: "98765432100"},
			wantErr: ErrEmailAlreadyRegistered,
		},
		{
			name:    "cpf taken",
			req:     dto.RegisterRequest{Nome: "Outro", Email: "outro@email.com", Senha: "123456", Cpf: "12345678909"},
			wantErr: ErrCpfAlreadyRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := newAuthFixture()
			repo.add(&entity.Provider{Profile: onboarding.Profile{Email: "joao@email.com", Cpf: "12345678909"}})

			_, err := svc.Register(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, pub.types())
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Nome: "João Silva", Email: "joao@email.com", Senha: "123456", Cpf: "12345678909",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		senha   string
		wantErr error
	}{
		{name: "valid", email: "joao@email.com", senha: "123456"},
		{name: "wrong password", email: "joao@email.com", senha: "654321", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "x@email.com", senha: "123456", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Senha: tt.senha})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, "João Silva", resp.Provider.Nome)
		})
	}
}

func TestMe(t *testing.T) {
	svc, repo, _ := newAuthFixture()
	p := repo.add(&entity.Provider{Profile: onboarding.Profile{Nome: "Ana", Email: "ana@email.com", Cpf: "11122233344"}})

	me, err := svc.Me(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "11122233344", me.Cpf)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, onboarding.ErrProviderNotFound)
}
