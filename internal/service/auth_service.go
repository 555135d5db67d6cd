package service

import (
	"context"
	"errors"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const registerMessage = "Cadastro inicial realizado com sucesso! Agora vamos completar seu perfil com nosso assistente."

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, providerId uuid.UUID) (*dto.ProviderSummaryDTO, error)
}

type AuthOptions struct {
	JWTSecret     string
	JWTExpiration time.Duration
	BcryptCost    int
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	opts           AuthOptions
	logger         logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, opts AuthOptions, log logger.ILogger) IAuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.JWTExpiration == 0 {
		opts.JWTExpiration = 24 * time.Hour
	}
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		opts:           opts,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProviderRepository()

	// 1. Check for existing email and cpf
	existing, err := repo.FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	existing, err = repo.FindOne(ctx, specification.ByCpf{Cpf: req.Cpf})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCpfAlreadyRegistered
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), s.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	// 3. Save, the unique indexes settle races between the checks and here
	now := time.Now()
	provider := &entity.Provider{
		Profile: onboarding.Profile{
			ID:    uuid.New(),
			Nome:  req.Nome,
			Email: req.Email,
			Cpf:   req.Cpf,
		},
		SenhaHash: string(hash),
		Status:    entity.ProviderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, provider); err != nil {
		var uniqueErr *onboarding.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			if uniqueErr.Field == onboarding.FieldCpf {
				return nil, ErrCpfAlreadyRegistered
			}
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}

	// 4. Token
	token, err := s.issueToken(provider)
	if err != nil {
		return nil, err
	}

	// 5. Notify, auxiliary so failures are only logged
	s.publish(ctx, events.ProviderRegistered, provider)

	return &dto.AuthResponse{
		Token:    token,
		Provider: summaryOf(provider, false),
		Message:  registerMessage,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(provider.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(provider)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:    token,
		Provider: summaryOf(provider, false),
	}, nil
}

func (s *authService) Me(ctx context.Context, providerId uuid.UUID) (*dto.ProviderSummaryDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: providerId})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, onboarding.ErrProviderNotFound
	}
	summary := summaryOf(provider, true)
	return &summary, nil
}

func (s *authService) issueToken(provider *entity.Provider) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": provider.ID.String(),
		"email":   provider.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.opts.JWTExpiration).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.JWTSecret))
}

func (s *authService) publish(ctx context.Context, eventType string, provider *entity.Provider) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"provider_id": provider.ID.String(),
			"email":       provider.Email,
			"nome":        provider.Nome,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("AUTH", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func summaryOf(p *entity.Provider, withCpf bool) dto.ProviderSummaryDTO {
	out := dto.ProviderSummaryDTO{
		Id:               p.ID,
		Email:            p.Email,
		Nome:             p.Nome,
		Status:           string(p.Status),
		CadastroCompleto: p.CadastroCompleto,
	}
	if withCpf {
		out.Cpf = p.Cpf
	}
	return out
}
