package service

import (
	"context"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/stage"

	"github.com/google/uuid"
)

const defaultPageSize = 20

type IProviderService interface {
	List(ctx context.Context, req *dto.ListProvidersRequest) ([]dto.ProviderListItem, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProviderDetailResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProviderDetailResponse, error)
	Stages(ctx context.Context, id uuid.UUID) (*dto.ProviderStagesResponse, error)
}

type providerService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewProviderService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, log logger.ILogger) IProviderService {
	return &providerService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *providerService) List(ctx context.Context, req *dto.ListProvidersRequest) ([]dto.ProviderListItem, int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProviderRepository()

	var filters []specification.Specification
	if req.Status != "" {
		filters = append(filters, specification.ByStatus{Status: req.Status})
	}
	if req.Completo != nil {
		filters = append(filters, specification.RegistrationComplete{Complete: *req.Completo})
	}

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	specs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)

	providers, err := repo.FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.ProviderListItem, 0, len(providers))
	for _, p := range providers {
		items = append(items, dto.ProviderListItem{
			Profile:   p.Profile,
			Status:    string(p.Status),
			CreatedAt: p.CreatedAt,
		})
	}
	return items, total, nil
}

func (s *providerService) Get(ctx context.Context, id uuid.UUID) (*dto.ProviderDetailResponse, error) {
	provider, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return detailOf(provider), nil
}

func (s *providerService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*dto.ProviderDetailResponse, error) {
	next := entity.ProviderStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// 1. Lock the row so concurrent reviews see each other's change
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, onboarding.ErrProviderNotFound
	}

	// 2. Update
	if err := uow.ProviderRepository().UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	previous := provider.Status
	provider.Status = next
	provider.UpdatedAt = time.Now()

	if previous != next && s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.ProviderStatusChanged,
			Data: map[string]interface{}{
				"provider_id": provider.ID.String(),
				"email":       provider.Email,
				"nome":        provider.Nome,
				"status":      string(next),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PROVIDER", "Failed to publish status change", map[string]interface{}{
				"provider_id": id.String(),
				"error":       err.Error(),
			})
		}
	}

	return detailOf(provider), nil
}

func (s *providerService) Stages(ctx context.Context, id uuid.UUID) (*dto.ProviderStagesResponse, error) {
	provider, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return stagesOf(&provider.Profile), nil
}

func (s *providerService) find(ctx context.Context, id uuid.UUID) (*entity.Provider, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, onboarding.ErrProviderNotFound
	}
	return provider, nil
}

func detailOf(p *entity.Provider) *dto.ProviderDetailResponse {
	return &dto.ProviderDetailResponse{
		Profile:   p.Profile,
		Status:    string(p.Status),
		Stages:    stage.Evaluate(&p.Profile),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func stagesOf(p *onboarding.Profile) *dto.ProviderStagesResponse {
	snap := stage.Evaluate(p)
	details := make([]dto.StageDetail, 0, stage.Count)
	for n := 1; n <= stage.Count; n++ {
		missing := stage.MissingFields(p, n)
		if missing == nil {
			missing = []string{}
		}
		details = append(details, dto.StageDetail{
			Etapa:    n,
			Nome:     stage.Names[n],
			Completa: snap.Complete(n),
			Faltando: missing,
		})
	}
	return &dto.ProviderStagesResponse{
		Stages:         snap,
		Detalhes:       details,
		EtapaAtual:     snap.FirstIncomplete(),
		TodasCompletas: snap.AllComplete(),
	}
}
