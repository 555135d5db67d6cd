package service

import (
	"context"
	"time"

	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/updater"

	"github.com/google/uuid"
)

// profileStore adapts the provider repository to the updater.
type profileStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProfileStore(uowFactory unitofwork.RepositoryFactory) updater.Store {
	return &profileStore{uowFactory: uowFactory}
}

func (s *profileStore) FindProfile(ctx context.Context, id uuid.UUID) (*onboarding.Profile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	provider, err := uow.ProviderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, onboarding.ErrProviderNotFound
	}
	profile := provider.Profile
	return &profile, nil
}

func (s *profileStore) ApplyDelta(ctx context.Context, id uuid.UUID, delta onboarding.Delta, updatedAt time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProviderRepository().UpdateColumns(ctx, id, delta, updatedAt)
}
