package contract

import (
	"context"
	"time"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
)

type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateColumns writes the delta and updatedAt. A unique constraint hit
	// comes back as *onboarding.UniqueViolationError.
	UpdateColumns(ctx context.Context, id uuid.UUID, delta onboarding.Delta, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ProviderStatus) error
	MarkRegistrationComplete(ctx context.Context, id uuid.UUID, complete bool) error
}
