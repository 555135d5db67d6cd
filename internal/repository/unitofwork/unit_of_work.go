package unitofwork

import (
	"context"

	"cadastro-prestador-be/internal/repository/contract"
)

// UnitOfWork hands out repositories that share one connection or, between
// Begin and Commit, one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	// Rollback is a no-op once Commit succeeded, so it can be deferred.
	Rollback() error

	ProviderRepository() contract.ProviderRepository
}
