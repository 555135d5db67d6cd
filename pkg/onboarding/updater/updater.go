// Package updater applies extracted deltas to a stored provider profile.
package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
)

var ErrSaveFailed = errors.New("não foi possível salvar os dados")

// Store is the persistence the updater needs. FindProfile returns
// onboarding.ErrProviderNotFound for unknown ids. ApplyDelta reports a
// *onboarding.UniqueViolationError when a unique field collides.
type Store interface {
	FindProfile(ctx context.Context, id uuid.UUID) (*onboarding.Profile, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, delta onboarding.Delta, updatedAt time.Time) error
}

type Result struct {
	Profile *onboarding.Profile
	Applied onboarding.Delta
	Dropped []string
	Updated bool
}

type Updater struct {
	store Store
	now   func() time.Time
}

func New(store Store) *Updater {
	return &Updater{store: store, now: time.Now}
}

// Apply writes delta to the profile of id. Immutable fields and empty values
// are discarded first; an empty remainder is a no-op, not an error.
func (u *Updater) Apply(ctx context.Context, id uuid.UUID, delta onboarding.Delta) (*Result, error) {
	profile, err := u.store.FindProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	// 1. Strip credentials and identity
	pending := delta.Without(onboarding.ImmutableFields...).Compact()
	res := &Result{Profile: profile}

	// 2. A stored cnpj is never overwritten
	if pending.Has(onboarding.FieldCnpj) && !onboarding.IsBlank(profile.Cnpj) {
		pending = pending.Without(onboarding.FieldCnpj)
		res.Dropped = append(res.Dropped, onboarding.FieldCnpj)
	}

	// 3. Nothing left
	if len(pending) == 0 {
		res.Applied = onboarding.Delta{}
		return res, nil
	}

	// 4. Persist, dropping one colliding field at most once
	err = u.store.ApplyDelta(ctx, id, pending, u.now())
	if err != nil {
		var uniqueErr *onboarding.UniqueViolationError
		if !errors.As(err, &uniqueErr) {
			return nil, err
		}
		if !pending.Has(uniqueErr.Field) {
			return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}

		pending = pending.Without(uniqueErr.Field)
		res.Dropped = append(res.Dropped, uniqueErr.Field)
		if len(pending) == 0 {
			res.Applied = onboarding.Delta{}
			return res, nil
		}
		if err := u.store.ApplyDelta(ctx, id, pending, u.now()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
		}
	}

	// 5. Reload so callers evaluate stages against stored data
	updated, err := u.store.FindProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Profile = updated
	res.Applied = pending
	res.Updated = true
	return res, nil
}
