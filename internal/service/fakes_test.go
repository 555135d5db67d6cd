package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cadastro-prestador-be/internal/entity"
	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/internal/repository/specification"
	"cadastro-prestador-be/internal/repository/unitofwork"
	"cadastro-prestador-be/pkg/events"
	"cadastro-prestador-be/pkg/llm"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
)

// fakeProviderRepository understands the specifications the services use.
type fakeProviderRepository struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*entity.Provider
	updateErr error
}

func newFakeProviderRepository() *fakeProviderRepository {
	return &fakeProviderRepository{providers: make(map[uuid.UUID]*entity.Provider)}
}

func (r *fakeProviderRepository) add(p *entity.Provider) *entity.Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = entity.ProviderStatusPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.providers[p.ID] = p
	return p
}

func (r *fakeProviderRepository) get(id uuid.UUID) *entity.Provider {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (r *fakeProviderRepository) match(p *entity.Provider, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if p.ID != spec.ID {
				return false
			}
		case specification.ByEmail:
			if p.Email != spec.Email {
				return false
			}
		case specification.ByCpf:
			if p.Cpf != spec.Cpf {
				return false
			}
		case specification.ByStatus:
			if string(p.Status) != spec.Status {
				return false
			}
		case specification.RegistrationComplete:
			if p.CadastroCompleto != spec.Complete {
				return false
			}
		}
	}
	return true
}

func (r *fakeProviderRepository) Create(ctx context.Context, provider *entity.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.Email == provider.Email {
			return &onboarding.UniqueViolationError{Field: onboarding.FieldEmail}
		}
		if p.Cpf == provider.Cpf {
			return &onboarding.UniqueViolationError{Field: onboarding.FieldCpf}
		}
	}
	cp := *provider
	r.providers[provider.ID] = &cp
	return nil
}

func (r *fakeProviderRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Provider, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeProviderRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Provider
	for _, p := range r.providers {
		if r.match(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	for _, s := range specs {
		if page, ok := s.(specification.Pagination); ok {
			if page.Offset >= len(out) {
				return nil, nil
			}
			out = out[page.Offset:]
			if page.Limit > 0 && page.Limit < len(out) {
				out = out[:page.Limit]
			}
		}
	}
	return out, nil
}

func (r *fakeProviderRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *fakeProviderRepository) UpdateColumns(ctx context.Context, id uuid.UUID, delta onboarding.Delta, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.providers[id]
	if !ok {
		return onboarding.ErrProviderNotFound
	}
	delta.ApplyTo(&p.Profile)
	p.UpdatedAt = updatedAt
	return nil
}

func (r *fakeProviderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ProviderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return onboarding.ErrProviderNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeProviderRepository) MarkRegistrationComplete(ctx context.Context, id uuid.UUID, complete bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return onboarding.ErrProviderNotFound
	}
	p.CadastroCompleto = complete
	return nil
}

type fakeUnitOfWork struct {
	repo *fakeProviderRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }
func (u *fakeUnitOfWork) ProviderRepository() contract.ProviderRepository {
	return u.repo
}

type fakeRepositoryFactory struct {
	repo *fakeProviderRepository
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// fakeLLM answers with reply/err, or blocks until ctx ends when block is set.
type fakeLLM struct {
	mu         sync.Mutex
	reply      string
	err        error
	block      bool
	configured bool
	prompts    []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeLLM) Configured() bool {
	return f.configured
}
