package memory

import (
	"context"
	"sync"
	"time"

	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps transcripts in process memory. A restart
// loses every conversation.
type ConversationRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository expires idle transcripts after ttl. ttl <= 0
// keeps them until Clear.
func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	expiration := ttl
	cleanup := 10 * time.Minute
	if ttl <= 0 {
		expiration = cache.NoExpiration
		cleanup = 0
	}
	return &ConversationRepository{
		cache: cache.New(expiration, cleanup),
	}
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyOf(r.getOrCreate(principalID)), nil
}

func (r *ConversationRepository) Append(ctx context.Context, principalID uuid.UUID, msg onboarding.Message) (*onboarding.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.getOrCreate(principalID)
	conv.Messages = append(conv.Messages, msg)
	r.cache.Set(principalID.String(), conv, cache.DefaultExpiration)
	return copyOf(conv), nil
}

func (r *ConversationRepository) Get(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(principalID.String()); found {
		return copyOf(x.(*onboarding.Conversation)), nil
	}
	return nil, nil
}

func (r *ConversationRepository) Clear(ctx context.Context, principalID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(principalID.String())
	return nil
}

// getOrCreate must run under r.mu.
func (r *ConversationRepository) getOrCreate(principalID uuid.UUID) *onboarding.Conversation {
	if x, found := r.cache.Get(principalID.String()); found {
		return x.(*onboarding.Conversation)
	}
	conv := &onboarding.Conversation{
		ID:          uuid.New(),
		PrincipalID: principalID,
		Messages:    []onboarding.Message{},
	}
	r.cache.Set(principalID.String(), conv, cache.DefaultExpiration)
	return conv
}

// copyOf hands callers a snapshot so later appends do not leak into it.
func copyOf(c *onboarding.Conversation) *onboarding.Conversation {
	cp := *c
	cp.Messages = append([]onboarding.Message(nil), c.Messages...)
	return &cp
}
