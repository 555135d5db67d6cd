package contract

import (
	"context"

	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
)

// ConversationRepository keeps one transcript per principal. Implementations
// must be safe for concurrent use.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error)
	Append(ctx context.Context, principalID uuid.UUID, msg onboarding.Message) (*onboarding.Conversation, error)
	// Get returns nil when the principal has no conversation.
	Get(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error)
	Clear(ctx context.Context, principalID uuid.UUID) error
}
