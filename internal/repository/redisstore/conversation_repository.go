// Package redisstore keeps conversations in Redis so every API process sees
// the same transcript.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cadastro-prestador-be/internal/repository/contract"
	"cadastro-prestador-be/pkg/onboarding"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:"

type ConversationRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository refreshes the ttl on every write. ttl <= 0
// disables expiry.
func NewConversationRepository(rdb *redis.Client, ttl time.Duration) *ConversationRepository {
	return &ConversationRepository{rdb: rdb, ttl: ttl}
}

func idKey(principalID uuid.UUID) string {
	return keyPrefix + principalID.String() + ":id"
}

func messagesKey(principalID uuid.UUID) string {
	return keyPrefix + principalID.String() + ":messages"
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error) {
	if _, err := r.ensureID(ctx, principalID); err != nil {
		return nil, err
	}
	return r.load(ctx, principalID)
}

func (r *ConversationRepository) Append(ctx context.Context, principalID uuid.UUID, msg onboarding.Message) (*onboarding.Conversation, error) {
	if _, err := r.ensureID(ctx, principalID); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, messagesKey(principalID), raw)
	if r.ttl > 0 {
		pipe.Expire(ctx, messagesKey(principalID), r.ttl)
		pipe.Expire(ctx, idKey(principalID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	return r.load(ctx, principalID)
}

func (r *ConversationRepository) Get(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error) {
	return r.load(ctx, principalID)
}

func (r *ConversationRepository) Clear(ctx context.Context, principalID uuid.UUID) error {
	return r.rdb.Del(ctx, idKey(principalID), messagesKey(principalID)).Err()
}

// ensureID creates the conversation id once; concurrent callers agree on
// the winner of SETNX.
func (r *ConversationRepository) ensureID(ctx context.Context, principalID uuid.UUID) (uuid.UUID, error) {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	candidate := uuid.New()
	if err := r.rdb.SetNX(ctx, idKey(principalID), candidate.String(), ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("create conversation: %w", err)
	}
	stored, err := r.rdb.Get(ctx, idKey(principalID)).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("read conversation id: %w", err)
	}
	return uuid.Parse(stored)
}

func (r *ConversationRepository) load(ctx context.Context, principalID uuid.UUID) (*onboarding.Conversation, error) {
	stored, err := r.rdb.Get(ctx, idKey(principalID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read conversation id: %w", err)
	}
	id, err := uuid.Parse(stored)
	if err != nil {
		return nil, fmt.Errorf("corrupt conversation id: %w", err)
	}

	items, err := r.rdb.LRange(ctx, messagesKey(principalID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	conv := &onboarding.Conversation{
		ID:          id,
		PrincipalID: principalID,
		Messages:    make([]onboarding.Message, 0, len(items)),
	}
	for _, item := range items {
		var msg onboarding.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, nil
}
