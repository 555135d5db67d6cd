package redisstore

import (
	"context"
	"testing"
	"time"

	"cadastro-prestador-be/pkg/onboarding"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, ttl time.Duration) (*ConversationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewConversationRepository(rdb, ttl), mr
}

func TestConversationRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, 0)
	principal := uuid.New()

	got, err := repo.Get(ctx, principal)
	require.NoError(t, err)
	assert.Nil(t, got)

	conv, err := repo.GetOrCreate(ctx, principal)
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)

	again, err := repo.GetOrCreate(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	_, err = repo.Append(ctx, principal, onboarding.Message{Role: onboarding.RoleUser, Content: "começar"})
	require.NoError(t, err)
	after, err := repo.Append(ctx, principal, onboarding.Message{Role: onboarding.RoleAssistant, Content: "📋 Etapa 1"})
	require.NoError(t, err)

	assert.Equal(t, conv.ID, after.ID)
	assert.Equal(t, []onboarding.Message{
		{Role: onboarding.RoleUser, Content: "começar"},
		{Role: onboarding.RoleAssistant, Content: "📋 Etapa 1"},
	}, after.Messages)

	require.NoError(t, repo.Clear(ctx, principal))
	cleared, err := repo.Get(ctx, principal)
	require.NoError(t, err)
	assert.Nil(t, cleared)

	fresh, err := repo.GetOrCreate(ctx, principal)
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, fresh.ID)
}

func TestConversationRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepo(t, time.Minute)
	principal := uuid.New()

	_, err := repo.Append(ctx, principal, onboarding.Message{Role: onboarding.RoleUser, Content: "oi"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := repo.Get(ctx, principal)
	require.NoError(t, err)
	assert.Nil(t, got)
}
