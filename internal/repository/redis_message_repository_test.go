package repository

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// afterFirstGet runs action once, right after the first GET of key completes
type afterFirstGet struct {
	key    string
	action func(ctx context.Context)
	once   sync.Once
}

func (h *afterFirstGet) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *afterFirstGet) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		args := cmd.Args()
		if strings.EqualFold(cmd.Name(), "get") && len(args) > 1 && args[1] == h.key {
			h.once.Do(func() { h.action(ctx) })
		}
		return err
	}
}

func (h *afterFirstGet) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// racingRepository returns a repository whose first read of the message is
// followed by action on a separate connection
func racingRepository(t *testing.T, message func(*RedisMessageRepository) string, action func(ctx context.Context, other *redis.Client)) (*RedisMessageRepository, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)

	other := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = other.Close() })

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRedisMessageRepository(client)
	client.AddHook(&afterFirstGet{
		key:    message(repo),
		action: func(ctx context.Context) { action(ctx, other) },
	})
	return repo, other
}

func TestRedisMessageRepository_UpdateLosesRaceWithDelete(t *testing.T) {
	ctx := context.Background()
	org := uuid.New()
	message := newMessage(org, "Contended", 0)

	repo, other := racingRepository(t,
		func(r *RedisMessageRepository) string { return r.messageKey(org, message.ID) },
		func(ctx context.Context, other *redis.Client) {
			deleted, err := NewRedisMessageRepository(other).Delete(ctx, org, message.ID)
			require.NoError(t, err)
			require.True(t, deleted)
		},
	)
	seed := NewRedisMessageRepository(other)
	_, err := seed.Create(ctx, message)
	require.NoError(t, err)

	changed := *message
	changed.Content = "Written after the delete"
	_, err = repo.Update(ctx, &changed)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = seed.GetByID(ctx, org, message.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = seed.GetByTitle(ctx, org, "Contended")
	assert.ErrorIs(t, err, ErrNotFound)
	messages, err := seed.GetAllByOrganization(ctx, org)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestRedisMessageRepository_UpdateRetriesAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	org := uuid.New()
	message := newMessage(org, "Original", 0)

	repo, other := racingRepository(t,
		func(r *RedisMessageRepository) string { return r.messageKey(org, message.ID) },
		func(ctx context.Context, other *redis.Client) {
			renamed := *message
			renamed.Title = "Renamed elsewhere"
			_, err := NewRedisMessageRepository(other).Update(ctx, &renamed)
			require.NoError(t, err)
		},
	)
	seed := NewRedisMessageRepository(other)
	_, err := seed.Create(ctx, message)
	require.NoError(t, err)

	changed := *message
	changed.Title = "Final"
	_, err = repo.Update(ctx, &changed)
	require.NoError(t, err)

	found, err := seed.GetByID(ctx, org, message.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", found.Title)

	// the retry saw the concurrent rename, so no stale title entry survives
	for _, stale := range []string{"Original", "Renamed elsewhere"} {
		_, err = seed.GetByTitle(ctx, org, stale)
		assert.ErrorIs(t, err, ErrNotFound, stale)
	}
}

func TestRedisMessageRepository_DeleteLosesRaceWithDelete(t *testing.T) {
	ctx := context.Background()
	org := uuid.New()
	message := newMessage(org, "Twice", 0)

	repo, other := racingRepository(t,
		func(r *RedisMessageRepository) string { return r.messageKey(org, message.ID) },
		func(ctx context.Context, other *redis.Client) {
			_, err := NewRedisMessageRepository(other).Delete(ctx, org, message.ID)
			require.NoError(t, err)
		},
	)
	_, err := NewRedisMessageRepository(other).Create(ctx, message)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, org, message.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
