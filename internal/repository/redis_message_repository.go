package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"message-board/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisMessageRepository stores each message as a JSON document keyed by
// organization and id, with a per-organization sorted set ordered by creation
// time and a per-organization hash mapping titles to ids.
type RedisMessageRepository struct {
	client *redis.Client
	prefix string
}

// maxTxAttempts bounds optimistic transaction retries under contention
const maxTxAttempts = 3

// NewRedisMessageRepository creates a Redis-backed message repository
func NewRedisMessageRepository(client *redis.Client) *RedisMessageRepository {
	return &RedisMessageRepository{client: client, prefix: "messages"}
}

func (r *RedisMessageRepository) messageKey(organizationID, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, organizationID, id)
}

func (r *RedisMessageRepository) indexKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:index", r.prefix, organizationID)
}

func (r *RedisMessageRepository) titlesKey(organizationID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:titles", r.prefix, organizationID)
}

// GetAllByOrganization returns the organization's messages, oldest first
func (r *RedisMessageRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(organizationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read message index: %w", err)
	}
	messages := make([]models.Message, 0, len(ids))
	if len(ids) == 0 {
		return messages, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		messageID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt message index entry %q: %w", id, err)
		}
		keys[i] = r.messageKey(organizationID, messageID)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// removed between ZRANGE and MGET
			continue
		}
		var message models.Message
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// GetByID returns the message or ErrNotFound
func (r *RedisMessageRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	return r.load(ctx, r.client, r.messageKey(organizationID, id))
}

// GetByTitle resolves title through the per-organization title hash
func (r *RedisMessageRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*models.Message, error) {
	rawID, err := r.client.HGet(ctx, r.titlesKey(organizationID), title).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query title index: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt title index entry %q: %w", rawID, err)
	}
	return r.GetByID(ctx, organizationID, id)
}

// Create stores the message and indexes it by creation time and title
func (r *RedisMessageRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.messageKey(message.OrganizationID, message.ID), payload, 0)
		pipe.ZAdd(ctx, r.indexKey(message.OrganizationID), redis.Z{
			Score:  float64(message.CreatedAt.UnixNano()),
			Member: message.ID.String(),
		})
		pipe.HSet(ctx, r.titlesKey(message.OrganizationID), message.Title, message.ID.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

// Update rewrites an existing message. The read and the write run under
// WATCH, so a concurrent delete yields ErrNotFound instead of resurrecting it.
func (r *RedisMessageRepository) Update(ctx context.Context, message *models.Message) (*models.Message, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	key := r.messageKey(message.OrganizationID, message.ID)
	err = r.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if current.Title != message.Title {
				pipe.HDel(ctx, r.titlesKey(message.OrganizationID), current.Title)
			}
			pipe.HSet(ctx, r.titlesKey(message.OrganizationID), message.Title, message.ID.String())
			return nil
		})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return message, nil
}

// Delete removes the message and its index entries
func (r *RedisMessageRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	key := r.messageKey(organizationID, id)

	var removed *redis.IntCmd
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, key)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			removed = pipe.Del(ctx, key)
			pipe.ZRem(ctx, r.indexKey(organizationID), id.String())
			pipe.HDel(ctx, r.titlesKey(organizationID), current.Title)
			return nil
		})
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}
	return removed.Val() > 0, nil
}

// watch runs fn in an optimistic transaction on key, retrying when another
// client modified the key before EXEC
func (r *RedisMessageRepository) watch(ctx context.Context, key string, fn func(*redis.Tx) error) error {
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := r.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("key %s kept changing after %d attempts: %w", key, maxTxAttempts, redis.TxFailedErr)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisMessageRepository) load(ctx context.Context, c stringGetter, key string) (*models.Message, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query message: %w", err)
	}
	var message models.Message
	if err := json.Unmarshal(raw, &message); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &message, nil
}

// Ping checks the Redis connection
func (r *RedisMessageRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
