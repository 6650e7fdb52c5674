package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStateTTL = 24 * time.Hour

// Storage keeps dialog state per chat.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client. A zero ttl keeps state for a day.
func New(client *redis.Client, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) SetUserDialogState(ctx context.Context, chatID int64, state *UserState) error {
	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return s.client.Set(ctx, buildStateKey(chatID), data, s.ttl).Err()
}

// GetUserDialogState returns an empty state for chats without one.
func (s *Storage) GetUserDialogState(ctx context.Context, chatID int64) (*UserState, error) {
	data, err := s.client.Get(ctx, buildStateKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &UserState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var state UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &state, nil
}

func (s *Storage) DropUserDialogState(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, buildStateKey(chatID)).Err()
}

func buildStateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
