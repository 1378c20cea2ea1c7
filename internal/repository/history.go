package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

const historyKey = "chess:history"

type HistoryRepository interface {
	Append(ctx context.Context, entry *entity.HistoryEntry) error
	List(ctx context.Context) ([]*entity.HistoryEntry, error)
	Clear(ctx context.Context) error
}

type dbHistory struct {
	client *redis.Client
}

func NewHistoryRepository(client *redis.Client) HistoryRepository {
	return &dbHistory{
		client: client,
	}
}

func (that *dbHistory) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	if err = that.client.RPush(ctx, historyKey, entryJSON).Err(); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

func (that *dbHistory) List(ctx context.Context) ([]*entity.HistoryEntry, error) {
	response, err := that.client.LRange(ctx, historyKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]*entity.HistoryEntry, 0, len(response))
	for _, raw := range response {
		var entry entity.HistoryEntry
		if err = json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %w", err)
		}

		entries = append(entries, &entry)
	}

	return entries, nil
}

func (that *dbHistory) Clear(ctx context.Context) error {
	if err := that.client.Del(ctx, historyKey).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}
