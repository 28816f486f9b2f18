package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrSavegameNotFound = errors.New("savegame not found")

const savegamePrefix = "savegame:"

type SavegameRepository interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
}

type dbSavegame struct {
	client *redis.Client
}

// NewSavegameRepository keeps savegames in redis, keyed by their name.
func NewSavegameRepository(client *redis.Client) SavegameRepository {
	return &dbSavegame{
		client: client,
	}
}

func (that *dbSavegame) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := that.client.Get(ctx, savegamePrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSavegameNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get savegame: %w", err)
	}

	return data, nil
}

func (that *dbSavegame) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := that.client.Set(ctx, savegamePrefix+name, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save savegame: %w", err)
	}

	return nil
}
