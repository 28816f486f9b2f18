package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

const highscoresKey = "highscores"

var ErrInvalidLimit = errors.New("limit must be positive")

type HighscoreRepository interface {
	Increment(ctx context.Context, name string) error
	Top(ctx context.Context, limit int) ([]entity.Highscore, error)
}

type dbHighscore struct {
	client *redis.Client
}

func NewHighscoreRepository(client *redis.Client) HighscoreRepository {
	return &dbHighscore{
		client: client,
	}
}

func (that *dbHighscore) Increment(ctx context.Context, name string) error {
	if err := that.client.ZIncrBy(ctx, highscoresKey, 1, name).Err(); err != nil {
		return fmt.Errorf("failed to increment highscore: %w", err)
	}

	return nil
}

// Top returns the players with the most wins, ties ordered by name descending as redis does.
func (that *dbHighscore) Top(ctx context.Context, limit int) ([]entity.Highscore, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	entries, err := that.client.ZRevRangeWithScores(ctx, highscoresKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get highscores: %w", err)
	}

	scores := make([]entity.Highscore, 0, len(entries))
	for _, entry := range entries {
		name, ok := entry.Member.(string)
		if !ok {
			continue
		}

		scores = append(scores, entity.Highscore{Name: name, Wins: int(entry.Score)})
	}

	return scores, nil
}
