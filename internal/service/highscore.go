package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type HighscoreService interface {
	// Record credits the winner when a human beat the computer and reports whether it did.
	Record(ctx context.Context, result entity.Result) (bool, error)
	Top(ctx context.Context, limit int) ([]entity.Highscore, error)
}

type highscoreRepo interface {
	Increment(ctx context.Context, name string) error
	Top(ctx context.Context, limit int) ([]entity.Highscore, error)
}

type highscoreService struct {
	logger *slog.Logger
	repo   highscoreRepo
}

func NewHighscoreService(logger *slog.Logger, repo highscoreRepo) HighscoreService {
	return &highscoreService{
		logger: logger.With("component", "highscores"),
		repo:   repo,
	}
}

func (that *highscoreService) Record(ctx context.Context, result entity.Result) (bool, error) {
	if !qualifies(result) {
		return false, nil
	}

	if err := that.repo.Increment(ctx, result.Player.Name); err != nil {
		return false, fmt.Errorf("failed to record highscore: %w", err)
	}

	that.logger.Info("highscore recorded", "player", result.Player.Name, "moves", result.Moves)

	return true, nil
}

func (that *highscoreService) Top(ctx context.Context, limit int) ([]entity.Highscore, error) {
	scores, err := that.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get highscores: %w", err)
	}

	return scores, nil
}

func qualifies(result entity.Result) bool {
	return result.Status.Kind == entity.StatusWon &&
		result.Player.Kind == entity.KindHuman &&
		result.Opponent.Kind == entity.KindAI &&
		result.Player.Name != ""
}
