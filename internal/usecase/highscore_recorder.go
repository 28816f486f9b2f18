package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type highscoreRecorder interface {
	Record(ctx context.Context, result entity.Result) (bool, error)
}

// HighscoreRecorder stores the results of finished matches in the background. A match
// is credited at most once, however often it is won again after an undo, and a game over
// restored from a savegame is not credited at all.
type HighscoreRecorder struct {
	ctx    context.Context
	logger *slog.Logger
	scores highscoreRecorder
	wg     sync.WaitGroup

	mu       sync.Mutex
	credited map[string]struct{}
}

func NewHighscoreRecorder(ctx context.Context, logger *slog.Logger, scores highscoreRecorder) *HighscoreRecorder {
	return &HighscoreRecorder{
		ctx:      ctx,
		logger:   logger.With("component", "highscore recorder"),
		scores:   scores,
		credited: make(map[string]struct{}),
	}
}

func (that *HighscoreRecorder) Notify(event Event) {
	if event.Kind != EventGameOver || event.Restored {
		return
	}

	that.wg.Add(1)
	go that.record(event.Result)
}

// Wait blocks until every started recording finished.
func (that *HighscoreRecorder) Wait() {
	that.wg.Wait()
}

func (that *HighscoreRecorder) record(result entity.Result) {
	defer that.wg.Done()

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.credited[result.MatchID]; ok {
		that.logger.Debug("match already credited", "match", result.MatchID)
		return
	}

	recorded, err := that.scores.Record(that.ctx, result)
	if err != nil {
		that.logger.Error("failed to record highscore", "error", err)
		return
	}

	if recorded {
		that.credited[result.MatchID] = struct{}{}
		that.logger.Debug("highscore recorded", "player", result.Player.Name, "match", result.MatchID)
	}
}
