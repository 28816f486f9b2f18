package player

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type moveSearcher interface {
	BestMove(ctx context.Context, match *entity.Match, difficulty int) (int, error)
}

// AI searches for a move on the snapshot it is handed. Cancel aborts a running search.
type AI struct {
	info     entity.PlayerInfo
	searcher moveSearcher
	request  requestSlot
}

func NewAI(info entity.PlayerInfo, searcher moveSearcher) *AI {
	info.Kind = entity.KindAI

	return &AI{
		info:     info,
		searcher: searcher,
	}
}

func (that *AI) Info() entity.PlayerInfo {
	return that.info
}

func (that *AI) ProduceMove(ctx context.Context, match *entity.Match) (int, error) {
	searchCtx, req, err := that.request.begin(ctx)
	if err != nil {
		return -1, err
	}
	defer that.request.finish(req)

	column, err := that.searcher.BestMove(searchCtx, match, that.info.Difficulty)
	if err != nil {
		return -1, fmt.Errorf("failed to search move: %w", err)
	}

	if err = searchCtx.Err(); err != nil {
		return -1, err
	}

	return column, nil
}

func (that *AI) NotifyTurnStart(*entity.Match) {}

func (that *AI) NotifyTurnEnd(*entity.Match) {}

func (that *AI) Cancel() {
	that.request.abort()
}
