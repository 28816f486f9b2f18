package player

import (
	"context"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// Placeholder stands in for a player of a decoded match. It never produces moves.
type Placeholder struct {
	info entity.PlayerInfo
}

func NewPlaceholder(info entity.PlayerInfo) *Placeholder {
	return &Placeholder{info: info}
}

func (that *Placeholder) Info() entity.PlayerInfo {
	return that.info
}

func (that *Placeholder) ProduceMove(context.Context, *entity.Match) (int, error) {
	return -1, apperror.ErrNotInteractive
}

func (that *Placeholder) NotifyTurnStart(*entity.Match) {}

func (that *Placeholder) NotifyTurnEnd(*entity.Match) {}

func (that *Placeholder) Cancel() {}
