package player

import (
	"context"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// Human waits for input that arrives through the session controller. Its move request
// only marks that the player is thinking; the controller applies the submitted column.
type Human struct {
	info    entity.PlayerInfo
	request requestSlot
}

func NewHuman(info entity.PlayerInfo) *Human {
	info.Kind = entity.KindHuman

	return &Human{info: info}
}

func (that *Human) Info() entity.PlayerInfo {
	return that.info
}

func (that *Human) ProduceMove(ctx context.Context, _ *entity.Match) (int, error) {
	waitCtx, req, err := that.request.begin(ctx)
	if err != nil {
		return -1, err
	}
	defer that.request.finish(req)

	<-waitCtx.Done()

	return -1, waitCtx.Err()
}

// IsWaiting reports whether a move request is outstanding.
func (that *Human) IsWaiting() bool {
	return that.request.pending()
}

func (that *Human) NotifyTurnStart(*entity.Match) {}

func (that *Human) NotifyTurnEnd(*entity.Match) {}

func (that *Human) Cancel() {
	that.request.abort()
}
