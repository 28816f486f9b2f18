package player

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type Factory struct {
	logger   *slog.Logger
	searcher moveSearcher
	peer     Peer
}

// NewFactory builds players of every kind. peer may be nil when no network game can be played.
func NewFactory(logger *slog.Logger, searcher moveSearcher, peer Peer) *Factory {
	return &Factory{
		logger:   logger,
		searcher: searcher,
		peer:     peer,
	}
}

func (that *Factory) Create(info entity.PlayerInfo) (entity.Player, error) {
	if !info.ID.Valid() {
		return nil, fmt.Errorf("invalid player id %d", info.ID)
	}

	switch info.Kind {
	case entity.KindHuman:
		return NewHuman(info), nil
	case entity.KindAI:
		return NewAI(info, that.searcher), nil
	case entity.KindNetwork:
		if that.peer == nil {
			return nil, apperror.ErrNoPeer
		}

		return NewRemote(that.logger, info, that.peer), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownKind, info.Kind)
	}
}

// CreateCopy creates a fresh player configured like player.
func (that *Factory) CreateCopy(player entity.Player) (entity.Player, error) {
	return that.Create(player.Info())
}

// ReplacePlayers swaps the players of match for live players with the same configuration.
func (that *Factory) ReplacePlayers(match *entity.Match) error {
	first, err := that.CreateCopy(match.FirstPlayer())
	if err != nil {
		return fmt.Errorf("failed to create first player: %w", err)
	}

	second, err := that.CreateCopy(match.SecondPlayer())
	if err != nil {
		return fmt.Errorf("failed to create second player: %w", err)
	}

	if err = match.ReplacePlayers(first, second); err != nil {
		return fmt.Errorf("failed to replace players: %w", err)
	}

	return nil
}
