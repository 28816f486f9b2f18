package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type playerCreator interface {
	Create(info entity.PlayerInfo) (entity.Player, error)
}

// MatchFactory creates new matches from the configured settings and players.
type MatchFactory struct {
	settings entity.Settings
	first    entity.PlayerInfo
	second   entity.PlayerInfo
	players  playerCreator
	evaluate entity.Evaluator
}

func NewMatchFactory(
	settings entity.Settings,
	first, second entity.PlayerInfo,
	players playerCreator,
	evaluate entity.Evaluator,
) *MatchFactory {
	first.ID = entity.First
	second.ID = entity.Second

	return &MatchFactory{
		settings: settings,
		first:    first,
		second:   second,
		players:  players,
		evaluate: evaluate,
	}
}

func (that *MatchFactory) NewMatch() (*entity.Match, error) {
	first, err := that.players.Create(that.first)
	if err != nil {
		return nil, fmt.Errorf("failed to create first player: %w", err)
	}

	second, err := that.players.Create(that.second)
	if err != nil {
		return nil, fmt.Errorf("failed to create second player: %w", err)
	}

	settings := that.settings
	if that.first.Kind == entity.KindNetwork || that.second.Kind == entity.KindNetwork {
		settings.NetworkGame = true
		settings.UndoAllowed = false
		settings.HintAllowed = false
	}

	match, err := entity.NewMatch(settings, first, second, that.evaluate)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return match, nil
}
