package entity

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
)

type PlayerID int

const (
	Nobody PlayerID = iota
	First
	Second
)

func (that PlayerID) Opponent() PlayerID {
	switch that {
	case First:
		return Second
	case Second:
		return First
	default:
		return Nobody
	}
}

func (that PlayerID) Valid() bool {
	return that == First || that == Second
}

func (that PlayerID) String() string {
	switch that {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "nobody"
	}
}

type Kind string

const (
	KindHuman   Kind = "human"
	KindAI      Kind = "ai"
	KindNetwork Kind = "network"
)

func ParseKind(value string) (Kind, error) {
	switch kind := Kind(value); kind {
	case KindHuman, KindAI, KindNetwork:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownKind, value)
	}
}

// PlayerInfo is the identity and configuration of a player, independent of how it produces moves.
type PlayerInfo struct {
	ID         PlayerID
	Name       string
	Kind       Kind
	Difficulty int
}

// Player is the capability set the session controller drives a turn through.
//
// ProduceMove blocks until the player chose a column or ctx is done. At most one
// ProduceMove is outstanding per player; Cancel releases it. The match passed to
// the notify methods and to ProduceMove is a snapshot owned by the player.
// Notify methods are invoked synchronously by the controller and must not block.
type Player interface {
	Info() PlayerInfo
	ProduceMove(ctx context.Context, match *Match) (int, error)
	NotifyTurnStart(match *Match)
	NotifyTurnEnd(match *Match)
	Cancel()
}
