package usecase

import (
	"time"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

type EventKind int

const (
	EventGameStarted EventKind = iota
	EventSetCell
	EventRemoveCell
	EventStartPlayerTurn
	EventEndPlayerTurn
	EventRemainingTimeChanged
	EventShowColumnHints
	EventGameOver
	EventGameNotOverAnymore
	EventGameEnded
)

func (that EventKind) String() string {
	switch that {
	case EventGameStarted:
		return "game started"
	case EventSetCell:
		return "set cell"
	case EventRemoveCell:
		return "remove cell"
	case EventStartPlayerTurn:
		return "start player turn"
	case EventEndPlayerTurn:
		return "end player turn"
	case EventRemainingTimeChanged:
		return "remaining time changed"
	case EventShowColumnHints:
		return "show column hints"
	case EventGameOver:
		return "game over"
	case EventGameNotOverAnymore:
		return "game not over anymore"
	case EventGameEnded:
		return "game ended"
	default:
		return "unknown"
	}
}

// Event is a notification about a state change. Only the fields of its kind are set:
// Column/Row/Player for cells, Player for turns, Remaining, Columns for column hints
// and Result with the offered Actions for game over. Restored marks a game over
// announced again when a finished match is adopted.
type Event struct {
	Kind      EventKind
	Column    int
	Row       int
	Player    entity.PlayerInfo
	Remaining time.Duration
	Columns   []int
	Result    entity.Result
	Actions   []GameOverAction
	Restored  bool
}

// Observer receives events synchronously, in the order they are emitted.
// Notify must not call back into the emitter.
type Observer interface {
	Notify(event Event)
}

type ObserverFunc func(event Event)

func (that ObserverFunc) Notify(event Event) {
	that(event)
}

type observers []Observer

func (that observers) emit(event Event) {
	for _, observer := range that {
		observer.Notify(event)
	}
}
