package usecase

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// ReplayViewer steps through the moves of a recorded match.
type ReplayViewer struct {
	logger    *slog.Logger
	replay    *entity.Match
	moves     []entity.Move
	frame     *entity.Match
	observers observers
}

func NewReplayViewer(logger *slog.Logger, replay *entity.Match) (*ReplayViewer, error) {
	viewer := &ReplayViewer{
		logger: logger.With("component", "replay", "match", replay.ID()),
		replay: replay,
		moves:  replay.History(),
	}

	if err := viewer.rebuild(0); err != nil {
		return nil, err
	}

	return viewer, nil
}

func (that *ReplayViewer) Subscribe(observer Observer) {
	that.observers = append(that.observers, observer)
}

// Position is the number of moves shown.
func (that *ReplayViewer) Position() int {
	return that.frame.MoveCount()
}

func (that *ReplayViewer) Len() int {
	return len(that.moves)
}

// Snapshot returns the match as of the current position.
func (that *ReplayViewer) Snapshot() *entity.Match {
	return that.frame.Clone()
}

// NextMove shows the next move and reports whether there was one.
func (that *ReplayViewer) NextMove() bool {
	position := that.Position()
	if position == len(that.moves) {
		return false
	}

	move, err := that.frame.ApplyMove(that.moves[position].Column)
	if err != nil {
		panic(fmt.Sprintf("recorded move %d does not replay: %v", position+1, err))
	}

	that.observers.emit(Event{
		Kind:   EventSetCell,
		Column: move.Column,
		Row:    move.Row,
		Player: that.frame.Player(move.Player).Info(),
	})

	if that.frame.IsOver() {
		that.observers.emit(Event{Kind: EventGameOver, Result: that.frame.Result()})
	}

	return true
}

// PreviousMove takes back the shown move and reports whether there was one.
func (that *ReplayViewer) PreviousMove() bool {
	position := that.Position()
	if position == 0 {
		return false
	}

	wasOver := that.frame.IsOver()
	move := that.moves[position-1]

	if err := that.rebuild(position - 1); err != nil {
		panic(fmt.Sprintf("recorded moves do not replay: %v", err))
	}

	that.observers.emit(Event{Kind: EventRemoveCell, Column: move.Column, Row: move.Row})

	if wasOver {
		that.observers.emit(Event{Kind: EventGameNotOverAnymore})
	}

	return true
}

func (that *ReplayViewer) JumpToStart() {
	for that.PreviousMove() {
	}
}

func (that *ReplayViewer) JumpToEnd() {
	for that.NextMove() {
	}
}

// rebuild replays the first count moves on a fresh board.
func (that *ReplayViewer) rebuild(count int) error {
	frame, err := that.replay.Rematch(that.replay.FirstPlayer(), that.replay.SecondPlayer())
	if err != nil {
		return fmt.Errorf("failed to create replay frame: %w", err)
	}

	for _, move := range that.moves[:count] {
		if _, err = frame.ApplyMove(move.Column); err != nil {
			return fmt.Errorf("failed to replay move %d: %w", move.SequenceNumber, err)
		}
	}

	that.frame = frame
	that.logger.Debug("replay position", "position", count, "moves", len(that.moves))

	return nil
}
