package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/fourinaline/internal/apperror"
)

var ErrMissingPlayer = errors.New("match needs two players")

type Settings struct {
	Columns     int
	Rows        int
	TimeLimit   time.Duration
	UndoAllowed bool
	HintAllowed bool
	NetworkGame bool
}

func DefaultSettings() Settings {
	return Settings{
		Columns:     ClassicColumns,
		Rows:        ClassicRows,
		UndoAllowed: true,
		HintAllowed: true,
	}
}

func (that Settings) HasTimeLimit() bool {
	return that.TimeLimit > 0
}

// Match is the state of one played game. It is only changed through its transition methods.
type Match struct {
	id           string
	settings     Settings
	board        *Board
	players      [2]Player
	history      []Move
	currentTurn  PlayerID
	status       Status
	remaining    time.Duration
	winningCells []Cell
	evaluate     Evaluator
}

func NewMatch(settings Settings, first, second Player, evaluate Evaluator) (*Match, error) {
	if first == nil || second == nil {
		return nil, ErrMissingPlayer
	}

	if evaluate == nil {
		return nil, errors.New("match needs an evaluator")
	}

	if settings.TimeLimit < 0 {
		return nil, fmt.Errorf("negative time limit %s", settings.TimeLimit)
	}

	board, err := NewBoard(settings.Columns, settings.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return &Match{
		id:          uuid.NewString(),
		settings:    settings,
		board:       board,
		players:     [2]Player{first, second},
		history:     make([]Move, 0, board.CellCount()),
		currentTurn: First,
		status:      InProgress(),
		remaining:   settings.TimeLimit,
		evaluate:    evaluate,
	}, nil
}

func (that *Match) ID() string {
	return that.id
}

func (that *Match) Settings() Settings {
	return that.settings
}

// Board returns a copy of the board.
func (that *Match) Board() *Board {
	return that.board.Clone()
}

func (that *Match) Occupant(column, row int) PlayerID {
	return that.board.Occupant(column, row)
}

func (that *Match) CanDrop(column int) bool {
	return that.board.CanDrop(column)
}

func (that *Match) PlayableColumns() []int {
	return that.board.PlayableColumns()
}

func (that *Match) Player(id PlayerID) Player {
	switch id {
	case First:
		return that.players[0]
	case Second:
		return that.players[1]
	default:
		return nil
	}
}

func (that *Match) FirstPlayer() Player {
	return that.players[0]
}

func (that *Match) SecondPlayer() Player {
	return that.players[1]
}

func (that *Match) CurrentTurn() PlayerID {
	return that.currentTurn
}

func (that *Match) CurrentPlayer() Player {
	return that.Player(that.currentTurn)
}

func (that *Match) History() []Move {
	history := make([]Move, len(that.history))
	copy(history, that.history)

	return history
}

func (that *Match) MoveCount() int {
	return len(that.history)
}

func (that *Match) LastMove() (Move, bool) {
	if len(that.history) == 0 {
		return Move{}, false
	}

	return that.history[len(that.history)-1], true
}

func (that *Match) Status() Status {
	return that.status
}

func (that *Match) IsInProgress() bool {
	return that.status.IsInProgress()
}

func (that *Match) IsOver() bool {
	return that.status.IsOver()
}

func (that *Match) IsEnded() bool {
	return that.status.Kind == StatusEnded
}

func (that *Match) RemainingTime() time.Duration {
	return that.remaining
}

func (that *Match) WinningCells() []Cell {
	cells := make([]Cell, len(that.winningCells))
	copy(cells, that.winningCells)

	return cells
}

func (that *Match) IsUndoPossible() bool {
	return that.settings.UndoAllowed && len(that.history) > 0 && !that.IsEnded()
}

// Result is meaningful once the match is over.
func (that *Match) Result() Result {
	result := Result{
		MatchID:      that.id,
		Status:       that.status,
		Moves:        len(that.history),
		WinningCells: that.WinningCells(),
	}

	var subject PlayerID
	switch {
	case that.status.Kind == StatusWon:
		subject = that.status.Winner
	case that.status.Kind == StatusDraw && that.status.Reason == DrawTimeout:
		subject = that.status.TimedOut
	}

	if subject.Valid() {
		result.Player = that.Player(subject).Info()
		result.Opponent = that.Player(subject.Opponent()).Info()
	}

	return result
}

// ApplyMove drops the current player's piece into column and evaluates the outcome.
func (that *Match) ApplyMove(column int) (Move, error) {
	if err := that.confirmInProgress(); err != nil {
		return Move{}, err
	}

	row, err := that.board.DropInColumn(column, that.currentTurn)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	move := Move{
		Column:         column,
		Row:            row,
		Player:         that.currentTurn,
		SequenceNumber: len(that.history) + 1,
	}
	that.history = append(that.history, move)

	// win is checked before fullness
	switch outcome := that.evaluate(that.board, move); outcome.Kind {
	case OutcomeWin:
		that.status = Won(outcome.Winner)
		that.winningCells = outcome.Cells
	case OutcomeDraw:
		that.status = DrawByBoardFull()
	default:
		that.currentTurn = that.currentTurn.Opponent()
		that.remaining = that.settings.TimeLimit
	}

	return move, nil
}

// ApplyTimeout records that the current player let the turn time limit elapse.
func (that *Match) ApplyTimeout() error {
	if err := that.confirmInProgress(); err != nil {
		return err
	}

	that.status = DrawByTimeout(that.currentTurn)
	that.remaining = 0

	return nil
}

// Undo removes the last move and hands the turn back to its player. A won or drawn
// match becomes in progress again; an ended match cannot be undone.
func (that *Match) Undo() (Move, error) {
	if that.IsEnded() {
		return Move{}, apperror.ErrGameEnded
	}

	if !that.settings.UndoAllowed {
		return Move{}, apperror.ErrUndoNotAllowed
	}

	move, ok := that.LastMove()
	if !ok {
		return Move{}, apperror.ErrNothingToUndo
	}

	row, err := that.board.RemoveTop(move.Column)
	if err != nil || row != move.Row || that.board.Occupant(move.Column, row) != Nobody {
		panic(fmt.Sprintf("move history out of sync with board at move %d: %v", move.SequenceNumber, err))
	}

	that.history = that.history[:len(that.history)-1]
	that.currentTurn = move.Player
	that.status = InProgress()
	that.winningCells = nil
	that.remaining = that.settings.TimeLimit

	return move, nil
}

// End aborts the match. Ended is absorbing.
func (that *Match) End() {
	that.status = Ended()
}

func (that *Match) SetRemainingTime(remaining time.Duration) {
	if remaining < 0 {
		remaining = 0
	}

	that.remaining = remaining
}

func (that *Match) ResetRemainingTime() {
	that.remaining = that.settings.TimeLimit
}

// ReplacePlayers swaps the players of a match that has not been ended, e.g. after loading.
func (that *Match) ReplacePlayers(first, second Player) error {
	if first == nil || second == nil {
		return ErrMissingPlayer
	}

	if that.IsEnded() {
		return apperror.ErrGameEnded
	}

	that.players = [2]Player{first, second}

	return nil
}

// Rematch creates a fresh match with the settings and rules of this one.
func (that *Match) Rematch(first, second Player) (*Match, error) {
	return NewMatch(that.settings, first, second, that.evaluate)
}

// Clone returns an independent copy sharing players and evaluator.
func (that *Match) Clone() *Match {
	clone := *that
	clone.board = that.board.Clone()
	clone.history = that.History()
	clone.winningCells = that.WinningCells()

	return &clone
}

func (that *Match) confirmInProgress() error {
	switch that.status.Kind {
	case StatusInProgress:
		return nil
	case StatusEnded:
		return apperror.ErrGameEnded
	default:
		return apperror.ErrGameFinished
	}
}
