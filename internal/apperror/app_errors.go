package apperror

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrInvalidColumn    = errors.New("invalid column index")
	ErrColumnFull       = errors.New("column is full")
	ErrColumnEmpty      = errors.New("column is empty")
	ErrInvalidBoardSize = errors.New("invalid board size")

	ErrGameFinished = errors.New("game is already finished")
	ErrGameEnded    = errors.New("game has been ended")
	ErrNoActiveGame = errors.New("no active game")
	ErrNotYourTurn  = errors.New("it's not your turn")

	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrUndoNotAllowed  = errors.New("undo is not allowed")
	ErrHintNotAllowed  = errors.New("hint is not allowed")
	ErrRequestPending  = errors.New("a move request is already pending")
	ErrNotInteractive  = errors.New("player is not interactive")
	ErrNoPeer          = errors.New("no remote peer configured")
	ErrUnknownKind     = errors.New("unknown player kind")
	ErrNoAvailableMove = errors.New("no available moves")
)
