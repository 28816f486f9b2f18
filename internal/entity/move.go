package entity

// Move is immutable once appended to a match history. Row is derived by gravity.
type Move struct {
	Column         int
	Row            int
	Player         PlayerID
	SequenceNumber int
}

type Cell struct {
	Column int
	Row    int
}

type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

// Outcome is what a win-detection collaborator reports after a move.
type Outcome struct {
	Kind   OutcomeKind
	Winner PlayerID
	Cells  []Cell
}

// Evaluator decides whether last ended the match on board.
type Evaluator func(board *Board, last Move) Outcome
