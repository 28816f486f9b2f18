package entity

import "fmt"

type StatusKind int

const (
	StatusInProgress StatusKind = iota
	StatusWon
	StatusDraw
	StatusEnded
)

type DrawReason int

const (
	DrawNone DrawReason = iota
	DrawBoardFull
	DrawTimeout
)

// Status is InProgress, Won(Winner), Draw(Reason[, TimedOut]) or Ended.
type Status struct {
	Kind     StatusKind
	Winner   PlayerID
	Reason   DrawReason
	TimedOut PlayerID
}

func InProgress() Status {
	return Status{Kind: StatusInProgress}
}

func Won(winner PlayerID) Status {
	return Status{Kind: StatusWon, Winner: winner}
}

func DrawByBoardFull() Status {
	return Status{Kind: StatusDraw, Reason: DrawBoardFull}
}

func DrawByTimeout(timedOut PlayerID) Status {
	return Status{Kind: StatusDraw, Reason: DrawTimeout, TimedOut: timedOut}
}

func Ended() Status {
	return Status{Kind: StatusEnded}
}

func (that Status) IsInProgress() bool {
	return that.Kind == StatusInProgress
}

// IsOver reports a game-logic outcome: a win or a draw.
func (that Status) IsOver() bool {
	return that.Kind == StatusWon || that.Kind == StatusDraw
}

func (that Status) IsTerminal() bool {
	return that.Kind != StatusInProgress
}

func (that Status) String() string {
	switch that.Kind {
	case StatusInProgress:
		return "in progress"
	case StatusWon:
		return fmt.Sprintf("won by %s player", that.Winner)
	case StatusDraw:
		if that.Reason == DrawTimeout {
			return fmt.Sprintf("draw, %s player timed out", that.TimedOut)
		}
		return "draw, board full"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Result describes a finished match for game-over notifications.
type Result struct {
	MatchID string
	Status  Status
	// Player is the winner or the timed-out player; zero for a full-board draw.
	Player       PlayerInfo
	Opponent     PlayerInfo
	Moves        int
	WinningCells []Cell
}
