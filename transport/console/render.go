package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/usecase"
)

var pieces = map[entity.PlayerID]string{
	entity.Nobody: ".",
	entity.First:  "X",
	entity.Second: "O",
}

// Notify prints an event of the session or the replay.
func (that *Server) Notify(event usecase.Event) {
	switch event.Kind {
	case usecase.EventGameStarted:
		that.printf("new game\n")
	case usecase.EventSetCell:
		that.printf("%s (%s) drops into column %d\n", event.Player.Name, pieces[event.Player.ID], event.Column+1)
	case usecase.EventRemoveCell:
		that.printf("piece removed from column %d\n", event.Column+1)
	case usecase.EventStartPlayerTurn:
		that.printf("%s (%s) to move\n", event.Player.Name, pieces[event.Player.ID])
	case usecase.EventRemainingTimeChanged:
		that.printf("%s left\n", event.Remaining.Round(time.Second))
	case usecase.EventShowColumnHints:
		if len(event.Columns) > 0 {
			that.printf("playable columns: %s\n", joinColumns(event.Columns))
		}
	case usecase.EventGameOver:
		that.printf("%s\n", describeResult(event.Result))

		if len(event.Actions) > 0 {
			that.printf("next: %s\n", joinActions(event.Actions))
		}
	case usecase.EventGameNotOverAnymore:
		that.printf("the game goes on\n")
	case usecase.EventGameEnded:
		that.printf("game ended\n")
	}
}

func describeResult(result entity.Result) string {
	switch {
	case result.Status.Kind == entity.StatusWon:
		return fmt.Sprintf("%s wins after %d moves", result.Player.Name, result.Moves)
	case result.Status.Kind == entity.StatusDraw && result.Status.Reason == entity.DrawTimeout:
		return fmt.Sprintf("draw, %s ran out of time", result.Player.Name)
	case result.Status.Kind == entity.StatusDraw:
		return "draw, the board is full"
	default:
		return result.Status.String()
	}
}

// renderBoard draws the top row first, column numbers below.
func renderBoard(match *entity.Match) string {
	board := match.Board()
	winning := make(map[entity.Cell]bool)

	for _, cell := range match.WinningCells() {
		winning[cell] = true
	}

	var builder strings.Builder

	for row := board.Rows() - 1; row >= 0; row-- {
		for column := range board.Columns() {
			piece := pieces[board.Occupant(column, row)]
			if winning[entity.Cell{Column: column, Row: row}] {
				piece = strings.ToLower(piece)
			}

			builder.WriteString(" " + piece + " ")
		}

		builder.WriteByte('\n')
	}

	for column := range board.Columns() {
		builder.WriteString(fmt.Sprintf("%2d ", column+1))
	}

	builder.WriteByte('\n')

	return builder.String()
}

func joinColumns(columns []int) string {
	labels := make([]string, 0, len(columns))
	for _, column := range columns {
		labels = append(labels, strconv.Itoa(column+1))
	}

	return strings.Join(labels, " ")
}

func joinActions(actions []usecase.GameOverAction) string {
	commands := map[usecase.GameOverAction]string{
		usecase.ActionNewGame:    "new",
		usecase.ActionPlayAgain:  "again",
		usecase.ActionSaveReplay: "save-replay <file>",
		usecase.ActionUndo:       "undo",
	}

	labels := make([]string, 0, len(actions))
	for _, action := range actions {
		labels = append(labels, commands[action])
	}

	return strings.Join(labels, " | ")
}
