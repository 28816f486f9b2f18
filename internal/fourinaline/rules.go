package fourinaline

import (
	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

// LineLength is the number of pieces in a row that wins.
const LineLength = 4

// directions are the four axes through a cell: horizontal, vertical and both diagonals.
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// EvaluateBoard checks whether last completed a line through its cell, then whether the board is full.
func EvaluateBoard(board *entity.Board, last entity.Move) entity.Outcome {
	if cells := winningLine(board, last); cells != nil {
		return entity.Outcome{Kind: entity.OutcomeWin, Winner: last.Player, Cells: cells}
	}

	if board.IsFull() {
		return entity.Outcome{Kind: entity.OutcomeDraw}
	}

	return entity.Outcome{Kind: entity.OutcomeContinue}
}

// IsWinningMove reports whether dropping player's piece into column would complete a line.
// The board is left unchanged.
func IsWinningMove(board *entity.Board, column int, player entity.PlayerID) bool {
	row, err := board.DropInColumn(column, player)
	if err != nil {
		return false
	}
	defer board.RemoveTop(column) //nolint: errcheck // the piece was just placed

	return winningLine(board, entity.Move{Column: column, Row: row, Player: player}) != nil
}

// winningLine returns the cells of the longest line through the move's cell if it is long enough.
func winningLine(board *entity.Board, move entity.Move) []entity.Cell {
	player := move.Player
	if !player.Valid() || board.Occupant(move.Column, move.Row) != player {
		return nil
	}

	for _, dir := range directions {
		line := []entity.Cell{{Column: move.Column, Row: move.Row}}
		line = append(line, walk(board, move, dir[0], dir[1])...)
		line = append(line, walk(board, move, -dir[0], -dir[1])...)

		if len(line) >= LineLength {
			return line
		}
	}

	return nil
}

func walk(board *entity.Board, move entity.Move, deltaColumn, deltaRow int) []entity.Cell {
	var cells []entity.Cell

	column, row := move.Column+deltaColumn, move.Row+deltaRow
	for board.Occupant(column, row) == move.Player {
		cells = append(cells, entity.Cell{Column: column, Row: row})
		column += deltaColumn
		row += deltaRow
	}

	return cells
}
