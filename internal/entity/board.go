package entity

import (
	"fmt"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
)

const (
	ClassicColumns = 7
	ClassicRows    = 6

	MinBoardSize = 4
	MaxBoardSize = 32
)

// Board is a column-major grid; row 0 is the bottom row.
type Board struct {
	columns int
	rows    int
	cells   [][]PlayerID
	heights []int
}

func NewBoard(columns, rows int) (*Board, error) {
	if err := ValidateBoardSize(columns, rows); err != nil {
		return nil, err
	}

	cells := make([][]PlayerID, columns)
	for column := range cells {
		cells[column] = make([]PlayerID, rows)
	}

	return &Board{
		columns: columns,
		rows:    rows,
		cells:   cells,
		heights: make([]int, columns),
	}, nil
}

func ValidateBoardSize(columns, rows int) error {
	if columns < MinBoardSize || columns > MaxBoardSize || rows < MinBoardSize || rows > MaxBoardSize {
		return fmt.Errorf("%w: %dx%d", apperror.ErrInvalidBoardSize, columns, rows)
	}

	return nil
}

func (that *Board) Columns() int {
	return that.columns
}

func (that *Board) Rows() int {
	return that.rows
}

// CellCount is the maximum number of moves a match on this board can have.
func (that *Board) CellCount() int {
	return that.columns * that.rows
}

// DropInColumn places player's piece on the lowest empty row of column and returns that row.
func (that *Board) DropInColumn(column int, player PlayerID) (int, error) {
	if !that.isColumn(column) {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	row := that.heights[column]
	if row >= that.rows {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	that.cells[column][row] = player
	that.heights[column]++

	return row, nil
}

// RemoveTop empties the highest occupied cell of column and returns its row.
func (that *Board) RemoveTop(column int) (int, error) {
	if !that.isColumn(column) {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	if that.heights[column] == 0 {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnEmpty, column)
	}

	that.heights[column]--
	row := that.heights[column]
	that.cells[column][row] = Nobody

	return row, nil
}

func (that *Board) CanDrop(column int) bool {
	return that.isColumn(column) && that.heights[column] < that.rows
}

// PlayableColumns returns the columns that still accept a piece, left to right.
func (that *Board) PlayableColumns() []int {
	columns := make([]int, 0, that.columns)
	for column := range that.columns {
		if that.CanDrop(column) {
			columns = append(columns, column)
		}
	}

	return columns
}

func (that *Board) IsFull() bool {
	for _, height := range that.heights {
		if height < that.rows {
			return false
		}
	}

	return true
}

func (that *Board) IsEmpty() bool {
	for _, height := range that.heights {
		if height > 0 {
			return false
		}
	}

	return true
}

// Occupant returns Nobody for empty or out-of-range cells.
func (that *Board) Occupant(column, row int) PlayerID {
	if !that.isColumn(column) || row < 0 || row >= that.rows {
		return Nobody
	}

	return that.cells[column][row]
}

func (that *Board) Height(column int) int {
	if !that.isColumn(column) {
		return 0
	}

	return that.heights[column]
}

func (that *Board) Clone() *Board {
	cells := make([][]PlayerID, that.columns)
	for column := range cells {
		cells[column] = make([]PlayerID, that.rows)
		copy(cells[column], that.cells[column])
	}

	heights := make([]int, that.columns)
	copy(heights, that.heights)

	return &Board{
		columns: that.columns,
		rows:    that.rows,
		cells:   cells,
		heights: heights,
	}
}

func (that *Board) isColumn(column int) bool {
	return column >= 0 && column < that.columns
}
