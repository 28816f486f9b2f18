package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/fourinaline"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 8

	scoreWin          = 1_000_000
	scoreThree        = 50
	scoreTwo          = 10
	scoreBlockThree   = 40
	scoreCenterColumn = 6
)

type BotService interface {
	// BestMove searches difficulty plies ahead for the player to move in match.
	BestMove(ctx context.Context, match *entity.Match, difficulty int) (int, error)
	// SuggestMove is the hint collaborator: the column the player to move should play.
	SuggestMove(ctx context.Context, match *entity.Match) (int, error)
}

type botService struct {
	logger    *slog.Logger
	hintDepth int
}

func NewBotService(logger *slog.Logger, hintDepth int) BotService {
	return &botService{
		logger:    logger.With("component", "bot"),
		hintDepth: clampDifficulty(hintDepth),
	}
}

func (that *botService) SuggestMove(ctx context.Context, match *entity.Match) (int, error) {
	column, err := that.BestMove(ctx, match, that.hintDepth)
	if err != nil {
		return -1, fmt.Errorf("failed to suggest move: %w", err)
	}

	return column, nil
}

func (that *botService) BestMove(ctx context.Context, match *entity.Match, difficulty int) (int, error) {
	if !match.IsInProgress() {
		return -1, apperror.ErrGameFinished
	}

	board := match.Board()
	player := match.CurrentTurn()

	columns := orderedColumns(board)
	if len(columns) == 0 {
		return -1, apperror.ErrNoAvailableMove
	}

	difficulty = clampDifficulty(difficulty)
	if difficulty == MinDifficulty {
		return that.randomTurn(board, player, columns), nil
	}

	bestColumn := columns[0]
	bestScore := math.MinInt
	alpha, beta := -math.MaxInt, math.MaxInt

	for _, column := range columns {
		if err := ctx.Err(); err != nil {
			return -1, fmt.Errorf("search cancelled: %w", err)
		}

		score := scoreMove(ctx, board, column, player, difficulty, alpha, beta)
		if score > bestScore {
			bestScore = score
			bestColumn = column
		}

		alpha = max(alpha, score)
	}

	if err := ctx.Err(); err != nil {
		return -1, fmt.Errorf("search cancelled: %w", err)
	}

	that.logger.Debug("move found", "column", bestColumn, "score", bestScore, "depth", difficulty)

	return bestColumn, nil
}

// randomTurn takes an immediate win or block, otherwise any playable column.
func (that *botService) randomTurn(board *entity.Board, player entity.PlayerID, columns []int) int {
	for _, column := range columns {
		if fourinaline.IsWinningMove(board, column, player) {
			return column
		}
	}

	for _, column := range columns {
		if fourinaline.IsWinningMove(board, column, player.Opponent()) {
			return column
		}
	}

	return columns[rand.Intn(len(columns))] //nolint: gosec // it's ok
}

// scoreMove scores dropping player's piece into column from player's point of view,
// searching depth plies including this one.
func scoreMove(ctx context.Context, board *entity.Board, column int, player entity.PlayerID, depth, alpha, beta int) int {
	row, err := board.DropInColumn(column, player)
	if err != nil {
		return -scoreWin
	}
	defer board.RemoveTop(column) //nolint: errcheck // the piece was just placed

	switch outcome := fourinaline.EvaluateBoard(board, entity.Move{Column: column, Row: row, Player: player}); outcome.Kind {
	case entity.OutcomeWin:
		// prefer quicker wins
		return scoreWin + depth
	case entity.OutcomeDraw:
		return 0
	}

	return -negamax(ctx, board, player.Opponent(), depth-1, -beta, -alpha)
}

// negamax scores the position for player, who is to move.
func negamax(ctx context.Context, board *entity.Board, player entity.PlayerID, depth, alpha, beta int) int {
	if depth <= 0 || ctx.Err() != nil {
		return evaluate(board, player)
	}

	columns := orderedColumns(board)
	if len(columns) == 0 {
		return 0
	}

	best := -math.MaxInt
	for _, column := range columns {
		score := scoreMove(ctx, board, column, player, depth, alpha, beta)
		best = max(best, score)
		alpha = max(alpha, score)

		if alpha >= beta {
			break
		}
	}

	return best
}

// evaluate is a heuristic over every window of four cells.
func evaluate(board *entity.Board, player entity.PlayerID) int {
	score := 0
	opponent := player.Opponent()

	center := board.Columns() / 2
	for row := range board.Height(center) {
		switch board.Occupant(center, row) {
		case player:
			score += scoreCenterColumn
		case opponent:
			score -= scoreCenterColumn
		}
	}

	for column := range board.Columns() {
		for row := range board.Rows() {
			for _, dir := range [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}} {
				score += scoreWindow(board, column, row, dir[0], dir[1], player)
			}
		}
	}

	return score
}

func scoreWindow(board *entity.Board, column, row, deltaColumn, deltaRow int, player entity.PlayerID) int {
	endColumn := column + deltaColumn*(fourinaline.LineLength-1)
	endRow := row + deltaRow*(fourinaline.LineLength-1)
	if endColumn < 0 || endColumn >= board.Columns() || endRow < 0 || endRow >= board.Rows() {
		return 0
	}

	own, other := 0, 0
	for step := range fourinaline.LineLength {
		switch board.Occupant(column+deltaColumn*step, row+deltaRow*step) {
		case player:
			own++
		case player.Opponent():
			other++
		}
	}

	switch {
	case other == 0 && own == 3:
		return scoreThree
	case other == 0 && own == 2:
		return scoreTwo
	case own == 0 && other == 3:
		return -scoreBlockThree
	default:
		return 0
	}
}

// orderedColumns lists playable columns from the center outwards.
func orderedColumns(board *entity.Board) []int {
	center := (board.Columns() - 1) / 2
	columns := make([]int, 0, board.Columns())

	for offset := 0; offset < board.Columns(); offset++ {
		column := center + offset/2 + offset%2
		if offset%2 == 0 {
			column = center - offset/2
		}

		if board.CanDrop(column) {
			columns = append(columns, column)
		}
	}

	return columns
}

func clampDifficulty(difficulty int) int {
	return min(max(difficulty, MinDifficulty), MaxDifficulty)
}
