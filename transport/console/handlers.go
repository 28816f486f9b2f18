package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rocketscienceinc/fourinaline/internal/usecase"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrNoReplay        = errors.New("no replay loaded, use replay <file>")
	ErrNoHighscores    = errors.New("highscores are disabled")
)

func (that *Server) handleNewGame(_ context.Context, _ []string) error {
	match, err := that.deps.Matches.NewMatch()
	if err != nil {
		return fmt.Errorf("failed to create a new game: %w", err)
	}

	that.replay = nil

	return that.deps.Session.StartGame(match)
}

// handleMove takes the column counted from 1 as shown on the board.
func (that *Server) handleMove(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: column", ErrMissingArgument)
	}

	column, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid column %q", args[0])
	}

	return that.deps.Session.SubmitMoveInput(column - 1)
}

func (that *Server) handleUndo(_ context.Context, _ []string) error {
	return that.deps.Session.UndoLastMove()
}

func (that *Server) handleHint(ctx context.Context, _ []string) error {
	column, err := that.deps.Session.ShowHint(ctx)
	if err != nil {
		return err
	}

	that.printf("hint: column %d\n", column+1)

	return nil
}

func (that *Server) handlePlayAgain(_ context.Context, _ []string) error {
	that.replay = nil

	return that.deps.Session.PlayAgain(that.deps.Players)
}

func (that *Server) handleEndGame(_ context.Context, _ []string) error {
	that.deps.Session.EndGame()

	return nil
}

func (that *Server) handleBoard(_ context.Context, _ []string) error {
	if that.replay != nil {
		that.printf("%s", renderBoard(that.replay.Snapshot()))
		return nil
	}

	match := that.deps.Session.Snapshot()
	if match == nil {
		return errors.New("no game, use new or load <file>")
	}

	that.printf("%s", renderBoard(match))

	return nil
}

func (that *Server) handleSave(ctx context.Context, args []string) error {
	return that.save(ctx, args, true)
}

func (that *Server) handleSaveReplay(ctx context.Context, args []string) error {
	return that.save(ctx, args, false)
}

func (that *Server) save(ctx context.Context, args []string, withConfiguration bool) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: file", ErrMissingArgument)
	}

	match := that.deps.Session.Snapshot()
	if match == nil {
		return errors.New("no game to save")
	}

	data, err := that.deps.Serializer.Encode(match, withConfiguration)
	if err != nil {
		return fmt.Errorf("failed to encode game: %w", err)
	}

	if err = that.deps.Files.WriteFile(ctx, args[0], data); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}

	that.printf("saved %s\n", args[0])

	return nil
}

// handleLoad resumes a savegame with live players.
func (that *Server) handleLoad(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: file", ErrMissingArgument)
	}

	data, err := that.deps.Files.ReadFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	match, err := that.deps.Serializer.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	if err = that.deps.Players.ReplacePlayers(match); err != nil {
		return fmt.Errorf("failed to set up players: %w", err)
	}

	that.replay = nil

	return that.deps.Session.StartGame(match)
}

// handleReplay shows a saved game move by move without starting it.
func (that *Server) handleReplay(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: file", ErrMissingArgument)
	}

	data, err := that.deps.Files.ReadFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	match, err := that.deps.Serializer.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	viewer, err := usecase.NewReplayViewer(that.logger, match)
	if err != nil {
		return fmt.Errorf("failed to open replay: %w", err)
	}

	viewer.Subscribe(that)
	that.replay = viewer

	that.printf("replay of %d moves, use next, prev, first and last\n", viewer.Len())

	return nil
}

func (that *Server) handleNext(_ context.Context, _ []string) error {
	if that.replay == nil {
		return ErrNoReplay
	}

	if !that.replay.NextMove() {
		that.printf("end of replay\n")
	}

	return nil
}

func (that *Server) handlePrevious(_ context.Context, _ []string) error {
	if that.replay == nil {
		return ErrNoReplay
	}

	if !that.replay.PreviousMove() {
		that.printf("start of replay\n")
	}

	return nil
}

func (that *Server) handleFirst(_ context.Context, _ []string) error {
	if that.replay == nil {
		return ErrNoReplay
	}

	that.replay.JumpToStart()

	return nil
}

func (that *Server) handleLast(_ context.Context, _ []string) error {
	if that.replay == nil {
		return ErrNoReplay
	}

	that.replay.JumpToEnd()

	return nil
}

func (that *Server) handleHighscores(ctx context.Context, _ []string) error {
	if that.deps.Highscores == nil {
		return ErrNoHighscores
	}

	scores, err := that.deps.Highscores.Top(ctx, that.deps.HighscoreLimit)
	if err != nil {
		that.logger.Error("failed to get highscores", slog.Any("error", err))
		return errors.New("highscores are unavailable")
	}

	if len(scores) == 0 {
		that.printf("no highscores yet\n")
		return nil
	}

	for place, score := range scores {
		that.printf("%2d. %-20s %d\n", place+1, score.Name, score.Wins)
	}

	return nil
}

func (that *Server) handleHelp(_ context.Context, _ []string) error {
	that.printf("%s", helpText)

	return nil
}

func (that *Server) handleQuit(_ context.Context, _ []string) error {
	that.deps.Session.EndGame()

	return ErrQuit
}

const helpText = `commands:
  new                 start a new game
  move <column>       drop a piece, columns count from 1
  undo                take back the last move
  hint                suggest a column
  again               play again with the same players
  end                 end the game
  board               show the board
  save <file>         save the game
  save-replay <file>  save the moves only
  load <file>         continue a saved game
  replay <file>       watch a saved game, then next, prev, first, last
  highscores          list the best players against the computer
  quit                leave
`
