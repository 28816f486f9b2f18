package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/usecase"
)

var ErrQuit = errors.New("quit")

type session interface {
	StartGame(match *entity.Match) error
	EndGame()
	SubmitMoveInput(column int) error
	UndoLastMove() error
	ShowHint(ctx context.Context) (int, error)
	PlayAgain(factory usecase.PlayerCopier) error
	HasGame() bool
	Snapshot() *entity.Match
}

type matchCreator interface {
	NewMatch() (*entity.Match, error)
}

type playerFactory interface {
	usecase.PlayerCopier
	ReplacePlayers(match *entity.Match) error
}

type serializer interface {
	Encode(match *entity.Match, withConfiguration bool) ([]byte, error)
	Decode(data []byte) (*entity.Match, error)
}

type highscores interface {
	Top(ctx context.Context, limit int) ([]entity.Highscore, error)
}

// fileStore reads and writes savegames.
type fileStore interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
}

type Dependencies struct {
	Session    session
	Matches    matchCreator
	Players    playerFactory
	Serializer serializer
	Files      fileStore
	// Highscores is nil when highscores are disabled.
	Highscores     highscores
	HighscoreLimit int
}

type handler func(ctx context.Context, args []string) error

// Server is a line oriented front end: it turns commands into session calls and
// prints the events of the session and of a running replay.
type Server struct {
	logger *slog.Logger
	deps   Dependencies

	outMutex sync.Mutex
	out      io.Writer

	replay *usecase.ReplayViewer

	handlers map[string]handler
}

func New(logger *slog.Logger, deps Dependencies, out io.Writer) *Server {
	server := &Server{
		logger: logger.With("component", "console"),
		deps:   deps,
		out:    out,

		handlers: make(map[string]handler),
	}

	server.handlers["new"] = server.handleNewGame
	server.handlers["move"] = server.handleMove
	server.handlers["undo"] = server.handleUndo
	server.handlers["hint"] = server.handleHint
	server.handlers["again"] = server.handlePlayAgain
	server.handlers["end"] = server.handleEndGame
	server.handlers["board"] = server.handleBoard
	server.handlers["save"] = server.handleSave
	server.handlers["save-replay"] = server.handleSaveReplay
	server.handlers["load"] = server.handleLoad
	server.handlers["replay"] = server.handleReplay
	server.handlers["next"] = server.handleNext
	server.handlers["prev"] = server.handlePrevious
	server.handlers["first"] = server.handleFirst
	server.handlers["last"] = server.handleLast
	server.handlers["highscores"] = server.handleHighscores
	server.handlers["help"] = server.handleHelp
	server.handlers["quit"] = server.handleQuit

	return server
}

// Start - reads commands from in until quit, end of input or ctx is done.
func (that *Server) Start(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	that.printf("four in a line, type help for commands\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return that.readFailure(readErr)
			}

			if err := that.Execute(ctx, line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}

				return err
			}
		}
	}
}

// Execute runs one command line. Command failures are printed, only ErrQuit is returned.
func (that *Server) Execute(ctx context.Context, line string) error {
	log := that.logger.With("method", "Execute")

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	name := strings.ToLower(fields[0])

	handle, ok := that.handlers[name]
	if !ok {
		that.printf("unknown command %q, type help for commands\n", name)
		return nil
	}

	if err := handle(ctx, fields[1:]); err != nil {
		if errors.Is(err, ErrQuit) {
			return err
		}

		log.Debug("command failed", "command", name, "error", err)
		that.printf("%s: %v\n", name, err)
	}

	return nil
}

func (that *Server) readFailure(readErr <-chan error) error {
	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	default:
	}

	return nil
}

func (that *Server) printf(format string, args ...any) {
	that.outMutex.Lock()
	defer that.outMutex.Unlock()

	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
