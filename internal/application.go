package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/fourinaline/internal/config"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/fourinaline"
	"github.com/rocketscienceinc/fourinaline/internal/player"
	"github.com/rocketscienceinc/fourinaline/internal/repository"
	"github.com/rocketscienceinc/fourinaline/internal/repository/storage"
	"github.com/rocketscienceinc/fourinaline/internal/savegame"
	"github.com/rocketscienceinc/fourinaline/internal/service"
	"github.com/rocketscienceinc/fourinaline/internal/usecase"
	"github.com/rocketscienceinc/fourinaline/transport/console"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown savegame storage")
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	matchSettings, first, second, err := matchConfig(conf)
	if err != nil {
		return err
	}

	bots := service.NewBotService(logger, conf.HintDepth)
	players := player.NewFactory(logger, bots, nil)
	matches := usecase.NewMatchFactory(matchSettings, first, second, players, fourinaline.EvaluateBoard)

	session := usecase.NewSessionController(logger, clock.New(), bots, usecase.Options{
		TimerTick:   conf.TimerTick,
		ColumnHints: conf.ColumnHints,
	})

	deps := console.Dependencies{
		Session:        session,
		Matches:        matches,
		Players:        players,
		Serializer:     savegame.NewSerializer(fourinaline.EvaluateBoard),
		Files:          console.Files{},
		HighscoreLimit: conf.Highscores.Limit,
	}

	if conf.UsesRedis() {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		if conf.Highscores.Enabled {
			highscores := service.NewHighscoreService(logger, repository.NewHighscoreRepository(redisStorage.Connection))
			recorder := usecase.NewHighscoreRecorder(ctx, logger, highscores)
			defer recorder.Wait()

			session.Subscribe(recorder)
			deps.Highscores = highscores
		}

		if conf.Savegames.Storage == config.StorageRedis {
			deps.Files = repository.NewSavegameRepository(redisStorage.Connection)
		}
	}

	server := console.New(logger, deps, os.Stdout)
	session.Subscribe(server)
	defer session.EndGame()

	consoleErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting console")
		consoleErrCh <- server.Start(ctx, os.Stdin)
	}()

	select {
	case err = <-consoleErrCh:
		if err != nil {
			return fmt.Errorf("console error: %w", err)
		}

		log.Info("Console closed, shutting down")

		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func matchConfig(conf *config.Config) (entity.Settings, entity.PlayerInfo, entity.PlayerInfo, error) {
	settings := entity.Settings{
		Columns:     conf.Board.Columns,
		Rows:        conf.Board.Rows,
		TimeLimit:   conf.TurnTimeLimit,
		UndoAllowed: conf.UndoAllowed,
		HintAllowed: conf.HintAllowed,
	}

	if err := entity.ValidateBoardSize(settings.Columns, settings.Rows); err != nil {
		return entity.Settings{}, entity.PlayerInfo{}, entity.PlayerInfo{}, fmt.Errorf("invalid board config: %w", err)
	}

	if conf.Savegames.Storage != config.StorageFile && conf.Savegames.Storage != config.StorageRedis {
		return entity.Settings{}, entity.PlayerInfo{}, entity.PlayerInfo{}, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Savegames.Storage)
	}

	first, err := playerInfo(entity.First, conf.FirstPlayer)
	if err != nil {
		return entity.Settings{}, entity.PlayerInfo{}, entity.PlayerInfo{}, err
	}

	second, err := playerInfo(entity.Second, conf.SecondPlayer)
	if err != nil {
		return entity.Settings{}, entity.PlayerInfo{}, entity.PlayerInfo{}, err
	}

	return settings, first, second, nil
}

func playerInfo(id entity.PlayerID, conf config.Player) (entity.PlayerInfo, error) {
	kind, err := entity.ParseKind(conf.Kind)
	if err != nil {
		return entity.PlayerInfo{}, fmt.Errorf("invalid %s player config: %w", id, err)
	}

	name := conf.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", int(id))
	}

	return entity.PlayerInfo{
		ID:         id,
		Name:       name,
		Kind:       kind,
		Difficulty: conf.Difficulty,
	}, nil
}
