package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/fourinaline"
)

var errStorageDown = errors.New("storage down")

type mockCreator struct {
	mock.Mock
}

func (that *mockCreator) Create(info entity.PlayerInfo) (entity.Player, error) {
	args := that.Called(info)
	created, _ := args.Get(0).(entity.Player)

	return created, args.Error(1)
}

type mockScores struct {
	mock.Mock
}

func (that *mockScores) Record(ctx context.Context, result entity.Result) (bool, error) {
	args := that.Called(ctx, result)
	return args.Bool(0), args.Error(1)
}

func TestMatchFactory_NewMatch(t *testing.T) {
	t.Run("Creates both configured players", func(t *testing.T) {
		// Given: a human against the computer
		creator := &mockCreator{}
		human := entity.PlayerInfo{ID: entity.First, Name: "Alice", Kind: entity.KindHuman}
		computer := entity.PlayerInfo{ID: entity.Second, Name: "Computer", Kind: entity.KindAI, Difficulty: 3}
		creator.On("Create", human).Return(newScripted(entity.First, entity.KindHuman), nil).Once()
		creator.On("Create", computer).Return(newScripted(entity.Second, entity.KindAI), nil).Once()

		factory := NewMatchFactory(entity.DefaultSettings(), human, computer, creator, fourinaline.EvaluateBoard)

		// When: a match is created
		match, err := factory.NewMatch()

		// Then: it uses the configured settings
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultSettings(), match.Settings())
		creator.AssertExpectations(t)
	})

	t.Run("Network game disables undo and hints", func(t *testing.T) {
		creator := &mockCreator{}
		creator.On("Create", mock.Anything).Return(newScripted(entity.First, entity.KindNetwork), nil).Twice()

		factory := NewMatchFactory(entity.DefaultSettings(),
			entity.PlayerInfo{Kind: entity.KindHuman}, entity.PlayerInfo{Kind: entity.KindNetwork},
			creator, fourinaline.EvaluateBoard)

		match, err := factory.NewMatch()

		require.NoError(t, err)
		assert.True(t, match.Settings().NetworkGame)
		assert.False(t, match.Settings().UndoAllowed)
		assert.False(t, match.Settings().HintAllowed)
	})

	t.Run("Player creation failure", func(t *testing.T) {
		creator := &mockCreator{}
		creator.On("Create", mock.Anything).Return(nil, apperror.ErrNoPeer).Once()

		factory := NewMatchFactory(entity.DefaultSettings(), entity.PlayerInfo{Kind: entity.KindNetwork}, entity.PlayerInfo{}, creator, fourinaline.EvaluateBoard)

		_, err := factory.NewMatch()

		require.ErrorIs(t, err, apperror.ErrNoPeer)
	})
}

func TestHighscoreRecorder_Notify(t *testing.T) {
	t.Run("Records finished matches only", func(t *testing.T) {
		// Given: a recorder over a score service
		scores := &mockScores{}
		recorder := NewHighscoreRecorder(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)), scores)
		result := entity.Result{Status: entity.Won(entity.First), Player: entity.PlayerInfo{Name: "Alice", Kind: entity.KindHuman}}
		scores.On("Record", mock.Anything, result).Return(true, nil).Once()

		// When: a move and a game over are announced
		recorder.Notify(Event{Kind: EventSetCell})
		recorder.Notify(Event{Kind: EventGameOver, Result: result})
		recorder.Wait()

		// Then: only the result was recorded
		scores.AssertExpectations(t)
	})

	t.Run("A match is credited once", func(t *testing.T) {
		// Given: a recorder whose service credits every result
		scores := &mockScores{}
		recorder := NewHighscoreRecorder(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)), scores)
		result := entity.Result{MatchID: "match-1", Status: entity.Won(entity.First)}
		scores.On("Record", mock.Anything, result).Return(true, nil).Once()

		// When: the same match is announced as won three times
		for range 3 {
			recorder.Notify(Event{Kind: EventGameOver, Result: result})
		}
		recorder.Wait()

		// Then: the win was recorded once
		scores.AssertExpectations(t)
		scores.AssertNumberOfCalls(t, "Record", 1)
	})

	t.Run("A result that did not count can be won later", func(t *testing.T) {
		scores := &mockScores{}
		recorder := NewHighscoreRecorder(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)), scores)
		lost := entity.Result{MatchID: "match-1", Status: entity.Won(entity.Second)}
		won := entity.Result{MatchID: "match-1", Status: entity.Won(entity.First)}
		scores.On("Record", mock.Anything, lost).Return(false, nil).Once()
		scores.On("Record", mock.Anything, won).Return(true, nil).Once()

		recorder.Notify(Event{Kind: EventGameOver, Result: lost})
		recorder.Wait()
		recorder.Notify(Event{Kind: EventGameOver, Result: won})
		recorder.Wait()

		scores.AssertExpectations(t)
	})

	t.Run("Restored game over is not credited", func(t *testing.T) {
		scores := &mockScores{}
		recorder := NewHighscoreRecorder(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)), scores)

		recorder.Notify(Event{Kind: EventGameOver, Result: entity.Result{MatchID: "loaded"}, Restored: true})
		recorder.Wait()

		scores.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("Storage failure is not fatal", func(t *testing.T) {
		scores := &mockScores{}
		recorder := NewHighscoreRecorder(context.Background(), slog.New(slog.NewJSONHandler(io.Discard, nil)), scores)
		scores.On("Record", mock.Anything, mock.Anything).Return(false, errStorageDown).Once()

		recorder.Notify(Event{Kind: EventGameOver})
		recorder.Wait()

		scores.AssertExpectations(t)
	})
}
