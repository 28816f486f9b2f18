package usecase

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
)

func newReplay(t *testing.T, columns ...int) *entity.Match {
	t.Helper()

	match := newMatch(t, entity.DefaultSettings(), newScripted(entity.First, entity.KindHuman), newScripted(entity.Second, entity.KindHuman))
	for _, column := range columns {
		_, err := match.ApplyMove(column)
		require.NoError(t, err)
	}

	return match
}

func newViewer(t *testing.T, replay *entity.Match) (*ReplayViewer, *recorder) {
	t.Helper()

	viewer, err := NewReplayViewer(slog.New(slog.NewJSONHandler(io.Discard, nil)), replay)
	require.NoError(t, err)

	events := &recorder{}
	viewer.Subscribe(events)

	return viewer, events
}

func TestReplayViewer(t *testing.T) {
	t.Run("Steps forward and back", func(t *testing.T) {
		// Given: a replay of three moves shown from the start
		viewer, events := newViewer(t, newReplay(t, 3, 3, 4))
		require.Equal(t, 0, viewer.Position())
		require.Equal(t, 3, viewer.Len())

		// When: stepping forward twice and back once
		require.True(t, viewer.NextMove())
		require.True(t, viewer.NextMove())
		require.True(t, viewer.PreviousMove())

		// Then: one piece is shown and the removed piece was the second one
		assert.Equal(t, 1, viewer.Position())
		assert.Equal(t, []EventKind{EventSetCell, EventSetCell, EventRemoveCell}, events.Kinds())

		removed, _ := events.Last(EventRemoveCell)
		assert.Equal(t, 3, removed.Column)
		assert.Equal(t, 1, removed.Row)
		assert.Equal(t, entity.Nobody, viewer.Snapshot().Occupant(3, 1))
	})

	t.Run("Stops at both ends", func(t *testing.T) {
		viewer, _ := newViewer(t, newReplay(t, 3))

		assert.False(t, viewer.PreviousMove())
		assert.True(t, viewer.NextMove())
		assert.False(t, viewer.NextMove())
	})

	t.Run("Jumping to the end shows the result", func(t *testing.T) {
		// Given: a replay of a won match
		replay := newReplay(t, 0, 0, 1, 1, 2, 2, 3)
		viewer, events := newViewer(t, replay)

		// When: jumping to the end and back to the start
		viewer.JumpToEnd()
		final := viewer.Snapshot()
		viewer.JumpToStart()

		// Then: the final board matches the replay and the game over was announced and revoked
		assert.Equal(t, replay.Board(), final.Board())
		assert.Equal(t, entity.Won(entity.First), final.Status())
		assert.Contains(t, events.Kinds(), EventGameOver)
		assert.Contains(t, events.Kinds(), EventGameNotOverAnymore)
		assert.Equal(t, 0, viewer.Position())
		assert.True(t, viewer.Snapshot().Board().IsEmpty())
	})
}
