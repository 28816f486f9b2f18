package savegame

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/fourinaline/internal/apperror"
	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/internal/fourinaline"
	"github.com/rocketscienceinc/fourinaline/internal/player"
)

func newSerializer() *Serializer {
	return NewSerializer(fourinaline.EvaluateBoard)
}

func newMatch(t *testing.T, settings entity.Settings, columns ...int) *entity.Match {
	t.Helper()

	first := player.NewHuman(entity.PlayerInfo{ID: entity.First, Name: "Alice"})
	second := player.NewPlaceholder(entity.PlayerInfo{ID: entity.Second, Name: "Computer", Kind: entity.KindAI, Difficulty: 4})

	match, err := entity.NewMatch(settings, first, second, fourinaline.EvaluateBoard)
	require.NoError(t, err)

	for _, column := range columns {
		_, err = match.ApplyMove(column)
		require.NoError(t, err)
	}

	return match
}

func document(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

func requireParseError(t *testing.T, err error, line int) *ParseError {
	t.Helper()

	require.ErrorIs(t, err, ErrParse)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, line, parseErr.Line, parseErr.Error())

	return parseErr
}

func TestSerializer_RoundTrip(t *testing.T) {
	t.Run("Savegame keeps configuration and moves", func(t *testing.T) {
		// Given: a match with a time limit, no undo and three moves
		settings := entity.DefaultSettings()
		settings.TimeLimit = 30 * time.Second
		settings.UndoAllowed = false
		match := newMatch(t, settings, 3, 3, 4)

		// When: it is encoded as a savegame and decoded again
		data, err := newSerializer().Encode(match, true)
		require.NoError(t, err)

		decoded, err := newSerializer().Decode(data)
		require.NoError(t, err)

		// Then: settings, players, board, history and status are equal
		assert.Equal(t, match.Settings(), decoded.Settings())
		assert.Equal(t, match.FirstPlayer().Info(), decoded.FirstPlayer().Info())
		assert.Equal(t, match.SecondPlayer().Info(), decoded.SecondPlayer().Info())
		assert.Equal(t, match.Board(), decoded.Board())
		assert.Equal(t, match.History(), decoded.History())
		assert.Equal(t, match.Status(), decoded.Status())
		assert.Equal(t, entity.Second, decoded.CurrentTurn())
	})

	t.Run("Won match stays won", func(t *testing.T) {
		match := newMatch(t, entity.DefaultSettings(), 0, 0, 1, 1, 2, 2, 3)

		data, err := newSerializer().Encode(match, true)
		require.NoError(t, err)
		decoded, err := newSerializer().Decode(data)
		require.NoError(t, err)

		assert.Equal(t, entity.Won(entity.First), decoded.Status())
		assert.Equal(t, match.WinningCells(), decoded.WinningCells())
	})

	t.Run("Timeout draw is kept", func(t *testing.T) {
		settings := entity.DefaultSettings()
		settings.TimeLimit = 10 * time.Second
		match := newMatch(t, settings, 3)
		require.NoError(t, match.ApplyTimeout())

		data, err := newSerializer().Encode(match, true)
		require.NoError(t, err)
		decoded, err := newSerializer().Decode(data)
		require.NoError(t, err)

		assert.Equal(t, entity.DrawByTimeout(entity.Second), decoded.Status())
	})

	t.Run("Odd board size", func(t *testing.T) {
		settings := entity.DefaultSettings()
		settings.Columns = 9
		settings.Rows = 4
		match := newMatch(t, settings, 8, 8, 8, 8, 0)

		data, err := newSerializer().Encode(match, false)
		require.NoError(t, err)
		decoded, err := newSerializer().Decode(data)
		require.NoError(t, err)

		assert.Equal(t, match.Board(), decoded.Board())
		assert.False(t, decoded.CanDrop(8))
	})
}

func TestSerializer_TimeLimit(t *testing.T) {
	limits := map[string]time.Duration{
		"whole seconds":     90 * time.Second,
		"fraction":          1500 * time.Millisecond,
		"below one second":  500 * time.Millisecond,
		"odd nanoseconds":   2*time.Minute + 3*time.Nanosecond,
		"no limit is empty": 0,
	}

	for name, limit := range limits {
		t.Run(name, func(t *testing.T) {
			// Given: a match with the time limit
			settings := entity.DefaultSettings()
			settings.TimeLimit = limit
			match := newMatch(t, settings, 3)

			// When: it is saved and loaded
			data, err := newSerializer().Encode(match, true)
			require.NoError(t, err)
			decoded, err := newSerializer().Decode(data)
			require.NoError(t, err)

			// Then: the limit is exact
			assert.Equal(t, limit, decoded.Settings().TimeLimit)
			assert.Equal(t, match.Settings().HasTimeLimit(), decoded.Settings().HasTimeLimit())
		})
	}

	t.Run("Whole seconds are written as a number", func(t *testing.T) {
		settings := entity.DefaultSettings()
		settings.TimeLimit = 30 * time.Second

		data, err := newSerializer().Encode(newMatch(t, settings), true)

		require.NoError(t, err)
		assert.Contains(t, string(data), `time-limit="30"`)
	})

	t.Run("Invalid limits are rejected", func(t *testing.T) {
		for _, value := range []string{"-5", "-1s", "soon"} {
			_, err := newSerializer().Decode(document(
				`<game version="1">`,
				`  <board columns="7" rows="6"/>`,
				`  <configuration undo-allowed="true" hint-allowed="true" network-game="false" time-limit="`+value+`">`,
				`    <player id="1" kind="human" name="Alice"/>`,
				`    <player id="2" kind="human" name="Bob"/>`,
				`  </configuration>`,
				`</game>`,
			))

			requireParseError(t, err, 3)
		}
	})
}

// playRandom plays a seeded sequence of legal moves, sometimes ending in a timeout.
func playRandom(t *testing.T, settings entity.Settings, seed int64) *entity.Match {
	t.Helper()

	rng := rand.New(rand.NewSource(seed)) //nolint: gosec // it's ok
	match := newMatch(t, settings)
	length := rng.Intn(settings.Columns*settings.Rows + 1)

	for match.IsInProgress() && match.MoveCount() < length {
		playable := match.PlayableColumns()
		_, err := match.ApplyMove(playable[rng.Intn(len(playable))])
		require.NoError(t, err)
	}

	if match.IsInProgress() && settings.HasTimeLimit() && rng.Intn(3) == 0 {
		require.NoError(t, match.ApplyTimeout())
	}

	return match
}

func TestSerializer_RandomMatches(t *testing.T) {
	sizes := [][2]int{{4, 4}, {entity.ClassicColumns, entity.ClassicRows}, {8, 5}, {6, 9}}

	for _, size := range sizes {
		for seed := int64(1); seed <= 25; seed++ {
			settings := entity.DefaultSettings()
			settings.Columns, settings.Rows = size[0], size[1]
			settings.UndoAllowed = seed%2 == 0
			settings.TimeLimit = time.Duration(seed%3) * 750 * time.Millisecond

			// Given: a reachable match
			match := playRandom(t, settings, seed)
			label := []any{"%dx%d seed %d", size[0], size[1], seed}

			// When: it is saved and loaded
			data, err := newSerializer().Encode(match, true)
			require.NoError(t, err)
			saved, err := newSerializer().Decode(data)
			require.NoError(t, err, label...)

			// Then: the loaded match is the same match
			assert.Equal(t, match.Settings(), saved.Settings(), label...)
			assert.Equal(t, match.FirstPlayer().Info(), saved.FirstPlayer().Info(), label...)
			assert.Equal(t, match.SecondPlayer().Info(), saved.SecondPlayer().Info(), label...)
			assert.Equal(t, match.Board(), saved.Board(), label...)
			assert.Equal(t, match.History(), saved.History(), label...)
			assert.Equal(t, match.Status(), saved.Status(), label...)
			assert.Equal(t, match.CurrentTurn(), saved.CurrentTurn(), label...)
			assert.Equal(t, match.WinningCells(), saved.WinningCells(), label...)

			// When: it is written as a replay and read back
			data, err = newSerializer().Encode(match, false)
			require.NoError(t, err)
			replayed, err := newSerializer().Decode(data)
			require.NoError(t, err, label...)

			// Then: the moves rebuild the same board and outcome, a timeout aside
			status := match.Status()
			if status.Kind == entity.StatusDraw && status.Reason == entity.DrawTimeout {
				status = entity.InProgress()
			}

			assert.Equal(t, match.Board(), replayed.Board(), label...)
			assert.Equal(t, match.History(), replayed.History(), label...)
			assert.Equal(t, status, replayed.Status(), label...)
			assert.Equal(t, match.WinningCells(), replayed.WinningCells(), label...)
		}
	}
}

func TestSerializer_Replay(t *testing.T) {
	// Given: a match of five moves
	match := newMatch(t, entity.DefaultSettings(), 3, 4, 3, 2, 6)

	// When: it is encoded as a replay and decoded
	data, err := newSerializer().Encode(match, false)
	require.NoError(t, err)

	decoded, err := newSerializer().Decode(data)
	require.NoError(t, err)

	// Then: no configuration was written and the moves alone rebuild the board
	assert.NotContains(t, string(data), "configuration")
	assert.NotContains(t, string(data), "Alice")
	assert.Equal(t, match.Board(), decoded.Board())
	assert.Equal(t, match.History(), decoded.History())
	assert.Equal(t, "Player 1", decoded.FirstPlayer().Info().Name)
	assert.Equal(t, "Player 2", decoded.SecondPlayer().Info().Name)

	_, err = decoded.FirstPlayer().ProduceMove(context.Background(), decoded)
	require.ErrorIs(t, err, apperror.ErrNotInteractive)
}

func TestSerializer_ReplayOfTimeout(t *testing.T) {
	// Given: a match drawn by a timeout
	settings := entity.DefaultSettings()
	settings.TimeLimit = 10 * time.Second
	match := newMatch(t, settings, 3, 4)
	require.NoError(t, match.ApplyTimeout())

	// When: it is encoded as a replay
	data, err := newSerializer().Encode(match, false)
	require.NoError(t, err)

	// Then: only board and moves are written, so the replay ends in progress
	assert.NotContains(t, string(data), "timeout")
	assert.NotContains(t, string(data), "time-limit")

	decoded, err := newSerializer().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, match.History(), decoded.History())
	assert.True(t, decoded.IsInProgress())
}

func TestSerializer_Decode(t *testing.T) {
	t.Run("Newer version is rejected", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="2">`,
			`  <board columns="7" rows="6"/>`,
			`</game>`,
		))

		parseErr := requireParseError(t, err, 1)
		assert.Contains(t, parseErr.Reason, "unsupported format version 2")
	})

	t.Run("Missing version", func(t *testing.T) {
		_, err := newSerializer().Decode(document(`<game><board columns="7" rows="6"/></game>`))

		requireParseError(t, err, 1)
	})

	t.Run("Seventh move in a column is illegal", func(t *testing.T) {
		// Given: a document dropping seven pieces into column 0
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6"/>`,
			`  <moves>`,
			`    <move column="0" player="1"/>`,
			`    <move column="0" player="2"/>`,
			`    <move column="0" player="1"/>`,
			`    <move column="0" player="2"/>`,
			`    <move column="0" player="1"/>`,
			`    <move column="0" player="2"/>`,
			`    <move column="0" player="1"/>`,
			`  </moves>`,
			`</game>`,
		))

		// Then: decoding fails at the offending move with the board level cause
		requireParseError(t, err, 10)
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrColumnFull)
	})

	t.Run("Move out of turn", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6"/>`,
			`  <moves>`,
			`    <move column="3" player="2"/>`,
			`  </moves>`,
			`</game>`,
		))

		parseErr := requireParseError(t, err, 4)
		assert.Equal(t, 5, parseErr.Column)
	})

	t.Run("Move after the game is over", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="4" rows="4"/>`,
			`  <moves>`,
			`    <move column="0" player="1"/><move column="1" player="2"/>`,
			`    <move column="0" player="1"/><move column="1" player="2"/>`,
			`    <move column="0" player="1"/><move column="1" player="2"/>`,
			`    <move column="0" player="1"/>`,
			`    <move column="2" player="2"/>`,
			`  </moves>`,
			`</game>`,
		))

		parseErr := requireParseError(t, err, 8)
		assert.Contains(t, parseErr.Reason, "after the game is over")
	})

	t.Run("Board problems", func(t *testing.T) {
		_, missing := newSerializer().Decode(document(
			`<game version="1">`,
			`  <moves><move column="0" player="1"/></moves>`,
			`</game>`,
		))
		requireParseError(t, missing, 2)

		_, duplicate := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6"/>`,
			`  <board columns="7" rows="6"/>`,
			`</game>`,
		))
		requireParseError(t, duplicate, 3)

		_, tooSmall := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="2" rows="2"/>`,
			`</game>`,
		))
		requireParseError(t, tooSmall, 2)
		require.ErrorIs(t, tooSmall, apperror.ErrInvalidBoardSize)
	})

	t.Run("Configuration needs both players", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6"/>`,
			`  <configuration undo-allowed="true" hint-allowed="true" network-game="false">`,
			`    <player id="1" kind="human" name="Alice"/>`,
			`  </configuration>`,
			`</game>`,
		))

		requireParseError(t, err, 3)
	})

	t.Run("Unknown player kind", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6"/>`,
			`  <configuration undo-allowed="true" hint-allowed="true" network-game="false">`,
			`    <player id="1" kind="human" name="Alice"/>`,
			`    <player id="2" kind="robot" name="R2"/>`,
			`  </configuration>`,
			`</game>`,
		))

		requireParseError(t, err, 3)
		require.ErrorIs(t, err, apperror.ErrUnknownKind)
	})

	t.Run("Malformed document", func(t *testing.T) {
		_, err := newSerializer().Decode(document(
			`<game version="1">`,
			`  <board columns="7" rows="6">`,
			`</game>`,
		))

		require.ErrorIs(t, err, ErrParse)

		var syntaxErr *ParseError
		require.True(t, errors.As(err, &syntaxErr))
		assert.Equal(t, 3, syntaxErr.Line)
	})

	t.Run("Empty input", func(t *testing.T) {
		_, err := newSerializer().Decode(nil)

		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("Unknown elements are skipped", func(t *testing.T) {
		match, err := newSerializer().Decode(document(
			`<?xml version="1.0" encoding="UTF-8"?>`,
			`<game version="1">`,
			`  <comment>written by hand</comment>`,
			`  <board columns="7" rows="6"/>`,
			`  <moves><move column="3" player="1"/></moves>`,
			`</game>`,
		))

		require.NoError(t, err)
		assert.Equal(t, entity.First, match.Occupant(3, 0))
	})
}
