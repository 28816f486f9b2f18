package repository

import (
	"testing"

	"github.com/rocketscienceinc/fourinaline/internal/entity"
	"github.com/rocketscienceinc/fourinaline/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighscoreRepository_Increment(t *testing.T) {
	ctx, st := suite.New(t)

	highscoreRepo := NewHighscoreRepository(st.Storage)

	// Given: Alice won twice and Bob once
	require.NoError(t, highscoreRepo.Increment(ctx, "Alice"))
	require.NoError(t, highscoreRepo.Increment(ctx, "Bob"))
	require.NoError(t, highscoreRepo.Increment(ctx, "Alice"))

	// When: Top is called
	scores, err := highscoreRepo.Top(ctx, 10)

	// Then: players are ordered by wins
	require.NoError(t, err)
	assert.Equal(t, []entity.Highscore{{Name: "Alice", Wins: 2}, {Name: "Bob", Wins: 1}}, scores)
}

func TestHighscoreRepository_Top(t *testing.T) {
	t.Run("Top_Limit", func(t *testing.T) {
		ctx, st := suite.New(t)

		highscoreRepo := NewHighscoreRepository(st.Storage)

		// Given: three players with different wins
		for name, wins := range map[string]int{"Alice": 3, "Bob": 2, "Carol": 1} {
			for range wins {
				require.NoError(t, highscoreRepo.Increment(ctx, name))
			}
		}

		// When: Top is called with a limit of 2
		scores, err := highscoreRepo.Top(ctx, 2)

		// Then: only the two best players are returned
		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, "Alice", scores[0].Name)
		assert.Equal(t, "Bob", scores[1].Name)
	})

	t.Run("Top_Empty", func(t *testing.T) {
		ctx, st := suite.New(t)

		highscoreRepo := NewHighscoreRepository(st.Storage)

		scores, err := highscoreRepo.Top(ctx, 5)

		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("Top_InvalidLimit", func(t *testing.T) {
		ctx, st := suite.New(t)

		highscoreRepo := NewHighscoreRepository(st.Storage)

		_, err := highscoreRepo.Top(ctx, 0)

		require.ErrorIs(t, err, ErrInvalidLimit)
	})
}
