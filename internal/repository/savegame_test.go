package repository

import (
	"testing"

	"github.com/rocketscienceinc/fourinaline/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavegameRepository_WriteFile(t *testing.T) {
	ctx, st := suite.New(t)

	savegameRepo := NewSavegameRepository(st.Storage)

	// Given: a savegame document
	data := []byte(`<game version="1"><board columns="7" rows="6"/></game>`)

	// When: WriteFile is called
	err := savegameRepo.WriteFile(ctx, "evening", data)

	// Then: the document can be read back under its name
	require.NoError(t, err)

	stored, err := savegameRepo.ReadFile(ctx, "evening")
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSavegameRepository_ReadFile(t *testing.T) {
	t.Run("ReadFile_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		savegameRepo := NewSavegameRepository(st.Storage)

		// When: ReadFile is called with an unknown name
		_, err := savegameRepo.ReadFile(ctx, "missing")

		// Then: ErrSavegameNotFound is returned
		require.ErrorIs(t, err, ErrSavegameNotFound)
	})

	t.Run("ReadFile_Overwritten", func(t *testing.T) {
		ctx, st := suite.New(t)

		savegameRepo := NewSavegameRepository(st.Storage)

		require.NoError(t, savegameRepo.WriteFile(ctx, "slot", []byte("first")))
		require.NoError(t, savegameRepo.WriteFile(ctx, "slot", []byte("second")))

		stored, err := savegameRepo.ReadFile(ctx, "slot")

		require.NoError(t, err)
		assert.Equal(t, []byte("second"), stored)
	})
}
