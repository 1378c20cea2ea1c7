package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/rules"
)

func TestNewHolder(t *testing.T) {
	// When: a holder is created
	holder := NewHolder(rules.NewEvaluator())

	// Then: it holds the starting position with white to move
	assert.Equal(t, entity.NewBoard(), holder.Current())
}

func TestHolder_ApplyMove(t *testing.T) {
	t.Run("Accepted move advances the side to move", func(t *testing.T) {
		// Given: a fresh holder
		holder := NewHolder(rules.NewEvaluator())

		// When: white plays e2e4
		board, err := holder.ApplyMove(entity.Move{From: "e2", To: "e4"})

		// Then: the new board is committed and black is to move
		require.NoError(t, err)
		assert.Equal(t, entity.SecondSeat, board.Turn)
		assert.Equal(t, board, holder.Current())
	})

	t.Run("Rejected move is idempotent", func(t *testing.T) {
		// Given: a fresh holder
		holder := NewHolder(rules.NewEvaluator())
		before := holder.Current()

		// When: the same illegal move is applied twice
		_, firstErr := holder.ApplyMove(entity.Move{From: "e2", To: "e6"})
		afterFirst := holder.Current()
		_, secondErr := holder.ApplyMove(entity.Move{From: "e2", To: "e6"})
		afterSecond := holder.Current()

		// Then: both are rejected and the board is byte-for-byte identical
		require.ErrorIs(t, firstErr, apperror.ErrIllegalMove)
		require.ErrorIs(t, secondErr, apperror.ErrIllegalMove)
		assert.Equal(t, before.FEN, afterFirst.FEN)
		assert.Equal(t, before.FEN, afterSecond.FEN)
	})

	t.Run("Malformed move leaves board untouched", func(t *testing.T) {
		holder := NewHolder(rules.NewEvaluator())

		_, err := holder.ApplyMove(entity.Move{From: "", To: "i9"})

		require.ErrorIs(t, err, apperror.ErrMalformedMove)
		assert.Equal(t, entity.NewBoard(), holder.Current())
	})
}

func TestHolder_Replace(t *testing.T) {
	t.Run("Installs any parseable position", func(t *testing.T) {
		// Given: a position that could not be reached from the current one by a single move
		holder := NewHolder(rules.NewEvaluator())
		fen := "4k3/8/8/8/8/8/8/4K2R b K - 3 40"

		// When: replacing the board
		err := holder.Replace(fen)

		// Then: it is stored verbatim
		require.NoError(t, err)
		assert.Equal(t, fen, holder.Current().FEN)
		assert.Equal(t, entity.SecondSeat, holder.Current().Turn)
	})

	t.Run("Rejects garbage and keeps the old board", func(t *testing.T) {
		holder := NewHolder(rules.NewEvaluator())
		_, err := holder.ApplyMove(entity.Move{From: "e2", To: "e4"})
		require.NoError(t, err)
		before := holder.Current()

		err = holder.Replace("garbage")

		require.ErrorIs(t, err, apperror.ErrInvalidBoardState)
		assert.Equal(t, before, holder.Current())
	})
}

func TestHolder_Reset(t *testing.T) {
	holder := NewHolder(rules.NewEvaluator())
	_, err := holder.ApplyMove(entity.Move{From: "e2", To: "e4"})
	require.NoError(t, err)

	holder.Reset()

	assert.Equal(t, entity.NewBoard(), holder.Current())
}
