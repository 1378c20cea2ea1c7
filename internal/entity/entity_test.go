package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove_UnmarshalJSON(t *testing.T) {
	t.Run("Decodes object form", func(t *testing.T) {
		// Given: a move candidate sent as an object
		data := []byte(`{"from":"e7","to":"e8","promotion":"q"}`)

		// When: decoding it
		var move Move
		err := json.Unmarshal(data, &move)

		// Then: every field is populated
		require.NoError(t, err)
		assert.Equal(t, Move{From: "e7", To: "e8", Promotion: "q"}, move)
	})

	t.Run("Decodes long algebraic string", func(t *testing.T) {
		// Given: a move candidate sent as "g1f3"
		data := []byte(`"g1f3"`)

		// When: decoding it
		var move Move
		err := json.Unmarshal(data, &move)

		// Then: from and to are split out
		require.NoError(t, err)
		assert.Equal(t, Move{From: "g1", To: "f3"}, move)
	})

	t.Run("Rejects strings of the wrong length", func(t *testing.T) {
		// Given: a SAN string, which is not supported
		data := []byte(`"Nf3"`)

		// When: decoding it
		var move Move
		err := json.Unmarshal(data, &move)

		// Then: ErrUndecodableMove is returned
		assert.ErrorIs(t, err, ErrUndecodableMove)
	})

	t.Run("Rejects non-object payloads", func(t *testing.T) {
		// Given: a number payload
		data := []byte(`42`)

		// When: decoding it
		var move Move
		err := json.Unmarshal(data, &move)

		// Then: ErrUndecodableMove is returned
		assert.ErrorIs(t, err, ErrUndecodableMove)
	})
}

func TestMove_Normalized(t *testing.T) {
	// Given: a sloppy candidate
	move := Move{From: " E2", To: "E4 ", Promotion: "Q"}

	// When: normalizing it
	normalized := move.Normalized()

	// Then: fields are trimmed and lower-cased
	assert.Equal(t, Move{From: "e2", To: "e4", Promotion: "q"}, normalized)
	assert.Equal(t, "e2e4q", normalized.String())
}

func TestSeat(t *testing.T) {
	assert.Equal(t, RoleFirstSeat, FirstSeat.Role())
	assert.Equal(t, RoleSecondSeat, SecondSeat.Role())
	assert.Equal(t, SecondSeat, FirstSeat.Opponent())
	assert.Equal(t, FirstSeat, SecondSeat.Opponent())
	assert.True(t, RoleSpectator.IsSpectator())
	assert.False(t, RoleFirstSeat.IsSpectator())
}

func TestBoard_IsFinished(t *testing.T) {
	board := NewBoard()
	assert.False(t, board.IsFinished())

	board.Outcome = "0-1"
	assert.True(t, board.IsFinished())
}

func TestNewHandle(t *testing.T) {
	first, second := NewHandle(), NewHandle()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
