package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/they4kman/minefield/game"
)

func TestActSkipsRevealedAndFlagged(t *testing.T) {
	snapshot := &game.BoardSnapshot{SerializedBoard: "F.#\n.f."}
	board, err := snapshot.CreateBoard(false)
	require.NoError(t, err)

	director := New(game.NewRand(1))
	for range 20 {
		action, ok := director.Act(board)
		require.True(t, ok)
		assert.Equal(t, game.CellAction{Kind: game.Reveal, Row: 0, Col: 2}, action)
	}
}

func TestPlaysToCompletion(t *testing.T) {
	board, err := game.NewSeededBoard(game.Difficulty{Rows: 9, Cols: 9, MineCount: 10}, 5)
	require.NoError(t, err)

	director := New(game.NewRand(5))
	for range board.NumCells() {
		action, ok := director.Act(board)
		if !ok {
			break
		}
		_, err := action.Apply(board)
		require.NoError(t, err)
	}

	assert.NotEqual(t, game.Ongoing, board.Status())
	_, ok := director.Act(board)
	assert.False(t, ok)
}
