package game

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// scriptedSource replays fixed values, so mine positions can be chosen by
// listing row, col pairs
type scriptedSource struct {
	values []int
	pos    int
}

func (src *scriptedSource) IntN(n int) int {
	v := src.values[src.pos%len(src.values)] % n
	src.pos++
	return v
}

func minesAt(coords ...[2]int) *scriptedSource {
	src := &scriptedSource{}
	for _, coord := range coords {
		src.values = append(src.values, coord[0], coord[1])
	}
	return src
}

func newTestBoard(t *testing.T, rows, cols int, mines ...[2]int) *Board {
	t.Helper()
	board, err := NewBoard(Difficulty{Rows: rows, Cols: cols, MineCount: len(mines)}, minesAt(mines...))
	require.NoError(t, err)
	return board
}

func countMines(board *Board) int {
	count := 0
	for cell := range board.Cells() {
		if cell.IsMine() {
			count++
		}
	}
	return count
}

func TestGenerateMineCount(t *testing.T) {
	tests := []struct {
		name       string
		difficulty Difficulty
	}{
		{name: "9x9(10)", difficulty: Difficulty{Rows: 9, Cols: 9, MineCount: 10}},
		{name: "16x16(40)", difficulty: Difficulty{Rows: 16, Cols: 16, MineCount: 40}},
		{name: "16x30(99)", difficulty: Difficulty{Rows: 16, Cols: 30, MineCount: 99}},
		{name: "3x3(8)", difficulty: Difficulty{Rows: 3, Cols: 3, MineCount: 8}},
		{name: "1x1(0)", difficulty: Difficulty{Rows: 1, Cols: 1, MineCount: 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for seed := range int64(20) {
				board, err := NewSeededBoard(test.difficulty, seed)
				require.NoError(t, err)
				assert.Equal(t, test.difficulty.MineCount, countMines(board))

				for cell := range board.Cells() {
					assert.False(t, cell.IsRevealed())
					assert.Equal(t, MarkerNone, cell.Marker())
					assert.Zero(t, cell.AdjacentMines())
				}
			}
		})
	}
}

func TestGenerateResamplesCollisions(t *testing.T) {
	src := minesAt([2]int{1, 1}, [2]int{1, 1}, [2]int{1, 1}, [2]int{0, 2})
	cells, err := Generate(2, 3, 2, src)
	require.NoError(t, err)

	assert.True(t, cells[1][1].isMine)
	assert.True(t, cells[0][2].isMine)
	assert.Equal(t, 8, src.pos, "every collision should consume a new sample")
}

func TestSeededBoardsAreDeterministic(t *testing.T) {
	difficulty := Difficulty{Rows: 16, Cols: 30, MineCount: 99}
	a, err := NewSeededBoard(difficulty, 42)
	require.NoError(t, err)
	b, err := NewSeededBoard(difficulty, 42)
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot().SerializedBoard, b.Snapshot().SerializedBoard)
	assert.EqualValues(t, 42, a.Seed())
}

func TestInvalidDifficulty(t *testing.T) {
	for _, difficulty := range []Difficulty{
		{Rows: 0, Cols: 5, MineCount: 0},
		{Rows: 5, Cols: -1, MineCount: 0},
		{Rows: 3, Cols: 3, MineCount: 9},
		{Rows: 3, Cols: 3, MineCount: -1},
		{Rows: math.MaxInt/2 + 1, Cols: 2, MineCount: 1},
		{Rows: math.MaxInt, Cols: math.MaxInt, MineCount: 1},
	} {
		_, err := NewBoard(difficulty, NewRand(1))
		assert.ErrorIs(t, err, ErrInvalidDifficulty, "%v", difficulty)

		_, err = Generate(difficulty.Rows, difficulty.Cols, difficulty.MineCount, NewRand(1))
		assert.ErrorIs(t, err, ErrInvalidDifficulty, "%v", difficulty)
	}
}

func TestOutOfBounds(t *testing.T) {
	board := newTestBoard(t, 3, 3, [2]int{0, 0})

	for _, coords := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, err := board.Reveal(coords[0], coords[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, err = board.SetMarker(coords[0], coords[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, err = board.Chord(coords[0], coords[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)

		_, err = board.Neighbors(coords[0], coords[1])
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
	assert.Equal(t, Ongoing, board.Status())
}

func TestNeighbors(t *testing.T) {
	board := newTestBoard(t, 3, 4)

	tests := []struct {
		row, col int
		expected int
	}{
		{0, 0, 3},
		{0, 3, 3},
		{2, 0, 3},
		{2, 3, 3},
		{0, 1, 5},
		{1, 0, 5},
		{1, 1, 8},
		{1, 2, 8},
	}

	for _, test := range tests {
		neighbors, err := board.Neighbors(test.row, test.col)
		require.NoError(t, err)
		assert.Len(t, neighbors, test.expected, "(%d, %d)", test.row, test.col)

		for _, neighbor := range neighbors {
			assert.LessOrEqual(t, abs(neighbor.Row()-test.row), 1)
			assert.LessOrEqual(t, abs(neighbor.Col()-test.col), 1)
			assert.False(t, neighbor.Row() == test.row && neighbor.Col() == test.col)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestMarkerCycle(t *testing.T) {
	board := newTestBoard(t, 2, 2, [2]int{0, 0})

	expected := []Marker{MarkerFlag, MarkerQuestion, MarkerNone, MarkerFlag, MarkerQuestion, MarkerNone}
	for _, want := range expected {
		marker, err := board.SetMarker(1, 1)
		require.NoError(t, err)
		assert.Equal(t, want, marker)

		cell, _ := board.CellAt(1, 1)
		assert.Equal(t, want, cell.Marker())
	}
}

func TestMarkerIgnoredOnRevealedCell(t *testing.T) {
	board := newTestBoard(t, 2, 2, [2]int{0, 0})

	_, err := board.Reveal(1, 1)
	require.NoError(t, err)

	for range 4 {
		marker, err := board.SetMarker(1, 1)
		require.NoError(t, err)
		assert.Equal(t, MarkerNone, marker)
	}
}

func TestFlagCount(t *testing.T) {
	board := newTestBoard(t, 3, 3, [2]int{0, 0}, [2]int{2, 2})
	assert.Equal(t, 2, board.MinesRemaining())

	board.SetMarker(0, 0)
	board.SetMarker(0, 1)
	board.SetMarker(0, 2)
	assert.Equal(t, 3, board.FlagCount())
	assert.Equal(t, -1, board.MinesRemaining())

	board.SetMarker(0, 2)
	assert.Equal(t, 2, board.FlagCount())
}

func TestRevealIsIdempotent(t *testing.T) {
	board := newTestBoard(t, 3, 3, [2]int{0, 0}, [2]int{0, 2})

	status, err := board.Reveal(2, 1)
	require.NoError(t, err)

	cell, _ := board.CellAt(1, 1)
	before := cell.AdjacentMines()

	again, err := board.Reveal(2, 1)
	require.NoError(t, err)
	assert.Equal(t, status, again)
	assert.Equal(t, before, cell.AdjacentMines())
	assert.Equal(t, 2, before)
}

func TestRevealMineLoses(t *testing.T) {
	board := newTestBoard(t, 4, 4, [2]int{0, 0}, [2]int{3, 3}, [2]int{0, 3})

	_, err := board.Reveal(1, 1)
	require.NoError(t, err)

	revealedBefore := map[int]bool{}
	for cell := range board.Cells() {
		if !cell.IsMine() {
			revealedBefore[cell.idx] = cell.IsRevealed()
		}
	}

	board.SetMarker(3, 3)
	status, err := board.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Lost, status)
	assert.Equal(t, Lost, board.Status())

	for cell := range board.Cells() {
		if cell.IsMine() {
			assert.True(t, cell.IsRevealed(), "%v", cell)
			assert.Equal(t, MarkerNone, cell.Marker(), "%v", cell)
		} else {
			assert.Equal(t, revealedBefore[cell.idx], cell.IsRevealed(), "%v", cell)
		}
	}

	detonated := board.Detonated()
	require.NotNil(t, detonated)
	assert.Equal(t, 0, detonated.Row())
	assert.Equal(t, 0, detonated.Col())
	assert.False(t, board.CheckWin())
}

func TestFirstMoveLoss(t *testing.T) {
	board, err := NewSeededBoard(Difficulty{Rows: 9, Cols: 9, MineCount: 10}, 7)
	require.NoError(t, err)

	var mine *Cell
	for cell := range board.Cells() {
		if cell.IsMine() {
			mine = cell
			break
		}
	}
	require.NotNil(t, mine)

	status, err := board.Reveal(mine.Row(), mine.Col())
	require.NoError(t, err)
	assert.Equal(t, Lost, status)
	assert.False(t, board.CheckWin())

	for cell := range board.Cells() {
		assert.Equal(t, cell.IsMine(), cell.IsRevealed(), "%v", cell)
	}
}

func TestCornerMineScenario(t *testing.T) {
	board := newTestBoard(t, 3, 3, [2]int{0, 0})

	status, err := board.Reveal(2, 2)
	require.NoError(t, err)
	assert.Equal(t, Won, status)

	expected := [3][3]int{
		{0, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
	}
	for cell := range board.Cells() {
		if cell.IsMine() {
			assert.False(t, cell.IsRevealed())
			continue
		}
		assert.True(t, cell.IsRevealed(), "%v", cell)
		assert.Equal(t, expected[cell.Row()][cell.Col()], cell.AdjacentMines(), "%v", cell)
	}
}

func TestSingleNeighborScenario(t *testing.T) {
	board := newTestBoard(t, 1, 2, [2]int{0, 0})

	status, err := board.Reveal(0, 1)
	require.NoError(t, err)
	assert.Equal(t, Won, status)

	cell, _ := board.CellAt(0, 1)
	assert.Equal(t, 1, cell.AdjacentMines())

	mine, _ := board.CellAt(0, 0)
	assert.False(t, mine.IsRevealed())
}

func TestCascadeNeverVisitsMines(t *testing.T) {
	// The zero region on the left touches the mines at its border only through
	// numbered cells, which stop the cascade.
	board := newTestBoard(t, 4, 5, [2]int{0, 4}, [2]int{3, 4}, [2]int{1, 3})

	status, err := board.Reveal(3, 0)
	require.NoError(t, err)
	assert.Equal(t, Ongoing, status)

	for cell := range board.Cells() {
		if cell.IsMine() {
			assert.False(t, cell.IsRevealed(), "%v", cell)
		}
		if cell.Col() <= 1 {
			assert.True(t, cell.IsRevealed(), "%v", cell)
		}
	}
	assert.Nil(t, board.Detonated())
}

func TestCascadeClearsMarkers(t *testing.T) {
	board := newTestBoard(t, 3, 3, [2]int{0, 0})
	board.SetMarker(2, 0)
	board.SetMarker(1, 2)
	board.SetMarker(1, 2)

	_, err := board.Reveal(2, 2)
	require.NoError(t, err)

	for cell := range board.Cells() {
		if cell.IsRevealed() {
			assert.Equal(t, MarkerNone, cell.Marker(), "%v", cell)
		}
	}
}

func TestRevealFlaggedCell(t *testing.T) {
	board := newTestBoard(t, 1, 3, [2]int{0, 0})
	board.SetMarker(0, 2)

	status, err := board.Reveal(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Won, status)

	cell, _ := board.CellAt(0, 2)
	assert.True(t, cell.IsRevealed())
	assert.Equal(t, MarkerNone, cell.Marker())
}

func TestCheckWinIffAllSafeCellsRevealed(t *testing.T) {
	board := newTestBoard(t, 2, 3, [2]int{0, 0}, [2]int{1, 2})

	safe := [][2]int{{0, 1}, {0, 2}, {1, 0}, {1, 1}}
	for i, coords := range safe {
		assert.False(t, board.CheckWin())
		status, err := board.Reveal(coords[0], coords[1])
		require.NoError(t, err)

		if i < len(safe)-1 {
			assert.Equal(t, Ongoing, status)
		} else {
			assert.Equal(t, Won, status)
		}
	}
	assert.True(t, board.CheckWin())

	for cell := range board.Cells() {
		assert.Equal(t, !cell.IsMine(), cell.IsRevealed(), "%v", cell)
	}
}

func TestFinishedBoardIsFrozen(t *testing.T) {
	board := newTestBoard(t, 2, 2, [2]int{0, 0})

	status, err := board.Reveal(0, 0)
	require.NoError(t, err)
	require.Equal(t, Lost, status)

	for _, coords := range [][2]int{{0, 1}, {1, 0}, {1, 1}} {
		status, err = board.Reveal(coords[0], coords[1])
		require.NoError(t, err)
		assert.Equal(t, Lost, status)
	}

	marker, err := board.SetMarker(1, 1)
	require.NoError(t, err)
	assert.Equal(t, MarkerNone, marker)
	assert.Equal(t, Lost, board.Status())
}

func TestOnGameEndFiresOnce(t *testing.T) {
	board := newTestBoard(t, 1, 2, [2]int{0, 0})

	calls := 0
	board.OnGameEnd(func(ended *Board) {
		calls++
		assert.Same(t, board, ended)
		assert.Equal(t, Won, ended.Status())
	})

	board.Reveal(0, 1)
	board.Reveal(0, 1)
	board.Reveal(0, 0)
	assert.Equal(t, 1, calls)
}

func TestChord(t *testing.T) {
	t.Run("reveals unflagged neighbors", func(t *testing.T) {
		board := newTestBoard(t, 3, 3, [2]int{0, 0}, [2]int{2, 2})
		board.Reveal(1, 1)

		board.SetMarker(0, 0)
		board.SetMarker(2, 2)
		status, err := board.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Won, status)
	})

	t.Run("wrong flag loses", func(t *testing.T) {
		board := newTestBoard(t, 3, 3, [2]int{0, 0})
		board.Reveal(1, 1)

		board.SetMarker(0, 1)
		status, err := board.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Lost, status)
		assert.Equal(t, 0, board.Detonated().Row())
		assert.Equal(t, 0, board.Detonated().Col())
	})

	t.Run("ignored until flags match", func(t *testing.T) {
		board := newTestBoard(t, 3, 3, [2]int{0, 0}, [2]int{2, 2})
		board.Reveal(1, 1)

		board.SetMarker(0, 0)
		status, err := board.Chord(1, 1)
		require.NoError(t, err)
		assert.Equal(t, Ongoing, status)

		revealed := 0
		for cell := range board.Cells() {
			if cell.IsRevealed() {
				revealed++
			}
		}
		assert.Equal(t, 1, revealed)
	})

	t.Run("ignored on hidden cell", func(t *testing.T) {
		board := newTestBoard(t, 3, 3, [2]int{0, 0})
		status, err := board.Chord(2, 2)
		require.NoError(t, err)
		assert.Equal(t, Ongoing, status)

		cell, _ := board.CellAt(2, 2)
		assert.False(t, cell.IsRevealed())
	})
}

func TestCellsRowMajor(t *testing.T) {
	board := newTestBoard(t, 3, 4, [2]int{1, 2})

	for range 2 {
		i := 0
		for cell := range board.Cells() {
			assert.Equal(t, i/4, cell.Row())
			assert.Equal(t, i%4, cell.Col())
			i++
		}
		assert.Equal(t, 12, i)
	}

	visited := 0
	for cell := range board.Cells() {
		visited++
		if cell.Row() == 1 {
			break
		}
	}
	assert.Equal(t, 5, visited)
}
