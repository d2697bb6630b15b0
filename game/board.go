package game

import (
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"
)

type Board struct {
	difficulty Difficulty
	seed       int64
	cells      [][]Cell

	status    Status
	detonated *Cell

	onGameEnd func(*Board)
}

// NewBoard validates the difficulty and generates a fresh grid for it
func NewBoard(difficulty Difficulty, src Source) (*Board, error) {
	if err := difficulty.Validate(); err != nil {
		return nil, err
	}

	cells, err := Generate(difficulty.Rows, difficulty.Cols, difficulty.MineCount, src)
	if err != nil {
		return nil, err
	}

	return &Board{
		difficulty: difficulty,
		cells:      cells,
		status:     Ongoing,
	}, nil
}

// NewSeededBoard is NewBoard with a deterministic source. The seed is kept
// so snapshots can record it.
func NewSeededBoard(difficulty Difficulty, seed int64) (*Board, error) {
	board, err := NewBoard(difficulty, NewRand(seed))
	if err != nil {
		return nil, err
	}
	board.seed = seed
	return board, nil
}

func (board *Board) Difficulty() Difficulty {
	return board.difficulty
}

func (board *Board) Rows() int {
	return board.difficulty.Rows
}

func (board *Board) Cols() int {
	return board.difficulty.Cols
}

func (board *Board) NumCells() int {
	return board.difficulty.NumCells()
}

func (board *Board) Seed() int64 {
	return board.seed
}

func (board *Board) Status() Status {
	return board.status
}

func (board *Board) canPlay() bool {
	return board.status == Ongoing
}

// Detonated returns the mine the player revealed to lose the game, or nil
func (board *Board) Detonated() *Cell {
	return board.detonated
}

// OnGameEnd registers a callback invoked once, when the board is won or lost
func (board *Board) OnGameEnd(fn func(*Board)) {
	board.onGameEnd = fn
}

func (board *Board) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < board.difficulty.Rows && col < board.difficulty.Cols
}

func (board *Board) CellAt(row, col int) (*Cell, error) {
	if !board.inBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d) on a %dx%d board",
			ErrOutOfBounds, row, col, board.difficulty.Rows, board.difficulty.Cols)
	}
	return &board.cells[row][col], nil
}

// Cells yields every cell in row-major order. Each call to the returned
// sequence starts over from (0, 0).
func (board *Board) Cells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for row := range board.cells {
			for col := range board.cells[row] {
				if !yield(&board.cells[row][col]) {
					return
				}
			}
		}
	}
}

var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func (board *Board) neighbors(cell *Cell) []*Cell {
	out := make([]*Cell, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		row, col := cell.row+offset[0], cell.col+offset[1]
		if board.inBounds(row, col) {
			out = append(out, &board.cells[row][col])
		}
	}
	return out
}

// Neighbors returns the up to eight cells touching (row, col)
func (board *Board) Neighbors(row, col int) ([]*Cell, error) {
	cell, err := board.CellAt(row, col)
	if err != nil {
		return nil, err
	}
	return board.neighbors(cell), nil
}

func (board *Board) countAdjacentMines(cell *Cell) int {
	count := 0
	for _, neighbor := range board.neighbors(cell) {
		if neighbor.isMine {
			count++
		}
	}
	return count
}

func (board *Board) FlagCount() int {
	count := 0
	for cell := range board.Cells() {
		if cell.marker == MarkerFlag {
			count++
		}
	}
	return count
}

// MinesRemaining is the mine count minus placed flags. It goes negative when
// the player over-flags.
func (board *Board) MinesRemaining() int {
	return board.difficulty.MineCount - board.FlagCount()
}

// SetMarker cycles the marker of a hidden cell through none, flag and
// question. Revealed cells and finished boards are left untouched.
func (board *Board) SetMarker(row, col int) (Marker, error) {
	cell, err := board.CellAt(row, col)
	if err != nil {
		return MarkerNone, err
	}
	if cell.revealed || !board.canPlay() {
		return cell.marker, nil
	}

	cell.marker = cell.marker.next()
	return cell.marker, nil
}

// Reveal opens (row, col). Revealing a mine loses the game and discloses
// every mine; revealing a cell with no adjacent mines opens its whole zero
// region.
func (board *Board) Reveal(row, col int) (Status, error) {
	cell, err := board.CellAt(row, col)
	if err != nil {
		return board.status, err
	}

	board.reveal(cell)
	return board.status, nil
}

func (board *Board) reveal(cell *Cell) {
	if cell.revealed || !board.canPlay() {
		return
	}

	if cell.isMine {
		board.lose(cell)
		return
	}

	board.cascade(cell)

	if board.CheckWin() {
		board.win()
	}
}

// cascade reveals cell and spreads across the connected zero region. Only
// non-mine cells are ever enqueued.
func (board *Board) cascade(cell *Cell) {
	numRevealed := flood(
		cell,
		func(cell *Cell) {
			cell.open(board.countAdjacentMines(cell))
		},
		func(cell *Cell) []*Cell {
			if cell.adjacentMines != 0 {
				return nil
			}

			next := make([]*Cell, 0, len(neighborOffsets))
			for _, neighbor := range board.neighbors(cell) {
				if !neighbor.revealed && !neighbor.isMine {
					next = append(next, neighbor)
				}
			}
			return next
		},
	)

	Log.WithFields(logrus.Fields{
		"row":      cell.row,
		"col":      cell.col,
		"revealed": numRevealed,
	}).Debug("cascade")
}

// Chord reveals the hidden, unflagged neighbours of a revealed number whose
// flags account for all of its adjacent mines. A misplaced flag makes the
// chord reveal a mine and lose the game.
func (board *Board) Chord(row, col int) (Status, error) {
	cell, err := board.CellAt(row, col)
	if err != nil {
		return board.status, err
	}
	if !cell.revealed || cell.adjacentMines == 0 || !board.canPlay() {
		return board.status, nil
	}

	neighbors := board.neighbors(cell)

	numFlaggedNeighbors := 0
	for _, neighbor := range neighbors {
		if neighbor.IsFlagged() {
			numFlaggedNeighbors++
		}
	}
	if numFlaggedNeighbors != cell.adjacentMines {
		return board.status, nil
	}

	for _, neighbor := range neighbors {
		if !neighbor.IsFlagged() {
			board.reveal(neighbor)
		}
	}
	return board.status, nil
}

// CheckWin reports whether every non-mine cell has been revealed
func (board *Board) CheckWin() bool {
	for cell := range board.Cells() {
		if !cell.isMine && !cell.revealed {
			return false
		}
	}
	return true
}

func (board *Board) win() {
	board.status = Won
	Log.WithField("difficulty", board.difficulty.String()).Debug("board won")
	board.endGame()
}

func (board *Board) lose(detonated *Cell) {
	board.status = Lost
	board.detonated = detonated

	for cell := range board.Cells() {
		if cell.isMine {
			cell.revealed = true
			cell.marker = MarkerNone
		}
	}

	Log.WithFields(logrus.Fields{
		"row": detonated.row,
		"col": detonated.col,
	}).Debug("board lost")
	board.endGame()
}

func (board *Board) endGame() {
	if board.onGameEnd != nil {
		board.onGameEnd(board)
	}
}
