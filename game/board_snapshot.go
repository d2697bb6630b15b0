package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

type BoardSnapshot struct {
	Seed            int64      `yaml:"seed"`
	Difficulty      Difficulty `yaml:"difficulty"`
	Status          Status     `yaml:"status"`
	SerializedBoard string     `yaml:"board"`
}

func (snapshot *BoardSnapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Snapshot captures the mine layout and the player-visible state of every cell
func (board *Board) Snapshot() *BoardSnapshot {
	var serialized strings.Builder
	for cell := range board.Cells() {
		if cell.col == 0 && cell.row > 0 {
			serialized.WriteString("\n")
		}
		serialized.WriteString(cell.serialize(cell == board.detonated))
	}

	return &BoardSnapshot{
		Seed:            board.seed,
		Difficulty:      board.difficulty,
		Status:          board.status,
		SerializedBoard: serialized.String(),
	}
}

// CreateBoard rebuilds a board with the snapshot's mine layout. With fresh
// set every cell starts hidden and unmarked, giving a replay of the same
// layout; otherwise the recorded state is restored and the status derived
// from it.
func (snapshot *BoardSnapshot) CreateBoard(fresh bool) (*Board, error) {
	rows := strings.Split(strings.TrimRight(snapshot.SerializedBoard, "\n"), "\n")
	for i, line := range rows {
		rows[i] = strings.TrimSpace(line)
	}
	if len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrInvalidSnapshot)
	}

	numRows, numCols := len(rows), len([]rune(rows[0]))
	board := &Board{
		difficulty: snapshot.Difficulty,
		seed:       snapshot.Seed,
		cells:      newGrid(numRows, numCols),
		status:     Ongoing,
	}
	board.difficulty.Rows, board.difficulty.Cols = numRows, numCols

	mineCount := 0
	for row, line := range rows {
		chars := []rune(line)
		if len(chars) != numCols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrInvalidSnapshot, row, len(chars), numCols)
		}

		for col, c := range chars {
			cell := &board.cells[row][col]
			detonated, ok := cell.deserialize(c, fresh)
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q at (%d, %d)", ErrInvalidSnapshot, c, row, col)
			}
			if detonated {
				if board.detonated != nil {
					return nil, fmt.Errorf("%w: more than one detonated mine", ErrInvalidSnapshot)
				}
				board.detonated = cell
			}
			if cell.isMine {
				mineCount++
			}
		}
	}
	board.difficulty.MineCount = mineCount

	if err := board.difficulty.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	for cell := range board.Cells() {
		if cell.revealed && !cell.isMine {
			cell.adjacentMines = board.countAdjacentMines(cell)
		}
	}

	switch {
	case board.detonated != nil:
		board.status = Lost
	case board.CheckWin():
		board.status = Won
	}

	return board, nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return &snapshot, nil
}
