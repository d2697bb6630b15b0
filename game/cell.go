package game

import (
	"fmt"
)

type Cell struct {
	row, col int
	idx      int

	isMine        bool
	revealed      bool
	adjacentMines int
	marker        Marker
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.row, cell.col)
}

func (cell *Cell) Row() int {
	return cell.row
}

func (cell *Cell) Col() int {
	return cell.col
}

func (cell *Cell) IsMine() bool {
	return cell.isMine
}

func (cell *Cell) IsRevealed() bool {
	return cell.revealed
}

// AdjacentMines is only meaningful once the cell has been revealed
func (cell *Cell) AdjacentMines() int {
	return cell.adjacentMines
}

func (cell *Cell) Marker() Marker {
	return cell.marker
}

func (cell *Cell) IsFlagged() bool {
	return cell.marker == MarkerFlag
}

func (cell *Cell) open(adjacentMines int) {
	cell.revealed = true
	cell.adjacentMines = adjacentMines
	cell.marker = MarkerNone
}

// serialize encodes the cell as a single snapshot character
func (cell *Cell) serialize(detonated bool) string {
	switch {
	case cell.isMine:
		switch {
		case detonated:
			return "*"
		case cell.revealed:
			return "X"
		case cell.marker == MarkerFlag:
			return "F"
		case cell.marker == MarkerQuestion:
			return "Q"
		default:
			return "O"
		}
	case cell.revealed:
		return "."
	case cell.marker == MarkerFlag:
		return "f"
	case cell.marker == MarkerQuestion:
		return "?"
	default:
		return "#"
	}
}

// deserialize restores the cell from a snapshot character. Adjacent mine
// counts are not restored here; they depend on the whole grid. The returned
// detonated flag reports a "*" cell.
func (cell *Cell) deserialize(c rune, fresh bool) (detonated bool, ok bool) {
	switch c {
	case '*', 'X', 'F', 'Q', 'O':
		cell.isMine = true
	case '.', 'f', '?', '#':
		cell.isMine = false
	default:
		return false, false
	}

	cell.revealed = false
	cell.marker = MarkerNone
	if fresh {
		return false, true
	}

	switch c {
	case '*':
		cell.revealed = true
		detonated = true
	case 'X', '.':
		cell.revealed = true
	case 'F', 'f':
		cell.marker = MarkerFlag
	case 'Q', '?':
		cell.marker = MarkerQuestion
	}
	return detonated, true
}
