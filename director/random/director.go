package random

import (
	"github.com/they4kman/minefield/game"
)

// Director reveals a uniformly chosen hidden cell that carries no flag
type Director struct {
	rand game.Source
}

func New(src game.Source) *Director {
	return &Director{rand: src}
}

func (director *Director) Act(board *game.Board) (game.CellAction, bool) {
	if board.Status() != game.Ongoing {
		return game.CellAction{}, false
	}

	candidates := make([]*game.Cell, 0, board.NumCells())
	for cell := range board.Cells() {
		if !cell.IsRevealed() && !cell.IsFlagged() {
			candidates = append(candidates, cell)
		}
	}
	if len(candidates) == 0 {
		return game.CellAction{}, false
	}

	cell := candidates[director.rand.IntN(len(candidates))]
	return game.CellAction{
		Kind: game.Reveal,
		Row:  cell.Row(),
		Col:  cell.Col(),
	}, true
}
