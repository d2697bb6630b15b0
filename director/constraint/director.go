package constraint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/util/collections"
)

// Number of subset-reduction passes over the observations per move
const simplifyPasses = 4

// Director deduces moves from the numbers on the board. It holds no state
// between moves: observations are rebuilt from the board every time.
type Director struct {
	rand     game.Source
	fallback *random.Director
}

// Observation states that exactly numMines of cells are mines
type Observation struct {
	origin   *game.Cell
	numMines int
	cells    collections.Set[*game.Cell]
}

func (observation Observation) String() string {
	var cellsRepr strings.Builder
	for i, cell := range sortedCells(observation.cells) {
		if i > 0 {
			cellsRepr.WriteString(", ")
		}
		cellsRepr.WriteString(fmt.Sprintf("(%d, %d)", cell.Row(), cell.Col()))
	}

	var originRepr string
	if observation.origin == nil {
		originRepr = "?"
	} else {
		originRepr = fmt.Sprintf("(%d, %d)", observation.origin.Row(), observation.origin.Col())
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, cellsRepr.String())
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(observation.cells.Len())
}

func New(src game.Source) *Director {
	return &Director{
		rand:     src,
		fallback: random.New(src),
	}
}

func (director *Director) Act(board *game.Board) (game.CellAction, bool) {
	if board.Status() != game.Ongoing {
		return game.CellAction{}, false
	}

	observations := observe(board)
	for range simplifyPasses {
		observations = simplify(observations)
	}

	if action, ok := actDeliberate(observations); ok {
		return action, true
	}
	if action, ok := director.actLowestProbability(observations); ok {
		return action, true
	}
	return director.fallback.Act(board)
}

// observe builds one observation per revealed number that still borders
// hidden, unflagged cells
func observe(board *game.Board) []*Observation {
	var observations []*Observation

	for cell := range board.Cells() {
		if !cell.IsRevealed() || cell.IsMine() || cell.AdjacentMines() == 0 {
			continue
		}

		observation := &Observation{
			origin:   cell,
			numMines: cell.AdjacentMines(),
			cells:    make(collections.Set[*game.Cell]),
		}

		neighbors, _ := board.Neighbors(cell.Row(), cell.Col())
		for _, neighbor := range neighbors {
			if neighbor.IsRevealed() {
				continue
			}
			if neighbor.IsFlagged() {
				observation.numMines--
			} else {
				observation.cells.Add(neighbor)
			}
		}

		if observation.cells.Len() > 0 && observation.numMines >= 0 {
			observations = addObservation(observations, observation)
		}
	}

	return observations
}

// simplify derives, for every observation contained in another, the
// observation covering the difference of the two
func simplify(observations []*Observation) []*Observation {
	derived := observations
	for _, observation := range observations {
		for _, other := range observations {
			if other == observation || !observation.cells.IsSubset(other.cells) {
				continue
			}

			split := &Observation{
				numMines: other.numMines - observation.numMines,
				cells:    other.cells.Difference(observation.cells),
			}
			if split.numMines < 0 || split.numMines > split.cells.Len() {
				continue
			}
			derived = addObservation(derived, split)
		}
	}
	return derived
}

func addObservation(observations []*Observation, observation *Observation) []*Observation {
	// Don't add vacuous observations
	if observation.cells.Len() == 0 {
		return observations
	}

	// Don't add duplicates
	for _, other := range observations {
		if other.cells.Equal(observation.cells) {
			return observations
		}
	}

	return append(observations, observation)
}

func actDeliberate(observations []*Observation) (game.CellAction, bool) {
	for _, observation := range observations {
		if observation.numMines == 0 {
			cell := sortedCells(observation.cells)[0]
			return game.CellAction{Kind: game.Reveal, Row: cell.Row(), Col: cell.Col()}, true
		}
	}

	for _, observation := range observations {
		if observation.numMines == observation.cells.Len() {
			cell := sortedCells(observation.cells)[0]
			return game.CellAction{Kind: game.Mark, Row: cell.Row(), Col: cell.Col()}, true
		}
	}

	return game.CellAction{}, false
}

// actLowestProbability reveals the constrained cell least likely to be a
// mine. A cell's risk is the highest probability any observation gives it.
func (director *Director) actLowestProbability(observations []*Observation) (game.CellAction, bool) {
	cellProbabilities := make(map[*game.Cell]float64)
	for _, observation := range observations {
		probability := observation.MineProbability()
		for cell := range observation.cells {
			if past, ok := cellProbabilities[cell]; !ok || probability > past {
				cellProbabilities[cell] = probability
			}
		}
	}
	if len(cellProbabilities) == 0 {
		return game.CellAction{}, false
	}

	lowestProbability := math.Inf(1)
	for _, probability := range cellProbabilities {
		lowestProbability = math.Min(lowestProbability, probability)
	}

	lowestProbabilityCells := make(collections.Set[*game.Cell])
	for cell, probability := range cellProbabilities {
		if probability <= lowestProbability {
			lowestProbabilityCells.Add(cell)
		}
	}

	candidates := sortedCells(lowestProbabilityCells)
	cell := candidates[director.rand.IntN(len(candidates))]
	return game.CellAction{Kind: game.Reveal, Row: cell.Row(), Col: cell.Col()}, true
}

// sortedCells orders a set of cells row-major, so choices don't depend on map
// iteration order
func sortedCells(set collections.Set[*game.Cell]) []*game.Cell {
	cells := make([]*game.Cell, 0, set.Len())
	for cell := range set {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row() != cells[j].Row() {
			return cells[i].Row() < cells[j].Row()
		}
		return cells[i].Col() < cells[j].Col()
	})
	return cells
}
