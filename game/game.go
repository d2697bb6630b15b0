package game

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Difficulty describes the shape of a board. ID and Name belong to whichever
// catalog supplied the difficulty; the engine only reads the dimensions.
type Difficulty struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Rows      int    `yaml:"rows" json:"rows"`
	Cols      int    `yaml:"cols" json:"cols"`
	MineCount int    `yaml:"mines" json:"mines"`
}

func (difficulty Difficulty) NumCells() int {
	return difficulty.Rows * difficulty.Cols
}

func (difficulty Difficulty) Validate() error {
	if difficulty.Rows <= 0 || difficulty.Cols <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d",
			ErrInvalidDifficulty, difficulty.Rows, difficulty.Cols)
	}
	if difficulty.Rows > math.MaxInt/difficulty.Cols {
		return fmt.Errorf("%w: %dx%d cells overflow", ErrInvalidDifficulty, difficulty.Rows, difficulty.Cols)
	}
	if difficulty.MineCount < 0 || difficulty.MineCount >= difficulty.NumCells() {
		return fmt.Errorf("%w: mine count must be in [0, %d), got %d",
			ErrInvalidDifficulty, difficulty.NumCells(), difficulty.MineCount)
	}
	return nil
}

func (difficulty Difficulty) String() string {
	if difficulty.Name != "" {
		return fmt.Sprintf("%s (%dx%d, %d mines)",
			difficulty.Name, difficulty.Rows, difficulty.Cols, difficulty.MineCount)
	}
	return fmt.Sprintf("%dx%d, %d mines", difficulty.Rows, difficulty.Cols, difficulty.MineCount)
}

// Source supplies the randomness used for mine placement. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// NewRand returns a deterministic Source for the given seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32|1))
}

// Generate allocates a rows x cols grid and places exactly mineCount mines by
// sampling coordinates uniformly, re-sampling whenever the pick is already a
// mine. mineCount < rows*cols guarantees a free cell always remains.
func Generate(rows, cols, mineCount int, src Source) ([][]Cell, error) {
	difficulty := Difficulty{Rows: rows, Cols: cols, MineCount: mineCount}
	if err := difficulty.Validate(); err != nil {
		return nil, err
	}

	cells := newGrid(rows, cols)

	placed, samples := 0, 0
	for placed < mineCount {
		samples++
		row := src.IntN(rows)
		col := src.IntN(cols)
		cell := &cells[row][col]
		if !cell.isMine {
			cell.isMine = true
			placed++
		}
	}

	Log.WithFields(logrus.Fields{
		"rows":    rows,
		"cols":    cols,
		"mines":   mineCount,
		"samples": samples,
	}).Debug("generated grid")

	return cells, nil
}

func newGrid(rows, cols int) [][]Cell {
	cells := make([][]Cell, rows)
	for row := range rows {
		cells[row] = make([]Cell, cols)
		for col := range cols {
			cells[row][col] = Cell{
				row: row,
				col: col,
				idx: row*cols + col,
			}
		}
	}
	return cells
}
