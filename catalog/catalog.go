package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/they4kman/minefield/game"
	"gopkg.in/yaml.v2"
)

// Catalog is an ordered set of difficulty presets. It performs no validation
// of its own; boards reject impossible difficulties when they are built.
type Catalog struct {
	Difficulties []game.Difficulty `yaml:"difficulties"`
}

func Default() *Catalog {
	return &Catalog{
		Difficulties: []game.Difficulty{
			{ID: 1, Name: "Beginner", Rows: 9, Cols: 9, MineCount: 10},
			{ID: 2, Name: "Intermediate", Rows: 16, Cols: 16, MineCount: 40},
			{ID: 3, Name: "Expert", Rows: 16, Cols: 30, MineCount: 99},
		},
	}
}

func Load(in io.Reader) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.NewDecoder(in).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("unable to decode difficulties: %w", err)
	}
	if len(catalog.Difficulties) == 0 {
		return nil, fmt.Errorf("no difficulties defined")
	}
	return &catalog, nil
}

func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file)
}

func (catalog *Catalog) All() []game.Difficulty {
	return catalog.Difficulties
}

func (catalog *Catalog) Lookup(id int) (game.Difficulty, bool) {
	for _, difficulty := range catalog.Difficulties {
		if difficulty.ID == id {
			return difficulty, true
		}
	}
	return game.Difficulty{}, false
}

// ByName matches case-insensitively
func (catalog *Catalog) ByName(name string) (game.Difficulty, bool) {
	for _, difficulty := range catalog.Difficulties {
		if strings.EqualFold(difficulty.Name, name) {
			return difficulty, true
		}
	}
	return game.Difficulty{}, false
}
