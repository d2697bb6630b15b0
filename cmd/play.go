package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/they4kman/minefield/console"
	"github.com/they4kman/minefield/director/constraint"
	"github.com/they4kman/minefield/director/random"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/render"
)

const directorNone = "none"

var directors = map[string]func(src game.Source) game.Director{
	"random": func(src game.Source) game.Director {
		return random.New(src)
	},
	"constraint": func(src game.Source) game.Director {
		return constraint.New(src)
	},
}

type directorValue string

func newDirectorValue(p *string) *directorValue {
	return (*directorValue)(p)
}

func (value *directorValue) String() string {
	return string(*value)
}

func (value *directorValue) Set(name string) error {
	if _, isValid := directors[name]; !isValid && name != directorNone {
		return fmt.Errorf("invalid director %q, expected one of: %s", name, directorNames())
	}
	*value = directorValue(name)
	return nil
}

func (value *directorValue) Type() string {
	return "director"
}

func directorNames() string {
	names := []string{directorNone}
	for name := range directors {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return strings.Join(names, ", ")
}

func newPlayCmd(config *Config) *cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play a game in the terminal. Commands are read one per line:
	r ROW COL   reveal a cell
	m ROW COL   cycle flag / question mark
	c ROW COL   chord around a number
	n           new game
	q           quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			newBoard, err := config.boardFactory()
			if err != nil {
				return err
			}

			session := &console.Session{
				NewBoard: newBoard,
				Delay:    config.DirectorDelay,
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
				Render:   render.Options{Color: config.Color},
			}
			if newDirector, ok := directors[config.Director]; ok {
				session.Director = newDirector(game.NewRand(config.seed()))
			}

			return session.Run(cmd.Context())
		},
	}

	flags := playCmd.Flags()
	flags.StringVarP(&config.Difficulty, "difficulty", "d", config.Difficulty, "Difficulty preset, by id or name")
	flags.IntVar(&config.Rows, "rows", config.Rows, "Rows of a custom board (overrides --difficulty)")
	flags.IntVar(&config.Cols, "cols", config.Cols, "Columns of a custom board")
	flags.IntVarP(&config.Mines, "mines", "m", config.Mines, "Number of mines to place in a custom board")
	flags.Int64Var(&config.Seed, "seed", config.Seed, "Seed for mine placement (0 picks one from the clock)")
	flags.StringVar(&config.SnapshotFile, "snapshot", config.SnapshotFile, "Load the board from a saved snapshot")
	flags.BoolVar(&config.LoadSnapshotFresh, "fresh", config.LoadSnapshotFresh, "Reset every cell to hidden when loading a snapshot")
	flags.StringVar(&config.SavedSnapshotsDir, "snapshots-dir", config.SavedSnapshotsDir, "Save a snapshot of every finished game to this directory")
	flags.Var(newDirectorValue(&config.Director), "director", "Make the computer play: "+directorNames())
	flags.DurationVar(&config.DirectorDelay, "delay", config.DirectorDelay, "Pause between director moves")
	flags.BoolVar(&config.Color, "color", config.Color, "Colour the board with ANSI escapes")

	return playCmd
}
