package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/they4kman/minefield/game"
)

type Verb string

const (
	VerbNoop   Verb = "g"
	VerbReveal Verb = "r"
	VerbMark   Verb = "m"
	VerbChord  Verb = "c"
	VerbNew    Verb = "n"
	VerbQuit   Verb = "q"
)

var cellVerbs = map[Verb]game.ActionKind{
	VerbReveal: game.Reveal,
	VerbMark:   game.Mark,
	VerbChord:  game.Chord,
}

// Command is one line of the play protocol, e.g. "r 3 4" to reveal row 3,
// column 4
type Command struct {
	Verb     Verb
	Row, Col int
}

func ParseCommand(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{Verb: VerbNoop}, nil
	}

	verb, args := Verb(strings.ToLower(tokens[0])), tokens[1:]
	switch verb {
	case VerbNoop, VerbNew, VerbQuit:
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%q takes no arguments", verb)
		}
		return Command{Verb: verb}, nil
	}

	if _, ok := cellVerbs[verb]; !ok {
		return Command{}, fmt.Errorf("unknown command %q", tokens[0])
	}

	row, col, err := parseRowCol(args)
	if err != nil {
		return Command{}, err
	}
	return Command{Verb: verb, Row: row, Col: col}, nil
}

func parseRowCol(args []string) (row int, col int, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("expected ROW COL")
		return
	}
	if row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("row must be an int")
		return
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("col must be an int")
		return
	}
	return
}

// Action converts a cell command into the engine action it stands for
func (command Command) Action() (game.CellAction, bool) {
	kind, ok := cellVerbs[command.Verb]
	if !ok {
		return game.CellAction{}, false
	}
	return game.CellAction{Kind: kind, Row: command.Row, Col: command.Col}, true
}

// Apply runs a cell command against board. Other verbs leave it untouched.
func (command Command) Apply(board *game.Board) (game.Status, error) {
	action, ok := command.Action()
	if !ok {
		return board.Status(), nil
	}
	return action.Apply(board)
}
