package game

import "fmt"

type ActionKind int

const (
	Reveal ActionKind = iota
	Mark
	Chord
)

func (kind ActionKind) String() string {
	switch kind {
	case Reveal:
		return "reveal"
	case Mark:
		return "mark"
	case Chord:
		return "chord"
	default:
		return "unknown"
	}
}

type CellAction struct {
	Kind     ActionKind
	Row, Col int
}

func (action CellAction) String() string {
	return fmt.Sprintf("%s(%d, %d)", action.Kind, action.Row, action.Col)
}

// Apply performs the action against board and returns the resulting status
func (action CellAction) Apply(board *Board) (Status, error) {
	switch action.Kind {
	case Reveal:
		return board.Reveal(action.Row, action.Col)
	case Mark:
		_, err := board.SetMarker(action.Row, action.Col)
		return board.Status(), err
	case Chord:
		return board.Chord(action.Row, action.Col)
	default:
		return board.Status(), fmt.Errorf("unknown action kind %d", action.Kind)
	}
}

// Director plays a board on the player's behalf
type Director interface {
	// Act picks the next action for board. It returns false when the
	// director has nothing left to do.
	Act(board *Board) (CellAction, bool)
}
