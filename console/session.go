package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/render"
)

const help = `commands:
  r ROW COL   reveal a cell
  m ROW COL   cycle flag / question mark
  c ROW COL   chord around a number
  n           new game
  q           quit`

// Session is an interactive game played over a pair of streams. When a
// Director is set it plays instead of reading commands.
type Session struct {
	NewBoard func() (*game.Board, error)
	Director game.Director
	// Delay between director moves
	Delay time.Duration

	In     io.Reader
	Out    io.Writer
	Render render.Options
}

func (session *Session) draw(board *game.Board) error {
	return render.Text(session.Out, board, session.Render)
}

func (session *Session) Run(ctx context.Context) error {
	board, err := session.NewBoard()
	if err != nil {
		return err
	}

	if session.Director != nil {
		return session.autoplay(ctx, board)
	}

	fmt.Fprintln(session.Out, help)
	if err := session.draw(board); err != nil {
		return err
	}

	scanner := bufio.NewScanner(session.In)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		command, err := ParseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintf(session.Out, "error: %v\n", err)
			continue
		}

		switch command.Verb {
		case VerbQuit:
			return nil
		case VerbNoop:
			continue
		case VerbNew:
			if board, err = session.NewBoard(); err != nil {
				return err
			}
		default:
			if _, err := command.Apply(board); err != nil {
				fmt.Fprintf(session.Out, "error: %v\n", err)
				continue
			}
		}

		if err := session.draw(board); err != nil {
			return err
		}
		if board.Status() != game.Ongoing {
			fmt.Fprintln(session.Out, "n for a new game, q to quit")
		}
	}

	return scanner.Err()
}

func (session *Session) autoplay(ctx context.Context, board *game.Board) error {
	if err := session.draw(board); err != nil {
		return err
	}

	for board.Status() == game.Ongoing {
		action, ok := session.Director.Act(board)
		if !ok {
			break
		}

		if _, err := action.Apply(board); err != nil {
			return fmt.Errorf("director chose %v: %w", action, err)
		}

		fmt.Fprintf(session.Out, "> %v\n", action)
		if err := session.draw(board); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(session.Delay):
		}
	}

	return nil
}
