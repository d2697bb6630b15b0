package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/they4kman/minefield/console"
	"github.com/they4kman/minefield/game"
)

// execute runs one protocol line against the session. It returns false once
// the client asked to quit.
func (server *Server) execute(s *session, line string) (bool, error) {
	command, err := console.ParseCommand(line)
	if err != nil {
		return true, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	switch command.Verb {
	case console.VerbQuit:
		return false, nil
	case console.VerbNew:
		board, err := game.NewBoard(s.board.Difficulty(), server)
		if err != nil {
			return true, err
		}
		s.board = board
		return true, nil
	default:
		_, err := command.Apply(s.board)
		return true, err
	}
}

func (server *Server) wsRunGameLoop(conn *websocket.Conn, s *session) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			open, err := server.execute(s, line)
			if err != nil {
				if err := conn.WriteJSON(errorView{Error: err.Error()}); err != nil {
					return fmt.Errorf("unable to write json: %w", err)
				}
				continue
			}
			if !open {
				return conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			}
		}

		s.lock.Lock()
		view := newGameView(s)
		s.lock.Unlock()

		if err := conn.WriteJSON(view); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (server *Server) wsConnect(w http.ResponseWriter, r *http.Request, s *session) {
	conn, err := server.upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		Log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	Log.WithField("id", s.id).Debug("established ws connection")

	if err := server.wsRunGameLoop(conn, s); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return
		}
		Log.WithError(err).Warn("error in ws loop")
	}
}
