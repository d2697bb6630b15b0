package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/game"
	"github.com/they4kman/minefield/render"
)

type newGameParams struct {
	Difficulty int `schema:"difficulty"`
	Rows       int `schema:"rows"`
	Cols       int `schema:"cols"`
	Mines      int `schema:"mines"`
}

type cellParams struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

type gameView struct {
	ID             string      `json:"id"`
	Difficulty     string      `json:"difficulty,omitempty"`
	Rows           int         `json:"rows"`
	Cols           int         `json:"cols"`
	Mines          int         `json:"mines"`
	Status         game.Status `json:"status"`
	MinesRemaining int         `json:"minesRemaining"`
	Cells          []string    `json:"cells"`
}

type errorView struct {
	Error string `json:"error"`
}

func newGameView(s *session) gameView {
	difficulty := s.board.Difficulty()
	return gameView{
		ID:             s.id,
		Difficulty:     difficulty.Name,
		Rows:           difficulty.Rows,
		Cols:           difficulty.Cols,
		Mines:          difficulty.MineCount,
		Status:         s.board.Status(),
		MinesRemaining: s.board.MinesRemaining(),
		Cells:          render.Glyphs(s.board),
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log.WithError(err).Error("unable to write response")
	}
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJSON(w, statusCode, errorView{Error: err.Error()})
}

func (server *Server) resolveDifficulty(params newGameParams) (game.Difficulty, error) {
	switch {
	case params.Difficulty != 0:
		difficulty, ok := server.catalog.Lookup(params.Difficulty)
		if !ok {
			return game.Difficulty{}, fmt.Errorf("unknown difficulty %d", params.Difficulty)
		}
		return difficulty, nil
	case params.Rows != 0 || params.Cols != 0 || params.Mines != 0:
		return game.Difficulty{Name: "Custom", Rows: params.Rows, Cols: params.Cols, MineCount: params.Mines}, nil
	default:
		return server.catalog.All()[0], nil
	}
}

// checkSize rejects boards larger than the configured cell limit before any
// grid is allocated
func (server *Server) checkSize(difficulty game.Difficulty) error {
	if err := difficulty.Validate(); err != nil {
		return err
	}
	if server.config.MaxCells > 0 && difficulty.NumCells() > server.config.MaxCells {
		return fmt.Errorf("%w: %d cells exceeds the limit of %d",
			game.ErrInvalidDifficulty, difficulty.NumCells(), server.config.MaxCells)
	}
	return nil
}

func (server *Server) newGame(w http.ResponseWriter, r *http.Request) {
	var params newGameParams
	if err := server.decoder.Decode(&params, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	difficulty, err := server.resolveDifficulty(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := server.checkSize(difficulty); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	board, err := game.NewBoard(difficulty, server)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s := server.createSession(board)
	Log.WithFields(logrus.Fields{
		"id":         s.id,
		"difficulty": difficulty.String(),
	}).Info("new game")

	writeJSON(w, http.StatusCreated, newGameView(s))
}

func (server *Server) withSession(handler func(http.ResponseWriter, *http.Request, *session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := server.lookupSession(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("no game %q", r.PathValue("id")))
			return
		}
		handler(w, r, s)
	}
}

func (server *Server) fetchGame(w http.ResponseWriter, r *http.Request, s *session) {
	s.lock.Lock()
	defer s.lock.Unlock()

	writeJSON(w, http.StatusOK, newGameView(s))
}

func (server *Server) deleteGame(w http.ResponseWriter, r *http.Request, s *session) {
	server.removeSession(s.id)
	w.WriteHeader(http.StatusNoContent)
}

func (server *Server) cellAction(kind game.ActionKind) func(http.ResponseWriter, *http.Request, *session) {
	return func(w http.ResponseWriter, r *http.Request, s *session) {
		var params cellParams
		if err := server.decoder.Decode(&params, r.URL.Query()); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		s.lock.Lock()
		defer s.lock.Unlock()

		action := game.CellAction{Kind: kind, Row: params.Row, Col: params.Col}
		if _, err := action.Apply(s.board); err != nil {
			if errors.Is(err, game.ErrOutOfBounds) {
				writeError(w, http.StatusBadRequest, err)
			} else {
				writeError(w, http.StatusInternalServerError, err)
			}
			return
		}

		Log.WithFields(logrus.Fields{
			"id":     s.id,
			"action": action.String(),
			"status": s.board.Status().String(),
		}).Debug("applied action")

		writeJSON(w, http.StatusOK, newGameView(s))
	}
}
