package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/minefield/catalog"
	"github.com/they4kman/minefield/game"
	"golang.org/x/sync/errgroup"
)

var Log = logrus.New()

type Config struct {
	Addr           string
	AllowedOrigins []string
	// MaxCells caps the size of custom boards
	MaxCells int
	// ShutdownTimeout bounds the graceful shutdown once Run's context ends
	ShutdownTimeout time.Duration
}

func NewConfig() Config {
	return Config{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		MaxCells:        10000,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Server hosts single-player games. Each session owns one board; requests on
// the same session are serialised by the session's lock.
type Server struct {
	config  Config
	catalog *catalog.Catalog

	rand     game.Source
	randLock sync.Mutex

	sessions     map[string]*session
	sessionsLock sync.RWMutex
	nextID       int

	decoder  *schema.Decoder
	cors     *cors.Cors
	upgrader websocket.Upgrader
}

type session struct {
	id    string
	board *game.Board
	lock  sync.Mutex
}

func New(config Config, catalog *catalog.Catalog, src game.Source) *Server {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	return &Server{
		config:   config,
		catalog:  catalog,
		rand:     src,
		sessions: make(map[string]*session),
		decoder:  decoder,
		cors:     corsHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers must come from an allowed origin; other clients send none
			CheckOrigin: func(r *http.Request) bool {
				return r.Header.Get("Origin") == "" || corsHandler.OriginAllowed(r)
			},
		},
	}
}

// IntN makes the server a Source safe for concurrent game creation
func (server *Server) IntN(n int) int {
	server.randLock.Lock()
	defer server.randLock.Unlock()
	return server.rand.IntN(n)
}

func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", server.newGame)
	mux.HandleFunc("GET /games/{id}", server.withSession(server.fetchGame))
	mux.HandleFunc("DELETE /games/{id}", server.withSession(server.deleteGame))
	mux.HandleFunc("POST /games/{id}/reveal", server.withSession(server.cellAction(game.Reveal)))
	mux.HandleFunc("POST /games/{id}/mark", server.withSession(server.cellAction(game.Mark)))
	mux.HandleFunc("POST /games/{id}/chord", server.withSession(server.cellAction(game.Chord)))
	mux.HandleFunc("GET /games/{id}/ws", server.withSession(server.wsConnect))

	return logging(server.cors.Handler(mux))
}

func (server *Server) createSession(board *game.Board) *session {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()

	server.nextID++
	s := &session{
		id:    strconv.Itoa(server.nextID),
		board: board,
	}
	server.sessions[s.id] = s
	return s
}

func (server *Server) lookupSession(id string) (*session, bool) {
	server.sessionsLock.RLock()
	defer server.sessionsLock.RUnlock()

	s, ok := server.sessions[id]
	return s, ok
}

func (server *Server) removeSession(id string) {
	server.sessionsLock.Lock()
	defer server.sessionsLock.Unlock()

	delete(server.sessions, id)
}

// Run serves until ctx is done, then shuts down gracefully
func (server *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    server.config.Addr,
		Handler: server.Handler(),
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		Log.WithField("addr", server.config.Addr).Info("server listening")
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()

		Log.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
