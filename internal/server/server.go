package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

type Server struct {
	store     *store.SQLiteStore
	port      int
	token     string
	tokenFile string
	router    *http.ServeMux
	log       zerolog.Logger
	startTime time.Time
}

func New(s *store.SQLiteStore, port int, tokenFile string, log zerolog.Logger) *Server {
	srv := &Server{
		store:     s,
		port:      port,
		token:     generateToken(),
		tokenFile: tokenFile,
		router:    http.NewServeMux(),
		log:       log,
		startTime: time.Now(),
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Public endpoints
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/b", s.handleBeacon)

	// Admin API (token protected)
	s.router.Handle("/api/experiments", s.authMiddleware(http.HandlerFunc(s.handleExperiments)))
	s.router.Handle("/api/experiments/", s.authMiddleware(http.HandlerFunc(s.handleResults)))
}

func (s *Server) Start() error {
	// Write token to file so the token command can find it
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.log.Warn().Err(err).Str("path", s.tokenFile).Msg("failed to write token file")
		}
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info().
		Int("port", s.port).
		Str("token", s.token).
		Msg("abtest server listening")

	return http.ListenAndServe(addr, s.requestLogger(s.router))
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Store() *store.SQLiteStore {
	return s.store
}

func (s *Server) Handler() http.Handler {
	return s.requestLogger(s.router)
}

func generateToken() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a fixed token if crypto/rand fails
		return "a1b2c3d4e5f60708"
	}
	return hex.EncodeToString(bytes)
}
