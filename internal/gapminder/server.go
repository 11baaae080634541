package gapminder

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	store     Store
	rdb       *redis.Client
	sessions  *Sessions
	tickEvery time.Duration

	mu      sync.RWMutex
	ds      *Dataset
	loadErr error
}

func NewServer(store Store, rdb *redis.Client, tickEvery time.Duration) *Server {
	if tickEvery <= 0 {
		tickEvery = time.Second
	}
	return &Server{
		store:     store,
		rdb:       rdb,
		sessions:  NewSessions(),
		tickEvery: tickEvery,
	}
}

// Hydrate builds the in-memory dataset from the store. It runs once at
// startup; a failure leaves the server in a terminal "load failed"
// state that handlers report instead of serving partial data.
func (s *Server) Hydrate(ctx context.Context) error {
	records, err := s.store.LoadAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.ds = nil
		s.loadErr = err
		return err
	}
	s.ds = NewDataset(records)
	s.loadErr = nil
	s.publishEvent(ctx, "dataset.loaded", map[string]any{
		"records": len(records),
		"years":   len(s.ds.Years),
	})
	return nil
}

// dataset returns the loaded dataset, or nil plus the load error.
func (s *Server) dataset() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.loadErr
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/gapminder", s.handleGetDataset)
		r.Get("/gapminder/meta", s.handleGetMeta)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Patch("/sessions/{id}/filters", s.handleUpdateFilters)
		r.Patch("/sessions/{id}/chart", s.handleUpdateChart)
		r.Post("/sessions/{id}/playback", s.handlePlayback)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Ready"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "gapminder-service",
	})
}

func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	body := map[string]any{
		"type":    eventType,
		"payload": payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("gapminder-service: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("gapminder-service: publish event: %v", err)
	}
}
