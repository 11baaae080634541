package gapminder

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "dataset load failed")
		return
	}
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}

	sess := NewSession(ds, s.tickEvery, s.publishEvent)
	s.sessions.Add(sess)

	snap, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	s.publishEvent(r.Context(), "session.created", map[string]any{"id": sess.ID})
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleUpdateFilters applies a partial filter edit: fields present in
// the body replace the corresponding part of the current state, absent
// fields keep their value. The merged state is committed whole.
func (s *Server) handleUpdateFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Countries    *[]string   `json:"countries"`
		Continents   *[]string   `json:"continents"`
		YearRange    *IntRange   `json:"yearRange"`
		GdpRange     *FloatRange `json:"gdpRange"`
		LifeExpRange *FloatRange `json:"lifeExpRange"`
		PopRange     *IntRange   `json:"popRange"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	snap, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	filter := snap.Filter
	if body.Countries != nil {
		filter.Countries = *body.Countries
	}
	if body.Continents != nil {
		for _, c := range *body.Continents {
			if !validContinent(c) {
				writeError(w, http.StatusBadRequest, "unknown continent: "+c)
				return
			}
		}
		filter.Continents = *body.Continents
	}
	if body.YearRange != nil {
		filter.YearRange = *body.YearRange
	}
	if body.GdpRange != nil {
		filter.GdpRange = *body.GdpRange
	}
	if body.LifeExpRange != nil {
		filter.LifeExpRange = *body.LifeExpRange
	}
	if body.PopRange != nil {
		filter.PopRange = *body.PopRange
	}

	snap, err = sess.UpdateFilter(filter)
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleUpdateChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var cfg ChartConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sess.SetChart(cfg)
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handlePlayback drives the year cursor: {"action":"start"|"stop"|"scrub"},
// scrub carrying a target year that snaps to the nearest dataset year.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var body struct {
		Action string `json:"action"`
		Year   *int   `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var snap Snapshot
	var err error
	switch strings.ToLower(strings.TrimSpace(body.Action)) {
	case "start":
		snap, err = sess.StartPlayback()
	case "stop":
		snap, err = sess.StopPlayback()
	case "scrub":
		if body.Year == nil {
			writeError(w, http.StatusBadRequest, "scrub requires a year")
			return
		}
		snap, err = sess.Scrub(*body.Year)
	default:
		writeError(w, http.StatusBadRequest, `invalid action (must be "start", "stop" or "scrub")`)
		return
	}
	if err != nil {
		writeError(w, http.StatusGone, "session closed")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Remove(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	sess.Close()
	s.publishEvent(r.Context(), "session.closed", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
