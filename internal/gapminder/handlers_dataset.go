package gapminder

import (
	"net/http"
)

// handleGetDataset returns the entire dataset as an ordered JSON array.
// Field names {country, continent, year, lifeExp, gdpPercap, pop} are
// fixed; numeric fields are numbers, not strings.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "dataset load failed")
		return
	}
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}
	records := ds.Records
	if records == nil {
		records = []Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGetMeta returns derived facts the filter panel needs: distinct
// years/countries/continents and the actual min/max of every range.
func (s *Server) handleGetMeta(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "dataset load failed")
		return
	}
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"records":    len(ds.Records),
		"years":      ds.Years,
		"countries":  ds.Countries,
		"continents": ds.Continents,
		"bounds":     ds.Bounds,
	})
}
