package api

import (
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleAPILocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Locations())
}

func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("location")
	if key == "" {
		http.Error(w, "location parameter required", http.StatusBadRequest)
		return
	}

	cleaned, err := s.svc.Forecast(r.Context(), key)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, cleaned)
}

func (s *Server) handleAPIForecastDay(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("location")
	if key == "" {
		http.Error(w, "location parameter required", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "date parameter must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slice, err := s.svc.Day(r.Context(), key, date)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, slice)
}
