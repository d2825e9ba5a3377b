package api

import (
	"log"
	"net/http"
	"time"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

type indexData struct {
	Locations []models.Location
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "index.html", indexData{Locations: s.svc.Locations()})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	cleaned, err := s.svc.Forecast(r.Context(), key)
	if err != nil {
		s.respondError(w, err)
		return
	}
	loc, _ := s.location(key)
	s.render(w, "overview.html", buildOverview(loc, cleaned))
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Redirect(w, r, "/", http.StatusFound)
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
	loc, _ := s.location(key)
	s.render(w, "detail.html", buildDetail(loc, slice))
}

func (s *Server) location(key string) (models.Location, bool) {
	for _, loc := range s.svc.Locations() {
		if loc.Key == key {
			return loc, true
		}
	}
	return models.Location{}, false
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template %s: %v", name, err)
	}
}
