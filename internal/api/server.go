package api

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/catalog"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/forecast"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/meteoblue"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/series"
)

type Server struct {
	svc  *forecast.Service
	port string
	tmpl *template.Template
}

func NewServer(svc *forecast.Service, port string) *Server {
	return &Server{
		svc:  svc,
		port: port,
		tmpl: newTemplates(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/location", s.handleLocation)
	mux.HandleFunc("/location/day", s.handleDay)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/locations", s.handleAPILocations)
	mux.HandleFunc("/api/forecast", s.handleAPIForecast)
	mux.HandleFunc("/api/forecast/day", s.handleAPIForecastDay)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// errorStatus maps pipeline failures onto HTTP statuses. Provider
// trouble (network, malformed payloads) is a bad gateway; unknown
// inputs are not found; a series that fails our own validation is an
// internal error.
func errorStatus(err error) int {
	var retrieval *meteoblue.RetrievalError
	var malformed *meteoblue.MalformedResponseError
	var noData *series.NoDataForDateError
	switch {
	case errors.Is(err, catalog.ErrUnknownLocation):
		return http.StatusNotFound
	case errors.As(err, &noData):
		return http.StatusNotFound
	case errors.As(err, &retrieval), errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the full error and answers with a short
// user-facing message. Internal error text never reaches the body.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	log.Printf("request failed (%d): %v", status, err)
	http.Error(w, publicMessage(err, status), status)
}

func publicMessage(err error, status int) string {
	var noData *series.NoDataForDateError
	switch {
	case errors.Is(err, catalog.ErrUnknownLocation):
		return "unknown location"
	case errors.As(err, &noData):
		return "no forecast data for the requested date"
	case status == http.StatusBadGateway:
		return "weather provider unavailable"
	default:
		return "internal error"
	}
}
