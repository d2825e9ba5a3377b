package meteoblue_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/meteoblue"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

var trujillo = models.Location{
	Key:       "trujillo",
	Name:      "Trujillo",
	Province:  "La Libertad",
	Latitude:  -8.12,
	Longitude: -79.03,
}

func forecastBody(hours int) string {
	var times, temps, felt, precip, conv, prob []string
	for i := 0; i < hours; i++ {
		times = append(times, fmt.Sprintf("%q", fmt.Sprintf("2025-01-01 %02d:00", i)))
		temps = append(temps, fmt.Sprintf("%.1f", 10+float64(i)))
		felt = append(felt, fmt.Sprintf("%.1f", 8+float64(i)))
		precip = append(precip, "0.0")
		conv = append(conv, "0.0")
		prob = append(prob, "20")
	}
	return fmt.Sprintf(`{
		"metadata": {"latitude": -8.12, "longitude": -79.03, "timezone_abbrevation": "-05"},
		"data_1h": {
			"time": [%s],
			"temperature": [%s],
			"felttemperature": [%s],
			"precipitation": [%s],
			"convective_precipitation": [%s],
			"precipitation_probability": [%s]
		}
	}`, strings.Join(times, ","), strings.Join(temps, ","), strings.Join(felt, ","),
		strings.Join(precip, ","), strings.Join(conv, ","), strings.Join(prob, ","))
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		fmt.Fprint(w, forecastBody(12))
	}))
	defer srv.Close()

	client := meteoblue.NewWithBaseURL("secret-key", srv.URL, srv.Client())
	raw, err := client.Fetch(context.Background(), trujillo)
	if err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{
		"apikey":              "secret-key",
		"lat":                 "-8.12",
		"lon":                 "-79.03",
		"format":              "json",
		"forecast_days":       "7",
		"temperature":         "C",
		"windspeed":           "ms-1",
		"precipitationamount": "mm",
	} {
		if gotQuery[key] != want {
			t.Errorf("query %s = %q, want %q", key, gotQuery[key], want)
		}
	}

	if len(raw.Time) != 12 || len(raw.Temperature) != 12 {
		t.Fatalf("unexpected column lengths: %d, %d", len(raw.Time), len(raw.Temperature))
	}
	if raw.Temperature[0] != 10 || raw.FeltTemperature[0] != 8 {
		t.Errorf("unexpected first hour: %+v", raw)
	}
	if raw.TimezoneAbbrev != "-05" {
		t.Errorf("timezone = %q", raw.TimezoneAbbrev)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusForbidden)
	}))
	defer srv.Close()

	client := meteoblue.NewWithBaseURL("bad-key", srv.URL, srv.Client())
	_, err := client.Fetch(context.Background(), trujillo)

	var retrieval *meteoblue.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retrieval.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", retrieval.Status)
	}
}

func TestFetchTransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := meteoblue.NewWithBaseURL("key", srv.URL, http.DefaultClient)
	_, err := client.Fetch(context.Background(), trujillo)

	var retrieval *meteoblue.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retrieval.Status != 0 {
		t.Errorf("transport failure should carry no HTTP status, got %d", retrieval.Status)
	}
}

func TestFetchErrorOmitsAPIKey(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a transport failure, whose error names the URL

	client := meteoblue.NewWithBaseURL("super-secret-key", srv.URL, http.DefaultClient)
	_, err := client.Fetch(context.Background(), trujillo)
	if err == nil {
		t.Fatal("expected transport failure")
	}
	if strings.Contains(err.Error(), "super-secret-key") {
		t.Errorf("error text leaks the api key: %v", err)
	}
	if strings.Contains(err.Error(), "apikey") {
		t.Errorf("error text leaks the query string: %v", err)
	}
}

func TestFetchMalformedPayloads(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"metadata": `},
		{"provider error message", `{"error_message": "quota exceeded"}`},
		{"missing data_1h", `{"metadata": {"latitude": -8.12}}`},
		{"column length mismatch", `{
			"data_1h": {
				"time": ["2025-01-01 00:00", "2025-01-01 01:00"],
				"temperature": [10.0],
				"felttemperature": [8.0, 8.5],
				"precipitation": [0.0, 0.0],
				"convective_precipitation": [0.0, 0.0]
			}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			client := meteoblue.NewWithBaseURL("key", srv.URL, srv.Client())
			_, err := client.Fetch(context.Background(), trujillo)

			var malformed *meteoblue.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

func TestFetchCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := meteoblue.NewWithBaseURL("key", srv.URL, srv.Client())
	for i := 0; i < 6; i++ {
		if _, err := client.Fetch(context.Background(), trujillo); err == nil {
			t.Fatal("expected failure")
		}
	}
	if hits != 6 {
		t.Fatalf("expected 6 upstream hits before the circuit opens, got %d", hits)
	}

	// The breaker now rejects without touching the network.
	_, err := client.Fetch(context.Background(), trujillo)
	var retrieval *meteoblue.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if hits != 6 {
		t.Errorf("open circuit still reached upstream: %d hits", hits)
	}
}

func TestFetchContextCancelled(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := meteoblue.NewWithBaseURL("key", srv.URL, srv.Client())
	_, err := client.Fetch(ctx, trujillo)

	var retrieval *meteoblue.RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
}
