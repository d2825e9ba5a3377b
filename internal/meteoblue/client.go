// Package meteoblue fetches hourly forecast packages from the Meteoblue
// API. One Fetch is one outbound GET; callers own caching and never see
// automatic retries from this package.
package meteoblue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/httputil"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/metrics"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

const (
	// DefaultBaseURL is the basic-1h package endpoint.
	DefaultBaseURL = "https://my.meteoblue.com/packages/basic-1h"

	// ForecastDays is the horizon requested from the provider.
	ForecastDays = 7
)

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// New returns a client for the production endpoint. The API key is held
// in memory only; it is never logged.
func New(apiKey string) *Client {
	return NewWithBaseURL(apiKey, DefaultBaseURL, httputil.NewClient())
}

// NewWithBaseURL returns a client against an alternative endpoint, used
// by tests. A nil httpClient falls back to the standard one.
func NewWithBaseURL(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "meteoblue",
		MaxRequests: 2,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  httpClient,
		breaker: cb,
	}
}

// payload mirrors the provider JSON. Data1H is a pointer so a missing
// block is distinguishable from an empty one.
type payload struct {
	ErrorMessage string   `json:"error_message"`
	Metadata     metadata `json:"metadata"`
	Data1H       *data1h  `json:"data_1h"`
}

type metadata struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	TimezoneAbbrev string  `json:"timezone_abbrevation"` // provider spelling
}

type data1h struct {
	Time                     []string  `json:"time"`
	Temperature              []float64 `json:"temperature"`
	FeltTemperature          []float64 `json:"felttemperature"`
	Precipitation            []float64 `json:"precipitation"`
	ConvectivePrecipitation  []float64 `json:"convective_precipitation"`
	PrecipitationProbability []int     `json:"precipitation_probability"`
}

// Fetch issues exactly one GET for the location's 7-day hourly forecast.
// Failures are *RetrievalError or *MalformedResponseError; an open
// circuit fails fast as *RetrievalError without a network call.
func (c *Client) Fetch(ctx context.Context, loc models.Location) (*models.RawForecast, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("forecast_days", strconv.Itoa(ForecastDays))
	// Force metric units so downstream consumers never have to convert.
	params.Set("temperature", "C")
	params.Set("windspeed", "ms-1")
	params.Set("precipitationamount", "mm")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &RetrievalError{Err: fmt.Errorf("create request: %w", redactURL(err))}
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, &RetrievalError{Err: redactURL(doErr)}
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &RetrievalError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", readErr)}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &RetrievalError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
		}
		return body, nil
	})
	metrics.ProviderLatency.WithLabelValues(loc.Key).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &RetrievalError{Err: fmt.Errorf("circuit open: %w", err)}
		}
		var re *RetrievalError
		if errors.As(err, &re) {
			metrics.ProviderCallsTotal.WithLabelValues(loc.Key, callStatus(re)).Inc()
		} else {
			metrics.ProviderCallsTotal.WithLabelValues(loc.Key, "error").Inc()
			err = &RetrievalError{Err: err}
		}
		return nil, err
	}
	metrics.ProviderCallsTotal.WithLabelValues(loc.Key, "ok").Inc()

	body := result.([]byte)
	return parse(body)
}

// redactURL strips the request URL from transport errors. url.Error
// renders the full URL, apikey query parameter included, and the error
// text ends up in logs and response bodies.
func redactURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	target := "request"
	if u, parseErr := url.Parse(ue.URL); parseErr == nil {
		u.RawQuery = ""
		target = u.String()
	}
	return fmt.Errorf("%s %s: %w", ue.Op, target, ue.Err)
}

func callStatus(e *RetrievalError) string {
	if e.Status != 0 {
		return strconv.Itoa(e.Status)
	}
	return "error"
}

func parse(body []byte) (*models.RawForecast, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Err: err}
	}
	// The provider reports business errors inside a 200 body.
	if p.ErrorMessage != "" {
		return nil, &MalformedResponseError{Reason: "provider error: " + p.ErrorMessage}
	}
	if p.Data1H == nil {
		return nil, &MalformedResponseError{Reason: "missing data_1h block"}
	}

	n := len(p.Data1H.Time)
	for _, col := range []struct {
		name string
		len  int
	}{
		{"temperature", len(p.Data1H.Temperature)},
		{"felttemperature", len(p.Data1H.FeltTemperature)},
		{"precipitation", len(p.Data1H.Precipitation)},
		{"convective_precipitation", len(p.Data1H.ConvectivePrecipitation)},
	} {
		if col.len != n {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("column %s has %d values, want %d", col.name, col.len, n),
			}
		}
	}
	// Probability is not part of every package tier; tolerate absence but
	// not a partial column.
	if len(p.Data1H.PrecipitationProbability) != 0 && len(p.Data1H.PrecipitationProbability) != n {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("column precipitation_probability has %d values, want %d", len(p.Data1H.PrecipitationProbability), n),
		}
	}

	return &models.RawForecast{
		Latitude:                 p.Metadata.Latitude,
		Longitude:                p.Metadata.Longitude,
		TimezoneAbbrev:           p.Metadata.TimezoneAbbrev,
		Time:                     p.Data1H.Time,
		Temperature:              p.Data1H.Temperature,
		FeltTemperature:          p.Data1H.FeltTemperature,
		Precipitation:            p.Data1H.Precipitation,
		ConvectivePrecipitation:  p.Data1H.ConvectivePrecipitation,
		PrecipitationProbability: p.Data1H.PrecipitationProbability,
	}, nil
}
