package models

import "time"

// Location is a fixed catalog entry. The Key is stable and used for cache
// lookups and URL parameters.
type Location struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Province  string  `json:"province"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawForecast holds the provider's hourly forecast for one location in
// provider vocabulary. The slices are parallel columns: index i of every
// column describes the same hour. Timestamps stay provider-formatted
// strings until the series is cleaned.
type RawForecast struct {
	Latitude       float64
	Longitude      float64
	TimezoneAbbrev string

	Time                     []string
	Temperature              []float64
	FeltTemperature          []float64
	Precipitation            []float64
	ConvectivePrecipitation  []float64
	PrecipitationProbability []int
}

// HourlyRecord is one cleaned hourly row in internal vocabulary.
type HourlyRecord struct {
	Time                    time.Time `json:"time"`
	Temperature             float64   `json:"temperature"`
	FeelsLike               float64   `json:"feels_like"`
	Precipitation           float64   `json:"precipitation"`
	ConvectivePrecipitation float64   `json:"convective_precipitation"`
	PrecipProbability       int       `json:"precipitation_probability"`
	SmoothTemperature       float64   `json:"smooth_temperature"`
	SmoothFeelsLike         float64   `json:"smooth_feels_like"`
}

// CleanedSeries is the transformer output: hourly records with strictly
// increasing, contiguous timestamps covering the full forecast horizon.
type CleanedSeries []HourlyRecord

// DailySlice is a read-only view of a CleanedSeries restricted to one
// calendar day.
type DailySlice struct {
	Date    time.Time      `json:"date"`
	Records []HourlyRecord `json:"records"`
}
