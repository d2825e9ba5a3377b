// Package series transforms raw provider payloads into the cleaned
// hourly series consumed by the dashboard.
package series

import (
	"errors"
	"fmt"
	"time"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
)

// SmoothingWindow is the moving-average width, in hours.
const SmoothingWindow = 3

// timeLayout is the provider's data_1h timestamp format.
const timeLayout = "2006-01-02 15:04"

// ErrEmptySeries means the raw response carried zero hourly records.
var ErrEmptySeries = errors.New("forecast series is empty")

// SchemaError reports a raw column that is missing, short, or carries a
// value that violates the hourly-series shape.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("forecast schema: column %q %s", e.Column, e.Reason)
}

// NoDataForDateError means the requested date lies outside the horizon.
type NoDataForDateError struct {
	Date time.Time
}

func (e *NoDataForDateError) Error() string {
	return fmt.Sprintf("no forecast data for %s", e.Date.Format("2006-01-02"))
}

// Clean converts a raw payload into internal vocabulary and derives the
// smoothed temperature columns. Smoothing uses an expanding window at
// the start of the series: positions before the window fills average the
// records seen so far, so every record carries a smoothed value.
func Clean(raw *models.RawForecast) (models.CleanedSeries, error) {
	if raw == nil || len(raw.Time) == 0 {
		return nil, ErrEmptySeries
	}
	n := len(raw.Time)

	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"temperature", raw.Temperature},
		{"felttemperature", raw.FeltTemperature},
		{"precipitation", raw.Precipitation},
		{"convective_precipitation", raw.ConvectivePrecipitation},
	} {
		if col.values == nil {
			return nil, &SchemaError{Column: col.name, Reason: "is missing"}
		}
		if len(col.values) != n {
			return nil, &SchemaError{Column: col.name, Reason: fmt.Sprintf("has %d values, want %d", len(col.values), n)}
		}
	}
	if raw.PrecipitationProbability != nil && len(raw.PrecipitationProbability) != n {
		return nil, &SchemaError{Column: "precipitation_probability", Reason: fmt.Sprintf("has %d values, want %d", len(raw.PrecipitationProbability), n)}
	}

	records := make(models.CleanedSeries, 0, n)
	var prev time.Time
	for i, ts := range raw.Time {
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, &SchemaError{Column: "time", Reason: fmt.Sprintf("bad timestamp %q", ts)}
		}
		if i > 0 && !t.Equal(prev.Add(time.Hour)) {
			return nil, &SchemaError{Column: "time", Reason: fmt.Sprintf("not contiguous hourly at %q", ts)}
		}
		prev = t

		rec := models.HourlyRecord{
			Time:                    t,
			Temperature:             raw.Temperature[i],
			FeelsLike:               raw.FeltTemperature[i],
			Precipitation:           raw.Precipitation[i],
			ConvectivePrecipitation: raw.ConvectivePrecipitation[i],
		}
		if raw.PrecipitationProbability != nil {
			rec.PrecipProbability = raw.PrecipitationProbability[i]
		}
		records = append(records, rec)
	}

	for i := range records {
		lo := i - SmoothingWindow + 1
		if lo < 0 {
			lo = 0
		}
		var sumTemp, sumFeels float64
		for j := lo; j <= i; j++ {
			sumTemp += records[j].Temperature
			sumFeels += records[j].FeelsLike
		}
		width := float64(i - lo + 1)
		records[i].SmoothTemperature = sumTemp / width
		records[i].SmoothFeelsLike = sumFeels / width
	}

	return records, nil
}

// SliceDay filters the series to the records whose timestamp falls on
// the given calendar date.
func SliceDay(series models.CleanedSeries, date time.Time) (models.DailySlice, error) {
	y, m, d := date.Date()
	var recs []models.HourlyRecord
	for _, r := range series {
		ry, rm, rd := r.Time.Date()
		if ry == y && rm == m && rd == d {
			recs = append(recs, r)
		}
	}
	if len(recs) == 0 {
		return models.DailySlice{}, &NoDataForDateError{Date: date}
	}
	return models.DailySlice{
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Records: recs,
	}, nil
}

// Horizon returns the first and last calendar dates covered by the
// series. The zero time is returned for an empty series.
func Horizon(series models.CleanedSeries) (first, last time.Time) {
	if len(series) == 0 {
		return time.Time{}, time.Time{}
	}
	f := series[0].Time
	l := series[len(series)-1].Time
	first = time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	last = time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
	return first, last
}

// MinMax returns the extremes of one column across records.
func MinMax(records []models.HourlyRecord, col func(models.HourlyRecord) float64) (min, max float64) {
	if len(records) == 0 {
		return 0, 0
	}
	min = col(records[0])
	max = min
	for _, r := range records[1:] {
		v := col(r)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
