package api

import (
	"fmt"
	"strings"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/models"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/series"
)

const (
	chartWidth  = 720
	chartHeight = 280
	chartPad    = 34.0
)

type chart struct {
	Width   int
	Height  int
	Series  []chartSeries
	Bars    []bar
	XLabels []axisLabel
	YLabels []axisLabel
}

type chartSeries struct {
	Label  string
	Color  string
	Points string
}

type bar struct {
	X, Y, W, H float64
}

type axisLabel struct {
	X, Y float64
	Text string
}

type lineSpec struct {
	Label string
	Color string
	Value func(models.HourlyRecord) float64
}

type statRow struct {
	Label string
	Unit  string
	Max   float64
	Min   float64
}

type dayLink struct {
	Label string
	URL   string
}

type overviewData struct {
	Location    models.Location
	Stats       []statRow
	TempChart   chart
	PrecipChart chart
	ConvChart   chart
	Days        []dayLink
}

type detailData struct {
	Location    models.Location
	Date        string
	Stats       []statRow
	TempChart   chart
	PrecipChart chart
	ConvChart   chart
	BackURL     string
}

func buildOverview(loc models.Location, cleaned models.CleanedSeries) overviewData {
	recs := []models.HourlyRecord(cleaned)
	data := overviewData{
		Location: loc,
		Stats:    buildStats(recs),
		TempChart: lineChart(recs, []lineSpec{
			{Label: "Temperature", Color: "#2b6cb0", Value: func(r models.HourlyRecord) float64 { return r.Temperature }},
			{Label: "Feels like", Color: "#d69e2e", Value: func(r models.HourlyRecord) float64 { return r.FeelsLike }},
		}, "02-01", 24),
		PrecipChart: barChart(recs, func(r models.HourlyRecord) float64 { return r.Precipitation }, "02-01", 24),
		ConvChart:   barChart(recs, func(r models.HourlyRecord) float64 { return r.ConvectivePrecipitation }, "02-01", 24),
	}

	first, last := series.Horizon(cleaned)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		data.Days = append(data.Days, dayLink{
			Label: d.Format("Mon Jan 2"),
			URL:   fmt.Sprintf("/location/day?key=%s&date=%s", loc.Key, d.Format("2006-01-02")),
		})
	}
	return data
}

func buildDetail(loc models.Location, slice models.DailySlice) detailData {
	recs := slice.Records
	return detailData{
		Location: loc,
		Date:     slice.Date.Format("Monday, January 2 2006"),
		Stats:    buildStats(recs),
		TempChart: lineChart(recs, []lineSpec{
			{Label: "Temperature", Color: "#2b6cb0", Value: func(r models.HourlyRecord) float64 { return r.Temperature }},
			{Label: "Feels like", Color: "#d69e2e", Value: func(r models.HourlyRecord) float64 { return r.FeelsLike }},
		}, "15:04", 3),
		PrecipChart: barChart(recs, func(r models.HourlyRecord) float64 { return r.Precipitation }, "15:04", 3),
		ConvChart:   barChart(recs, func(r models.HourlyRecord) float64 { return r.ConvectivePrecipitation }, "15:04", 3),
		BackURL:     "/location?key=" + loc.Key,
	}
}

func buildStats(recs []models.HourlyRecord) []statRow {
	rows := []statRow{
		{Label: "Temperature", Unit: "°C"},
		{Label: "Feels like", Unit: "°C"},
		{Label: "Precipitation", Unit: "mm"},
		{Label: "Convective precipitation", Unit: "mm"},
	}
	selectors := []func(models.HourlyRecord) float64{
		func(r models.HourlyRecord) float64 { return r.Temperature },
		func(r models.HourlyRecord) float64 { return r.FeelsLike },
		func(r models.HourlyRecord) float64 { return r.Precipitation },
		func(r models.HourlyRecord) float64 { return r.ConvectivePrecipitation },
	}
	for i := range rows {
		rows[i].Min, rows[i].Max = series.MinMax(recs, selectors[i])
	}
	return rows
}

// lineChart scales one or more value columns into SVG polyline points.
// tickEvery controls how many records sit between X-axis labels.
func lineChart(recs []models.HourlyRecord, specs []lineSpec, tickFormat string, tickEvery int) chart {
	c := chart{Width: chartWidth, Height: chartHeight}
	if len(recs) == 0 {
		return c
	}

	min, max := series.MinMax(recs, specs[0].Value)
	for _, spec := range specs[1:] {
		lo, hi := series.MinMax(recs, spec.Value)
		if lo < min {
			min = lo
		}
		if hi > max {
			max = hi
		}
	}
	if max == min {
		max = min + 1
	}

	for _, spec := range specs {
		var b strings.Builder
		for i, r := range recs {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.1f,%.1f", xPos(i, len(recs)), yPos(spec.Value(r), min, max))
		}
		c.Series = append(c.Series, chartSeries{Label: spec.Label, Color: spec.Color, Points: b.String()})
	}

	c.XLabels = timeLabels(recs, tickFormat, tickEvery)
	c.YLabels = []axisLabel{
		{X: 4, Y: chartPad + 4, Text: fmt.Sprintf("%.1f", max)},
		{X: 4, Y: chartHeight - chartPad, Text: fmt.Sprintf("%.1f", min)},
	}
	return c
}

// barChart scales one value column into SVG bars anchored at zero.
func barChart(recs []models.HourlyRecord, value func(models.HourlyRecord) float64, tickFormat string, tickEvery int) chart {
	c := chart{Width: chartWidth, Height: chartHeight}
	if len(recs) == 0 {
		return c
	}

	_, max := series.MinMax(recs, value)
	if max <= 0 {
		max = 1
	}

	plotW := float64(chartWidth) - 2*chartPad
	barW := plotW / float64(len(recs)) * 0.8
	if barW < 1 {
		barW = 1
	}
	baseline := float64(chartHeight) - chartPad
	for i, r := range recs {
		h := value(r) / max * (float64(chartHeight) - 2*chartPad)
		if h <= 0 {
			continue
		}
		c.Bars = append(c.Bars, bar{
			X: xPos(i, len(recs)) - barW/2,
			Y: baseline - h,
			W: barW,
			H: h,
		})
	}

	c.XLabels = timeLabels(recs, tickFormat, tickEvery)
	c.YLabels = []axisLabel{
		{X: 4, Y: chartPad + 4, Text: fmt.Sprintf("%.1f", max)},
		{X: 4, Y: baseline, Text: "0"},
	}
	return c
}

func timeLabels(recs []models.HourlyRecord, format string, every int) []axisLabel {
	var labels []axisLabel
	for i, r := range recs {
		if i%every != 0 {
			continue
		}
		labels = append(labels, axisLabel{
			X:    xPos(i, len(recs)),
			Y:    float64(chartHeight) - chartPad + 16,
			Text: r.Time.Format(format),
		})
	}
	return labels
}

func xPos(i, n int) float64 {
	if n <= 1 {
		return chartPad
	}
	return chartPad + float64(i)*(float64(chartWidth)-2*chartPad)/float64(n-1)
}

func yPos(v, min, max float64) float64 {
	plotH := float64(chartHeight) - 2*chartPad
	return float64(chartHeight) - chartPad - (v-min)/(max-min)*plotH
}

func locationTitle(loc models.Location) string {
	return fmt.Sprintf("%s (%s)", loc.Name, loc.Province)
}
