package pricing

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"sjsage522/adscraper/internal/crawler"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// Normalize returns the first contiguous run of decimal digits in text as a number.
// Thousands separators split the run, so "12 500 CFA" yields 12.
// The second return value is false when text holds no digit.
func Normalize(text string) (float64, bool) {
	run := digitRun.FindString(text)
	if run == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(run, 64)
	if err != nil || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// PricedRecord is a record with its derived numeric price; Value is nil when absent
type PricedRecord struct {
	crawler.ListingRecord
	Value *float64 `json:"price_value"`
}

// Rows derives the numeric price column for every record, leaving the text price untouched
func Rows(records crawler.Collection) []PricedRecord {
	rows := make([]PricedRecord, 0, len(records))
	for _, r := range records {
		row := PricedRecord{ListingRecord: r}
		if v, ok := Normalize(r.Price); ok {
			row.Value = &v
		}
		rows = append(rows, row)
	}
	return rows
}

// LocationCount is the number of records sharing a location
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Metrics aggregates a collection for the dashboard
type Metrics struct {
	Total        int             `json:"total"`
	Priced       int             `json:"priced"`
	Unpriced     int             `json:"unpriced"`
	AveragePrice float64         `json:"average_price"`
	MinPrice     float64         `json:"min_price"`
	MaxPrice     float64         `json:"max_price"`
	ByPage       map[int]int     `json:"by_page"`
	TopLocations []LocationCount `json:"top_locations"`
}

// Summarize computes counts and price statistics; records without a
// numeric price are counted but excluded from the averages.
func Summarize(records crawler.Collection) Metrics {
	metrics := Metrics{
		Total:        len(records),
		ByPage:       make(map[int]int),
		TopLocations: []LocationCount{},
	}

	var (
		sum       float64
		minPrice  = math.MaxFloat64
		maxPrice  = -1.0
		locations = make(map[string]int)
	)

	for _, r := range records {
		metrics.ByPage[r.PageNumber]++
		locations[normalizeLocation(r.Location)]++

		value, ok := Normalize(r.Price)
		if !ok {
			metrics.Unpriced++
			continue
		}

		metrics.Priced++
		sum += value
		if value < minPrice {
			minPrice = value
		}
		if value > maxPrice {
			maxPrice = value
		}
	}

	if metrics.Priced > 0 {
		metrics.AveragePrice = sum / float64(metrics.Priced)
		metrics.MinPrice = minPrice
		metrics.MaxPrice = maxPrice
	}

	for loc, count := range locations {
		metrics.TopLocations = append(metrics.TopLocations, LocationCount{Location: loc, Count: count})
	}
	sort.Slice(metrics.TopLocations, func(i, j int) bool {
		if metrics.TopLocations[i].Count == metrics.TopLocations[j].Count {
			return metrics.TopLocations[i].Location < metrics.TopLocations[j].Location
		}
		return metrics.TopLocations[i].Count > metrics.TopLocations[j].Count
	})

	return metrics
}

func normalizeLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return crawler.UnspecifiedText
	}
	return location
}
