package models

import (
	"fmt"
	"time"
)

// Data source tags carried on every record and report.
const (
	SourceLive      = "live"
	SourceSynthetic = "synthetic"
)

// Trend classifications for a price-trend report.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// FieldUnknown is the sentinel stored when every selector candidate for a
// field came back empty.
const FieldUnknown = "unknown"

// Route identifies one price-trend query. Date is the departure day; callers
// may leave it zero and let the pipeline default it.
type Route struct {
	Origin      string
	Destination string
	Date        time.Time
}

func (r Route) String() string {
	return fmt.Sprintf("%s → %s (%s)", r.Origin, r.Destination, r.Date.Format("2006-01-02"))
}

// FlightRecord is one priced flight pulled from the live page or produced by
// the synthetic generator. Immutable after creation; lives for one pipeline
// invocation only — persistence is the caller's concern.
type FlightRecord struct {
	Index         int
	Airline       string
	PriceText     string
	PriceNumeric  int
	DepartureTime string
	Duration      string
	Source        string
	CrawledAt     time.Time
}

// PriceRange holds the summary statistics over the priced records of one crawl.
type PriceRange struct {
	Min     int
	Max     int
	Average int
}

// PriceTrendReport is the sole artifact returned across the core boundary.
// Success is true whenever any record exists — the pipeline substitutes a
// synthetic report before an empty result can cross the boundary.
type PriceTrendReport struct {
	Route            Route
	Success          bool
	CurrentPrice     int
	CurrentPriceText string
	PriceRange       PriceRange
	Trend            string
	FlightCount      int
	Flights          []*FlightRecord
	LastUpdated      time.Time
	DataSource       string
}
