// Package analyze computes the summary statistics and trend classification
// for a batch of flight records.
package analyze

import (
	"errors"
	"time"

	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/normalize"
)

// ErrInsufficientData is returned when a batch holds no records with a
// positive price. Callers check for it and substitute synthetic data instead
// of propagating it further.
var ErrInsufficientData = errors.New("analyze: no priced records in batch")

// maxReportFlights caps how many records a report carries across the boundary.
const maxReportFlights = 10

// PriceStats is the numeric summary of the priced subset of a batch.
// Current is the minimum observed price — the most competitive offer stands
// in for "the price right now".
type PriceStats struct {
	Min     int
	Max     int
	Average int
	Current int
	Trend   string
}

// Aggregate computes PriceStats over the records with a positive price.
// Records priced at 0 were filtered upstream in the common path, but
// externally supplied batches may still carry them, so they are dropped
// again here. Average uses floor division.
func Aggregate(records []*models.FlightRecord) (*PriceStats, error) {
	priced := pricedOnly(records)
	if len(priced) == 0 {
		return nil, ErrInsufficientData
	}

	min, max, sum := priced[0].PriceNumeric, priced[0].PriceNumeric, 0
	for _, r := range priced {
		if r.PriceNumeric < min {
			min = r.PriceNumeric
		}
		if r.PriceNumeric > max {
			max = r.PriceNumeric
		}
		sum += r.PriceNumeric
	}

	avg := sum / len(priced)
	return &PriceStats{
		Min:     min,
		Max:     max,
		Average: avg,
		Current: min,
		Trend:   classifyTrend(min, avg),
	}, nil
}

// Compose assembles the report handed across the core boundary. Only priced
// records make it into Flights, capped at maxReportFlights, in batch order.
func Compose(route models.Route, records []*models.FlightRecord, stats *PriceStats, source string) *models.PriceTrendReport {
	flights := pricedOnly(records)
	if len(flights) > maxReportFlights {
		flights = flights[:maxReportFlights]
	}

	return &models.PriceTrendReport{
		Route:            route,
		Success:          true,
		CurrentPrice:     stats.Current,
		CurrentPriceText: normalize.FormatWon(stats.Current),
		PriceRange: models.PriceRange{
			Min:     stats.Min,
			Max:     stats.Max,
			Average: stats.Average,
		},
		Trend:       stats.Trend,
		FlightCount: len(flights),
		Flights:     flights,
		LastUpdated: time.Now(),
		DataSource:  source,
	}
}

func classifyTrend(current, average int) string {
	switch {
	case current > average:
		return models.TrendIncreasing
	case current < average:
		return models.TrendDecreasing
	}
	return models.TrendStable
}

func pricedOnly(records []*models.FlightRecord) []*models.FlightRecord {
	priced := make([]*models.FlightRecord, 0, len(records))
	for _, r := range records {
		if r.PriceNumeric > 0 {
			priced = append(priced, r)
		}
	}
	return priced
}
