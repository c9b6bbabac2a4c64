package storage

import "github.com/Nadaeji/ReadyToGo/models"

// ReportWriter is the interface any report-history backend must satisfy.
// The pipeline itself never persists anything; main wires these in as the
// caller.
type ReportWriter interface {
	Write(report *models.PriceTrendReport) error
	Close() error
}

// RecordWriter persists the raw flight records of one crawl.
type RecordWriter interface {
	WriteRecords(route models.Route, records []*models.FlightRecord) error
	Close() error
}
