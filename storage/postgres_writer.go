package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/utils"
)

// PostgresWriter keeps a history of price-trend reports and their flight
// snapshots so repeated crawls of a route can be compared over time.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := utils.Retry("postgres-ping", 5, 2*time.Second, logger, db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, logger: logger}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_trend_reports (
			id            SERIAL PRIMARY KEY,
			origin        VARCHAR(8)  NOT NULL,
			destination   VARCHAR(8)  NOT NULL,
			depart_date   DATE        NOT NULL,
			data_source   VARCHAR(16) NOT NULL,
			current_price BIGINT      NOT NULL,
			min_price     BIGINT      NOT NULL,
			max_price     BIGINT      NOT NULL,
			avg_price     BIGINT      NOT NULL,
			trend         VARCHAR(16) NOT NULL,
			flight_count  INT         NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS flight_snapshots (
			id             SERIAL PRIMARY KEY,
			report_id      INT REFERENCES price_trend_reports(id) ON DELETE CASCADE,
			idx            INT         NOT NULL,
			airline        TEXT        NOT NULL,
			price_text     TEXT        NOT NULL,
			price_numeric  BIGINT      NOT NULL,
			departure_time TEXT        NOT NULL,
			duration       TEXT        NOT NULL,
			source         VARCHAR(16) NOT NULL,
			crawled_at     TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_route
			ON price_trend_reports(origin, destination, created_at);
		CREATE INDEX IF NOT EXISTS idx_snapshots_report ON flight_snapshots(report_id);
	`)
	return err
}

// Write stores one report and its flight snapshots.
func (pw *PostgresWriter) Write(report *models.PriceTrendReport) error {
	var reportID int64
	err := pw.db.QueryRow(`
		INSERT INTO price_trend_reports
			(origin, destination, depart_date, data_source, current_price,
			 min_price, max_price, avg_price, trend, flight_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`,
		report.Route.Origin, report.Route.Destination, report.Route.Date,
		report.DataSource, report.CurrentPrice,
		report.PriceRange.Min, report.PriceRange.Max, report.PriceRange.Average,
		report.Trend, report.FlightCount,
	).Scan(&reportID)
	if err != nil {
		return fmt.Errorf("postgres: insert report: %w", err)
	}

	return pw.insertSnapshots(reportID, report.Flights)
}

func (pw *PostgresWriter) insertSnapshots(reportID int64, flights []*models.FlightRecord) error {
	if len(flights) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(flights))
	valueArgs := make([]interface{}, 0, len(flights)*8+1)
	valueArgs = append(valueArgs, reportID)

	for idx, f := range flights {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($1,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		valueArgs = append(valueArgs,
			f.Index, f.Airline, f.PriceText, f.PriceNumeric,
			f.DepartureTime, f.Duration, f.Source, f.CrawledAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO flight_snapshots
			(report_id, idx, airline, price_text, price_numeric,
			 departure_time, duration, source, crawled_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert snapshots: %w", err)
	}
	return nil
}

// FetchRecent returns the latest stored reports for a route, newest first,
// without their flight snapshots.
func (pw *PostgresWriter) FetchRecent(origin, destination string, limit int) ([]*models.PriceTrendReport, error) {
	rows, err := pw.db.Query(`
		SELECT origin, destination, depart_date, data_source, current_price,
		       min_price, max_price, avg_price, trend, flight_count, created_at
		FROM price_trend_reports
		WHERE origin = $1 AND destination = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, origin, destination, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch recent: %w", err)
	}
	defer rows.Close()

	var reports []*models.PriceTrendReport
	for rows.Next() {
		r := &models.PriceTrendReport{Success: true}
		if err := rows.Scan(
			&r.Route.Origin, &r.Route.Destination, &r.Route.Date,
			&r.DataSource, &r.CurrentPrice,
			&r.PriceRange.Min, &r.PriceRange.Max, &r.PriceRange.Average,
			&r.Trend, &r.FlightCount, &r.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
