package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/synth"
	"github.com/Nadaeji/ReadyToGo/utils"
)

type fakeCrawler struct {
	records []*models.FlightRecord
	err     error
	panics  bool

	gotRoute models.Route
}

func (f *fakeCrawler) Crawl(_ context.Context, route models.Route) ([]*models.FlightRecord, error) {
	f.gotRoute = route
	if f.panics {
		panic("browser exploded")
	}
	return f.records, f.err
}

func liveRecords(prices ...int) []*models.FlightRecord {
	records := make([]*models.FlightRecord, 0, len(prices))
	for i, p := range prices {
		records = append(records, &models.FlightRecord{
			Index:        i + 1,
			Airline:      "대한항공",
			PriceText:    "가격",
			PriceNumeric: p,
			Source:       models.SourceLive,
			CrawledAt:    time.Now(),
		})
	}
	return records
}

func newTestPipeline(crawler Crawler) *Pipeline {
	logger := utils.NewLogger()
	fallback := synth.NewSeeded(config.DefaultCrawlerConfig(), logger, 1)
	return NewWithCrawler(crawler, fallback, logger)
}

func TestLivePathReport(t *testing.T) {
	crawler := &fakeCrawler{records: liveRecords(345000, 512000, 289000)}
	p := newTestPipeline(crawler)

	report := p.GetPriceTrend("icn", "nrt", time.Time{})

	if report.DataSource != models.SourceLive {
		t.Fatalf("DataSource: got %q, want live", report.DataSource)
	}
	if !report.Success || report.FlightCount != 3 {
		t.Errorf("report: success=%v count=%d", report.Success, report.FlightCount)
	}
	if report.CurrentPrice != 289000 {
		t.Errorf("CurrentPrice: got %d, want min 289000", report.CurrentPrice)
	}
	pr := report.PriceRange
	if pr.Min > pr.Average || pr.Average > pr.Max {
		t.Errorf("range ordering violated: %+v", pr)
	}
}

func TestRouteNormalizationAndDateDefault(t *testing.T) {
	crawler := &fakeCrawler{records: liveRecords(345000)}
	p := newTestPipeline(crawler)

	before := time.Now()
	p.GetPriceTrend(" icn ", "nrt", time.Time{})

	if crawler.gotRoute.Origin != "ICN" || crawler.gotRoute.Destination != "NRT" {
		t.Errorf("route not normalized: %+v", crawler.gotRoute)
	}

	wantDate := before.Add(30 * 24 * time.Hour)
	diff := crawler.gotRoute.Date.Sub(wantDate)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("default date: got %v, want ~%v", crawler.gotRoute.Date, wantDate)
	}
}

func TestZeroRecordsFallsBackToSynthetic(t *testing.T) {
	p := newTestPipeline(&fakeCrawler{records: nil})

	report := p.GetPriceTrend("ICN", "NRT", time.Time{})

	if report.DataSource != models.SourceSynthetic {
		t.Fatalf("DataSource: got %q, want synthetic", report.DataSource)
	}
	if !report.Success {
		t.Error("fallback report must still be successful")
	}
	if report.FlightCount < 3 || report.FlightCount > 8 {
		t.Errorf("FlightCount: got %d, want 3..8", report.FlightCount)
	}
}

func TestCrawlErrorFallsBackToSynthetic(t *testing.T) {
	p := newTestPipeline(&fakeCrawler{err: errors.New("net::ERR_TIMED_OUT")})

	report := p.GetPriceTrend("ICN", "LHR", time.Time{})

	if report.DataSource != models.SourceSynthetic {
		t.Fatalf("DataSource: got %q, want synthetic", report.DataSource)
	}

	band := config.DefaultCrawlerConfig().Band("LHR")
	for _, f := range report.Flights {
		if f.PriceNumeric < band.Min || f.PriceNumeric > band.Max {
			t.Errorf("synthetic price %d outside LHR band [%d,%d]", f.PriceNumeric, band.Min, band.Max)
		}
	}
}

func TestAllZeroPricesFallsBackToSynthetic(t *testing.T) {
	p := newTestPipeline(&fakeCrawler{records: liveRecords(0, 0, 0)})

	report := p.GetPriceTrend("ICN", "NRT", time.Time{})
	if report.DataSource != models.SourceSynthetic {
		t.Fatalf("DataSource: got %q, want synthetic", report.DataSource)
	}
}

func TestCrawlPanicIsContained(t *testing.T) {
	p := newTestPipeline(&fakeCrawler{panics: true})

	report := p.GetPriceTrend("ICN", "SIN", time.Time{})

	if report == nil {
		t.Fatal("report must never be nil")
	}
	if report.DataSource != models.SourceSynthetic {
		t.Fatalf("DataSource: got %q, want synthetic", report.DataSource)
	}
}

func TestNoZeroPricedFlightsInAnyReport(t *testing.T) {
	crawlers := []Crawler{
		&fakeCrawler{records: liveRecords(0, 345000, 0, 512000)},
		&fakeCrawler{records: nil},
		&fakeCrawler{err: errors.New("boom")},
	}

	for _, c := range crawlers {
		report := newTestPipeline(c).GetPriceTrend("ICN", "NRT", time.Time{})
		if report.FlightCount < 1 {
			t.Error("FlightCount must be at least 1")
		}
		for _, f := range report.Flights {
			if f.PriceNumeric == 0 {
				t.Errorf("zero-priced flight leaked into report (source %s)", report.DataSource)
			}
		}
	}
}
