// Package pipeline sequences one price-trend crawl: session setup, navigate,
// extract, aggregate, and synthetic fallback when the live path yields
// nothing. GetPriceTrend is the only entry point the surrounding request
// handlers call.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nadaeji/ReadyToGo/analyze"
	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/scraper/naver"
	"github.com/Nadaeji/ReadyToGo/synth"
	"github.com/Nadaeji/ReadyToGo/utils"
)

// defaultDepartureOffset is applied when a caller omits the travel date.
const defaultDepartureOffset = 30 * 24 * time.Hour

// Crawler is the live-data seam. The production implementation drives a
// headless browser; tests substitute fakes.
type Crawler interface {
	Crawl(ctx context.Context, route models.Route) ([]*models.FlightRecord, error)
}

// Pipeline adapts the asynchronous crawl to a synchronous caller. Every
// invocation owns its browser session, so concurrent calls never share
// browser state.
type Pipeline struct {
	crawler  Crawler
	fallback *synth.Generator
	logger   *utils.Logger
}

// New wires the production pipeline from configuration.
func New(cfg *config.Config, crawlerCfg *config.CrawlerConfig, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		crawler:  naver.New(cfg, crawlerCfg, logger),
		fallback: synth.New(crawlerCfg, logger),
		logger:   logger,
	}
}

// NewWithCrawler builds a Pipeline around an explicit crawler and fallback
// generator. Used by tests and by callers embedding the pipeline elsewhere.
func NewWithCrawler(crawler Crawler, fallback *synth.Generator, logger *utils.Logger) *Pipeline {
	return &Pipeline{crawler: crawler, fallback: fallback, logger: logger}
}

// GetPriceTrend returns the price-trend report for a route. It blocks until
// the crawl finishes and never returns nil or an error: every failure mode in
// the live path — browser launch, navigation, extraction, aggregation —
// degrades to a synthetic report. The only caller-visible signal of degraded
// operation is DataSource == "synthetic".
func (p *Pipeline) GetPriceTrend(origin, destination string, date time.Time) *models.PriceTrendReport {
	route := models.Route{
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.ToUpper(strings.TrimSpace(destination)),
		Date:        date,
	}
	if route.Date.IsZero() {
		route.Date = time.Now().Add(defaultDepartureOffset)
	}

	records, err := p.crawlLive(route)
	if err != nil {
		p.logger.Warn("[pipeline] %s live crawl failed: %v — substituting synthetic data", route, err)
		return p.fallback.Generate(route)
	}

	stats, err := analyze.Aggregate(records)
	if err != nil {
		p.logger.Warn("[pipeline] %s yielded no priced flights — substituting synthetic data", route)
		return p.fallback.Generate(route)
	}

	report := analyze.Compose(route, records, stats, models.SourceLive)
	p.logger.Info("[pipeline] %s — live report: %d flights, %s~ (%s)",
		route, report.FlightCount, report.CurrentPriceText, report.Trend)
	return report
}

// crawlLive runs the browser sequence on its own goroutine, giving each call
// an isolated execution context. A panic anywhere in the live path comes back
// as an error so the caller still receives a report.
func (p *Pipeline) crawlLive(route models.Route) ([]*models.FlightRecord, error) {
	type crawlResult struct {
		records []*models.FlightRecord
		err     error
	}

	done := make(chan crawlResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- crawlResult{err: fmt.Errorf("pipeline: crawl panicked: %v", r)}
			}
		}()
		records, err := p.crawler.Crawl(context.Background(), route)
		done <- crawlResult{records: records, err: err}
	}()

	result := <-done
	return result.records, result.err
}
