// Package naver crawls flight.naver.com search results for one route and
// turns them into flight records.
package naver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Nadaeji/ReadyToGo/browser"
	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/utils"
)

// Scraper drives one browser session per crawl. Sessions are never shared or
// reused between routes.
type Scraper struct {
	cfg        *config.Config
	crawlerCfg *config.CrawlerConfig
	extractor  *Extractor
	logger     *utils.Logger
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, crawlerCfg *config.CrawlerConfig, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		crawlerCfg: crawlerCfg,
		extractor:  NewExtractor(crawlerCfg, cfg.MaxItems, logger),
		logger:     logger,
	}
}

// SearchURL builds the one-way international search URL for a route, e.g.
// https://flight.naver.com/flights/international/ICN-NRT-20250707?adult=1&isDirect=true&fareType=Y
func (s *Scraper) SearchURL(route models.Route) string {
	return fmt.Sprintf("%s/%s-%s-%s?adult=1&isDirect=true&fareType=Y",
		s.crawlerCfg.BaseURL,
		strings.ToUpper(route.Origin),
		strings.ToUpper(route.Destination),
		route.Date.Format("20060102"))
}

// Crawl opens a session, loads the search results, scrolls to trigger lazy
// loading and extracts flight records. The session is torn down on every
// path, including faults. Zero records with a nil error means the page
// rendered but no container candidate matched.
func (s *Scraper) Crawl(ctx context.Context, route models.Route) ([]*models.FlightRecord, error) {
	session, err := browser.Open(ctx, browser.Options{
		Headless:          s.cfg.Headless,
		ChromeBin:         s.cfg.ChromeBin,
		NavigationTimeout: time.Duration(s.cfg.NavigationTimeoutMs) * time.Millisecond,
		SettleDelay:       time.Duration(s.cfg.SettleDelayMs) * time.Millisecond,
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("naver: open session: %w", err)
	}
	defer session.Close()

	url := s.SearchURL(route)
	s.logger.Info("[naver] %s — loading %s", route, url)

	if err := session.Navigate(url); err != nil {
		return nil, err
	}
	session.ScrollToBottom(s.cfg.ScrollCount, time.Duration(s.cfg.ScrollDelayMs)*time.Millisecond)

	html, err := session.HTML()
	if err != nil {
		return nil, fmt.Errorf("naver: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("naver: parse page: %w", err)
	}

	items := s.extractor.ListItems(doc)
	records := s.extractor.ExtractAll(items)

	s.logger.Info("[naver] %s — %d of %d result items yielded priced records",
		route, len(records), len(items))
	return records, nil
}
