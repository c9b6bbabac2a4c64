package naver

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/normalize"
	"github.com/Nadaeji/ReadyToGo/utils"
)

// ResultItem is one search-result element. It has no guaranteed internal
// structure — only lookup by selector. Implementations back it with a live
// DOM fragment; tests can inject faulting stand-ins.
type ResultItem interface {
	// Text returns the trimmed text of the first match for the selector,
	// or "" when nothing matches.
	Text(selector string) (string, error)
}

type selectionItem struct {
	sel *goquery.Selection
}

func (it selectionItem) Text(selector string) (string, error) {
	found := it.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", nil
	}
	return strings.TrimSpace(found.Text()), nil
}

// Extractor pulls structured flight fields out of result items. The site's
// class names change across releases, so every lookup runs an ordered list of
// selector candidates and takes the first non-empty hit.
type Extractor struct {
	cfg      *config.CrawlerConfig
	maxItems int
	logger   *utils.Logger
}

// NewExtractor creates an Extractor. maxItems bounds how many results one
// batch attempts, since a live page may hold hundreds.
func NewExtractor(cfg *config.CrawlerConfig, maxItems int, logger *utils.Logger) *Extractor {
	if maxItems <= 0 {
		maxItems = 10
	}
	return &Extractor{cfg: cfg, maxItems: maxItems, logger: logger}
}

// ListItems locates the result-item containers in the document, trying the
// container candidates in priority order. No candidate matching anything is
// a recoverable "no data" outcome, not an error: the result is empty.
func (e *Extractor) ListItems(doc *goquery.Document) []ResultItem {
	for _, selector := range e.cfg.ItemSelectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}

		items := make([]ResultItem, 0, matches.Length())
		matches.Each(func(_ int, sel *goquery.Selection) {
			items = append(items, selectionItem{sel: sel})
		})
		e.logger.Debug("[naver] container %q matched %d items", selector, len(items))
		return items
	}

	e.logger.Warn("[naver] no container selector matched — page markup may have changed")
	return nil
}

// ExtractAll runs ExtractOne over at most maxItems items. A fault while
// extracting one item is logged and skipped; the batch continues.
func (e *Extractor) ExtractAll(items []ResultItem) []*models.FlightRecord {
	limit := len(items)
	if limit > e.maxItems {
		limit = e.maxItems
	}

	records := make([]*models.FlightRecord, 0, limit)
	for i := 0; i < limit; i++ {
		record, err := e.ExtractOne(items[i], i+1)
		if err != nil {
			e.logger.Warn("[naver] item %d extraction failed: %v — skipping", i+1, err)
			continue
		}
		if record == nil {
			continue
		}
		records = append(records, record)
	}
	return records
}

// ExtractOne pulls one flight record out of an item. Fields with no matching
// candidate take the unknown sentinel. A record whose price field is the
// sentinel, or carries neither a currency marker nor a digit, is dropped
// (nil, nil): a record the caller cannot price is worse than no record.
func (e *Extractor) ExtractOne(item ResultItem, index int) (*models.FlightRecord, error) {
	airline, err := e.firstText(item, e.cfg.AirlineSelectors)
	if err != nil {
		return nil, fmt.Errorf("airline: %w", err)
	}
	priceText, err := e.firstText(item, e.cfg.PriceSelectors)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	departure, err := e.firstText(item, e.cfg.DepartureSelectors)
	if err != nil {
		return nil, fmt.Errorf("departure time: %w", err)
	}
	duration, err := e.firstText(item, e.cfg.DurationSelectors)
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}

	if priceText == models.FieldUnknown || !normalize.LooksPriced(priceText) {
		e.logger.Debug("[naver] item %d has no usable price (%q) — dropped", index, priceText)
		return nil, nil
	}

	return &models.FlightRecord{
		Index:         index,
		Airline:       airline,
		PriceText:     normalize.CleanPrice(priceText),
		PriceNumeric:  normalize.ExtractNumeric(priceText),
		DepartureTime: departure,
		Duration:      duration,
		Source:        models.SourceLive,
		CrawledAt:     time.Now(),
	}, nil
}

// firstText tries the selector candidates in order and returns the first
// non-empty trimmed text; the unknown sentinel when every candidate misses.
func (e *Extractor) firstText(item ResultItem, selectors []string) (string, error) {
	for _, selector := range selectors {
		text, err := item.Text(selector)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return models.FieldUnknown, nil
}
