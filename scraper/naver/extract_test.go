package naver

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/utils"
)

func testCrawlerConfig() *config.CrawlerConfig {
	cfg := config.DefaultCrawlerConfig()
	cfg.ItemSelectors = []string{".flight-item", "li.result"}
	cfg.AirlineSelectors = []string{".airline-name", ".airline"}
	cfg.PriceSelectors = []string{".fare-price", ".price"}
	cfg.DepartureSelectors = []string{".depart-time", ".time"}
	cfg.DurationSelectors = []string{".duration"}
	return cfg
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const resultsPage = `
<html><body><ul>
  <li class="flight-item">
    <span class="airline-name">대한항공</span>
    <span class="fare-price">345,000원</span>
    <span class="depart-time">07:30</span>
    <span class="duration">2시간 20분</span>
  </li>
  <li class="flight-item">
    <span class="airline">제주항공</span>
    <span class="price">289,000원</span>
    <span class="time">09:15</span>
  </li>
  <li class="flight-item">
    <span class="airline-name">아시아나항공</span>
    <span class="fare-price">매진</span>
    <span class="depart-time">11:00</span>
  </li>
</ul></body></html>`

func TestListItemsFirstCandidateWins(t *testing.T) {
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	items := e.ListItems(parseDoc(t, resultsPage))
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
}

func TestListItemsFallbackCandidate(t *testing.T) {
	html := `<html><body>
		<li class="result"><span class="price">512,000원</span></li>
		<li class="result"><span class="price">498,000원</span></li>
	</body></html>`
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	items := e.ListItems(parseDoc(t, html))
	if len(items) != 2 {
		t.Fatalf("fallback container selector: got %d items, want 2", len(items))
	}
}

func TestListItemsNoMatchIsEmptyNotError(t *testing.T) {
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	items := e.ListItems(parseDoc(t, `<html><body><p>점검 중입니다</p></body></html>`))
	if len(items) != 0 {
		t.Fatalf("got %d items, want 0", len(items))
	}
}

func TestExtractAllFieldFallbacksAndSentinels(t *testing.T) {
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	records := e.ExtractAll(e.ListItems(parseDoc(t, resultsPage)))

	// Third item's price is "매진": no currency marker, no digit — dropped.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Airline != "대한항공" || first.PriceNumeric != 345000 {
		t.Errorf("first record: %+v", first)
	}
	if first.DepartureTime != "07:30" || first.Duration != "2시간 20분" {
		t.Errorf("first record times: %+v", first)
	}
	if first.Source != models.SourceLive {
		t.Errorf("Source: got %q, want %q", first.Source, models.SourceLive)
	}

	// Second item only matches the fallback selectors and has no duration.
	second := records[1]
	if second.Airline != "제주항공" || second.PriceNumeric != 289000 {
		t.Errorf("second record: %+v", second)
	}
	if second.Duration != models.FieldUnknown {
		t.Errorf("missing duration should be the sentinel, got %q", second.Duration)
	}
}

func TestExtractAllCapsItemCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 40; i++ {
		b.WriteString(`<li class="flight-item"><span class="fare-price">300,000원</span></li>`)
	}
	b.WriteString("</body></html>")

	e := NewExtractor(testCrawlerConfig(), 5, utils.NewLogger())
	records := e.ExtractAll(e.ListItems(parseDoc(t, b.String())))
	if len(records) != 5 {
		t.Fatalf("got %d records, want cap of 5", len(records))
	}
}

// faultyItem fails every lookup, standing in for a detached DOM node.
type faultyItem struct{}

func (faultyItem) Text(string) (string, error) {
	return "", errors.New("node detached")
}

type stubItem struct {
	fields map[string]string
}

func (it stubItem) Text(selector string) (string, error) {
	return it.fields[selector], nil
}

func TestExtractAllSkipsFaultingItem(t *testing.T) {
	good := stubItem{fields: map[string]string{
		".airline-name": "진에어",
		".fare-price":   "198,000원",
		".depart-time":  "13:45",
		".duration":     "2시간 10분",
	}}

	items := []ResultItem{good, good, faultyItem{}, good, good}
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	records := e.ExtractAll(items)

	if len(records) != 4 {
		t.Fatalf("got %d records, want 4 (faulting item skipped, batch continues)", len(records))
	}
	for _, r := range records {
		if r.PriceNumeric != 198000 {
			t.Errorf("record price: got %d, want 198000", r.PriceNumeric)
		}
	}
}

func TestExtractOneUnpricedRecordDropped(t *testing.T) {
	item := stubItem{fields: map[string]string{
		".airline-name": "티웨이항공",
		".fare-price":   "정보없음",
	}}
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())

	record, err := e.ExtractOne(item, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Fatalf("unpriced record should be dropped, got %+v", record)
	}
}

func TestExtractOneAllFieldsMissing(t *testing.T) {
	e := NewExtractor(testCrawlerConfig(), 10, utils.NewLogger())
	record, err := e.ExtractOne(stubItem{fields: map[string]string{}}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record != nil {
		t.Fatalf("record with sentinel price should be dropped, got %+v", record)
	}
}
