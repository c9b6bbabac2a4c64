package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FareBand is the realistic fare window for one destination, used by the
// synthetic generator. Hours is the typical one-way flight time.
type FareBand struct {
	Min   int `yaml:"min"`
	Max   int `yaml:"max"`
	Hours int `yaml:"hours"`
}

// CrawlerConfig is the shape-dependent part of the crawler: where to search,
// which selectors locate results and fields, and what the synthetic generator
// draws from. It is passed explicitly into the extractor and the generator so
// tests can swap selector lists without touching global state.
type CrawlerConfig struct {
	BaseURL string `yaml:"base_url"`

	ItemSelectors      []string `yaml:"item_selectors"`
	AirlineSelectors   []string `yaml:"airline_selectors"`
	PriceSelectors     []string `yaml:"price_selectors"`
	DepartureSelectors []string `yaml:"departure_selectors"`
	DurationSelectors  []string `yaml:"duration_selectors"`

	Airlines    []string            `yaml:"airlines"`
	FareBands   map[string]FareBand `yaml:"fare_bands"`
	DefaultBand FareBand            `yaml:"default_band"`
}

// DefaultCrawlerConfig returns the compiled-in selector lists and fare tables
// matching the target site's current markup.
func DefaultCrawlerConfig() *CrawlerConfig {
	return &CrawlerConfig{
		BaseURL: "https://flight.naver.com/flights/international",

		ItemSelectors: []string{
			".indivisual_IndivisualItem__CVm69.indivisual_with_labels__vj6Hn",
			"[class*='indivisual_IndivisualItem']",
			"[class*='international_Result'] li",
		},
		AirlineSelectors: []string{
			"[class*='airline_name']",
			"[class*='airline']",
			"[class*='carrier']",
			"[class*='company']",
		},
		PriceSelectors: []string{
			"[class*='item_num']",
			"[class*='price']",
			"[class*='fare']",
			"[class*='amount']",
		},
		DepartureSelectors: []string{
			"[class*='route_time']",
			"[class*='depart']",
			"[class*='time']",
			"[class*='schedule']",
		},
		DurationSelectors: []string{
			"[class*='route_info']",
			"[class*='duration']",
			"[class*='elapsed']",
		},

		Airlines: []string{
			"대한항공", "아시아나항공", "제주항공", "진에어",
			"티웨이항공", "에어부산", "에어서울", "에어프레미아",
		},

		FareBands: map[string]FareBand{
			"NRT": {Min: 150000, Max: 450000, Hours: 2},
			"HND": {Min: 180000, Max: 500000, Hours: 2},
			"KIX": {Min: 120000, Max: 380000, Hours: 2},
			"NGO": {Min: 140000, Max: 400000, Hours: 2},
			"PEK": {Min: 150000, Max: 500000, Hours: 2},
			"PVG": {Min: 130000, Max: 450000, Hours: 2},
			"CAN": {Min: 180000, Max: 550000, Hours: 3},
			"SIN": {Min: 250000, Max: 700000, Hours: 6},
			"BKK": {Min: 200000, Max: 600000, Hours: 6},
			"SYD": {Min: 600000, Max: 1500000, Hours: 10},
			"MEL": {Min: 650000, Max: 1600000, Hours: 10},
			"BNE": {Min: 600000, Max: 1500000, Hours: 9},
			"LHR": {Min: 700000, Max: 1800000, Hours: 12},
			"LGW": {Min: 700000, Max: 1700000, Hours: 12},
			"CDG": {Min: 700000, Max: 1700000, Hours: 12},
			"FRA": {Min: 650000, Max: 1600000, Hours: 11},
			"MUC": {Min: 650000, Max: 1600000, Hours: 11},
			"FCO": {Min: 600000, Max: 1500000, Hours: 12},
			"MXP": {Min: 650000, Max: 1550000, Hours: 12},
			"VIE": {Min: 650000, Max: 1600000, Hours: 11},
			"JFK": {Min: 800000, Max: 2000000, Hours: 14},
			"LAX": {Min: 700000, Max: 1900000, Hours: 11},
			"SFO": {Min: 700000, Max: 1800000, Hours: 11},
			"ORD": {Min: 750000, Max: 1900000, Hours: 13},
			"YVR": {Min: 700000, Max: 1700000, Hours: 10},
			"YYZ": {Min: 800000, Max: 1900000, Hours: 13},
			"AKL": {Min: 700000, Max: 1700000, Hours: 11},
			"CHC": {Min: 750000, Max: 1800000, Hours: 12},
		},
		DefaultBand: FareBand{Min: 300000, Max: 1200000, Hours: 8},
	}
}

// LoadCrawlerConfig starts from the compiled-in defaults and overlays the
// YAML file at path on top. An empty path returns the defaults unchanged.
func LoadCrawlerConfig(path string) (*CrawlerConfig, error) {
	cfg := DefaultCrawlerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("crawler config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("crawler config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// Band returns the fare band for a destination airport code, falling back to
// the generic band for destinations outside the table.
func (c *CrawlerConfig) Band(destination string) FareBand {
	if band, ok := c.FareBands[strings.ToUpper(strings.TrimSpace(destination))]; ok {
		return band
	}
	return c.DefaultBand
}
