package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nadaeji/ReadyToGo/config"
	"github.com/Nadaeji/ReadyToGo/models"
	"github.com/Nadaeji/ReadyToGo/pipeline"
	"github.com/Nadaeji/ReadyToGo/storage"
	"github.com/Nadaeji/ReadyToGo/utils"
)

func main() {
	origin := flag.String("origin", "ICN", "origin airport code")
	destination := flag.String("destination", "NRT", "destination airport code")
	date := flag.String("date", "", "departure date (YYYYMMDD or YYYY-MM-DD, default +30 days)")
	routesFlag := flag.String("routes", "", "watch-list mode: comma-separated ORG-DST pairs, e.g. ICN-NRT,ICN-SIN")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	crawlerCfg, err := config.LoadCrawlerConfig(cfg.CrawlerConfPath)
	if err != nil {
		logger.Error("Failed to load crawler config: %v", err)
		os.Exit(1)
	}

	departDate, err := parseDate(*date)
	if err != nil {
		logger.Error("Invalid -date value %q: %v", *date, err)
		os.Exit(1)
	}

	routes := buildRoutes(*origin, *destination, *routesFlag, departDate, logger)
	if len(routes) == 0 {
		logger.Error("No routes to crawl")
		os.Exit(1)
	}

	logger.Info("=== ReadyToGo flight price pipeline starting ===")
	logger.Info("Config — routes: %d | concurrency: %d | rate: %dms | max items: %d",
		len(routes), cfg.MaxConcurrency, cfg.RateLimitMs, cfg.MaxItems)

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Warn("PostgreSQL unavailable, history will not be stored: %v", err)
		pgWriter = nil
	} else {
		defer pgWriter.Close()
	}

	p := pipeline.New(cfg, crawlerCfg, logger)
	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs)

	var (
		mu      sync.Mutex
		reports []*models.PriceTrendReport
	)

	for _, route := range routes {
		r := route
		pool.Submit(func() {
			report := p.GetPriceTrend(r.Origin, r.Destination, r.Date)

			if err := csvWriter.WriteRecords(report.Route, report.Flights); err != nil {
				logger.Warn("CSV write for %s failed: %v", report.Route, err)
			}
			if pgWriter != nil {
				err := utils.Retry("store-report", cfg.MaxRetries, 2*time.Second, logger, func() error {
					return pgWriter.Write(report)
				})
				if err != nil {
					logger.Warn("History write for %s failed: %v", report.Route, err)
				}
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		})
	}
	pool.Wait()

	printSummary(reports)
}

// parseDate accepts YYYYMMDD or YYYY-MM-DD; empty means "let the pipeline
// default it".
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("20060102", strings.ReplaceAll(s, "-", ""))
}

// buildRoutes turns the CLI flags into a deduplicated route list. The
// -routes watch list wins over the single origin/destination pair.
func buildRoutes(origin, destination, routesFlag string, date time.Time, logger *utils.Logger) []models.Route {
	seen := utils.NewRouteSet()
	var routes []models.Route

	add := func(org, dst string) {
		org = strings.ToUpper(strings.TrimSpace(org))
		dst = strings.ToUpper(strings.TrimSpace(dst))
		if org == "" || dst == "" {
			return
		}
		if !seen.Add(org + "-" + dst) {
			logger.Debug("Skipping duplicate route %s-%s", org, dst)
			return
		}
		routes = append(routes, models.Route{Origin: org, Destination: dst, Date: date})
	}

	if routesFlag == "" {
		add(origin, destination)
		return routes
	}

	for _, pair := range strings.Split(routesFlag, ",") {
		parts := strings.Split(strings.TrimSpace(pair), "-")
		if len(parts) != 2 {
			logger.Warn("Ignoring malformed route %q (want ORG-DST)", pair)
			continue
		}
		add(parts[0], parts[1])
	}
	return routes
}

func printSummary(reports []*models.PriceTrendReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ✈  FLIGHT PRICE TREND REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	for _, r := range reports {
		fmt.Printf("\033[1;33m  %s\033[0m\n", r.Route)
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Source        : %s\n", r.DataSource)
		fmt.Printf("  Current (min) : \033[1;32m%s\033[0m\n", r.CurrentPriceText)
		fmt.Printf("  Range         : %d ~ %d (avg %d)\n",
			r.PriceRange.Min, r.PriceRange.Max, r.PriceRange.Average)
		fmt.Printf("  Trend         : %s | flights: %d\n", r.Trend, r.FlightCount)
		for _, f := range r.Flights {
			fmt.Printf("    %d. %-20s %-12s %s (%s)\n",
				f.Index, f.Airline, f.PriceText, f.DepartureTime, f.Duration)
		}
		fmt.Println()
	}

	if len(reports) > 1 {
		ranked := make([]*models.PriceTrendReport, len(reports))
		copy(ranked, reports)
		sort.Slice(ranked, func(i, j int) bool {
			return ranked[i].CurrentPrice < ranked[j].CurrentPrice
		})

		fmt.Printf("\033[1;33m  Cheapest Destinations\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for i, r := range ranked {
			fmt.Printf("  \033[1m%d.\033[0m %s → %s  \033[1;32m%s~\033[0m\n",
				i+1, r.Route.Origin, r.Route.Destination, r.CurrentPriceText)
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}
