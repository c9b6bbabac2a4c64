// Package browser owns the lifecycle of one headless browser instance. A
// Session maps to exactly one browser context and one tab; sessions are never
// reused across routes, so a crashed page cannot leak into a later search.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Nadaeji/ReadyToGo/utils"
)

// NavigationError reports a page that failed to load within the timeout or a
// failed network request. The pipeline recovers from it locally; it is never
// surfaced to the caller of GetPriceTrend.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("browser: navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// maskScript runs before every document in the session and hides the usual
// headless-automation giveaways. Fixed mitigation, not a caller toggle.
const maskScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['ko-KR', 'ko', 'en-US'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
window.chrome = window.chrome || { runtime: {} };
`

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures a Session at open time.
type Options struct {
	Headless          bool
	ChromeBin         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// Session is one live browser: allocator, context, single tab.
type Session struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
	logger      *utils.Logger
	closeOnce   sync.Once
}

// Open launches the browser and installs the mask script before any
// navigation can happen. On failure the partially built session is torn down
// before returning.
func Open(parent context.Context, opts Options, logger *utils.Logger) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)

	bin := opts.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	if bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		logger:      logger,
	}

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(maskScript).Do(ctx)
		return err
	}))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: open session: %w", err)
	}

	return s, nil
}

// Navigate loads the URL and waits the settle delay for client-side rendering.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.NavigationTimeout+s.opts.SettleDelay)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.opts.SettleDelay),
	)
	if err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

// ScrollToBottom performs up to `times` scroll-and-wait cycles to trigger
// lazy loading. Best effort: a failed cycle is logged and scrolling stops.
func (s *Session) ScrollToBottom(times int, delay time.Duration) {
	for i := 0; i < times; i++ {
		err := chromedp.Run(s.ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(delay),
		)
		if err != nil {
			s.logger.Debug("[browser] scroll cycle %d/%d failed: %v", i+1, times, err)
			return
		}
	}
}

// HTML captures the page's current outer HTML.
func (s *Session) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.NavigationTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("browser: capture html: %w", err)
	}
	return html, nil
}

// Close tears the session down. Idempotent and safe after a partial Open;
// teardown faults are logged and swallowed so they cannot mask a report that
// was already decided.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil {
			s.logger.Warn("[browser] teardown: %v", err)
		}
		s.cancelCtx()
		s.cancelAlloc()
	})
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
