// scraper/registry_probe.go
package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/octarodriiguez/SistemaGestionIntegralTallerMecanico/config"
)

// The ENARGAS consulta-dominio page builds its results table with
// JavaScript after the form post, so a plain GET never sees the dates; the
// probe drives a real browser session instead.
const probeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// ProbeResult is the outcome of one registry lookup. An empty
// LastOperationDate with an empty Err means the registry simply has no
// record for the domain; a populated Err means the probe itself failed.
type ProbeResult struct {
	Domain            string `json:"domain"`
	LastOperationDate string `json:"lastOperationDate,omitempty"` // DD/MM/YYYY
	Err               string `json:"error,omitempty"`
}

// RegistryProbe performs single-domain lookups against the public registry.
// Each call opens an isolated browser session and tears it down before
// returning; retry policy, if any, belongs to the caller.
type RegistryProbe struct {
	URL      string
	Timeout  time.Duration
	Headless bool
}

func NewRegistryProbe(cfg config.ScraperConfig) *RegistryProbe {
	return &RegistryProbe{
		URL:      cfg.RegistryURL,
		Timeout:  cfg.ProbeTimeout,
		Headless: cfg.Headless,
	}
}

// NormalizeDomain uppercases a vehicle domain and strips all whitespace.
func NormalizeDomain(domain string) string {
	return strings.ToUpper(strings.Join(strings.Fields(domain), ""))
}

// CheckDomain looks up one vehicle domain on the registry and extracts the
// most recent operation date from the results page. Probe failures are
// reported in the result, never panicked or retried here.
func (p *RegistryProbe) CheckDomain(ctx context.Context, domain string) ProbeResult {
	normalized := NormalizeDomain(domain)
	result := ProbeResult{Domain: normalized}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", p.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(probeUserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, p.Timeout)
	defer cancelRun()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(p.URL),
		chromedp.WaitVisible("#dominio", chromedp.ByID),
		chromedp.SetValue("#dominio", normalized, chromedp.ByID),
		chromedp.Click("#consulta-op", chromedp.ByID),
		chromedp.Sleep(1200*time.Millisecond),
	)
	if err != nil {
		result.Err = err.Error()
		log.Printf("ERROR Scraper: dominio=%s error=%v", normalized, err)
		return result
	}

	// The results table loads asynchronously and never shows up at all for
	// unknown domains; give it a bounded wait and carry on without it.
	waitCtx, cancelWait := context.WithTimeout(runCtx, 10*time.Second)
	_ = chromedp.Run(waitCtx, chromedp.WaitReady("tbody tr", chromedp.ByQuery))
	cancelWait()

	var page pageSnapshot
	err = chromedp.Run(runCtx,
		chromedp.Sleep(700*time.Millisecond),
		chromedp.OuterHTML("html", &page.HTML, chromedp.ByQuery),
		chromedp.Text("body", &page.BodyText, chromedp.ByQuery),
	)
	if err != nil {
		result.Err = err.Error()
		log.Printf("ERROR Scraper: dominio=%s error=%v", normalized, err)
		return result
	}

	date, strategy := extractLastOperationDate(page)
	if date == "" {
		log.Printf("Scraper: dominio=%s fecha=NO_ENCONTRADA", normalized)
		return result
	}

	result.LastOperationDate = date
	log.Printf("Scraper: dominio=%s fecha=%s fuente=%s", normalized, date, strategy)
	return result
}
