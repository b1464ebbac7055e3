// scraper/extract.go
package scraper

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Dates on the registry's results page are day-first: DD/MM/YYYY.
var dateRegex = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

const registryDateLayout = "02/01/2006"

// pageSnapshot is what one probe run captured from the rendered page.
type pageSnapshot struct {
	HTML     string // full rendered document
	BodyText string // visible text of <body>
}

// The registry's markup is not contractually stable, so date extraction is
// an ordered list of strategies: the first one that yields any candidate
// wins. Strategy one reads the result-table cells; strategy two scans the
// whole visible page text.
type extractorStrategy struct {
	name    string
	extract func(page pageSnapshot) []string
}

var extractorStrategies = []extractorStrategy{
	{name: "celdas", extract: extractFromResultCells},
	{name: "fallback", extract: extractFromPageText},
}

func extractFromResultCells(page pageSnapshot) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		log.Printf("WARN Scraper: could not parse results page HTML: %v", err)
		return nil
	}
	var dates []string
	doc.Find("tbody tr td").Each(func(_ int, cell *goquery.Selection) {
		dates = append(dates, dateRegex.FindAllString(strings.TrimSpace(cell.Text()), -1)...)
	})
	return dates
}

func extractFromPageText(page pageSnapshot) []string {
	return dateRegex.FindAllString(page.BodyText, -1)
}

// extractLastOperationDate runs the strategies in order and returns the most
// recent date found by the first strategy with any match, plus the strategy
// name for the scraper log. Empty result means the registry has no record.
func extractLastOperationDate(page pageSnapshot) (date string, strategy string) {
	for _, s := range extractorStrategies {
		if best, ok := mostRecentDate(s.extract(page)); ok {
			return best, s.name
		}
	}
	return "", ""
}

// mostRecentDate picks the latest date by calendar order. The source format
// is day-first, so string comparison would sort wrongly; each candidate is
// parsed and compared as a time.Time.
func mostRecentDate(values []string) (string, bool) {
	var best time.Time
	bestRaw := ""
	for _, v := range values {
		t, err := time.Parse(registryDateLayout, v)
		if err != nil {
			continue
		}
		if bestRaw == "" || t.After(best) {
			best = t
			bestRaw = v
		}
	}
	return bestRaw, bestRaw != ""
}
