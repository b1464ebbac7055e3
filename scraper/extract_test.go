// scraper/extract_test.go
package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeDomain(" abc 123 "))
	assert.Equal(t, "AB123CD", NormalizeDomain("ab123cd"))
	assert.Equal(t, "ABC123", NormalizeDomain("ABC123"))
}

func TestMostRecentDatePicksCalendarOrder(t *testing.T) {
	// String order would pick "15/11/2025"; calendar order must not.
	date, ok := mostRecentDate([]string{"10/01/2026", "15/11/2025"})
	require.True(t, ok)
	assert.Equal(t, "10/01/2026", date)
}

func TestMostRecentDateSkipsUnparseable(t *testing.T) {
	date, ok := mostRecentDate([]string{"99/99/9999", "05/06/2024"})
	require.True(t, ok)
	assert.Equal(t, "05/06/2024", date)

	_, ok = mostRecentDate(nil)
	assert.False(t, ok)

	_, ok = mostRecentDate([]string{"not a date"})
	assert.False(t, ok)
}

func TestExtractFromResultCells(t *testing.T) {
	page := pageSnapshot{HTML: `
		<html><body>
		<table><tbody>
			<tr><td>OBLEA</td><td> 15/11/2025 </td></tr>
			<tr><td>PRUEBA</td><td>10/01/2026</td></tr>
		</tbody></table>
		</body></html>`}

	dates := extractFromResultCells(page)
	assert.ElementsMatch(t, []string{"15/11/2025", "10/01/2026"}, dates)
}

func TestExtractFallsBackToPageText(t *testing.T) {
	// No table cells at all: the second strategy must still find the date.
	page := pageSnapshot{
		HTML:     `<html><body><div>Ultima operacion registrada: 03/07/2025</div></body></html>`,
		BodyText: "Ultima operacion registrada: 03/07/2025",
	}

	date, strategy := extractLastOperationDate(page)
	assert.Equal(t, "03/07/2025", date)
	assert.Equal(t, "fallback", strategy)
}

func TestExtractPrefersTableCells(t *testing.T) {
	page := pageSnapshot{
		HTML: `<html><body>
			<p>Consultado el 01/01/2020</p>
			<table><tbody><tr><td>10/01/2026</td></tr></tbody></table>
		</body></html>`,
		BodyText: "Consultado el 01/01/2020 10/01/2026",
	}

	date, strategy := extractLastOperationDate(page)
	assert.Equal(t, "10/01/2026", date)
	assert.Equal(t, "celdas", strategy)
}

func TestExtractNoDatesAnywhere(t *testing.T) {
	page := pageSnapshot{
		HTML:     `<html><body><p>Sin resultados para el dominio.</p></body></html>`,
		BodyText: "Sin resultados para el dominio.",
	}

	date, _ := extractLastOperationDate(page)
	assert.Empty(t, date)
}
