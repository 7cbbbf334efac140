// Package extract turns the source page markup into raw bank rows.
//
// Extraction is positional: the page is expected to hold the banks table
// as the second tbody element, with one header row followed by data rows
// whose second and third cells carry the bank name and its market
// capitalization. Layout makes those positions explicit and every
// deviation is reported as a parse structure error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"largestbanks/internal/bank"
)

// Layout declares where the banks table lives in the page.
type Layout struct {
	// TableIndex is the zero-based index of the tbody holding the data.
	TableIndex int
	// HeaderRows is the number of leading rows skipped inside that tbody.
	HeaderRows int
	// NameCell and CapCell are zero-based td indices within a data row.
	NameCell int
	CapCell  int
}

// DefaultLayout matches the archived "List of largest banks" page.
var DefaultLayout = Layout{
	TableIndex: 1,
	HeaderRows: 1,
	NameCell:   1,
	CapCell:    2,
}

// Extractor parses page markup using a fixed Layout.
type Extractor struct {
	layout Layout
}

// New creates an Extractor for the given layout.
func New(layout Layout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract parses markup and returns one RawRow per data row, in document order.
// columns labels the output; nil selects bank.RawColumns.
func (e *Extractor) Extract(markup string, columns []string) (*bank.RawTable, error) {
	if columns == nil {
		columns = bank.RawColumns
	}
	if len(columns) != 2 {
		return nil, bank.NewParseStructureError("expected 2 column labels, got %d", len(columns))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, bank.NewParseStructureError("cannot parse markup: %v", err)
	}

	bodies := doc.Find("tbody")
	if bodies.Length() <= e.layout.TableIndex {
		return nil, bank.NewParseStructureError("expected at least %d tables, found %d", e.layout.TableIndex+1, bodies.Length())
	}

	rows := bodies.Eq(e.layout.TableIndex).Find("tr")
	if rows.Length() <= e.layout.HeaderRows {
		return nil, bank.NewParseStructureError("table %d has no data rows", e.layout.TableIndex)
	}

	minCells := max(e.layout.NameCell, e.layout.CapCell) + 1
	table := &bank.RawTable{Columns: columns}

	var structErr error
	rows.Slice(e.layout.HeaderRows, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < minCells {
			structErr = bank.NewParseStructureError("row %d has %d cells, expected at least %d", i, cells.Length(), minCells)
			return false
		}

		raw := bank.RawRow{
			Name:      cellText(cells.Eq(e.layout.NameCell)),
			MarketCap: cellText(cells.Eq(e.layout.CapCell)),
		}
		if raw.Name == "" || raw.MarketCap == "" {
			structErr = bank.NewParseStructureError("row %d has an empty %s or %s", i, columns[0], columns[1])
			return false
		}

		table.Rows = append(table.Rows, raw)
		return true
	})
	if structErr != nil {
		return nil, structErr
	}

	return table, nil
}

// cellText returns the first line of a cell's text content.
// Footnote markers and secondary lines follow an embedded newline.
func cellText(cell *goquery.Selection) string {
	text, _, _ := strings.Cut(cell.Text(), "\n")
	return strings.TrimSpace(text)
}
