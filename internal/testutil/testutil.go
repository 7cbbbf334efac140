package testutil

import (
	"context"

	"largestbanks/internal/fetcher"
)

// BanksPage mimics the archived page: a decorative table first, then the
// banks table with its own header row and three data rows.
const BanksPage = `<!DOCTYPE html>
<html>
<head><title>List of largest banks</title></head>
<body>
<table class="box-More_citations_needed"><tbody>
<tr><td>This article needs additional citations for verification.</td></tr>
</tbody></table>
<h2>By market capitalization</h2>
<table class="wikitable sortable"><tbody>
<tr><th>Rank</th><th>Bank name</th><th>Market cap<br/>(US$ billion)</th></tr>
<tr><td>1</td><td><span class="flagicon"><img alt="United States"/></span> <a href="/wiki/JPMorgan_Chase">JPMorgan Chase</a>
</td><td>432.92
</td></tr>
<tr><td>2</td><td><span class="flagicon"><img alt="United States"/></span> <a href="/wiki/Bank_of_America">Bank of America</a>
</td><td>231.52
</td></tr>
<tr><td>3</td><td><span class="flagicon"><img alt="China"/></span> <a href="/wiki/ICBC">Industrial and Commercial Bank of China</a>
</td><td>1,194.56
<sup>[a]</sup></td></tr>
</tbody></table>
<table><tbody><tr><td>navigation</td></tr></tbody></table>
</body>
</html>`

// RatesCSV is a complete exchange rate side file.
const RatesCSV = "Currency,Rate\nEUR,0.93\nGBP,0.8\nINR,82.95\n"

// MockPageFetcher is a mock implementation of the PageFetcher interface for testing
type MockPageFetcher struct {
	FetchFunc func(ctx context.Context) (string, error)
	URLFunc   func() string
	Calls     int
}

// Fetch implements the PageFetcher interface
func (m *MockPageFetcher) Fetch(ctx context.Context) (string, error) {
	m.Calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return "", nil
}

// URL implements the PageFetcher interface
func (m *MockPageFetcher) URL() string {
	if m.URLFunc != nil {
		return m.URLFunc()
	}
	return "mock://page"
}

// NewMockPageFetcher creates a simple mock fetcher with predefined values
func NewMockPageFetcher(body string, err error) fetcher.PageFetcher {
	return &MockPageFetcher{
		FetchFunc: func(ctx context.Context) (string, error) {
			return body, err
		},
	}
}
