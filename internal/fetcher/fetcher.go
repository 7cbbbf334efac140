package fetcher

import "context"

// PageFetcher is the core interface for retrieving the source page.
// Implementations return the full textual body of a successful response.
type PageFetcher interface {
	// Fetch retrieves the page markup.
	// Returns an error if the page could not be retrieved or the status is not 2xx.
	Fetch(ctx context.Context) (string, error)

	// URL returns the address the fetcher retrieves.
	URL() string
}
