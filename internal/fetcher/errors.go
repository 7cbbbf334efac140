package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"

	"largestbanks/internal/bank"
)

// NewNetworkError creates a network error
func NewNetworkError(cause error) *bank.Error {
	return bank.NewFetchError(0, true, "network request failed", cause)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *bank.Error {
	return bank.NewFetchError(0, true, "request timed out", cause)
}

// ClassifyTransportError classifies an error returned before any response was received
func ClassifyTransportError(err error) *bank.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate fetch error
func ClassifyHTTPError(statusCode int) *bank.Error {
	switch {
	case statusCode == 429:
		return bank.NewFetchError(statusCode, true, "rate limit exceeded", nil)
	case statusCode >= 500:
		return bank.NewFetchError(statusCode, true, "server returned an error", nil)
	case statusCode >= 400:
		return bank.NewFetchError(statusCode, false, fmt.Sprintf("client error: HTTP %d", statusCode), nil)
	default:
		return bank.NewFetchError(statusCode, false, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	}
}
