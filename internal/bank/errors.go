package bank

import (
	"errors"
	"fmt"
)

// ErrorType represents the pipeline stage an error belongs to
type ErrorType string

const (
	// ErrorTypeFetch indicates the source page could not be retrieved
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParseStructure indicates the page does not have the expected table layout
	ErrorTypeParseStructure ErrorType = "parse_structure"
	// ErrorTypeRateFile indicates the exchange rate file is missing or malformed
	ErrorTypeRateFile ErrorType = "rate_file"
	// ErrorTypeRateLookup indicates a currency has no exchange rate
	ErrorTypeRateLookup ErrorType = "rate_lookup"
	// ErrorTypeNumericParse indicates a market capitalization is not a number
	ErrorTypeNumericParse ErrorType = "numeric_parse"
	// ErrorTypeStore indicates a failure of the relational store
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeQuery indicates a query could not be executed
	ErrorTypeQuery ErrorType = "query"
)

// Error represents a structured error from one of the pipeline stages
type Error struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	var msg string
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	} else {
		msg = fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsType reports whether err is, or wraps, an *Error of type t
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// NewFetchError creates a fetch error
func NewFetchError(statusCode int, retryable bool, message string, cause error) *Error {
	return &Error{
		Type:       ErrorTypeFetch,
		Retryable:  retryable,
		StatusCode: statusCode,
		Message:    message,
		Cause:      cause,
	}
}

// NewParseStructureError creates an error for a page that deviates from the expected layout
func NewParseStructureError(format string, args ...any) *Error {
	return &Error{
		Type:    ErrorTypeParseStructure,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewRateFileError creates a rate file error
func NewRateFileError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeRateFile,
		Message: message,
		Cause:   cause,
	}
}

// NewRateLookupError creates an error for a currency without a rate
func NewRateLookupError(currency string) *Error {
	return &Error{
		Type:    ErrorTypeRateLookup,
		Message: fmt.Sprintf("no exchange rate for %s", currency),
	}
}

// NewNumericParseError creates an error for a value that is not a number
func NewNumericParseError(value string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeNumericParse,
		Message: fmt.Sprintf("cannot parse %q as a number", value),
		Cause:   cause,
	}
}

// NewStoreError creates a relational store error
func NewStoreError(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeStore,
		Message: message,
		Cause:   cause,
	}
}

// NewQueryError creates a query error
func NewQueryError(query string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeQuery,
		Message: fmt.Sprintf("query %q failed", query),
		Cause:   cause,
	}
}
