package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"largestbanks/internal/bank"
)

const (
	currencyHeader = "currency"
	rateHeader     = "rate"
)

// Map holds the exchange rate of every currency code, relative to the
// unit of the scraped market capitalization.
type Map map[string]float64

// Rate returns the multiplier for code or a rate lookup error.
func (m Map) Rate(code string) (float64, error) {
	rate, ok := m[code]
	if !ok {
		return 0, bank.NewRateLookupError(code)
	}
	return rate, nil
}

// Load reads the rate side file at path and checks it holds every currency in required.
func Load(path string, required ...string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bank.NewRateFileError(fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, code := range required {
		if _, ok := m[code]; !ok {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return nil, bank.NewRateFileError(fmt.Sprintf("%s has no rate for %s", path, strings.Join(missing, ", ")), nil)
	}

	return m, nil
}

// Parse reads a two-column CSV with a Currency and a Rate header field.
func Parse(r io.Reader) (Map, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, bank.NewRateFileError("cannot read header", err)
	}

	currencyCol, rateCol := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case currencyHeader:
			currencyCol = i
		case rateHeader:
			rateCol = i
		}
	}
	if currencyCol < 0 || rateCol < 0 {
		return nil, bank.NewRateFileError(fmt.Sprintf("header %q lacks Currency and Rate fields", strings.Join(headers, ",")), nil)
	}

	m := make(Map)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, bank.NewRateFileError(fmt.Sprintf("line %d", line), err)
		}

		code := strings.TrimSpace(record[currencyCol])
		if code == "" {
			return nil, bank.NewRateFileError(fmt.Sprintf("line %d: empty currency code", line), nil)
		}
		if _, dup := m[code]; dup {
			return nil, bank.NewRateFileError(fmt.Sprintf("line %d: duplicate currency %s", line, code), nil)
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(record[rateCol]), 64)
		if err != nil {
			return nil, bank.NewRateFileError(fmt.Sprintf("line %d: invalid rate for %s", line, code), err)
		}
		if rate <= 0 {
			return nil, bank.NewRateFileError(fmt.Sprintf("line %d: rate for %s must be positive", line, code), nil)
		}

		m[code] = rate
	}

	return m, nil
}
