package transform

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"largestbanks/internal/bank"
	"largestbanks/internal/rates"
)

// Places is the number of decimal places derived currency values are rounded to.
const Places = 2

// ParseMarketCap parses a scraped market capitalization such as "1,234.5".
func ParseMarketCap(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, bank.NewNumericParseError(s, err)
	}
	return v, nil
}

// Convert multiplies value by rate and rounds the float64 product half to
// even at Places decimals. The product is scaled by 10^Places in float64
// before rounding, so near-ties resolve the way numpy's round does.
func Convert(value, rate float64) float64 {
	scaled := value * rate * math.Pow10(Places)
	return decimal.NewFromFloat(scaled).
		RoundBank(0).
		Shift(-Places).
		InexactFloat64()
}

// Transform parses every raw row and derives one value per bank.TargetCurrencies.
// Rows keep their input order. Any unparsable value or missing rate aborts.
func Transform(raw *bank.RawTable, m rates.Map) (*bank.Table, error) {
	multipliers := make(map[string]float64, len(bank.TargetCurrencies))
	for _, code := range bank.TargetCurrencies {
		rate, err := m.Rate(code)
		if err != nil {
			return nil, err
		}
		multipliers[code] = rate
	}

	table := &bank.Table{Rows: make([]bank.Row, 0, len(raw.Rows))}
	for _, r := range raw.Rows {
		capital, err := ParseMarketCap(r.MarketCap)
		if err != nil {
			return nil, err
		}

		table.Rows = append(table.Rows, bank.Row{
			Name:      r.Name,
			MarketCap: capital,
			CapEUR:    Convert(capital, multipliers[bank.CurrencyEUR]),
			CapGBP:    Convert(capital, multipliers[bank.CurrencyGBP]),
			CapINR:    Convert(capital, multipliers[bank.CurrencyINR]),
		})
	}

	return table, nil
}
