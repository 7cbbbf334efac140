package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largestbanks/internal/bank"
	"largestbanks/internal/rates"
)

var referenceRates = rates.Map{"EUR": 0.93, "GBP": 0.8, "INR": 82.95}

func TestParseMarketCap(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,234.5", 1234.5},
		{"432.92", 432.92},
		{"1,194.56", 1194.56},
		{"12,345,678", 12345678},
		{"100", 100},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMarketCap(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMarketCap_Invalid(t *testing.T) {
	for _, in := range []string{"", "n/a", "1.2.3", "12[a]"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseMarketCap(in)
			require.Error(t, err)
			assert.True(t, bank.IsType(err, bank.ErrorTypeNumericParse))
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		rate  float64
		want  float64
	}{
		{"EUR reference", 100, 0.93, 93},
		{"GBP reference", 100, 0.8, 80},
		{"INR reference", 100, 82.95, 8295},
		{"JPMorgan EUR", 432.92, 0.93, 402.62},
		{"JPMorgan INR", 432.92, 82.95, 35910.71},
		{"tie rounds down to even", 0.25, 0.5, 0.12},
		{"tie rounds up to even", 0.27, 0.5, 0.14},
		{"negative tie", -0.25, 0.5, -0.12},
		{"above tie", 0.2502, 0.5, 0.13},
		{"float product just above tie", 2.5, 0.93, 2.33},
		{"float product just above tie again", 4.5, 0.93, 4.19},
		{"larger float near tie", 20.5, 0.93, 19.07},
		{"whole part near tie", 78.5, 0.93, 73.01},
		{"exact float tie", 1234.5, 0.93, 1148.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.value, tt.rate))
		})
	}
}

func TestConvert_MatchesScaledFloatRounding(t *testing.T) {
	for _, rate := range []float64{0.93, 0.8, 82.95} {
		for cents := 1; cents < 20000; cents++ {
			value := float64(cents) / 100
			want := math.RoundToEven(value*rate*100) / 100
			if got := Convert(value, rate); got != want {
				t.Fatalf("Convert(%v, %v) = %v, want %v", value, rate, got, want)
			}
		}
	}
}

func TestTransform(t *testing.T) {
	raw := &bank.RawTable{
		Columns: bank.RawColumns,
		Rows: []bank.RawRow{
			{Name: "Bank A", MarketCap: "100"},
			{Name: "Bank B", MarketCap: "1,234.5"},
		},
	}

	table, err := Transform(raw, referenceRates)
	require.NoError(t, err)

	assert.Equal(t, []bank.Row{
		{Name: "Bank A", MarketCap: 100, CapEUR: 93, CapGBP: 80, CapINR: 8295},
		{Name: "Bank B", MarketCap: 1234.5, CapEUR: 1148.08, CapGBP: 987.6, CapINR: 102401.78},
	}, table.Rows)
}

func TestTransform_Empty(t *testing.T) {
	table, err := Transform(&bank.RawTable{}, referenceRates)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestTransform_MissingRate(t *testing.T) {
	raw := &bank.RawTable{Rows: []bank.RawRow{{Name: "Bank A", MarketCap: "100"}}}

	_, err := Transform(raw, rates.Map{"EUR": 0.93, "GBP": 0.8})
	require.Error(t, err)
	assert.True(t, bank.IsType(err, bank.ErrorTypeRateLookup))
	assert.Contains(t, err.Error(), "INR")
}

func TestTransform_NonNumeric(t *testing.T) {
	raw := &bank.RawTable{Rows: []bank.RawRow{
		{Name: "Bank A", MarketCap: "100"},
		{Name: "Bank B", MarketCap: "unknown"},
	}}

	_, err := Transform(raw, referenceRates)
	require.Error(t, err)
	assert.True(t, bank.IsType(err, bank.ErrorTypeNumericParse))
	assert.Contains(t, err.Error(), `"unknown"`)
}
