package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largestbanks/internal/bank"
)

func sampleTable() *bank.Table {
	return &bank.Table{Rows: []bank.Row{
		{Name: "JPMorgan Chase", MarketCap: 432.92, CapEUR: 402.62, CapGBP: 346.34, CapINR: 35910.71},
		{Name: "Bank A", MarketCap: 100, CapEUR: 93, CapGBP: 80, CapINR: 8295},
		{Name: "Bank, with comma", MarketCap: 1194.56, CapEUR: 1110.94, CapGBP: 955.65, CapINR: 99088.75},
	}}
}

func TestEncodeCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, EncodeCSV(&sb, sampleTable()))

	want := `,Bank_name,Market_cap,MC_EUR_Billion,MC_GBP_Billion,MC_INR_Billion
0,JPMorgan Chase,432.92,402.62,346.34,35910.71
1,Bank A,100.0,93.0,80.0,8295.0
2,"Bank, with comma",1194.56,1110.94,955.65,99088.75
`
	assert.Equal(t, want, sb.String())
}

func TestEncodeCSV_Empty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, EncodeCSV(&sb, &bank.Table{}))
	assert.Equal(t, ",Bank_name,Market_cap,MC_EUR_Billion,MC_GBP_Billion,MC_INR_Billion\n", sb.String())
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.csv")
	table := sampleTable()

	require.NoError(t, WriteCSV(table, path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, got.Rows)
}

func TestWriteCSV_HonoursPathAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom_output.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than nothing\n"), 0o600))

	require.NoError(t, WriteCSV(&bank.Table{Rows: sampleTable().Rows[:1]}, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "\n"))
	assert.NoFileExists(t, filepath.Join(dir, "banks.csv"))
}

func TestWriteCSV_BadPath(t *testing.T) {
	err := WriteCSV(sampleTable(), filepath.Join(t.TempDir(), "missing", "banks.csv"))
	require.Error(t, err)
}

func TestDecodeCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"wrong header", ",Name,Cap,A,B,C\n"},
		{"bad index", ",Bank_name,Market_cap,MC_EUR_Billion,MC_GBP_Billion,MC_INR_Billion\n5,A,1.0,1.0,1.0,1.0\n"},
		{"bad number", ",Bank_name,Market_cap,MC_EUR_Billion,MC_GBP_Billion,MC_INR_Billion\n0,A,x,1.0,1.0,1.0\n"},
		{"short row", ",Bank_name,Market_cap,MC_EUR_Billion,MC_GBP_Billion,MC_INR_Billion\n0,A,1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCSV(strings.NewReader(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		93:       "93.0",
		8295:     "8295.0",
		1234.5:   "1234.5",
		0.12:     "0.12",
		-3:       "-3.0",
		35910.71: "35910.71",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}
