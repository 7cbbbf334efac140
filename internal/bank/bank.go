package bank

// Column names of the result table, in output order.
const (
	ColumnName   = "Bank_name"
	ColumnCap    = "Market_cap"
	ColumnCapEUR = "MC_EUR_Billion"
	ColumnCapGBP = "MC_GBP_Billion"
	ColumnCapINR = "MC_INR_Billion"
)

// Currency codes the result table carries a derived column for.
const (
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyINR = "INR"
)

// RawColumns labels the two fields of a RawRow.
var RawColumns = []string{ColumnName, ColumnCap}

// Columns labels the fields of a Row, in output order.
var Columns = []string{ColumnName, ColumnCap, ColumnCapEUR, ColumnCapGBP, ColumnCapINR}

// TargetCurrencies lists the conversions performed for every row, in column order.
var TargetCurrencies = []string{CurrencyEUR, CurrencyGBP, CurrencyINR}

// RawRow is a bank as scraped from the source page.
// MarketCap keeps the page formatting, thousands separators included.
type RawRow struct {
	Name      string
	MarketCap string
}

// RawTable is the extractor output. Columns only labels the fields.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// Row is a RawRow with its market capitalization parsed and converted.
type Row struct {
	Name      string
	MarketCap float64
	CapEUR    float64
	CapGBP    float64
	CapINR    float64
}

// Table is the result table flowing from the transformer to the sinks.
// Rows keep extraction order and are not modified after transformation.
type Table struct {
	Rows []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
