package query

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"largestbanks/internal/bank"
	"largestbanks/internal/sink"
)

// Fixed returns the queries run against table after every load, in order.
// Identifiers are quoted the way sink.Store creates them.
func Fixed(table string) []string {
	t := sink.QuoteIdentifier(table)
	return []string{
		fmt.Sprintf("SELECT * FROM %s", t),
		fmt.Sprintf("SELECT AVG(%s) FROM %s", sink.QuoteIdentifier(bank.ColumnCapGBP), t),
		fmt.Sprintf("SELECT %s FROM %s LIMIT 5", sink.QuoteIdentifier(bank.ColumnName), t),
	}
}

// Result is the full result set of a query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Runner executes read queries and prints them with their results.
type Runner struct {
	db  *sql.DB
	out io.Writer
}

// NewRunner creates a Runner printing to out.
func NewRunner(db *sql.DB, out io.Writer) *Runner {
	return &Runner{db: db, out: out}
}

// Run prints q, executes it, prints the result set and returns it.
// The query text is printed even when execution fails.
func (r *Runner) Run(ctx context.Context, q string) (*Result, error) {
	if _, err := fmt.Fprintln(r.out, q); err != nil {
		return nil, fmt.Errorf("failed to print %q: %w", q, err)
	}

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, bank.NewQueryError(q, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, bank.NewQueryError(q, err)
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, bank.NewQueryError(q, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, bank.NewQueryError(q, err)
	}

	if err := r.print(result); err != nil {
		return nil, fmt.Errorf("failed to print result of %q: %w", q, err)
	}

	return result, nil
}

// print writes an aligned table led by a row index column.
func (r *Runner) print(result *Result) error {
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, c := range result.Columns {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprintln(tw, "\t")

	for i, row := range result.Rows {
		fmt.Fprint(tw, strconv.Itoa(i))
		for _, v := range row {
			fmt.Fprintf(tw, "\t%s", formatValue(v))
		}
		fmt.Fprintln(tw, "\t")
	}

	return tw.Flush()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case float64:
		return sink.FormatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}
