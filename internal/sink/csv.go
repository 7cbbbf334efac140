package sink

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

// WriteCSV writes table to path, replacing any existing file. The first
// field of every line is the zero-based row index; its header is empty.
func WriteCSV(table *bank.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := EncodeCSV(f, table); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// EncodeCSV writes table to w in the format of WriteCSV.
func EncodeCSV(w io.Writer, table *bank.Table) error {
	writer := csv.NewWriter(w)

	header := append([]string{""}, bank.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, row := range table.Rows {
		record := []string{
			strconv.Itoa(i),
			row.Name,
			FormatFloat(row.MarketCap),
			FormatFloat(row.CapEUR),
			FormatFloat(row.CapGBP),
			FormatFloat(row.CapINR),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatFloat renders v in its shortest form, keeping a trailing ".0" on
// whole numbers so the column reads back as floating point.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// ReadCSV reads a file written by WriteCSV back into a table.
func ReadCSV(path string) (*bank.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeCSV(f)
}

// DecodeCSV parses the format of WriteCSV. The index column is validated and dropped.
func DecodeCSV(r io.Reader) (*bank.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(bank.Columns) + 1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if strings.Join(header[1:], ",") != strings.Join(bank.Columns, ",") {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(header, ","))
	}

	table := &bank.Table{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if idx, err := strconv.Atoi(record[0]); err != nil || idx != len(table.Rows) {
			return nil, fmt.Errorf("row %d: unexpected index %q", len(table.Rows), record[0])
		}

		values := make([]float64, 4)
		for i := range values {
			values[i], err = strconv.ParseFloat(record[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %s: %w", len(table.Rows), bank.Columns[i+1], err)
			}
		}

		table.Rows = append(table.Rows, bank.Row{
			Name:      record[1],
			MarketCap: values[0],
			CapEUR:    values[1],
			CapGBP:    values[2],
			CapINR:    values[3],
		})
	}

	return table, nil
}
