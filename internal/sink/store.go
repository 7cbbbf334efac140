package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"largestbanks/internal/bank"
	"largestbanks/internal/config"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteIdentifier double-quotes name so both stores keep its case.
// Every statement touching the table must use it: postgres folds unquoted
// names to lower case.
func QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

// dialect captures the differences between the supported stores.
type dialect struct {
	driverName string
	textType   string
	floatType  string
	// placeholder returns the bind marker for the n-th (1-based) argument
	placeholder func(n int) string
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		driverName:  "sqlite",
		textType:    "TEXT",
		floatType:   "REAL",
		placeholder: func(int) string { return "?" },
	},
	config.DriverPostgres: {
		driverName:  "pgx",
		textType:    "TEXT",
		floatType:   "DOUBLE PRECISION",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	},
}

// Store is the relational sink. It holds a single connection for the whole run.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// OpenStore opens the relational store for driver (config.DriverSQLite or
// config.DriverPostgres) and checks it is reachable.
func OpenStore(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, bank.NewStoreError(fmt.Sprintf("unsupported driver %q", driver), nil)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, bank.NewStoreError("cannot open connection", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, bank.NewStoreError("cannot reach store", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// DB exposes the connection for read queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return bank.NewStoreError("cannot close connection", err)
	}
	return nil
}

// ReplaceTable drops the named table if present, recreates it with the
// result table schema and inserts every row in order. Everything happens
// in one transaction, so a failure leaves the previous contents in place.
// No key or index is created.
func (s *Store) ReplaceTable(ctx context.Context, name string, table *bank.Table) error {
	if !identifierPattern.MatchString(name) {
		return bank.NewStoreError(fmt.Sprintf("invalid table name %q", name), nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return bank.NewStoreError("cannot begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+QuoteIdentifier(name)); err != nil {
		return bank.NewStoreError(fmt.Sprintf("cannot drop table %s", name), err)
	}

	if _, err := tx.ExecContext(ctx, s.createStatement(name)); err != nil {
		return bank.NewStoreError(fmt.Sprintf("cannot create table %s", name), err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertStatement(name))
	if err != nil {
		return bank.NewStoreError(fmt.Sprintf("cannot prepare insert into %s", name), err)
	}
	defer stmt.Close()

	for i, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx, row.Name, row.MarketCap, row.CapEUR, row.CapGBP, row.CapINR); err != nil {
			return bank.NewStoreError(fmt.Sprintf("cannot insert row %d into %s", i, name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return bank.NewStoreError("cannot commit", err)
	}

	slog.Debug("table replaced", "table", name, "rows", table.Len())
	return nil
}

func (s *Store) createStatement(name string) string {
	columns := make([]string, len(bank.Columns))
	for i, c := range bank.Columns {
		typ := s.dialect.floatType
		if c == bank.ColumnName {
			typ = s.dialect.textType
		}
		columns[i] = QuoteIdentifier(c) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdentifier(name), strings.Join(columns, ", "))
}

func (s *Store) insertStatement(name string) string {
	columns := make([]string, len(bank.Columns))
	markers := make([]string, len(bank.Columns))
	for i, c := range bank.Columns {
		columns[i] = QuoteIdentifier(c)
		markers[i] = s.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", QuoteIdentifier(name), strings.Join(columns, ", "), strings.Join(markers, ", "))
}
