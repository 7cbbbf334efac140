package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largestbanks/internal/bank"
	"largestbanks/internal/config"
)

func openTestStore(t *testing.T, dsn string) *Store {
	t.Helper()
	store, err := OpenStore(context.Background(), config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func readRows(t *testing.T, store *Store, name string) []bank.Row {
	t.Helper()
	rows, err := store.DB().Query(`SELECT "Bank_name", "Market_cap", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion" FROM "` + name + `"`)
	require.NoError(t, err)
	defer rows.Close()

	var got []bank.Row
	for rows.Next() {
		var r bank.Row
		require.NoError(t, rows.Scan(&r.Name, &r.MarketCap, &r.CapEUR, &r.CapGBP, &r.CapINR))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	return got
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), "mysql", "dsn")
	require.Error(t, err)
	assert.True(t, bank.IsType(err, bank.ErrorTypeStore))
}

func TestOpenStore_Unreachable(t *testing.T) {
	_, err := OpenStore(context.Background(), config.DriverSQLite, filepath.Join(t.TempDir(), "missing", "db"))
	require.Error(t, err)
	assert.True(t, bank.IsType(err, bank.ErrorTypeStore))
}

func TestStore_ReplaceTable(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "Largest_banks"))
	ctx := context.Background()
	table := sampleTable()

	require.NoError(t, store.ReplaceTable(ctx, "Largest_banks", table))
	assert.Equal(t, table.Rows, readRows(t, store, "Largest_banks"))
}

func TestStore_ReplaceTable_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "Largest_banks")
	table := sampleTable()

	for run := 0; run < 2; run++ {
		store, err := OpenStore(context.Background(), config.DriverSQLite, dsn)
		require.NoError(t, err)
		require.NoError(t, store.ReplaceTable(context.Background(), "Largest_banks", table))
		require.NoError(t, store.Close())
	}

	store := openTestStore(t, dsn)
	assert.Equal(t, table.Rows, readRows(t, store, "Largest_banks"))
}

func TestStore_ReplaceTable_ReplacesSchema(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "db"))
	ctx := context.Background()

	_, err := store.DB().Exec(`CREATE TABLE "banks" ("legacy" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = store.DB().Exec(`INSERT INTO "banks" VALUES (1), (2), (3), (4)`)
	require.NoError(t, err)

	require.NoError(t, store.ReplaceTable(ctx, "banks", &bank.Table{Rows: sampleTable().Rows[:1]}))

	got := readRows(t, store, "banks")
	require.Len(t, got, 1)
	assert.Equal(t, "JPMorgan Chase", got[0].Name)
}

func TestStore_ReplaceTable_InvalidName(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "db"))

	err := store.ReplaceTable(context.Background(), `banks"; DROP TABLE x; --`, sampleTable())
	require.Error(t, err)
	assert.True(t, bank.IsType(err, bank.ErrorTypeStore))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"Largest_banks"`, QuoteIdentifier("Largest_banks"))
	assert.Equal(t, `"MC_GBP_Billion"`, QuoteIdentifier(bank.ColumnCapGBP))
}

func TestStatements(t *testing.T) {
	sqlite := &Store{dialect: dialects[config.DriverSQLite]}
	postgres := &Store{dialect: dialects[config.DriverPostgres]}

	assert.Equal(t,
		`CREATE TABLE "t" ("Bank_name" TEXT, "Market_cap" REAL, "MC_EUR_Billion" REAL, "MC_GBP_Billion" REAL, "MC_INR_Billion" REAL)`,
		sqlite.createStatement("t"))
	assert.Equal(t,
		`INSERT INTO "t" ("Bank_name", "Market_cap", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion") VALUES (?, ?, ?, ?, ?)`,
		sqlite.insertStatement("t"))
	assert.Equal(t,
		`CREATE TABLE "t" ("Bank_name" TEXT, "Market_cap" DOUBLE PRECISION, "MC_EUR_Billion" DOUBLE PRECISION, "MC_GBP_Billion" DOUBLE PRECISION, "MC_INR_Billion" DOUBLE PRECISION)`,
		postgres.createStatement("t"))
	assert.Equal(t,
		`INSERT INTO "t" ("Bank_name", "Market_cap", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion") VALUES ($1, $2, $3, $4, $5)`,
		postgres.insertStatement("t"))
}
