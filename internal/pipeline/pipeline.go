// Package pipeline runs the extract, transform and load stages in order and
// records every completed stage in the progress log.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"largestbanks/internal/bank"
	"largestbanks/internal/config"
	"largestbanks/internal/extract"
	"largestbanks/internal/fetcher"
	"largestbanks/internal/progress"
	"largestbanks/internal/query"
	"largestbanks/internal/rates"
	"largestbanks/internal/sink"
	"largestbanks/internal/transform"
)

// Progress messages, in the order a successful run writes them.
const (
	MsgStart       = "Preliminaries complete. Initiating ETL process"
	MsgExtracted   = "Data extraction complete. Initiating Transformation process"
	MsgTransformed = "Data transformation complete. Initiating Loading process"
	MsgSavedCSV    = "Data saved to CSV file"
	MsgConnected   = "SQL Connection initiated"
	MsgLoadedDB    = "Data loaded to Database as a table, Executing queries"
	MsgComplete    = "Process Complete"
	MsgClosed      = "Server Connection closed"
)

// Messages lists the progress messages of a successful run.
var Messages = []string{
	MsgStart,
	MsgExtracted,
	MsgTransformed,
	MsgSavedCSV,
	MsgConnected,
	MsgLoadedDB,
	MsgComplete,
	MsgClosed,
}

// Pipeline holds the collaborators of one ETL run
type Pipeline struct {
	cfg       *config.Config
	page      fetcher.PageFetcher
	extractor *extract.Extractor
	progress  *progress.Logger
	out       io.Writer
}

// New creates a Pipeline reading the page through page and printing query
// results to out
func New(cfg *config.Config, page fetcher.PageFetcher, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		page:      page,
		extractor: extract.New(extract.DefaultLayout),
		progress:  progress.New(cfg.LogPath),
		out:       out,
	}
}

// Run executes every stage once. The first failure aborts the run and the
// progress log ends with the last completed stage.
func (p *Pipeline) Run(ctx context.Context) (*bank.Table, error) {
	if err := p.progress.Log(MsgStart); err != nil {
		return nil, err
	}

	markup, err := p.page.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", p.page.URL(), err)
	}

	raw, err := p.extractor.Extract(markup, bank.RawColumns)
	if err != nil {
		return nil, fmt.Errorf("extracting banks: %w", err)
	}
	slog.Debug("banks extracted", "rows", len(raw.Rows))

	if err := p.progress.Log(MsgExtracted); err != nil {
		return nil, err
	}

	rateMap, err := rates.Load(p.cfg.RatesPath, bank.TargetCurrencies...)
	if err != nil {
		return nil, fmt.Errorf("loading exchange rates: %w", err)
	}

	table, err := transform.Transform(raw, rateMap)
	if err != nil {
		return nil, fmt.Errorf("transforming banks: %w", err)
	}

	if err := p.progress.Log(MsgTransformed); err != nil {
		return nil, err
	}

	if err := sink.WriteCSV(table, p.cfg.OutputCSVPath); err != nil {
		return nil, err
	}

	if err := p.progress.Log(MsgSavedCSV); err != nil {
		return nil, err
	}

	if err := p.load(ctx, table); err != nil {
		return nil, err
	}

	return table, nil
}

// load writes table to the relational store and runs the fixed queries.
// The connection is closed on every path; only a clean close is logged.
func (p *Pipeline) load(ctx context.Context, table *bank.Table) error {
	store, err := sink.OpenStore(ctx, p.cfg.DBDriver, p.cfg.DBDSN)
	if err != nil {
		return err
	}

	closed := false
	defer func() {
		if !closed {
			store.Close()
		}
	}()

	if err := p.progress.Log(MsgConnected); err != nil {
		return err
	}

	if err := store.ReplaceTable(ctx, p.cfg.TableName, table); err != nil {
		return err
	}

	if err := p.progress.Log(MsgLoadedDB); err != nil {
		return err
	}

	runner := query.NewRunner(store.DB(), p.out)
	for _, q := range query.Fixed(p.cfg.TableName) {
		if _, err := runner.Run(ctx, q); err != nil {
			return err
		}
	}

	if err := p.progress.Log(MsgComplete); err != nil {
		return err
	}

	closed = true
	if err := store.Close(); err != nil {
		return err
	}

	return p.progress.Log(MsgClosed)
}
