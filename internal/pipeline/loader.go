// Package pipeline turns raw messages into transactions, period buckets,
// and the budget forecast report.
package pipeline

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"smsledger/internal/config"
	"smsledger/internal/extract"
	"smsledger/internal/model"
	"smsledger/internal/source"
)

// ErrNoMessages is returned when the input record set is entirely absent.
// Row-level problems (bad timestamps, missing amounts) never surface here.
var ErrNoMessages = errors.New("no messages in input")

// ErrInvalidMonth is returned when a forecast is requested for a month that
// cannot be resolved to a calendar period.
var ErrInvalidMonth = errors.New("target month cannot be resolved")

// ProgressFunc is called during extraction to report progress.
type ProgressFunc func(current, total int)

// Pipeline holds the configured extraction stages.
type Pipeline struct {
	Filter      *extract.Filter
	Extractor   *extract.Extractor
	Categorizer *extract.Categorizer

	// FallbackRatio is the average spending ratio assumed when no prior
	// months exist.
	FallbackRatio float64
}

// New builds a pipeline from configuration.
func New(cfg config.Config) *Pipeline {
	payees := make([]extract.Rule, 0, len(cfg.Rules.Payees))
	for _, r := range cfg.Rules.Payees {
		payees = append(payees, extract.Rule{Match: r.Match, Category: r.Category})
	}
	keywords := make([]extract.Rule, 0, len(cfg.Rules.Keywords))
	for _, r := range cfg.Rules.Keywords {
		keywords = append(keywords, extract.Rule{Match: r.Match, Category: r.Category})
	}

	return &Pipeline{
		Filter:        extract.NewFilter(cfg.Filter.Terms),
		Extractor:     extract.NewExtractor(cfg.Extract.CurrencyMarkers),
		Categorizer:   extract.NewCategorizer(payees, keywords),
		FallbackRatio: cfg.Forecast.FallbackRatio,
	}
}

// Transactions filters the message set and extracts one transaction per
// qualifying message. Extraction of independent messages runs on a bounded
// worker pool; results are written by index so output order matches input
// order. Returns ErrNoMessages when msgs is empty.
func (p *Pipeline) Transactions(msgs []source.RawMessage, progressFn ProgressFunc) ([]model.Transaction, error) {
	if len(msgs) == 0 {
		return nil, ErrNoMessages
	}

	candidates := p.Filter.Apply(msgs)
	if len(candidates) == 0 {
		return nil, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(candidates) {
		numWorkers = len(candidates)
	}

	work := make(chan int, len(candidates))
	results := make([]model.Transaction, len(candidates))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range candidates {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = p.extractOne(candidates[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(candidates))
				}
			}
		}()
	}

	wg.Wait()
	return results, nil
}

// extractOne resolves all transaction fields for a single message. The
// three body lookups are independent: one rule missing never blocks the
// others.
func (p *Pipeline) extractOne(m source.RawMessage) model.Transaction {
	tx := model.Transaction{
		Amount:      p.Extractor.Amount(m.Body),
		Direction:   p.Extractor.Direction(m.Body),
		Description: p.Extractor.Description(m.Body),
	}
	if !m.Timestamp.IsZero() {
		tx.Date = dateOf(m.Timestamp)
	}
	tx.Category = p.Categorizer.Categorize(m.Body, tx.Description)
	return tx
}

// dateOf truncates an instant to its UTC calendar date.
func dateOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
