package colfmt

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RowResult is the outcome of reformatting one input row. Row is 1 based.
type RowResult struct {
	Row    int
	Input  string
	Output string
	Err    error
}

func (r RowResult) OK() bool {
	return r.Err == nil
}

// BatchOptions tunes ReformatAll.
type BatchOptions struct {
	// Workers bounds concurrent rows. Values < 1 process rows sequentially.
	Workers int
	// Logger receives one warning per failed row. Nil disables logging.
	Logger *zerolog.Logger
}

// Reformatter is the part of Engine used by the batch runner.
type Reformatter interface {
	Reformat(value string, spec *FormatSpec) (string, error)
}

// ReformatAll reformats every row against spec. The result slice has one entry
// per row in input order. Row failures are recorded in the result and logged;
// they never stop the batch. Cancelling ctx stops scheduling new rows and marks
// the rows that were not processed with the context error.
func ReformatAll(ctx context.Context, engine Reformatter, spec *FormatSpec, rows []string, opts BatchOptions) []RowResult {
	results := make([]RowResult, len(rows))
	for i, row := range rows {
		results[i] = RowResult{Row: i + 1, Input: row}
	}
	if len(rows) == 0 {
		return results
	}
	if engine == nil {
		engine = NewEngine()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	processed := make([]bool, len(rows))
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			out, err := engine.Reformat(rows[i], spec)
			results[i].Output = out
			results[i].Err = err
			processed[i] = true
			if err != nil {
				logger.Warn().
					Err(err).
					Int("row", i+1).
					Str("locale", spec.Locale()).
					Str("kind", spec.Kind()).
					Msg("row skipped")
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !processed[i] {
				results[i].Err = err
			}
		}
	}

	return results
}

// BatchSummary counts the outcome of a batch.
type BatchSummary struct {
	Total  int
	OK     int
	Failed int
	// ByCause counts failures per sentinel error.
	ByCause map[error]int
}

var batchCauses = []error{
	ErrLengthMismatch,
	ErrInvalidCharacter,
	ErrRejected,
	context.Canceled,
	context.DeadlineExceeded,
}

// Summarize tallies results.
func Summarize(results []RowResult) BatchSummary {
	summary := BatchSummary{Total: len(results), ByCause: make(map[error]int)}
	for _, result := range results {
		if result.OK() {
			summary.OK++
			continue
		}
		summary.Failed++
		for _, cause := range batchCauses {
			if errors.Is(result.Err, cause) {
				summary.ByCause[cause]++
				break
			}
		}
	}
	return summary
}
