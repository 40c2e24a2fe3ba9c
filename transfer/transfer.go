// Package transfer copies one entity's yearly values from an extracted book
// into a rendered copy of a report template.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"docfill/doctemplate"
	"docfill/extract"

	"go.uber.org/zap"
)

// Placeholder is written for cells that are empty or could not be formatted.
const Placeholder = "-"

// WriteError reports a failure to render or persist one entity's document.
type WriteError struct {
	Entity string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write document for %q: %v", e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Result is the outcome for one entity. Path is empty when nothing matched
// the template and no document was produced.
type Result struct {
	Entity    string
	Written   int
	Unmatched int
	Path      string
	Err       error
}

type Options struct {
	Logger *zap.Logger
}

type Orchestrator struct {
	book   *extract.Book
	tmpl   *doctemplate.Template
	out    Output
	logger *zap.Logger
}

func New(book *extract.Book, tmpl *doctemplate.Template, out Output, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{book: book, tmpl: tmpl, out: out, logger: logger}
}

// Transfer writes every value the book holds for entity into a fresh copy of
// the template. Headers the template does not know are skipped; writes for a
// known header whose year row is missing count as unmatched. The document is
// titled with the entity and saved only when at least one write matched.
func (o *Orchestrator) Transfer(ctx context.Context, entity string) (Result, error) {
	result := Result{Entity: entity}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result, err
	}

	// Years without the entity are reported as lookup errors; they simply
	// contribute no values.
	data, _ := o.book.EntityData(entity)

	w := o.tmpl.NewWriter()
	for _, year := range data {
		for _, hv := range year.Values {
			if !o.tmpl.HasColumn(hv.Header) {
				continue
			}
			value := hv.Value
			if value == "" {
				value = Placeholder
			}

			if err := w.Write(year.Year, hv.Header, value); err != nil {
				var matchErr *doctemplate.MatchError
				if !errors.As(err, &matchErr) {
					return o.fail(result, err)
				}
				result.Unmatched++
				o.logger.Debug("Unmatched template write",
					zap.String("entity", entity),
					zap.String("year", year.Year),
					zap.String("header", hv.Header),
					zap.Error(err))
				continue
			}
		}
	}
	result.Written = w.Written()

	if result.Written == 0 {
		o.logger.Info("No values written, skipping document", zap.String("entity", entity))
		return result, nil
	}

	doc, err := o.tmpl.Render(w, entity)
	if err != nil {
		return o.fail(result, err)
	}
	path, err := o.out.Save(entity, doc)
	if err != nil {
		return o.fail(result, err)
	}
	result.Path = path

	o.logger.Info("Document written",
		zap.String("entity", entity),
		zap.String("path", path),
		zap.Int("written", result.Written),
		zap.Int("unmatched", result.Unmatched))
	return result, nil
}

func (o *Orchestrator) fail(result Result, err error) (Result, error) {
	wrapped := &WriteError{Entity: result.Entity, Err: err}
	result.Err = wrapped
	o.logger.Error("Document failed", zap.String("entity", result.Entity), zap.Error(err))
	return result, wrapped
}

// Progress is called after each entity of a batch.
type Progress func(result Result, done, total int)

// TransferAll runs Transfer for each entity in order. A failing entity is
// recorded in its Result and the batch continues; cancellation stops the
// batch before the next entity.
func (o *Orchestrator) TransferAll(ctx context.Context, entities []string, progress Progress) []Result {
	results := make([]Result, 0, len(entities))
	for i, entity := range entities {
		if ctx.Err() != nil {
			break
		}
		result, _ := o.Transfer(ctx, entity)
		results = append(results, result)
		if progress != nil {
			progress(result, i+1, len(entities))
		}
	}
	return results
}
