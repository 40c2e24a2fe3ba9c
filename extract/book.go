package extract

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"docfill/normalize"
	"docfill/workbook"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BookOptions struct {
	Locator    Locator
	Normalizer *normalize.Normalizer
	Logger     *zap.Logger

	// Workers bounds parallel sheet extraction; 0 uses GOMAXPROCS.
	Workers int

	// Progress is called once per extracted year sheet, in completion order.
	Progress func(message string, percent int)
}

type YearValues struct {
	Year   string
	Values []HeaderValue
}

type YearEntityValues struct {
	Year   string
	Values []EntityValue
}

// Book is the set of year sheets of one source workbook, keyed by year label.
// Only sheets whose name parses as an integer take part.
type Book struct {
	Name string

	years  []string
	sheets map[string]*YearSheet
	norm   *normalize.Normalizer
}

// BuildBook extracts every year sheet of wb. Sheets are independent, so they
// are extracted concurrently; the year order is the workbook's sheet order.
func BuildBook(ctx context.Context, wb *workbook.Workbook, opts BookOptions) (*Book, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	norm := opts.Normalizer
	if norm == nil {
		norm = normalize.New()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type yearSource struct {
		label string
		sheet *workbook.Sheet
	}
	sources := make([]yearSource, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		year, ok := YearLabel(sheet.Name)
		if !ok {
			logger.Debug("Skipping non-year sheet", zap.String("sheet", sheet.Name))
			continue
		}
		sources = append(sources, yearSource{label: year, sheet: sheet})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoYears, wb.Name)
	}

	extracted := make([]*YearSheet, len(sources))
	var (
		mu   sync.Mutex
		done int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, source := range sources {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			ys := ExtractSheet(source.label, source.sheet, opts.Locator, norm)
			if !ys.Located() {
				logger.Warn("No anchor cell found in sheet", zap.String("sheet", source.sheet.Name))
			}
			extracted[i] = ys

			mu.Lock()
			done++
			if opts.Progress != nil {
				opts.Progress(fmt.Sprintf("Sheet %s loaded", source.label), int(0.5+100*float64(done)/float64(len(sources))))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("extract year sheets: %w", err)
	}

	book := &Book{
		Name:   wb.Name,
		years:  make([]string, 0, len(extracted)),
		sheets: make(map[string]*YearSheet, len(extracted)),
		norm:   norm,
	}
	for _, ys := range extracted {
		if _, seen := book.sheets[ys.Year]; !seen {
			book.years = append(book.years, ys.Year)
		}
		book.sheets[ys.Year] = ys
	}

	logger.Info("Book loaded",
		zap.String("name", book.Name),
		zap.Strings("years", book.years))
	return book, nil
}

// YearLabel returns the canonical year label of a sheet name, if the name is
// an integer ("2012", " 2012 ").
func YearLabel(sheetName string) (string, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(sheetName))
	if err != nil {
		return "", false
	}
	return strconv.Itoa(year), true
}

// Years lists year labels in workbook order.
func (b *Book) Years() []string {
	return append([]string(nil), b.years...)
}

func (b *Book) Sheet(year string) (*YearSheet, bool) {
	ys, ok := b.sheets[year]
	return ys, ok
}

// Value returns one display value.
func (b *Book) Value(year, entity, header string) (string, error) {
	ys, ok := b.sheets[year]
	if !ok {
		return "", &LookupError{Year: year, Entity: entity, Header: header, Err: ErrYearNotFound}
	}
	return ys.Value(entity, header)
}

// EntityData returns the entity's values for every year that lists it. Years
// without the entity are left out and reported in the joined error.
func (b *Book) EntityData(entity string) ([]YearValues, error) {
	out := make([]YearValues, 0, len(b.years))
	var errs []error
	for _, year := range b.years {
		values, err := b.sheets[year].EntityData(entity)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, YearValues{Year: year, Values: values})
	}
	return out, errors.Join(errs...)
}

// HeaderData returns every entity's value for one header, per year. Years
// without the header are left out and reported in the joined error.
func (b *Book) HeaderData(header string) ([]YearEntityValues, error) {
	out := make([]YearEntityValues, 0, len(b.years))
	var errs []error
	for _, year := range b.years {
		values, err := b.sheets[year].HeaderData(header)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, YearEntityValues{Year: year, Values: values})
	}
	return out, errors.Join(errs...)
}

// Headers maps each year to its raw headers.
func (b *Book) Headers() map[string][]string {
	out := make(map[string][]string, len(b.years))
	for _, year := range b.years {
		out[year] = b.sheets[year].Headers()
	}
	return out
}

// Entities maps each year to its entities.
func (b *Book) Entities() map[string][]string {
	out := make(map[string][]string, len(b.years))
	for _, year := range b.years {
		out[year] = b.sheets[year].Entities()
	}
	return out
}

// AllHeaders is the union of raw headers across years, first-seen order.
func (b *Book) AllHeaders() []string {
	return b.union(func(ys *YearSheet) []string { return ys.index.headers })
}

// AllEntities is the union of entities across years, first-seen order.
func (b *Book) AllEntities() []string {
	return b.union(func(ys *YearSheet) []string { return ys.index.entities })
}

// EmptyCells maps year -> entity -> raw headers, for years with empty cells.
func (b *Book) EmptyCells() map[string]map[string][]string {
	return b.cells(func(ys *YearSheet) map[string][]string { return ys.EmptyCells() })
}

// DodgyCells maps year -> entity -> raw headers, for years with dodgy cells.
func (b *Book) DodgyCells() map[string]map[string][]string {
	return b.cells(func(ys *YearSheet) map[string][]string { return ys.DodgyCells() })
}

// ColumnExists reports whether any year has a header matching raw.
func (b *Book) ColumnExists(raw string) bool {
	for _, year := range b.years {
		if b.sheets[year].HasHeader(raw) {
			return true
		}
	}
	return false
}

// MissingHeaders returns the headers (e.g. a template's) with no matching
// column in any year. Each distinct raw header is reported once.
func (b *Book) MissingHeaders(headers []string) []string {
	seen := make(map[string]struct{}, len(headers))
	missing := make([]string, 0)
	for _, header := range headers {
		if _, ok := seen[header]; ok {
			continue
		}
		seen[header] = struct{}{}
		if !b.ColumnExists(header) {
			missing = append(missing, header)
		}
	}
	return missing
}

func (b *Book) union(pick func(*YearSheet) []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, year := range b.years {
		for _, value := range pick(b.sheets[year]) {
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			out = append(out, value)
		}
	}
	return out
}

func (b *Book) cells(pick func(*YearSheet) map[string][]string) map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, year := range b.years {
		if cells := pick(b.sheets[year]); len(cells) > 0 {
			out[year] = cells
		}
	}
	return out
}
