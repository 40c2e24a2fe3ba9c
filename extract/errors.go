package extract

import (
	"errors"
	"fmt"
)

var (
	ErrYearNotFound   = errors.New("year not found")
	ErrEntityNotFound = errors.New("entity not found")
	ErrHeaderNotFound = errors.New("header not found")
	ErrNotNumeric     = errors.New("value is not numeric")
	ErrNoYears        = errors.New("workbook has no year sheets")
)

// LookupError reports a (year, entity, header) query that matched nothing.
type LookupError struct {
	Year   string
	Entity string
	Header string
	Err    error
}

func (e *LookupError) Error() string {
	switch {
	case e.Entity != "" && e.Header != "":
		return fmt.Sprintf("lookup %s/%q/%q: %v", e.Year, e.Entity, e.Header, e.Err)
	case e.Entity != "":
		return fmt.Sprintf("lookup %s/%q: %v", e.Year, e.Entity, e.Err)
	default:
		return fmt.Sprintf("lookup %s/%q: %v", e.Year, e.Header, e.Err)
	}
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
