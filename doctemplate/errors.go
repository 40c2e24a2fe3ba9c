package doctemplate

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocument     = errors.New("docx has no word/document.xml")
	ErrUnknownHeader  = errors.New("template has no column for header")
	ErrUnknownYear    = errors.New("template table has no row for year")
	ErrCellOutOfRange = errors.New("template row has no cell for column")
)

// MatchError reports a write that found no destination cell.
type MatchError struct {
	Year   string
	Header string
	Err    error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("write %s/%q: %v", e.Year, e.Header, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
