package output

import (
	"fmt"
	"strings"
)

// Writer saves review rows to a file.
type Writer interface {
	Write(path string, rows []ReviewRow) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath infers the report format from a file extension.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		return "excel"
	}
	return "csv"
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
