package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Reader interface {
	Read(path string) (*Workbook, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat picks a reader format from the path. Directories are read as a
// set of per-year CSV files.
func InferFormat(path string) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "csv", nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// Load reads the workbook at path. An empty format is inferred from the path.
// Any failure is returned as a *LoadError.
func Load(path, format string) (*Workbook, error) {
	if strings.TrimSpace(format) == "" {
		inferred, err := InferFormat(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		format = inferred
	}

	reader, err := ReaderForFormat(format)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	book, err := reader.Read(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return book, nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
