package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, rows []ReviewRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.values())
	}
	return writeCSV(path, reviewHeaders, records)
}

// writeCSV writes UTF-8 with a byte order mark; Excel needs it to show
// entity and header names outside ASCII.
func writeCSV(path string, headers []string, records [][]string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close csv output %s: %w", path, closeErr)
		}
	}()

	encoded := transform.NewWriter(file, unicode.UTF8BOM.NewEncoder())
	writer := csv.NewWriter(encoded)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	if err := encoded.Close(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
