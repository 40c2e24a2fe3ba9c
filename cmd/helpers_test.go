package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"docfill/config"
	"docfill/internal/testdocx"
)

var sourceYears = map[string]string{
	"2012.csv": "Client report,,\n" +
		"Constituency,No. Of Clients,Number Of X\n" +
		"Angus,12,3\n" +
		"Moray,7,\n" +
		"Total Clients,19,3\n",
	"2013.csv": "Client report,,\n" +
		"Constituency,No. Of Clients,Number Of X\n" +
		"Angus,14,4\n" +
		"Moray,8,n/a\n" +
		"Total Clients,22,4\n",
}

// writeSource writes a directory with one CSV sheet per year.
func writeSource(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "years")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create source dir: %v", err)
	}
	for name, content := range sourceYears {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func writeReportTemplate(t *testing.T) string {
	t.Helper()

	return testdocx.Write(t, t.TempDir(), "report.docx", testdocx.Document{
		Paragraphs: []string{"Client report"},
		Tables: [][][]string{{
			{"Year", "No. Of Clients", "Number Of X", "Average Age"},
			{"2012", "", "", ""},
			{"2013", "", "", ""},
		}},
	})
}

// testConfig returns the default configuration with history kept in a
// temporary database.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.ValidateYAMLContent([]byte("{}"))
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.History.DBPath = filepath.Join(t.TempDir(), "history.db")
	return cfg
}
