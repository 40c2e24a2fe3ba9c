package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"docfill/config"
	"docfill/storage"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRunID string
)

var errNoHistory = errors.New("run history is disabled (history.enabled: false)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous generate runs.",
	Long: `List the generate runs recorded in the history database (history.db_path), newest first.

With --run, list the per-entity outcomes of one run: values written, writes that found no
template row, the output path and any error.`,
	Example: `
  # Last 10 runs
  docfill history --limit 10

  # Entity outcomes of one run
  docfill history --run 2f1c7a52-0c1e-4a8e-9d55-7c4b1f0e9a11
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			return errNoHistory
		}

		store, err := storage.OpenSQLite(cfg.History.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if strings.TrimSpace(historyRunID) != "" {
			return printRunEntities(store, historyRunID, os.Stdout)
		}
		return printRuns(store, historyLimit, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show the entity outcomes of one run")
}

func printRuns(store *storage.SQLiteStore, limit int, out io.Writer) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %s -> %s  entities=%d documents=%d failures=%d (%s)\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			run.OutputDir,
			run.Entities,
			run.Documents,
			run.Failures,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		)
	}
	return nil
}

func printRunEntities(store *storage.SQLiteStore, runID string, out io.Writer) error {
	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	outcomes, err := store.ListRunEntities(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s: %s + %s -> %s\n", run.ID, run.Source, run.Template, run.OutputDir)
	for _, outcome := range outcomes {
		switch {
		case outcome.Error != "":
			fmt.Fprintf(out, "%s: failed: %s\n", outcome.Entity, outcome.Error)
		case outcome.Path == "":
			fmt.Fprintf(out, "%s: no document (written=%d unmatched=%d)\n", outcome.Entity, outcome.Written, outcome.Unmatched)
		default:
			fmt.Fprintf(out, "%s: %s (written=%d unmatched=%d)\n", outcome.Entity, outcome.Path, outcome.Written, outcome.Unmatched)
		}
	}
	return nil
}
