package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"docfill/config"
	"docfill/storage"

	"github.com/spf13/cobra"
)

var (
	historyDeleteRunID string
	historyDeleteAll   bool
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var historyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete one recorded run, or the whole history database",
	Long: `Destructive history cleanup command.

With --run, the run and its entity outcomes are removed. With --all, the complete SQLite
history file is deleted. Generated documents are never touched.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete one run (requires interactive confirmation)
  docfill history delete --run 2f1c7a52-0c1e-4a8e-9d55-7c4b1f0e9a11

  # Delete the complete history database
  docfill history delete --all
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		dbPath := cfg.History.DBPath

		if historyDeleteAll {
			confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("history database file %q", dbPath))
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("delete aborted: confirmation was not 'Y'")
			}
			if err := removeDatabaseFile(dbPath); err != nil {
				return err
			}
			fmt.Printf("Deleted history database: %s\n", dbPath)
			return nil
		}

		if strings.TrimSpace(historyDeleteRunID) == "" {
			return fmt.Errorf("select a run with --run or use --all")
		}
		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, fmt.Sprintf("run %q", historyDeleteRunID))
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}
		return deleteRun(dbPath, historyDeleteRunID)
	},
}

func init() {
	historyCmd.AddCommand(historyDeleteCmd)

	historyDeleteCmd.Flags().StringVar(&historyDeleteRunID, "run", "", "Run ID to delete")
	historyDeleteCmd.Flags().BoolVar(&historyDeleteAll, "all", false, "Delete the complete history database file")
	historyDeleteCmd.MarkFlagsMutuallyExclusive("run", "all")
}

func deleteRun(dbPath, runID string) error {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteRun(runID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("delete run %s: %w", runID, storage.ErrRunNotFound)
	}
	fmt.Printf("Deleted run: %s\n", runID)
	return nil
}

func confirmDeletePrompt(input io.Reader, output io.Writer, target string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete %s? Type Y to confirm: ", target); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
