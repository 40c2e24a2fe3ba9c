package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"docfill/config"
	"docfill/doctemplate"
	"docfill/extract"
	"docfill/jobs"
	"docfill/normalize"
	"docfill/storage"
	"docfill/transfer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateInput     string
	generateFormat    string
	generateTemplate  string
	generateEntities  []string
	generateAll       bool
	generateOutputDir string
	generateNoHistory bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write one filled-in template per entity.",
	Long: `Load the source workbook and the template, then write each selected entity's values
into a fresh copy of the template.

For every year sheet and every header the entity has a value for, the value is written to
the template cell in that year's row and that header's column. Empty cells and cells that
could not be formatted are written as "-". Headers are matched after normalization, so
"No. of Clients" and "Number Of Clients" are the same column.

An entity with no matching cell produces no document. Documents are written to
<output.dir>/<entity>.docx. Each run is recorded in the history database unless
history is disabled.`,
	Example: `
  # Generate two documents
  docfill generate -i clients.xlsx -t report.docx -e "Angus" -e "Moray"

  # Generate a document for every entity of the first year
  docfill generate -i clients.xlsx -t report.docx --all

  # Read a directory of <year>.csv files and write to ./out
  docfill generate -i ./years -t report.docx --all --output-dir ./out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		opts := generateOptions{
			Input:     generateInput,
			Format:    generateFormat,
			Template:  generateTemplate,
			Entities:  generateEntities,
			All:       generateAll,
			OutputDir: generateOutputDir,
			History:   cfg.History.Enabled && !generateNoHistory,
		}
		return runGenerate(cmd.Context(), cfg, opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Source workbook (.xlsx, .xlsm, .csv or a directory of .csv files)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "Source format override: excel|csv (default: inferred from the path)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Word template (.docx)")
	generateCmd.Flags().StringArrayVarP(&generateEntities, "entity", "e", nil, "Entity to generate (repeatable)")
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "Generate every entity of the first year sheet")
	generateCmd.Flags().StringVarP(&generateOutputDir, "output-dir", "o", "", "Output directory (default: output.dir from config)")
	generateCmd.Flags().BoolVar(&generateNoHistory, "no-history", false, "Do not record this run in the history database")

	_ = generateCmd.MarkFlagRequired("input")
	_ = generateCmd.MarkFlagRequired("template")
	generateCmd.MarkFlagsMutuallyExclusive("entity", "all")
}

type generateOptions struct {
	Input     string
	Format    string
	Template  string
	Entities  []string
	All       bool
	OutputDir string
	History   bool
}

type generateSummary struct {
	Entities  int
	Documents int
	Skipped   int
	Failures  int
}

func runGenerate(ctx context.Context, cfg *config.Config, opts generateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.All && len(opts.Entities) == 0 {
		return fmt.Errorf("select entities with --entity or use --all")
	}
	outputDir := strings.TrimSpace(opts.OutputDir)
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	started := time.Now()
	norm := normalize.New()
	gate := jobs.NewGate(func(ready bool) {
		logger.Debug("Generate availability changed", zap.Bool("ready", ready))
	})
	runner := jobs.NewRunner(gate, 16, logger)
	printed := printEvents(runner.Events(), out)

	finished := func() {
		runner.Close()
		<-printed
	}

	var (
		book    *extract.Book
		tmpl    *doctemplate.Template
		bookErr error
		tmplErr error
		results []transfer.Result
	)

	err := runner.Submit(ctx, jobs.KindLoadBook, func(ctx context.Context, report jobs.Reporter) error {
		report.Report(0, "Loading book...")
		book, bookErr = loadBook(ctx, cfg, norm, opts.Input, opts.Format, func(message string, percent int) {
			report.Report(percent, message)
		})
		return bookErr
	})
	if err == nil {
		err = runner.Submit(ctx, jobs.KindLoadTemplate, func(_ context.Context, report jobs.Reporter) error {
			report.Report(0, "Loading template...")
			tmpl, tmplErr = loadTemplate(cfg, norm, opts.Template)
			return tmplErr
		})
	}
	if err != nil {
		finished()
		return err
	}
	runner.Wait()

	if err := errors.Join(bookErr, tmplErr); err != nil {
		finished()
		return fmt.Errorf("generate aborted: %w", err)
	}

	entities := opts.Entities
	if opts.All {
		entities = firstYearEntities(book)
	}
	if len(entities) == 0 {
		finished()
		return fmt.Errorf("no entities to generate")
	}

	if missing := book.MissingHeaders(tmpl.Headers()); len(missing) > 0 {
		logger.Warn("Template headers without source column", zap.Strings("headers", missing))
	}

	orch := transfer.New(book, tmpl, transfer.DirOutput{Dir: outputDir}, transfer.Options{Logger: logger})
	err = runner.Submit(ctx, jobs.KindGenerate, func(ctx context.Context, report jobs.Reporter) error {
		results = orch.TransferAll(ctx, entities, func(result transfer.Result, done, total int) {
			report.Report(percent(done, total), entityMessage(result))
		})
		return ctx.Err()
	})
	finished()
	if err != nil {
		return err
	}

	summary := summarize(results)

	fmt.Fprintf(out, "Entities: %d\n", summary.Entities)
	fmt.Fprintf(out, "Documents written: %d\n", summary.Documents)
	fmt.Fprintf(out, "Entities without matching values: %d\n", summary.Skipped)
	fmt.Fprintf(out, "Failures: %d\n", summary.Failures)
	fmt.Fprintf(out, "Output directory: %s\n", outputDir)

	if opts.History {
		runID, err := recordRun(cfg.History.DBPath, storage.Run{
			StartedAt:  started,
			FinishedAt: time.Now(),
			Source:     opts.Input,
			Template:   opts.Template,
			OutputDir:  outputDir,
			Entities:   len(entities),
			Documents:  summary.Documents,
			Failures:   summary.Failures,
		}, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run recorded: %s\n", runID)
	}

	if summary.Failures > 0 {
		return fmt.Errorf("%d of %d entities failed", summary.Failures, len(entities))
	}
	return nil
}

// firstYearEntities returns the entities of the first year sheet that has any.
func firstYearEntities(book *extract.Book) []string {
	for _, year := range book.Years() {
		sheet, _ := book.Sheet(year)
		if entities := sheet.Entities(); len(entities) > 0 {
			return entities
		}
	}
	return nil
}

func summarize(results []transfer.Result) generateSummary {
	summary := generateSummary{Entities: len(results)}
	for _, result := range results {
		switch {
		case result.Err != nil:
			summary.Failures++
		case result.Path == "":
			summary.Skipped++
		default:
			summary.Documents++
		}
	}
	return summary
}

func entityMessage(result transfer.Result) string {
	switch {
	case result.Err != nil:
		return fmt.Sprintf("%s failed: %v", result.Entity, result.Err)
	case result.Path == "":
		return fmt.Sprintf("%s: no matching values", result.Entity)
	default:
		return fmt.Sprintf("%s written to %s", result.Entity, result.Path)
	}
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}

// printEvents writes job events to out until the channel closes.
func printEvents(events <-chan jobs.Event, out io.Writer) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Done && ev.Err != nil {
				fmt.Fprintf(out, "[%s] failed: %v\n", ev.Kind, ev.Err)
				continue
			}
			fmt.Fprintf(out, "[%s] %3d%% %s\n", ev.Kind, ev.Percent, ev.Message)
		}
	}()
	return done
}

func recordRun(dbPath string, run storage.Run, results []transfer.Result) (string, error) {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	outcomes := make([]storage.EntityOutcome, 0, len(results))
	for _, result := range results {
		outcome := storage.EntityOutcome{
			Entity:    result.Entity,
			Written:   result.Written,
			Unmatched: result.Unmatched,
			Path:      result.Path,
		}
		if result.Err != nil {
			outcome.Error = result.Err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	stored, err := store.RecordRun(run, outcomes)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return stored.ID, nil
}
