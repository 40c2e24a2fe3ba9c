package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"docfill/config"
	"docfill/normalize"
	"docfill/output"

	"github.com/spf13/cobra"
)

var (
	inspectInput         string
	inspectFormat        string
	inspectTemplate      string
	inspectSummaryOutput string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the years, tables and problem cells found in a source workbook.",
	Long: `Load the source workbook and print, per year sheet, whether a table was found and how
many entities, headers, empty cells and dodgy cells it has.

With --template, the template headers that match no source column in any year are listed
as well. Those columns stay unfilled by generate.`,
	Example: `
  # Inspect a workbook
  docfill inspect -i clients.xlsx

  # Inspect a workbook against a template and save the per-year summary
  docfill inspect -i clients.xlsx -t report.docx --summary-output years.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		opts := inspectOptions{
			Input:         inspectInput,
			Format:        inspectFormat,
			Template:      inspectTemplate,
			SummaryOutput: inspectSummaryOutput,
		}
		return runInspect(cmd.Context(), cfg, opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectInput, "input", "i", "", "Source workbook (.xlsx, .xlsm, .csv or a directory of .csv files)")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "Source format override: excel|csv (default: inferred from the path)")
	inspectCmd.Flags().StringVarP(&inspectTemplate, "template", "t", "", "Word template (.docx) to check headers against")
	inspectCmd.Flags().StringVar(&inspectSummaryOutput, "summary-output", "", "Write the per-year summary to a .csv or .xlsx file")

	_ = inspectCmd.MarkFlagRequired("input")
}

type inspectOptions struct {
	Input         string
	Format        string
	Template      string
	SummaryOutput string
}

func runInspect(ctx context.Context, cfg *config.Config, opts inspectOptions, out io.Writer) error {
	book, tmpl, err := loadInputs(ctx, cfg, normalize.New(), opts.Input, opts.Format, opts.Template)
	if err != nil {
		return err
	}

	summaries := output.BuildYearSummaries(book)
	fmt.Fprintf(out, "Workbook: %s\n", book.Name)
	for _, s := range summaries {
		if !s.Located {
			fmt.Fprintf(out, "%s: no table found\n", s.Year)
			continue
		}
		fmt.Fprintf(out, "%s: %d entities, %d headers, %d empty cells, %d dodgy cells\n",
			s.Year, s.Entities, s.Headers, s.EmptyCells, s.DodgyCells)
	}

	if tmpl != nil {
		fmt.Fprintf(out, "Template: %s (%d tables, %d headers)\n", tmpl.Name, tmpl.TableCount(), len(tmpl.Headers()))
		missing := book.MissingHeaders(tmpl.Headers())
		if len(missing) == 0 {
			fmt.Fprintln(out, "All template headers have a source column.")
		} else {
			fmt.Fprintf(out, "Template headers without source column: %s\n", strings.Join(missing, ", "))
		}
	}

	if strings.TrimSpace(opts.SummaryOutput) != "" {
		if err := output.WriteYearSummaries(opts.SummaryOutput, output.FormatForPath(opts.SummaryOutput), summaries); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary written: %s\n", opts.SummaryOutput)
	}
	return nil
}
