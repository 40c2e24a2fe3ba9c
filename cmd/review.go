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
	reviewInput        string
	reviewFormat       string
	reviewTemplate     string
	reviewOutput       string
	reviewOutputFormat string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Export the cells and headers that need manual review.",
	Long: `Write a review report with one row per item that will not transfer cleanly:

- empty: a source cell with no value (written as "-")
- dodgy: a source cell whose value is not a number (written as "-")
- missing-header: a template header with no source column in any year

Columns: Kind, Year, Entity, Header.`,
	Example: `
  # Review report as Excel
  docfill review -i clients.xlsx -t report.docx -o review.xlsx

  # Review source cells only, as CSV
  docfill review -i clients.xlsx -o review.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		opts := reviewOptions{
			Input:        reviewInput,
			Format:       reviewFormat,
			Template:     reviewTemplate,
			Output:       reviewOutput,
			OutputFormat: reviewOutputFormat,
		}
		return runReview(cmd.Context(), cfg, opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&reviewInput, "input", "i", "", "Source workbook (.xlsx, .xlsm, .csv or a directory of .csv files)")
	reviewCmd.Flags().StringVar(&reviewFormat, "format", "", "Source format override: excel|csv (default: inferred from the path)")
	reviewCmd.Flags().StringVarP(&reviewTemplate, "template", "t", "", "Word template (.docx) to check headers against")
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "", "Review report path (.csv or .xlsx)")
	reviewCmd.Flags().StringVar(&reviewOutputFormat, "output-format", "", "Report format override: csv|excel (default: from --output extension)")

	_ = reviewCmd.MarkFlagRequired("input")
	_ = reviewCmd.MarkFlagRequired("output")
}

type reviewOptions struct {
	Input        string
	Format       string
	Template     string
	Output       string
	OutputFormat string
}

func runReview(ctx context.Context, cfg *config.Config, opts reviewOptions, out io.Writer) error {
	format := opts.OutputFormat
	if strings.TrimSpace(format) == "" {
		format = output.FormatForPath(opts.Output)
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return err
	}

	book, tmpl, err := loadInputs(ctx, cfg, normalize.New(), opts.Input, opts.Format, opts.Template)
	if err != nil {
		return err
	}

	rows := output.BuildReview(book, templateHeaders(tmpl))
	if err := writer.Write(opts.Output, rows); err != nil {
		return err
	}

	fmt.Fprintf(out, "Review rows: %d\n", len(rows))
	fmt.Fprintf(out, "Written to: %s\n", opts.Output)
	return nil
}
