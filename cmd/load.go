package cmd

import (
	"context"
	"fmt"
	"strings"

	"docfill/config"
	"docfill/doctemplate"
	"docfill/extract"
	"docfill/normalize"
	"docfill/workbook"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func loadBook(ctx context.Context, cfg *config.Config, norm *normalize.Normalizer, input, format string, progress func(string, int)) (*extract.Book, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("source workbook is required (--input)")
	}

	wb, err := workbook.Load(input, format)
	if err != nil {
		return nil, err
	}
	logger.Debug("Workbook read", zap.String("path", input), zap.Strings("sheets", wb.SheetNames()))

	book, err := extract.BuildBook(ctx, wb, extract.BookOptions{
		Locator:    cfg.Locator(),
		Normalizer: norm,
		Logger:     logger,
		Progress:   progress,
	})
	if err != nil {
		return nil, fmt.Errorf("build book from %s: %w", input, err)
	}
	return book, nil
}

func loadTemplate(cfg *config.Config, norm *normalize.Normalizer, path string) (*doctemplate.Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("template is required (--template)")
	}
	tmpl, err := doctemplate.Load(path, norm, cfg.TemplateOptions())
	if err != nil {
		return nil, err
	}
	logger.Debug("Template loaded",
		zap.String("path", path),
		zap.Int("tables", tmpl.TableCount()),
		zap.Int("headers", len(tmpl.Headers())))
	return tmpl, nil
}

// loadInputs reads the source workbook and, when templatePath is set, the
// template concurrently. The returned template is nil without a path.
func loadInputs(ctx context.Context, cfg *config.Config, norm *normalize.Normalizer, input, format, templatePath string) (*extract.Book, *doctemplate.Template, error) {
	var (
		book *extract.Book
		tmpl *doctemplate.Template
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		book, err = loadBook(egCtx, cfg, norm, input, format, nil)
		return err
	})
	if strings.TrimSpace(templatePath) != "" {
		eg.Go(func() error {
			var err error
			tmpl, err = loadTemplate(cfg, norm, templatePath)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return book, tmpl, nil
}

func templateHeaders(tmpl *doctemplate.Template) []string {
	if tmpl == nil {
		return nil
	}
	return tmpl.Headers()
}
