package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/pmdview/app"
	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/report"
	"github.com/ludo-technologies/pmdview/service"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Convert PMD reports into sorted tables",
		Long: `Convert one or more PMD reports into tables, in parallel.

Paths can be report files or directories. Every report gets its own
session, so --sort clicks apply to each report independently. A report
that cannot be read is listed as failed; the others are still written.

Examples:
  # Convert every report under build/ to CSV next to the reports
  pmdview export build/ --format csv

  # HTML pages sorted by line number, written to site/pmd
  pmdview export build/ --format html --out-dir site/pmd --sort line`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml, csv, html, xlsx")
	cmd.Flags().String("out-dir", "", "Directory for converted tables (default: next to each report)")
	cmd.Flags().StringSliceP("sort", "s", nil, "Column header click, repeatable (className, lineNumber, description)")
	cmd.Flags().String("locale", "", "Locale used to compare text columns (BCP 47, e.g. en, de, sv)")
	cmd.Flags().BoolP("recursive", "r", true, "Search directories recursively")
	cmd.Flags().StringSlice("exclude", nil, "Gitignore-style patterns to skip")
	cmd.Flags().Int("concurrency", 0, "Maximum number of reports converted at once")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	req, err := service.NewConfigurationLoader().ExportRequest(cfg, args)
	if err != nil {
		return err
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	progress := service.NewProgressManager(!noProgress)
	defer progress.Close()

	useCase, err := app.NewExportUseCaseBuilder().
		WithLoader(report.NewLoader()).
		WithFormatter(newFormatter(cfg)).
		WithExecutor(service.NewParallelExecutorWithProgress(&cfg.Export, progress)).
		Build()
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := useCase.Execute(context.Background(), req)
	if err != nil {
		return err
	}

	printExportSummary(cmd, resp, time.Since(start))

	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d reports failed", resp.Failed, len(resp.Results))
	}
	return nil
}

func printExportSummary(cmd *cobra.Command, resp *domain.ExportResponse, elapsed time.Duration) {
	out := cmd.OutOrStdout()
	for _, r := range resp.Results {
		if r.Error != "" {
			fmt.Fprintf(out, "FAIL  %s: %s\n", r.ReportPath, r.Error)
			continue
		}
		fmt.Fprintf(out, "OK    %s -> %s (%d violations)\n", r.ReportPath, r.OutputPath, r.Violations)
	}
	fmt.Fprintf(out, "\nExported %d of %d reports in %s\n",
		resp.Succeeded, len(resp.Results), elapsed.Round(time.Millisecond))
}
