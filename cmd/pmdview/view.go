package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/pmdview/app"
	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/report"
	"github.com/ludo-technologies/pmdview/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report]",
		Short: "Show a PMD report as a sortable table",
		Long: `Show the violations of a PMD report as a table.

Each --sort flag is one click on a column header, applied in order. The
first click on a column sorts ascending, clicking it again descending.
Without a report argument the last opened report is shown.

Columns: className (class), lineNumber (line), description (message)

Examples:
  # Show a report in the terminal
  pmdview view target/pmd.xml

  # Sort by line number, then by class name
  pmdview view target/pmd.xml --sort line --sort class

  # Line numbers descending (two clicks on the same header)
  pmdview view target/pmd.xml --sort line --sort line

  # Write an HTML page
  pmdview view target/pmd.xml --format html -o violations.html

  # Reopen the last report
  pmdview view`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().StringSliceP("sort", "s", nil, "Column header click, repeatable (className, lineNumber, description)")
	cmd.Flags().StringP("format", "f", "", "Output format: text, json, yaml, csv, html, xlsx")
	cmd.Flags().StringP("output", "o", "", "Write the table to this file instead of stdout")
	cmd.Flags().String("locale", "", "Locale used to compare text columns (BCP 47, e.g. en, de, sv)")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	var reportPath string
	if len(args) > 0 {
		reportPath = args[0]
	}

	cfg, err := loadConfig(cmd, reportPath)
	if err != nil {
		return err
	}

	req, err := service.NewConfigurationLoader().ViewRequest(cfg, reportPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if req.OutputFormat.IsBinary() && req.OutputPath == "" && writesToTerminal(req.OutputWriter) {
		return domain.NewInvalidInputError(fmt.Sprintf("%s output needs a file, use --output", req.OutputFormat), nil)
	}

	useCase, err := app.NewViewUseCaseBuilder().
		WithLoader(report.NewLoader()).
		WithFormatter(newFormatter(cfg)).
		WithLastFileStore(newLastFileStore(cfg)).
		Build()
	if err != nil {
		return err
	}

	resp, err := useCase.Execute(context.Background(), req)
	if err != nil {
		return err
	}

	if !resp.Loaded {
		fmt.Fprintln(cmd.ErrOrStderr(), "No report opened yet. Run 'pmdview view <report>' first.")
		return nil
	}
	if resp.OutputPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d violations to %s\n", len(resp.Table.Rows), resp.OutputPath)
	}
	return nil
}

// writesToTerminal reports whether w is an interactive terminal
func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
