package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/pmdview/app"
	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/report"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// browseAction is one entry of the browse menu
type browseAction struct {
	Label  string
	Column domain.Column
	Kind   browseActionKind
}

type browseActionKind int

const (
	actionSort browseActionKind = iota
	actionOpen
	actionQuit
)

// browsePrompter asks the user what to do next
type browsePrompter interface {
	Choose(actions []browseAction) (int, error)
	AskPath(defaultPath string) (string, error)
}

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [report]",
		Short: "Browse a PMD report interactively",
		Long: `Open a PMD report and sort it by clicking column headers.

Every column keeps its own direction: the first click sorts ascending,
the next one descending. Opening another report starts over with a new
sort state. Without a report argument the last opened report is shown.

Examples:
  pmdview browse target/pmd.xml
  pmdview browse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, args, promptuiPrompter{})
		},
	}

	cmd.Flags().String("locale", "", "Locale used to compare text columns (BCP 47, e.g. en, de, sv)")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string, prompter browsePrompter) error {
	var reportPath string
	if len(args) > 0 {
		reportPath = args[0]
	}

	cfg, err := loadConfig(cmd, reportPath)
	if err != nil {
		return err
	}

	useCase, err := app.NewBrowseUseCase(report.NewLoader(), newFormatter(cfg), newLastFileStore(cfg), cfg.View.Locale)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	ctx := context.Background()

	if reportPath != "" {
		if _, err := useCase.Open(ctx, reportPath); err != nil {
			return err
		}
	} else if _, err := useCase.OpenLast(ctx); err != nil {
		fmt.Fprintf(errOut, "Could not reopen the last report: %v\n", err)
	}

	actions := browseActions()
	for {
		if useCase.Session().Loaded() {
			if err := useCase.Render(domain.OutputFormatText, out); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, "No report open.")
		}
		fmt.Fprintln(out)

		idx, err := prompter.Choose(actions)
		if err != nil {
			if isPromptAbort(err) {
				return nil
			}
			return err
		}

		action := actions[idx]
		switch action.Kind {
		case actionQuit:
			return nil

		case actionSort:
			if !useCase.Session().Loaded() {
				fmt.Fprintln(errOut, "Open a report first.")
				continue
			}
			if _, err := useCase.Sort(action.Column); err != nil {
				fmt.Fprintf(errOut, "Error: %v\n", err)
			}

		case actionOpen:
			path, err := prompter.AskPath(useCase.Session().Source())
			if err != nil {
				if isPromptAbort(err) {
					continue
				}
				return err
			}
			if _, err := useCase.Open(ctx, path); err != nil {
				if errors.Is(err, domain.ErrEmptySelection) {
					continue
				}
				fmt.Fprintf(errOut, "Error: %v\n", err)
			}
		}
	}
}

func browseActions() []browseAction {
	actions := make([]browseAction, 0, len(domain.Columns())+2)
	for _, col := range domain.Columns() {
		actions = append(actions, browseAction{
			Label:  "Sort by " + col.Label(),
			Column: col,
			Kind:   actionSort,
		})
	}
	return append(actions,
		browseAction{Label: "Open report...", Kind: actionOpen},
		browseAction{Label: "Quit", Kind: actionQuit},
	)
}

func isPromptAbort(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF)
}

// promptuiPrompter asks on the terminal
type promptuiPrompter struct{}

func (promptuiPrompter) Choose(actions []browseAction) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Action",
		Items:     actions,
		Templates: templates,
		Size:      len(actions),
	}

	idx, _, err := prompt.Run()
	return idx, err
}

func (promptuiPrompter) AskPath(defaultPath string) (string, error) {
	prompt := promptui.Prompt{
		Label:   "Report path",
		Default: defaultPath,
	}

	path, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}
