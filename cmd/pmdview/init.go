package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/pmdview/internal/config"
	"github.com/ludo-technologies/pmdview/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a pmdview configuration file",
		Long: `Generate a documented pmdview configuration file with sensible defaults.

By default, creates .pmdview.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create .pmdview.yaml in current directory
  pmdview init

  # Custom output path
  pmdview init --config custom.yaml

  # Overwrite existing file
  pmdview init --force

  # Generate smaller config with essential options only
  pmdview init --minimal

  # Interactive setup wizard
  pmdview init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	out := cmd.OutOrStdout()
	audience := config.AudienceTerminal
	locale := config.DefaultLocale

	if interactive {
		var err error
		audience, locale, configPath, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(audience, locale)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'pmdview view <report>' to show a PMD report.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.Audience, string, string, error) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "pmdview Configuration Setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	audiences := []struct {
		Label       string
		Description string
		Value       config.Audience
	}{
		{"Terminal", "Plain text tables on stdout", config.AudienceTerminal},
		{"Browser", "HTML page with clickable headers", config.AudienceBrowser},
		{"Spreadsheet", "Excel workbook", config.AudienceSpreadsheet},
		{"Pipeline", "JSON for scripts and CI", config.AudiencePipeline},
	}

	audienceTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	audiencePrompt := promptui.Select{
		Label:     "Where do you read the violations?",
		Items:     audiences,
		Templates: audienceTemplates,
	}

	audienceIdx, _, err := audiencePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("audience selection cancelled: %w", err)
	}

	fmt.Fprintln(out)

	localePrompt := promptui.Select{
		Label: "Which locale should text columns sort by?",
		Items: config.Locales(),
	}

	_, locale, err := localePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("locale selection cancelled: %w", err)
	}

	fmt.Fprintln(out)

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	return audiences[audienceIdx].Value, locale, outputPath, nil
}
