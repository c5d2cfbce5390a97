package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/version"
	"github.com/ludo-technologies/pmdview/service"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = version.GetVersion()
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pmdview",
		Short: "pmdview - PMD violation report viewer",
		Long: `pmdview reads PMD violation reports (XML or their JSON conversion) and
shows them as a table that can be sorted by class name, line number or
error message. Clicking the same column again flips its direction.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				return service.WriteJSON(out, version.GetInfo())
			case "yaml":
				return service.WriteYAML(out, version.GetInfo())
			case "", "text":
			default:
				return domain.NewUnsupportedFormatError(format)
			}

			if full {
				fmt.Fprintln(out, version.GetFullVersion())
			} else {
				fmt.Fprintf(out, "pmdview version %s\n", version.GetVersion())
			}
			return nil
		},
	}

	cmd.Flags().Bool("full", false, "Show detailed version information")
	cmd.Flags().StringP("format", "f", "", "Print build information as json or yaml")
	return cmd
}
