package service

import (
	"io"

	"github.com/ludo-technologies/pmdview/domain"
	"github.com/ludo-technologies/pmdview/internal/config"
	"github.com/spf13/pflag"
)

// ConfigurationLoaderImpl resolves configuration and turns it into use case requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from path, or from the file discovered
// around target when path is empty. Changed flags override the file.
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfigWithFlags(path, target, flags)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// ViewRequest builds the request for showing reportPath. An empty
// reportPath asks for the last opened report.
func (c *ConfigurationLoaderImpl) ViewRequest(cfg *config.Config, reportPath string, w io.Writer) (domain.ViewRequest, error) {
	clicks, err := SortClicks(cfg.View.Sort)
	if err != nil {
		return domain.ViewRequest{}, err
	}

	return domain.ViewRequest{
		ReportPath:   reportPath,
		UseLastFile:  reportPath == "",
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		OutputWriter: w,
		OutputPath:   cfg.Output.Path,
		SortClicks:   clicks,
		Locale:       cfg.View.Locale,
	}, nil
}

// ExportRequest builds the request for converting every report under paths
func (c *ConfigurationLoaderImpl) ExportRequest(cfg *config.Config, paths []string) (domain.ExportRequest, error) {
	clicks, err := SortClicks(cfg.View.Sort)
	if err != nil {
		return domain.ExportRequest{}, err
	}

	return domain.ExportRequest{
		Paths:            paths,
		Recursive:        cfg.Export.Recursive,
		ExcludePatterns:  cfg.Export.ExcludePatterns,
		RespectGitignore: cfg.Export.RespectGitignore,
		OutputFormat:     domain.OutputFormat(cfg.Output.Format),
		OutputDir:        cfg.Output.Directory,
		SortClicks:       clicks,
		Locale:           cfg.View.Locale,
	}, nil
}

// SortClicks converts column names (ids or aliases) into columns, in order
func SortClicks(names []string) ([]domain.Column, error) {
	clicks := make([]domain.Column, 0, len(names))
	for _, name := range names {
		col, err := domain.ParseColumn(name)
		if err != nil {
			return nil, err
		}
		clicks = append(clicks, col)
	}
	return clicks, nil
}
