package config

import "strings"

// Audience represents who reads the rendered violations table
type Audience string

const (
	AudienceTerminal    Audience = "terminal"
	AudienceBrowser     Audience = "browser"
	AudienceSpreadsheet Audience = "spreadsheet"
	AudiencePipeline    Audience = "pipeline"
)

// AudiencePreset holds output settings for an audience
type AudiencePreset struct {
	Format          string
	Path            string
	ExcludePatterns []string
}

// Audiences returns the audiences offered by `init` in display order
func Audiences() []Audience {
	return []Audience{AudienceTerminal, AudienceBrowser, AudienceSpreadsheet, AudiencePipeline}
}

// GetAudiencePresets returns presets for different audiences
func GetAudiencePresets() map[Audience]AudiencePreset {
	return map[Audience]AudiencePreset{
		AudienceTerminal: {
			Format: "text",
		},
		AudienceBrowser: {
			Format: "html",
			Path:   "pmd-violations.html",
		},
		AudienceSpreadsheet: {
			Format: "xlsx",
			Path:   "pmd-violations.xlsx",
		},
		AudiencePipeline: {
			Format: "json",
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/.git/**",
			},
		},
	}
}

// Locales returns the locales offered by `init`
func Locales() []string {
	return []string{"en", "de", "fr", "sv", "ja"}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(audience Audience, locale string) string {
	preset, ok := GetAudiencePresets()[audience]
	if !ok {
		preset = GetAudiencePresets()[AudienceTerminal]
	}
	if locale == "" {
		locale = DefaultLocale
	}

	return `# pmdview configuration
# Documentation: https://github.com/ludo-technologies/pmdview

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: "text", "json", "yaml", "csv", "html", "xlsx"
  format: ` + preset.Format + `

  # File written by "pmdview view" (empty = stdout, required for xlsx)
  path: "` + preset.Path + `"

  # Directory written by "pmdview export" (empty = next to each report)
  directory: ""

  # Fold runs of whitespace in messages when printing text tables
  collapse_whitespace: true

# ============================================================================
# TABLE ORDERING
# ============================================================================
view:
  # BCP 47 locale used to order class names and messages
  locale: ` + locale + `

  # Column clicks applied after loading a report, in order.
  # Clicking a column twice flips its direction.
  # Columns: className, lineNumber, description
  sort: []

# ============================================================================
# SESSION
# ============================================================================
session:
  # Remember the last opened report for "pmdview view --last"
  remember_last_file: true

  # Where the last opened report is stored (empty = user config dir)
  state_file: ""

# ============================================================================
# BATCH EXPORT
# ============================================================================
export:
  # Number of reports converted in parallel
  max_concurrency: 4

  # Abort the export after this many seconds
  timeout_seconds: 300

  # Walk directories recursively
  recursive: true

  # Report files to skip (glob patterns)
  exclude_patterns:` + formatYAMLList(preset.ExcludePatterns) + `

  # Skip reports ignored by .gitignore
  respect_gitignore: true

# ============================================================================
# LOGGING
# ============================================================================
logging:
  # Diagnostics level on stderr: debug, info, warn, error
  level: warn
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# pmdview configuration (minimal)
# See full options: https://github.com/ludo-technologies/pmdview

output:
  format: text

view:
  locale: en
`
}

// formatYAMLList formats a string slice as an indented YAML block list
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return " []"
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString("\n    - \"")
		b.WriteString(item)
		b.WriteString("\"")
	}
	return b.String()
}
