package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "pmdview"

	// ConfigFileName is the default config file name written by `init`
	ConfigFileName = ".pmdview.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "PMDVIEW"

	// ConfigEnvVar points at an explicit config file
	ConfigEnvVar = "PMDVIEW_CONFIG"

	// StateFileName stores the last opened report path
	StateFileName = "state.yaml"
)

// Report file extensions recognized by `export` and the report loader
const (
	ReportExtXML  = ".xml"
	ReportExtJSON = ".json"
)
