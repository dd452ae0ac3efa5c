package shared

// Global flag values, set by the root command.
var (
	configFlag    string
	logLevelFlag  string
	logFormatFlag string
	jsonFlag      bool

	// Build-time version information
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// RegisterFlagPointers returns pointers to the global flag variables so the
// root command can bind them: config, log level, log format, json.
func RegisterFlagPointers() (*string, *string, *string, *bool) {
	return &configFlag, &logLevelFlag, &logFormatFlag, &jsonFlag
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, b string) {
	version = v
	commit = c
	buildDate = b
}

// GetVersion returns version, commit and build date.
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// GetJSON returns the JSON output flag value.
func GetJSON() bool {
	return jsonFlag
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return configFlag
}
