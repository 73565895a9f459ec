package config

const (
	// DefaultOutputJSONFile is the default file the last run is saved to
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".xtest"
	// DefaultResultsTable is the MySQL table used when a results DSN is configured
	DefaultResultsTable = "xtest_results"
	// DefaultRepeat runs every test once
	DefaultRepeat = 1
	// MinRepeat and MaxRepeat bound the repeat option
	MinRepeat = 1
	MaxRepeat = 100
	// DefaultLogLevel is the level of the structured run log
	DefaultLogLevel = "warn"
	// DefaultEnvFile is loaded from the working directory when present
	DefaultEnvFile = ".env"
)

// Environment variables read by ApplyEnv
const (
	EnvRepeat       = "XTEST_REPEAT"
	EnvVerbose      = "XTEST_VERBOSE"
	EnvCutback      = "XTEST_CUTBACK"
	EnvOutputDir    = "XTEST_OUTPUT_DIR"
	EnvResultsDSN   = "XTEST_RESULTS_DSN"
	EnvResultsTable = "XTEST_RESULTS_TABLE"
	EnvLogLevel     = "XTEST_LOG_LEVEL"
)
