package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvHome            = "MIPD_HOME"
	EnvOutputFormat    = "MIPD_OUTPUT_FORMAT"
	EnvVerbose         = "MIPD_VERBOSE"
	EnvLogLevel        = "MIPD_LOG_LEVEL"
	EnvDiscoveryWindow = "MIPD_DISCOVERY_WINDOW"
	EnvRPCTimeout      = "MIPD_RPC_TIMEOUT"
	EnvNoColor         = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
// Unparseable durations are ignored.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	if d, ok := parseDuration(os.Getenv(EnvDiscoveryWindow)); ok && d > 0 {
		cfg.Discovery.Window = d
	}

	if d, ok := parseDuration(os.Getenv(EnvRPCTimeout)); ok && d >= 0 {
		cfg.RPC.Timeout = d
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// parseDuration accepts Go duration syntax or a bare number of milliseconds.
func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}
