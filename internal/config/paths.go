package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "MAGSAMPLE"

// Default file names, relative to the working directory like the simulator
// writes them.
const (
	DefaultConfigFile     = "input_variables.bin"
	DefaultGridStatesFile = "gridstates.bin"
	DefaultIndexFile      = "index.bin"
	DefaultOutputFile     = "committor_index.bin"
)

// Paths collects every file location a command may touch.
type Paths struct {
	Config      string
	GridStates  string
	Index       string
	Output      string
	LogDir      string // empty disables the run log
	MetricsFile string // empty disables the metrics textfile
}

// LoadEnv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// Getenv returns $MAGSAMPLE_<key>, or fallback when unset or empty.
//
// Expectations:
//   - Uses MAGSAMPLE_<KEY> when set and non-empty
//   - Returns fallback otherwise
//   - Expands a leading "~" in the value
func Getenv(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + "_" + strings.ToUpper(key)); v != "" {
		return ExpandHome(v)
	}
	return fallback
}

// GetenvUint returns $MAGSAMPLE_<key> parsed as an unsigned integer.
// ok is false when the variable is unset or not a number.
func GetenvUint(key string) (v uint64, ok bool) {
	s := Getenv(key, "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

// ResolvePaths fills every path from the environment, then defaults.
// Flags applied afterwards take precedence over both.
func ResolvePaths() Paths {
	return Paths{
		Config:      Getenv("CONFIG", DefaultConfigFile),
		GridStates:  Getenv("GRIDSTATES", DefaultGridStatesFile),
		Index:       Getenv("INDEX", DefaultIndexFile),
		Output:      Getenv("OUTPUT", DefaultOutputFile),
		LogDir:      Getenv("LOG_DIR", ""),
		MetricsFile: Getenv("METRICS_FILE", ""),
	}
}

// ExpandHome replaces a leading "~/" or a bare "~" with the user's home directory.
// Returns path unchanged if it does not start with "~".
//
// Expectations:
//   - Expands "~/foo" to "<home>/foo"
//   - Expands bare "~" to "<home>"
//   - Returns path unchanged when it does not start with "~"
//   - Returns path unchanged for "/absolute/path"
func ExpandHome(path string) string {
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
