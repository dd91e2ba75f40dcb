package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgRed, color.Bold) // HighColor represents standard danger.
	ModerateColor = color.New(color.FgYellow)          // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgGreen)           // LowColor represents a reassuring signal.
)

// GetPlainLabel returns the tier name used for CSV, JSON, and table printing.
func GetPlainLabel(tier schema.RiskTier) string {
	return string(tier)
}

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(tier schema.RiskTier) string {
	text := GetPlainLabel(tier)

	switch tier {
	case schema.HighRisk:
		return HighColor.Sprint(text)
	case schema.ModerateRisk:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// FormatPercent renders a percent the way it is shown to users.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs a progress line to stderr so stdout stays machine-readable.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetModelDBFilePath returns the path to the SQLite DB file for the model registry.
func GetModelDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cardiorisk_models.db"
	}
	return filepath.Join(homeDir, ".cardiorisk_models.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for assessment history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cardiorisk_history.db"
	}
	return filepath.Join(homeDir, ".cardiorisk_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
