package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/orghealth/schema"
)

// Color variables for console output.
var (
	OnTrackColor  = color.New(color.FgGreen)            // OnTrackColor represents a healthy signal.
	AtRiskColor   = color.New(color.FgYellow)           // AtRiskColor represents standard caution, not bold.
	OffTrackColor = color.New(color.FgRed, color.Bold)  // OffTrackColor represents standard danger.
	MissingColor  = color.New(color.FgHiBlack)          // MissingColor dims values with no data.
	HighColor     = color.New(color.FgCyan, color.Bold) // HighColor marks a trustworthy trend.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(h schema.HealthValue) string {
	text := schema.GetPlainLabel(h)

	switch h {
	case schema.OnTrack:
		return OnTrackColor.Sprint(text)
	case schema.AtRisk:
		return AtRiskColor.Sprint(text)
	case schema.OffTrack:
		return OffTrackColor.Sprint(text)
	default:
		return MissingColor.Sprint(text)
	}
}

// GetColorLevel returns a colored confidence level for console output.
func GetColorLevel(level schema.ConfidenceLevel) string {
	text := string(level)

	switch level {
	case schema.ConfidenceHigh:
		return HighColor.Sprint(text)
	case schema.ConfidenceMedium:
		return AtRiskColor.Sprint(text)
	default:
		return OffTrackColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
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

// GetDBFilePath returns the path to the SQLite DB file for the org store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".orghealth.db"
	}
	return filepath.Join(homeDir, ".orghealth.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
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
