package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and then the data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter returns a float formatter for the configured precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatRawScore renders a raw score, or "-" when nothing was averaged.
func formatRawScore(raw *float64, fmtFloat func(float64) string) string {
	if raw == nil {
		return "-"
	}
	return fmtFloat(*raw)
}

// healthLabel returns the coloured or plain label depending on config.
func healthLabel(h schema.HealthValue, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(h)
	}
	return schema.GetPlainLabel(h)
}

// levelLabel returns the coloured or plain confidence level depending on config.
func levelLabel(level schema.ConfidenceLevel, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLevel(level)
	}
	return string(level)
}

// formatOptionalDay renders a day pointer, or "-" when absent.
func formatOptionalDay(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return schema.FormatDay(*t)
}
