// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteEntities prints evaluated entities using the configured output format.
func (ow *OutWriter) WriteEntities(entities []schema.EntityHealth, cfg *contract.Config, duration time.Duration) error {
	return PrintEntityHealth(entities, cfg, duration)
}

// WriteTrend prints the weekly trend of one entity using the configured output format.
func (ow *OutWriter) WriteTrend(entity schema.EntityHealth, cfg *contract.Config) error {
	return PrintTrend(entity, cfg)
}

// WriteConfidence prints the system-wide trend and its confidence using the configured output format.
func (ow *OutWriter) WriteConfidence(result schema.TrendConfidenceResult, cfg *contract.Config) error {
	return PrintConfidence(result, cfg)
}

// WriteReport prints the organization-wide report using the configured output format.
func (ow *OutWriter) WriteReport(report schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return PrintReport(report, cfg, duration)
}

// WriteLeaves prints the leaf projects beneath a node using the configured output format.
func (ow *OutWriter) WriteLeaves(result schema.LeavesResult, cfg *contract.Config) error {
	return PrintLeaves(result, cfg)
}

// WriteResult prints the outcome of a mutation using the configured output format.
func (ow *OutWriter) WriteResult(result schema.MutationResult, cfg *contract.Config) error {
	return PrintMutationResult(result, cfg)
}

// WriteTransitionCheck prints a dry-run project transition using the configured output format.
func (ow *OutWriter) WriteTransitionCheck(result schema.TransitionCheckResult, cfg *contract.Config) error {
	return PrintTransitionCheck(result, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for entity names in table output
// based on terminal width and the fixed columns of the health table.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Kind + State + Health + Score + Trend + Leaves with borders/padding
	baseWidth := 75

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 60 {
		return 60
	}
	return available
}
