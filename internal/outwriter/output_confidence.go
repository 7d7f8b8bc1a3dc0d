package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintConfidence outputs the system-wide trend, dispatching based on the output format configured.
func PrintConfidence(result schema.TrendConfidenceResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON confidence"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConfidenceCSV(w, result, fmtFloat)
		}, "Wrote CSV confidence"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConfidenceSummary(w, result, cfg, fmtFloat)
		}, "Wrote confidence")
	}
	return nil
}

// writeConfidenceSummary prints the weekly points followed by the confidence breakdown.
func writeConfidenceSummary(w io.Writer, result schema.TrendConfidenceResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	if len(result.Points) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Week", "Score", "Health"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, p := range result.Points {
			data = append(data, []string{schema.FormatDay(p.WeekStart), fmtFloat(p.Score), healthLabel(p.Health, cfg)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	f := result.Factors
	daysSince := "-"
	if f.DaysSinceUpdate != nil {
		daysSince = fmt.Sprintf("%d", *f.DaysSinceUpdate)
	}

	labels := []string{"Direction:", "Delta:", "Weeks of data:", "Confidence:", "Biggest drag:", "Penalties:", "Days since update:", "Coverage:"}
	values := []string{
		string(result.Direction),
		fmtFloat(result.Delta),
		fmt.Sprintf("%d", result.WeeksOfData),
		fmt.Sprintf("%d (%s)", result.ConfidenceScore, levelLabel(result.ConfidenceLevel, cfg)),
		string(f.BiggestDrag),
		fmt.Sprintf("variance=%d, staleness=%d, coverage=%d", f.VariancePenalty, f.StalenessPenalty, f.CoveragePenalty),
		daysSince,
		fmt.Sprintf("%d of %d active projects fresh, %d need an update", f.FreshProjects, f.ActiveProjects, f.ProjectsNeedingUpdate),
	}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %s\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeConfidenceCSV writes one row per weekly point.
func writeConfidenceCSV(w io.Writer, result schema.TrendConfidenceResult, fmtFloat func(float64) string) error {
	header := []string{"week_start", "score", "health", "direction", "confidence_score", "confidence_level"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Points {
			rec := []string{
				schema.FormatDay(p.WeekStart),
				fmtFloat(p.Score),
				string(p.Health),
				string(result.Direction),
				fmt.Sprintf("%d", result.ConfidenceScore),
				string(result.ConfidenceLevel),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
