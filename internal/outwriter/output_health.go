package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintEntityHealth outputs evaluated entities, dispatching based on the output format configured.
func PrintEntityHealth(entities []schema.EntityHealth, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichEntities(entities))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEntityCSV(w, entities, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeEntityTable(w, entities, cfg, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Evaluated %d entities in %v with %d workers. Store backend: %s\n",
				len(entities), duration, cfg.Workers, cfg.StoreBackend)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeEntityTable generates and writes the human-readable health table.
func writeEntityTable(w io.Writer, entities []schema.EntityHealth, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Kind", "Name", "State", "Health", "Score", "Trend", "Leaves"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for i, e := range entities {
		state := string(e.State)
		if state == "" {
			state = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			string(e.Kind),
			contract.TruncateName(e.Name, nameWidth),
			state,
			healthLabel(e.Health, cfg),
			formatRawScore(e.RawScore, fmtFloat),
			schema.FormatTrend(e.Trend),
			strconv.Itoa(e.Leaves),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeEntityCSV writes one row per entity.
func writeEntityCSV(w io.Writer, entities []schema.EntityHealth, fmtFloat func(float64) string) error {
	header := []string{"rank", "kind", "id", "name", "state", "health", "label", "raw_score", "trend", "leaves"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, e := range entities {
			raw := ""
			if e.RawScore != nil {
				raw = fmtFloat(*e.RawScore)
			}
			rec := []string{
				strconv.Itoa(i + 1),
				string(e.Kind),
				e.ID,
				e.Name,
				string(e.State),
				string(e.Health),
				schema.GetPlainLabel(e.Health),
				raw,
				schema.FormatTrend(e.Trend),
				strconv.Itoa(e.Leaves),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintReport outputs the organization-wide report.
// CSV carries the entity rows only; the confidence block needs text or JSON.
func PrintReport(report schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		out := struct {
			Entities   []schema.EnrichedEntityHealth `json:"entities"`
			Confidence schema.TrendConfidenceResult  `json:"confidence"`
		}{schema.EnrichEntities(report.Entities), report.Confidence}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON report"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEntityCSV(w, report.Entities, fmtFloat)
		}, "Wrote CSV report"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeEntityTable(w, report.Entities, cfg, fmtFloat); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			if err := writeConfidenceSummary(w, report.Confidence, cfg, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Report completed in %v with %d workers. Store backend: %s\n",
				duration, cfg.Workers, cfg.StoreBackend)
			return err
		}, "Wrote report")
	}
	return nil
}
