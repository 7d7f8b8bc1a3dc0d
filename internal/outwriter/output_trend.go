package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTrend outputs the weekly trend of one entity, dispatching based on the output format configured.
func PrintTrend(entity schema.EntityHealth, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entity)
		}, "Wrote JSON trend"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendCSV(w, entity)
		}, "Wrote CSV trend"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendTable(w, entity, cfg)
		}, "Wrote trend")
	}
	return nil
}

// writeTrendTable prints one row per weekly bucket, oldest first.
func writeTrendTable(w io.Writer, entity schema.EntityHealth, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Trend for %s %s (%s): %s\n",
		entity.Kind, entity.Name, entity.ID, schema.FormatTrend(entity.Trend)); err != nil {
		return err
	}
	if len(entity.Trend) == 0 {
		_, err := fmt.Fprintln(w, "No health updates recorded.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Week", "Health", "Updated", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, p := range entity.Trend {
		week := schema.FormatDay(p.Date)
		if p.Current {
			week += " (current)"
		}
		data = append(data, []string{
			week,
			healthLabel(p.Health, cfg),
			formatOptionalDay(p.UpdateDate),
			contract.TruncateName(p.Description, GetMaxTableNameWidth(cfg)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeTrendCSV writes one row per weekly bucket.
func writeTrendCSV(w io.Writer, entity schema.EntityHealth) error {
	header := []string{"kind", "id", "week", "health", "update_date", "current", "description"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range entity.Trend {
			updated := ""
			if p.UpdateDate != nil {
				updated = schema.FormatDay(*p.UpdateDate)
			}
			rec := []string{
				string(entity.Kind),
				entity.ID,
				schema.FormatDay(p.Date),
				string(p.Health),
				updated,
				strconv.FormatBool(p.Current),
				p.Description,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
