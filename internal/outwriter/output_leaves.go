package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintLeaves outputs the leaf projects beneath a node, dispatching based on the output format configured.
func PrintLeaves(result schema.LeavesResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON leaves"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeavesCSV(w, result)
		}, "Wrote CSV leaves"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLeavesTable(w, result, cfg)
		}, "Wrote leaves")
	}
	return nil
}

func writeLeavesTable(w io.Writer, result schema.LeavesResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Leaf projects of %s %s: %d\n", result.Kind, result.ID, len(result.Leaves)); err != nil {
		return err
	}
	if result.DerivedState != "" {
		if _, err := fmt.Fprintf(w, "Derived state: %s\n", result.DerivedState); err != nil {
			return err
		}
	}
	if len(result.Leaves) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Name", "State", "Team"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for i, p := range result.Leaves {
		team := p.TeamID
		if team == "" {
			team = "-"
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			p.ID,
			contract.TruncateName(p.Name, nameWidth),
			string(p.State),
			team,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeLeavesCSV(w io.Writer, result schema.LeavesResult) error {
	header := []string{"id", "name", "state", "archived", "parent_id", "team_id"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range result.Leaves {
			rec := []string{p.ID, p.Name, string(p.State), strconv.FormatBool(p.Archived), p.ParentID, p.TeamID}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintMutationResult outputs the outcome of a write command.
// Text goes to stdout on success and lists every message on failure.
func PrintMutationResult(result schema.MutationResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON result")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeMutationText(w, result)
	}, "Wrote result")
}

func writeMutationText(w io.Writer, result schema.MutationResult) error {
	subject := strings.TrimSpace(result.Kind + " " + result.ID)
	if result.OK() {
		line := fmt.Sprintf("✅ %s %s", result.Action, subject)
		if result.Detail != "" {
			line += ": " + result.Detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if len(result.Cascaded) > 0 {
			_, err := fmt.Fprintf(w, "Cascaded to %d leaf projects: %s\n", len(result.Cascaded), strings.Join(result.Cascaded, ", "))
			return err
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "❌ %s %s failed: %d problem(s)\n", result.Action, subject, len(result.Errors)); err != nil {
		return err
	}
	for _, msg := range result.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}
	if len(result.Cascaded) > 0 {
		_, err := fmt.Fprintf(w, "Cascaded to %d leaf projects before failing: %s\n", len(result.Cascaded), strings.Join(result.Cascaded, ", "))
		return err
	}
	return nil
}
