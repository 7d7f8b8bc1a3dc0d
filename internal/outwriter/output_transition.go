package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// PrintTransitionCheck outputs whether a project may move to a target state.
func PrintTransitionCheck(result schema.TransitionCheckResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON transition check")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeTransitionText(w, result)
	}, "Wrote transition check")
}

func writeTransitionText(w io.Writer, result schema.TransitionCheckResult) error {
	from := string(result.From)
	if from == "" {
		from = "?"
	}
	mark := "✅"
	if !result.OK() {
		mark = "❌"
	}
	if _, err := fmt.Fprintf(w, "%s project %s: %s -> %s\n", mark, result.ProjectID, from, result.To); err != nil {
		return err
	}
	for _, msg := range result.Errors {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}

	allowed := make([]string, 0, len(result.Allowed))
	for _, s := range result.Allowed {
		allowed = append(allowed, string(s))
	}
	if len(allowed) == 0 {
		allowed = append(allowed, "none")
	}
	_, err := fmt.Fprintf(w, "Allowed from %s: %s\n", from, strings.Join(allowed, ", "))
	return err
}
