// Package core has core logic for evaluating, reporting on and mutating the org graph.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/outwriter"
	"github.com/huangsam/orghealth/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// errNoStore is returned when a command runs before the store is initialized.
var errNoStore = errors.New("store is not initialized")

// ExecuteHealth evaluates one entity, or every entity of a kind, and prints the results.
// It serves as the main entry point for the 'health' command.
func ExecuteHealth(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logEvaluationHeader(ctx, cfg, "health")
	entities, err := GetEntityHealthResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteEntities(entities, cfg, time.Since(start))
}

// ExecuteTrend prints every weekly bucket of one entity, including the in-progress week.
func ExecuteTrend(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logEvaluationHeader(ctx, cfg, "trend")
	entity, err := GetTrendResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTrend(entity, cfg)
}

// ExecuteConfidence prints the system-wide trend across root projects and how far it can be trusted.
func ExecuteConfidence(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logEvaluationHeader(ctx, cfg, "confidence")
	result, err := GetConfidenceResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteConfidence(result, cfg)
}

// ExecuteReport evaluates every team, initiative and active project in parallel,
// ranks them worst-first and prints them with the system-wide confidence block.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	logEvaluationHeader(ctx, cfg, "report")
	report, err := GetReportResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteReport(report, cfg, time.Since(start))
}

// ExecuteLeaves prints the leaf projects beneath a node.
func ExecuteLeaves(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	logEvaluationHeader(ctx, cfg, "leaves")
	result, err := GetLeavesResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLeaves(result, cfg)
}

// ExecuteCheckTransition prints whether a project may move to the target state.
// Nothing is written; a disallowed move returns the rejection sentinel so scripts can gate on it.
func ExecuteCheckTransition(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := CheckProjectTransition(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteTransitionCheck(result, cfg); err != nil {
		return err
	}
	if !result.OK() {
		return errRejected
	}
	return nil
}

// logEvaluationHeader prints a one-line header to stderr so piped output stays clean.
func logEvaluationHeader(ctx context.Context, cfg *contract.Config, mode string) {
	if shouldSuppressHeader(ctx) {
		return
	}
	fmt.Fprintf(os.Stderr, "🔎 Evaluating %s as of %s (policy: %s, store: %s)\n",
		mode, schema.FormatDay(cfg.Clock().Today()), policyOf(cfg), cfg.StoreBackend)
}

// policyOf returns the configured node policy, defaulting to strict.
func policyOf(cfg *contract.Config) schema.NodePolicy {
	if cfg.NodePolicy == "" {
		return schema.StrictPolicy
	}
	return cfg.NodePolicy
}

// storeOf returns the active store or errNoStore.
func storeOf(mgr contract.StoreManager) (contract.Store, error) {
	if mgr == nil {
		return nil, errNoStore
	}
	s := mgr.GetStore()
	if s == nil {
		return nil, errNoStore
	}
	return s, nil
}
