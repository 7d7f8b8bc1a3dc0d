package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/store"
)

// ExecuteSnapshotImport loads a YAML org snapshot into the active store.
// Records are written as-is; lifecycle rules are not replayed.
func ExecuteSnapshotImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.SnapshotPath == "" {
		return errors.New("a snapshot file path is required")
	}
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.SnapshotPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	snap, err := store.ReadSnapshot(f)
	if err != nil {
		return err
	}
	summary, err := store.ImportSnapshot(ctx, s, snap)
	if err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	fmt.Printf("Imported %s into %s backend\n", cfg.SnapshotPath, cfg.StoreBackend)
	fmt.Printf("  Teams:       %d\n", summary.Teams)
	fmt.Printf("  Projects:    %d\n", summary.Projects)
	fmt.Printf("  Initiatives: %d\n", summary.Initiatives)
	fmt.Printf("  Links:       %d\n", summary.Links)
	fmt.Printf("  Updates:     %d\n", summary.Updates)
	return nil
}

// ExecuteSnapshotExport writes the active store as a YAML snapshot to the
// output file, or to stdout when none is set.
func ExecuteSnapshotExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	snap, err := store.ExportSnapshot(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	if err := store.WriteSnapshot(file, snap); err != nil {
		return err
	}
	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 Wrote snapshot to %s\n", cfg.OutputFile)
	}
	return nil
}
