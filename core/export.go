package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/parquet"
	"github.com/huangsam/orghealth/schema"
)

// ExecuteStoreExport writes three Parquet files next to the output path: every
// health update, the weekly trend of each active root project, and a health
// snapshot of every entity as of the evaluation day.
func ExecuteStoreExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}

	status, err := s.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	fmt.Printf("Exporting data from %s backend...\n", status.Backend)

	updates, err := allHealthUpdates(ctx, s)
	if err != nil {
		return err
	}
	updatesFile := cfg.OutputFile + ".health_updates.parquet"
	if err := parquet.WriteHealthUpdatesParquet(parquet.ConvertHealthUpdates(updates), updatesFile); err != nil {
		return fmt.Errorf("failed to write health updates: %w", err)
	}
	fmt.Printf("Exported %d health updates to: %s\n", len(updates), updatesFile)

	points, err := rootWeeklyPoints(ctx, s, cfg)
	if err != nil {
		return err
	}
	pointsFile := cfg.OutputFile + ".weekly_points.parquet"
	if err := parquet.WriteWeeklyPointsParquet(points, pointsFile); err != nil {
		return fmt.Errorf("failed to write weekly points: %w", err)
	}
	fmt.Printf("Exported %d weekly points to: %s\n", len(points), pointsFile)

	exportCfg := cfg.Clone()
	exportCfg.ResultLimit = 0
	report, err := GetReportResult(WithSuppressHeader(ctx), exportCfg, mgr)
	if err != nil {
		return err
	}
	entitiesFile := cfg.OutputFile + ".entity_health.parquet"
	rows := parquet.ConvertEntityHealth(report.Entities, cfg.Clock().Today())
	if err := parquet.WriteEntityHealthParquet(rows, entitiesFile); err != nil {
		return fmt.Errorf("failed to write entity health: %w", err)
	}
	fmt.Printf("Exported %d entity health rows to: %s\n", len(rows), entitiesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	return nil
}

// bulkUpdateLoader is implemented by stores that can read every update in one pass.
type bulkUpdateLoader interface {
	AllHealthUpdates(ctx context.Context) ([]schema.HealthUpdate, error)
}

// allHealthUpdates gathers the updates of every project, team and initiative.
func allHealthUpdates(ctx context.Context, s contract.Store) ([]schema.HealthUpdate, error) {
	if bulk, ok := s.(bulkUpdateLoader); ok {
		updates, err := bulk.AllHealthUpdates(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load health updates: %w", err)
		}
		return updates, nil
	}

	var owners []string
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	owners = append(owners, schema.ProjectIDs(projects)...)
	teams, err := s.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, t := range teams {
		owners = append(owners, t.ID)
	}
	initiatives, err := s.ListInitiatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}
	for _, i := range initiatives {
		owners = append(owners, i.ID)
	}

	var all []schema.HealthUpdate
	for _, id := range owners {
		updates, err := s.HealthUpdatesOf(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load health updates of %s: %w", id, err)
		}
		schema.SortUpdates(updates)
		all = append(all, updates...)
	}
	return all, nil
}

// rootWeeklyPoints buckets the own updates of each active root project, the
// same input the confidence scorer uses.
func rootWeeklyPoints(ctx context.Context, s contract.Store, cfg *contract.Config) ([]parquet.WeeklyPoint, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	g := newGraph(s, cfg)

	var rows []parquet.WeeklyPoint
	for _, p := range projects {
		if !p.IsRoot() || !p.IsActive() {
			continue
		}
		points, err := g.Project(p).WeeklyTrend(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute weekly trend of %s: %w", p.ID, err)
		}
		rows = append(rows, parquet.ConvertTrendPoints(p.ID, points)...)
	}
	return rows, nil
}
