// Package parquet provides row types and writers for exporting orghealth
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/orghealth/schema"
	"github.com/parquet-go/parquet-go"
)

// HealthUpdate is one stored health update.
// This struct maps to the orghealth_health_updates database table.
type HealthUpdate struct {
	// ID is the unique identifier of the update
	ID string `parquet:"id,snappy"`

	// OwnerID is the project, team or initiative the update belongs to
	OwnerID string `parquet:"owner_id,snappy"`

	// UpdateDate is the day of the update (stored as TIMESTAMP at UTC midnight)
	UpdateDate time.Time `parquet:"update_date,snappy"`

	// Health is one of on_track, at_risk, off_track
	Health string `parquet:"health,snappy"`

	// Description is free text (nullable)
	Description *string `parquet:"description,optional,snappy"`
}

// WeeklyPoint is one weekly bucket of a root project's trend.
type WeeklyPoint struct {
	ProjectID string    `parquet:"project_id,snappy"`
	WeekStart time.Time `parquet:"week_start,snappy"`
	Health    string    `parquet:"health,snappy"`

	// UpdateDate is the day of the update the bucket carries forward (nullable)
	UpdateDate *time.Time `parquet:"update_date,optional,snappy"`

	// Current marks the in-progress point that is not snapped to a Monday
	Current bool `parquet:"current,snappy"`
}

// EntityHealth is the evaluated health of a node as of the export day.
type EntityHealth struct {
	AsOf   time.Time `parquet:"as_of,snappy"`
	Kind   string    `parquet:"kind,snappy"`
	ID     string    `parquet:"id,snappy"`
	Name   string    `parquet:"name,snappy"`
	State  *string   `parquet:"state,optional,snappy"` // Teams have no state
	Health string    `parquet:"health,snappy"`

	// RawScore is the mean before classification (nullable when nothing was averaged)
	RawScore *float64 `parquet:"raw_score,optional,snappy"`

	Leaves int32 `parquet:"leaves,snappy"`
}

// WriteHealthUpdatesParquet writes health update rows to a Parquet file.
func WriteHealthUpdatesParquet(data []HealthUpdate, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteWeeklyPointsParquet writes weekly trend rows to a Parquet file.
func WriteWeeklyPointsParquet(data []WeeklyPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteEntityHealthParquet writes entity health rows to a Parquet file.
func WriteEntityHealthParquet(data []EntityHealth, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows to a new file. The schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ConvertHealthUpdates converts stored updates to Parquet rows.
func ConvertHealthUpdates(updates []schema.HealthUpdate) []HealthUpdate {
	result := make([]HealthUpdate, len(updates))
	for i, u := range updates {
		result[i] = HealthUpdate{
			ID:          u.ID,
			OwnerID:     u.OwnerID,
			UpdateDate:  u.Date,
			Health:      string(u.Health),
			Description: optionalString(u.Description),
		}
	}
	return result
}

// ConvertTrendPoints converts the weekly trend of one project to Parquet rows.
func ConvertTrendPoints(projectID string, points []schema.TrendPoint) []WeeklyPoint {
	result := make([]WeeklyPoint, len(points))
	for i, p := range points {
		result[i] = WeeklyPoint{
			ProjectID:  projectID,
			WeekStart:  p.Date,
			Health:     string(p.Health),
			UpdateDate: p.UpdateDate,
			Current:    p.Current,
		}
	}
	return result
}

// ConvertEntityHealth converts evaluated entities to Parquet rows.
func ConvertEntityHealth(entities []schema.EntityHealth, asOf time.Time) []EntityHealth {
	result := make([]EntityHealth, len(entities))
	for i, e := range entities {
		result[i] = EntityHealth{
			AsOf:     asOf,
			Kind:     string(e.Kind),
			ID:       e.ID,
			Name:     e.Name,
			State:    optionalString(string(e.State)),
			Health:   string(e.Health),
			RawScore: e.RawScore,
			Leaves:   int32(e.Leaves),
		}
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
