package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/orghealth/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		row     any
		columns []string
	}{
		{"health update", new(HealthUpdate), []string{"id", "owner_id", "update_date", "health", "description"}},
		{"weekly point", new(WeeklyPoint), []string{"project_id", "week_start", "health", "update_date", "current"}},
		{"entity health", new(EntityHealth), []string{"as_of", "kind", "id", "name", "state", "health", "raw_score", "leaves"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.row)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteHealthUpdatesParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updates.parquet")
	data := ConvertHealthUpdates([]schema.HealthUpdate{
		schema.NewHealthUpdate("u1", "p1", day(3, 2), schema.OnTrack, "fine"),
		schema.NewHealthUpdate("u2", "p1", day(3, 9), schema.OffTrack, ""),
	})
	require.NoError(t, WriteHealthUpdatesParquet(data, path))

	rows := readAll[HealthUpdate](t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "u1", rows[0].ID)
	assert.Equal(t, "on_track", rows[0].Health)
	require.NotNil(t, rows[0].Description)
	assert.Equal(t, "fine", *rows[0].Description)
	assert.Nil(t, rows[1].Description)
	assert.True(t, day(3, 9).Equal(rows[1].UpdateDate))
}

func TestWriteWeeklyPointsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekly.parquet")
	updated := day(3, 4)
	data := ConvertTrendPoints("p1", []schema.TrendPoint{
		{Date: day(3, 2), Health: schema.NotAvailable},
		{Date: day(3, 9), Health: schema.AtRisk, UpdateDate: &updated},
		{Date: day(3, 11), Health: schema.AtRisk, UpdateDate: &updated, Current: true},
	})
	require.NoError(t, WriteWeeklyPointsParquet(data, path))

	rows := readAll[WeeklyPoint](t, path)
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0].UpdateDate)
	assert.Equal(t, "not_available", rows[0].Health)
	require.NotNil(t, rows[1].UpdateDate)
	assert.True(t, updated.Equal(*rows[1].UpdateDate))
	assert.True(t, rows[2].Current)
	assert.Equal(t, "p1", rows[2].ProjectID)
}

func TestWriteEntityHealthParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.parquet")
	raw := -0.5
	data := ConvertEntityHealth([]schema.EntityHealth{
		{Kind: schema.ProjectKind, ID: "p1", Name: "Checkout", State: schema.StateInProgress, Health: schema.OffTrack, RawScore: &raw, Leaves: 2},
		{Kind: schema.TeamKind, ID: "t1", Name: "Web", Health: schema.NotAvailable},
	}, day(3, 11))
	require.NoError(t, WriteEntityHealthParquet(data, path))

	rows := readAll[EntityHealth](t, path)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].State)
	assert.Equal(t, "in_progress", *rows[0].State)
	require.NotNil(t, rows[0].RawScore)
	assert.InDelta(t, -0.5, *rows[0].RawScore, 1e-9)
	assert.Equal(t, int32(2), rows[0].Leaves)
	assert.Nil(t, rows[1].State, "teams have no state")
	assert.Nil(t, rows[1].RawScore)
}

func TestWriteParquetEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteHealthUpdatesParquet(nil, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "footer is written even without rows")
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteEntityHealthParquet(nil, filepath.Join(t.TempDir(), "missing", "x.parquet"))
	assert.Error(t, err)
}
