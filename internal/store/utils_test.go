package store

import (
	"bytes"
	"strings"
	"testing"

	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid", "orghealth_projects", false},
		{"underscore start", "_tmp", false},
		{"empty", "", true},
		{"starts with digit", "1table", true},
		{"injection", "projects; DROP TABLE x", true},
		{"dash", "org-health", true},
		{"too long", strings.Repeat("a", 65), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`orghealth_teams`", quoteTableName(teamsTable, schema.MySQLBackend))
	assert.Equal(t, `"orghealth_teams"`, quoteTableName(teamsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"orghealth_teams"`, quoteTableName(teamsTable, schema.SQLiteBackend))
}

func TestRebind(t *testing.T) {
	query := "UPDATE t SET a = ? WHERE id = ?"
	assert.Equal(t, query, rebind(schema.SQLiteBackend, query))
	assert.Equal(t, query, rebind(schema.MySQLBackend, query))
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2", rebind(schema.PostgreSQLBackend, query))
}

func TestUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `INSERT OR REPLACE INTO "orghealth_initiatives" (id, name, state) VALUES (?, ?, ?)`},
		{schema.MySQLBackend, "INSERT INTO `orghealth_initiatives` (id, name, state) VALUES (?, ?, ?) AS new ON DUPLICATE KEY UPDATE name = new.name, state = new.state"},
		{schema.PostgreSQLBackend, `INSERT INTO "orghealth_initiatives" (id, name, state) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, state = EXCLUDED.state`},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			ss := &SQLStore{backend: tt.backend}
			assert.Equal(t, tt.want, ss.upsertQuery(initiativesTable, []string{"id"}, []string{"name", "state"}))
		})
	}
}

func TestPrintStoreStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStoreStatus(&buf, schema.StoreStatus{
		Backend:          "sqlite",
		Connected:        true,
		TotalUpdates:     2,
		LatestUpdateDate: day(3, 2),
		OldestUpdateDate: day(2, 23),
		TableSizes:       map[string]int64{teamsTable: 1, projectsTable: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "Store Backend: sqlite")
	assert.Contains(t, out, "Latest Update: 2026-03-02")
	// Tables print in name order
	assert.Less(t, strings.Index(out, projectsTable), strings.Index(out, teamsTable))

	buf.Reset()
	PrintStoreStatus(&buf, schema.StoreStatus{Backend: "mysql"})
	assert.NotContains(t, buf.String(), "Table Sizes")
}
