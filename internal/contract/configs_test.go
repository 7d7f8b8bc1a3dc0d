package contract

import (
	"testing"
	"time"

	"github.com/huangsam/orghealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:    "text",
		Limit:     DefaultResultLimit,
		Precision: 2,
		Workers:   4,
		Color:     "yes",
		Today:     "2026-03-18",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid workers (zero)",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid workers (too large)",
			mutate:      func(in *ConfigRawInput) { in.Workers = MaxWorkers + 1 },
			expectError: true,
		},
		{
			name:        "invalid precision (zero)",
			mutate:      func(in *ConfigRawInput) { in.Precision = 0 },
			expectError: true,
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: true,
		},
		{
			name:        "invalid color value",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "negative width",
			mutate:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: true,
		},
		{
			name:        "invalid node policy",
			mutate:      func(in *ConfigRawInput) { in.NodePolicy = "lenient" },
			expectError: true,
		},
		{
			name:   "rounded node policy",
			mutate: func(in *ConfigRawInput) { in.NodePolicy = "ROUNDED" },
		},
		{
			name:        "invalid store backend",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = "redis" },
			expectError: true,
		},
		{
			name:        "mysql backend without connection string",
			mutate:      func(in *ConfigRawInput) { in.StoreBackend = string(schema.MySQLBackend) },
			expectError: true,
		},
		{
			name: "postgresql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = string(schema.PostgreSQLBackend)
				in.StoreDBConnect = "host=localhost port=5432 user=u password=p dbname=org"
			},
		},
		{
			name:        "invalid today",
			mutate:      func(in *ConfigRawInput) { in.Today = "next tuesday" },
			expectError: true,
		},
		{
			name:        "update date after today",
			mutate:      func(in *ConfigRawInput) { in.Date = "2026-03-19" },
			expectError: true,
		},
		{
			name:        "negative limit",
			mutate:      func(in *ConfigRawInput) { in.Limit = -1 },
			expectError: true,
		},
		{
			name:        "limit too large",
			mutate:      func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			expectError: true,
		},
		{
			name:        "invalid entity kind",
			mutate:      func(in *ConfigRawInput) { in.KindStr = "portfolio" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.StrictPolicy, cfg.NodePolicy)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), cfg.Today)
	assert.Equal(t, cfg.Today, cfg.UpdateDate, "update date defaults to today")
}

func TestProcessAndValidateCommandInputs(t *testing.T) {
	input := validInput()
	input.KindStr = " Initiative "
	input.IDStr = "i1"
	input.StateStr = "ON_HOLD"
	input.HealthStr = "At_Risk"
	input.Date = "1 week ago"
	input.Cascade = true
	input.Parent = " p0 "
	input.ProjectStr = "root"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.InitiativeKind, cfg.EntityKind)
	assert.Equal(t, "i1", cfg.EntityID)
	assert.Equal(t, schema.StateOnHold, cfg.TargetState)
	assert.Equal(t, schema.AtRisk, cfg.Health)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), cfg.UpdateDate)
	assert.True(t, cfg.Cascade)
	assert.Equal(t, "p0", cfg.ParentID)
	assert.Equal(t, "root", cfg.ProjectID)
}

func TestConfigClock(t *testing.T) {
	cfg := &Config{}
	_, isSystem := cfg.Clock().(SystemClock)
	assert.True(t, isSystem)

	cfg.Today = time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), cfg.Clock().Today())

	clone := cfg.Clone()
	clone.Today = time.Time{}
	assert.False(t, cfg.Today.IsZero())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"memory needs nothing", schema.MemoryBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/org", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/org", true},
		{"mysql missing database", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=org", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=org", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	require.NoError(t, ProcessProfilingConfig(&profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(&profile, "orghealth"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "orghealth", profile.Prefix)
}
