package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/orghealth/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	MaxWorkers         = 256
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	Output      schema.OutputMode
	OutputFile  string
	ResultLimit int // 0 shows every entity
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	Workers     int
	UseColors   bool // Enable colored labels in table output

	Today      time.Time         // Evaluation day, UTC midnight
	NodePolicy schema.NodePolicy // Classifier used by graph rollups

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// --- Command inputs ---
	EntityKind   schema.EntityKind
	EntityID     string
	TargetState  schema.WorkState
	Cascade      bool
	Health       schema.HealthValue
	UpdateDate   time.Time
	Description  string
	Name         string
	ParentID     string
	TeamID       string
	ProjectID    string
	SnapshotPath string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	KindStr    string
	IDStr      string
	StateStr   string
	HealthStr  string
	NameStr    string
	PathStr    string
	ProjectStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Workers        int    `mapstructure:"workers"`
	Color          string `mapstructure:"color"`
	Today          string `mapstructure:"today"`
	NodePolicy     string `mapstructure:"node-policy"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from transitionCmd.Flags() ---
	Cascade bool `mapstructure:"cascade"`

	// --- Fields from updateCmd.Flags() ---
	Date        string `mapstructure:"date"`
	Description string `mapstructure:"description"`

	// --- Fields from createCmd.Flags() ---
	Parent string `mapstructure:"parent"`
	Team   string `mapstructure:"team"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Clock returns a clock pinned to the configured evaluation day.
func (c *Config) Clock() Clock {
	if c.Today.IsZero() {
		return SystemClock{}
	}
	return FixedClock{Day: c.Today}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	if err := processDays(cfg, input, SystemClock{}); err != nil {
		return err
	}
	return processCommandInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs validates output, worker and policy settings.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = strings.TrimSpace(input.OutputFile)
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Limit, Precision and Output Validation ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 1 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	// --- 3. Node Policy Validation ---
	cfg.NodePolicy = schema.StrictPolicy
	if input.NodePolicy != "" {
		cfg.NodePolicy = schema.NodePolicy(strings.ToLower(input.NodePolicy))
		if _, ok := schema.ValidNodePolicies[cfg.NodePolicy]; !ok {
			return fmt.Errorf("invalid node policy '%s'. must be strict, rounded", input.NodePolicy)
		}
	}
	return nil
}

// validateStoreConfig validates the store backend configuration.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.SQLiteBackend
	if input.StoreBackend != "" {
		cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, memory", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processDays resolves the evaluation day and the update day.
func processDays(cfg *Config, input *ConfigRawInput, clock Clock) error {
	today, err := ParseDayInput(input.Today, clock.Today())
	if err != nil {
		return fmt.Errorf("invalid --today value: %w", err)
	}
	cfg.Today = today

	cfg.UpdateDate, err = ParseDayInput(input.Date, cfg.Today)
	if err != nil {
		return fmt.Errorf("invalid --date value: %w", err)
	}
	if cfg.UpdateDate.After(cfg.Today) {
		return fmt.Errorf("update date (%s) cannot be after today (%s)", schema.FormatDay(cfg.UpdateDate), schema.FormatDay(cfg.Today))
	}
	return nil
}

// processCommandInputs copies positional and per-command inputs.
// Health and state values are left for the lifecycle layer to judge.
func processCommandInputs(cfg *Config, input *ConfigRawInput) error {
	if input.KindStr != "" {
		cfg.EntityKind = schema.EntityKind(strings.ToLower(strings.TrimSpace(input.KindStr)))
		if !cfg.EntityKind.IsValid() {
			return fmt.Errorf("invalid entity kind '%s'. must be project, team, initiative", input.KindStr)
		}
	}
	cfg.EntityID = strings.TrimSpace(input.IDStr)
	cfg.TargetState = schema.WorkState(strings.ToLower(strings.TrimSpace(input.StateStr)))
	cfg.Health = schema.HealthValue(strings.ToLower(strings.TrimSpace(input.HealthStr)))
	cfg.Name = strings.TrimSpace(input.NameStr)
	cfg.SnapshotPath = strings.TrimSpace(input.PathStr)
	cfg.Description = strings.TrimSpace(input.Description)
	cfg.ParentID = strings.TrimSpace(input.Parent)
	cfg.TeamID = strings.TrimSpace(input.Team)
	cfg.ProjectID = strings.TrimSpace(input.ProjectStr)
	cfg.Cascade = input.Cascade
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
