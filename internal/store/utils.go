package store

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/orghealth/schema"
)

// Table names for the org store.
const (
	projectsTable           = "orghealth_projects"
	teamsTable              = "orghealth_teams"
	initiativesTable        = "orghealth_initiatives"
	initiativeProjectsTable = "orghealth_initiative_projects"
	healthUpdatesTable      = "orghealth_health_updates"
)

// allTables lists every table, children before parents so drops succeed in order.
var allTables = []string{
	healthUpdatesTable,
	initiativeProjectsTable,
	initiativesTable,
	projectsTable,
	teamsTable,
}

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName ensures the table name is a plain SQL identifier.
func validateTableName(tableName string) error {
	if tableName == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if len(tableName) > 64 {
		return fmt.Errorf("table name too long: %d characters (max 64)", len(tableName))
	}
	if !tableNameRe.MatchString(tableName) {
		return fmt.Errorf("invalid table name %q: must start with a letter or underscore and contain only letters, digits or underscores", tableName)
	}
	return nil
}

// quoteTableName quotes an identifier for the given backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + tableName + "`"
	default: // SQLite and PostgreSQL
		return `"` + tableName + `"`
	}
}

// rebind rewrites ? placeholders into $N for PostgreSQL.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// nullable turns an empty string into a SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func compareInitiatives(a, b schema.Initiative) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
}
