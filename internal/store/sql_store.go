package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// SQLStore persists the org graph in a SQL database.
type SQLStore struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.Store = &SQLStore{} // Compile-time check

// driverFor returns the database/sql driver name for a backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported SQL backend: %s", backend)
	}
}

// openDB opens and pings a database for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, driverName, nil
}

// NewSQLStore opens the database for the backend and ensures the tables exist.
func NewSQLStore(backend schema.DatabaseBackend, connStr string) (*SQLStore, error) {
	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create org tables: %w", err)
	}
	return &SQLStore{db: db, backend: backend, driverName: driverName, connStr: connStr}, nil
}

// createTables creates every org table if it does not exist yet.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, ddl := range tableDDL(backend) {
		if _, err := db.Exec(ddl.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", ddl.table, err)
		}
	}
	return nil
}

type tableQuery struct {
	table string
	query string
}

// tableDDL returns the CREATE TABLE statements in dependency order.
// The column types are portable across SQLite, MySQL and PostgreSQL.
func tableDDL(backend schema.DatabaseBackend) []tableQuery {
	q := func(name string) string { return quoteTableName(name, backend) }
	return []tableQuery{
		{teamsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				parent_id VARCHAR(64),
				position INTEGER NOT NULL DEFAULT 0
			)`, q(teamsTable))},
		{projectsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				state VARCHAR(16) NOT NULL,
				archived BOOLEAN NOT NULL DEFAULT FALSE,
				parent_id VARCHAR(64),
				team_id VARCHAR(64),
				position INTEGER NOT NULL DEFAULT 0
			)`, q(projectsTable))},
		{initiativesTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				state VARCHAR(16) NOT NULL
			)`, q(initiativesTable))},
		{initiativeProjectsTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				initiative_id VARCHAR(64) NOT NULL,
				project_id VARCHAR(64) NOT NULL,
				PRIMARY KEY (initiative_id, project_id)
			)`, q(initiativeProjectsTable))},
		{healthUpdatesTable, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				owner_id VARCHAR(64) NOT NULL,
				update_date VARCHAR(10) NOT NULL,
				id VARCHAR(64) NOT NULL,
				health VARCHAR(16) NOT NULL,
				description TEXT,
				PRIMARY KEY (owner_id, update_date)
			)`, q(healthUpdatesTable))},
	}
}

const projectColumns = "id, name, state, archived, parent_id, team_id, position"

// selectProjects runs a project query built from a WHERE clause with ? placeholders.
func (ss *SQLStore) selectProjects(ctx context.Context, where string, args ...any) ([]schema.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", projectColumns, quoteTableName(projectsTable, ss.backend))
	if where != "" {
		query += " WHERE " + where
	}
	rows, err := ss.db.QueryContext(ctx, rebind(ss.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []schema.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	schema.SortProjects(projects)
	return projects, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (schema.Project, error) {
	var (
		p                schema.Project
		state            string
		parentID, teamID sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &state, &p.Archived, &parentID, &teamID, &p.Position); err != nil {
		return schema.Project{}, err
	}
	p.State = schema.WorkState(state)
	p.ParentID = parentID.String
	p.TeamID = teamID.String
	return p, nil
}

func (ss *SQLStore) selectTeams(ctx context.Context, where string, args ...any) ([]schema.Team, error) {
	query := fmt.Sprintf("SELECT id, name, parent_id, position FROM %s", quoteTableName(teamsTable, ss.backend))
	if where != "" {
		query += " WHERE " + where
	}
	rows, err := ss.db.QueryContext(ctx, rebind(ss.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teams []schema.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	schema.SortTeams(teams)
	return teams, nil
}

func scanTeam(row rowScanner) (schema.Team, error) {
	var (
		t        schema.Team
		parentID sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &parentID, &t.Position); err != nil {
		return schema.Team{}, err
	}
	t.ParentID = parentID.String
	return t, nil
}

// ChildrenOf implements contract.Loader.
func (ss *SQLStore) ChildrenOf(ctx context.Context, projectID string) ([]schema.Project, error) {
	return ss.selectProjects(ctx, "parent_id = ?", projectID)
}

// ParentOf implements contract.Loader.
func (ss *SQLStore) ParentOf(ctx context.Context, projectID string) (*schema.Project, error) {
	p, err := ss.GetProject(ctx, projectID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, nil
	}
	if err != nil || p.ParentID == "" {
		return nil, err
	}
	parent, err := ss.GetProject(ctx, p.ParentID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// OwnedProjectsOf implements contract.Loader.
func (ss *SQLStore) OwnedProjectsOf(ctx context.Context, teamID string) ([]schema.Project, error) {
	return ss.selectProjects(ctx, "team_id = ?", teamID)
}

// SubordinateTeamsOf implements contract.Loader.
func (ss *SQLStore) SubordinateTeamsOf(ctx context.Context, teamID string) ([]schema.Team, error) {
	return ss.selectTeams(ctx, "parent_id = ?", teamID)
}

// ParentTeamOf implements contract.Loader.
func (ss *SQLStore) ParentTeamOf(ctx context.Context, teamID string) (*schema.Team, error) {
	t, err := ss.GetTeam(ctx, teamID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, nil
	}
	if err != nil || t.ParentID == "" {
		return nil, err
	}
	parent, err := ss.GetTeam(ctx, t.ParentID)
	if errors.Is(err, contract.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &parent, nil
}

// RelatedProjectsOf implements contract.Loader.
func (ss *SQLStore) RelatedProjectsOf(ctx context.Context, initiativeID string) ([]schema.Project, error) {
	where := fmt.Sprintf("id IN (SELECT project_id FROM %s WHERE initiative_id = ?)",
		quoteTableName(initiativeProjectsTable, ss.backend))
	return ss.selectProjects(ctx, where, initiativeID)
}

// HealthUpdatesOf implements contract.Loader.
func (ss *SQLStore) HealthUpdatesOf(ctx context.Context, ownerID string) ([]schema.HealthUpdate, error) {
	return ss.selectUpdates(ctx, "owner_id = ?", ownerID)
}

// AllHealthUpdates returns every stored update ordered by owner and date.
func (ss *SQLStore) AllHealthUpdates(ctx context.Context) ([]schema.HealthUpdate, error) {
	return ss.selectUpdates(ctx, "")
}

func (ss *SQLStore) selectUpdates(ctx context.Context, where string, args ...any) ([]schema.HealthUpdate, error) {
	query := fmt.Sprintf("SELECT id, owner_id, update_date, health, description FROM %s", quoteTableName(healthUpdatesTable, ss.backend))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY owner_id, update_date"
	rows, err := ss.db.QueryContext(ctx, rebind(ss.backend, query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query health updates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var updates []schema.HealthUpdate
	for rows.Next() {
		var (
			u       schema.HealthUpdate
			dateStr string
			health  string
			desc    sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.OwnerID, &dateStr, &health, &desc); err != nil {
			return nil, fmt.Errorf("failed to scan health update: %w", err)
		}
		date, err := schema.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q on update %s: %w", dateStr, u.ID, err)
		}
		u.Date = date
		u.Health = schema.HealthValue(health)
		u.Description = desc.String
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health update rows: %w", err)
	}
	return updates, nil
}

// GetProject implements contract.Catalog.
func (ss *SQLStore) GetProject(ctx context.Context, id string) (schema.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", projectColumns, quoteTableName(projectsTable, ss.backend))
	p, err := scanProject(ss.db.QueryRowContext(ctx, rebind(ss.backend, query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Project{}, contract.NotFound(string(schema.ProjectKind), id)
	}
	if err != nil {
		return schema.Project{}, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

// GetTeam implements contract.Catalog.
func (ss *SQLStore) GetTeam(ctx context.Context, id string) (schema.Team, error) {
	query := fmt.Sprintf("SELECT id, name, parent_id, position FROM %s WHERE id = ?", quoteTableName(teamsTable, ss.backend))
	t, err := scanTeam(ss.db.QueryRowContext(ctx, rebind(ss.backend, query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Team{}, contract.NotFound(string(schema.TeamKind), id)
	}
	if err != nil {
		return schema.Team{}, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return t, nil
}

// GetInitiative implements contract.Catalog.
func (ss *SQLStore) GetInitiative(ctx context.Context, id string) (schema.Initiative, error) {
	query := fmt.Sprintf("SELECT id, name, state FROM %s WHERE id = ?", quoteTableName(initiativesTable, ss.backend))
	var (
		i     schema.Initiative
		state string
	)
	err := ss.db.QueryRowContext(ctx, rebind(ss.backend, query), id).Scan(&i.ID, &i.Name, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Initiative{}, contract.NotFound(string(schema.InitiativeKind), id)
	}
	if err != nil {
		return schema.Initiative{}, fmt.Errorf("failed to get initiative %s: %w", id, err)
	}
	i.State = schema.WorkState(state)
	return i, nil
}

// ListProjects implements contract.Catalog.
func (ss *SQLStore) ListProjects(ctx context.Context) ([]schema.Project, error) {
	return ss.selectProjects(ctx, "")
}

// ListTeams implements contract.Catalog.
func (ss *SQLStore) ListTeams(ctx context.Context) ([]schema.Team, error) {
	return ss.selectTeams(ctx, "")
}

// ListInitiatives implements contract.Catalog.
func (ss *SQLStore) ListInitiatives(ctx context.Context) ([]schema.Initiative, error) {
	query := fmt.Sprintf("SELECT id, name, state FROM %s ORDER BY name, id", quoteTableName(initiativesTable, ss.backend))
	rows, err := ss.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query initiatives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var initiatives []schema.Initiative
	for rows.Next() {
		var (
			i     schema.Initiative
			state string
		)
		if err := rows.Scan(&i.ID, &i.Name, &state); err != nil {
			return nil, fmt.Errorf("failed to scan initiative: %w", err)
		}
		i.State = schema.WorkState(state)
		initiatives = append(initiatives, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating initiative rows: %w", err)
	}
	return initiatives, nil
}

// SaveProject implements contract.Writer.
func (ss *SQLStore) SaveProject(ctx context.Context, p schema.Project) error {
	query := ss.upsertQuery(projectsTable, []string{"id"}, []string{"name", "state", "archived", "parent_id", "team_id", "position"})
	_, err := ss.db.ExecContext(ctx, query, p.ID, p.Name, string(p.State), p.Archived, nullable(p.ParentID), nullable(p.TeamID), p.Position)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

// SaveTeam implements contract.Writer.
func (ss *SQLStore) SaveTeam(ctx context.Context, t schema.Team) error {
	query := ss.upsertQuery(teamsTable, []string{"id"}, []string{"name", "parent_id", "position"})
	if _, err := ss.db.ExecContext(ctx, query, t.ID, t.Name, nullable(t.ParentID), t.Position); err != nil {
		return fmt.Errorf("failed to save team %s: %w", t.ID, err)
	}
	return nil
}

// SaveInitiative implements contract.Writer.
func (ss *SQLStore) SaveInitiative(ctx context.Context, i schema.Initiative) error {
	query := ss.upsertQuery(initiativesTable, []string{"id"}, []string{"name", "state"})
	if _, err := ss.db.ExecContext(ctx, query, i.ID, i.Name, string(i.State)); err != nil {
		return fmt.Errorf("failed to save initiative %s: %w", i.ID, err)
	}
	return nil
}

// UpsertHealthUpdate implements contract.Writer.
func (ss *SQLStore) UpsertHealthUpdate(ctx context.Context, u schema.HealthUpdate) error {
	query := ss.upsertQuery(healthUpdatesTable, []string{"owner_id", "update_date"}, []string{"id", "health", "description"})
	_, err := ss.db.ExecContext(ctx, query, u.OwnerID, schema.FormatDay(u.Date), u.ID, string(u.Health), nullable(u.Description))
	if err != nil {
		return fmt.Errorf("failed to upsert health update for %s: %w", u.OwnerID, err)
	}
	return nil
}

// SetProjectState implements contract.Writer.
func (ss *SQLStore) SetProjectState(ctx context.Context, projectID string, state schema.WorkState) error {
	return ss.updateColumn(ctx, projectsTable, schema.ProjectKind, projectID, "state", string(state))
}

// SetInitiativeState implements contract.Writer.
func (ss *SQLStore) SetInitiativeState(ctx context.Context, initiativeID string, state schema.WorkState) error {
	return ss.updateColumn(ctx, initiativesTable, schema.InitiativeKind, initiativeID, "state", string(state))
}

// SetProjectParent implements contract.Writer.
func (ss *SQLStore) SetProjectParent(ctx context.Context, projectID, parentID string) error {
	return ss.updateColumn(ctx, projectsTable, schema.ProjectKind, projectID, "parent_id", nullable(parentID))
}

// SetProjectTeam implements contract.Writer.
func (ss *SQLStore) SetProjectTeam(ctx context.Context, projectID, teamID string) error {
	return ss.updateColumn(ctx, projectsTable, schema.ProjectKind, projectID, "team_id", nullable(teamID))
}

// SetTeamParent implements contract.Writer.
func (ss *SQLStore) SetTeamParent(ctx context.Context, teamID, parentID string) error {
	return ss.updateColumn(ctx, teamsTable, schema.TeamKind, teamID, "parent_id", nullable(parentID))
}

// LinkInitiativeProject implements contract.Writer. Linking twice is a no-op.
func (ss *SQLStore) LinkInitiativeProject(ctx context.Context, initiativeID, projectID string) error {
	if _, err := ss.GetInitiative(ctx, initiativeID); err != nil {
		return err
	}
	if _, err := ss.GetProject(ctx, projectID); err != nil {
		return err
	}
	table := quoteTableName(initiativeProjectsTable, ss.backend)
	var query string
	switch ss.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf("INSERT IGNORE INTO %s (initiative_id, project_id) VALUES (?, ?)", table)
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf("INSERT INTO %s (initiative_id, project_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", table)
	default: // SQLite
		query = fmt.Sprintf("INSERT OR IGNORE INTO %s (initiative_id, project_id) VALUES (?, ?)", table)
	}
	if _, err := ss.db.ExecContext(ctx, query, initiativeID, projectID); err != nil {
		return fmt.Errorf("failed to link project %s to initiative %s: %w", projectID, initiativeID, err)
	}
	return nil
}

// updateColumn sets one column on one row and reports a missing row as not found.
func (ss *SQLStore) updateColumn(ctx context.Context, table string, kind schema.EntityKind, id, column string, value any) error {
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", quoteTableName(table, ss.backend), column)
	res, err := ss.db.ExecContext(ctx, rebind(ss.backend, query), value, id)
	if err != nil {
		return fmt.Errorf("failed to update %s of %s %s: %w", column, kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the value is unchanged
	if ss.backend == schema.MySQLBackend {
		if exists, err := ss.exists(ctx, table, id); err != nil || exists {
			return err
		}
	}
	return contract.NotFound(string(kind), id)
}

func (ss *SQLStore) exists(ctx context.Context, table, id string) (bool, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", quoteTableName(table, ss.backend))
	var n int
	if err := ss.db.QueryRowContext(ctx, rebind(ss.backend, query), id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", table, id, err)
	}
	return n > 0, nil
}

// upsertQuery returns the backend-specific insert-or-update statement.
// Arguments are bound in key-then-value column order.
func (ss *SQLStore) upsertQuery(table string, keys, values []string) string {
	cols := append(append([]string{}, keys...), values...)
	quoted := quoteTableName(table, ss.backend)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = "?"
	}
	colList := strings.Join(cols, ", ")
	valList := strings.Join(placeholders, ", ")

	switch ss.backend {
	case schema.MySQLBackend:
		sets := make([]string, len(values))
		for i, c := range values {
			sets[i] = fmt.Sprintf("%s = new.%s", c, c)
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s", quoted, colList, valList, strings.Join(sets, ", "))

	case schema.PostgreSQLBackend:
		sets := make([]string, len(values))
		for i, c := range values {
			sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
		}
		return rebind(ss.backend, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			quoted, colList, valList, strings.Join(keys, ", "), strings.Join(sets, ", ")))

	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", quoted, colList, valList)
	}
}

// Close closes the underlying DB connection.
func (ss *SQLStore) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// GetStatus returns status information about the org store.
func (ss *SQLStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.db == nil {
		return status, nil
	}

	updates := quoteTableName(healthUpdatesTable, ss.backend)
	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", updates))
	if err := row.Scan(&status.TotalUpdates); err != nil {
		return status, fmt.Errorf("failed to get total updates: %w", err)
	}

	if status.TotalUpdates > 0 {
		var latest, oldest string
		row = ss.db.QueryRow(fmt.Sprintf("SELECT MAX(update_date), MIN(update_date) FROM %s", updates))
		if err := row.Scan(&latest, &oldest); err != nil {
			return status, fmt.Errorf("failed to get update date range: %w", err)
		}
		status.LatestUpdateDate, _ = schema.ParseDay(latest)
		status.OldestUpdateDate, _ = schema.ParseDay(oldest)
	}

	for _, table := range allTables {
		var count int64
		row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}
