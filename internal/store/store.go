// Package store persists the org graph for every supported backend.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
)

// Manager holds the active store.
type Manager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.Store
}

var _ contract.StoreManager = &Manager{} // Compile-time check

// GetStore returns the active store.
func (mgr *Manager) GetStore() contract.Store {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// Global Manager instance for main logic.
var (
	Default   = &Manager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// New opens a store for the backend.
func New(backend schema.DatabaseBackend, connStr string) (contract.Store, error) {
	switch backend {
	case schema.MemoryBackend:
		return NewMemoryStore(), nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStore(backend, connStr)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or memory", backend)
	}
}

// InitStores initializes the global manager with the configured backend.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		s, err := New(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize org store: %w", err)
			return
		}
		Default.Lock()
		Default.store = s
		Default.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Default.Lock()
		defer Default.Unlock()
		if Default.store != nil {
			_ = Default.store.Close()
		}
	})
}

// ClearStore removes all persisted org data for the backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the org tables.
// For the memory backend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		for _, table := range allTables {
			if err := clearSQLTable(driverName, backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.MemoryBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName string, backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
