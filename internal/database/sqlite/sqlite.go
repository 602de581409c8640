// Package sqlite registers the SQLite connector. The database name is the file path.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csv2pg/csv2pg-go/internal/database"
)

func init() {
	database.Register(Connector{})
}

// Connector opens SQLite databases. Host, port and credentials are ignored.
type Connector struct{}

func (Connector) Type() database.Type { return database.SQLite }

func (Connector) DefaultPort() int { return 0 }

func (Connector) DSN(creds database.Credentials) string {
	return creds.DBName
}

// Open opens or creates the database file.
// The parent directory is created if it doesn't exist.
func (c Connector) Open(ctx context.Context, creds database.Credentials) (*sql.DB, error) {
	path := c.DSN(creds)
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite needs a database file path (--dbname)", database.ErrConnection)
	}

	dbDir := filepath.Dir(path)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	db, err := database.OpenSQL(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite %s: %w", path, err)
	}
	return db, nil
}
