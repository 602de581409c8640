// Package db2 registers the IBM Db2 connector.
//
// The Db2 driver (github.com/ibmdb/go_ibm_db) needs cgo and the IBM CLI
// driver, so it is not linked into csv2pg. A build that wants Db2 support must
// blank-import it so that the "go_ibm_db" database/sql driver is registered;
// otherwise Open fails with database.ErrConnection.
package db2

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/csv2pg/csv2pg-go/internal/database"
)

// DefaultPort is the standard Db2 port.
const DefaultPort = 50000

// DriverName is the database/sql name the IBM driver registers.
const DriverName = "go_ibm_db"

func init() {
	database.Register(Connector{})
}

// Connector opens Db2 connections.
type Connector struct{}

func (Connector) Type() database.Type { return database.DB2 }

func (Connector) DefaultPort() int { return DefaultPort }

func (Connector) DSN(creds database.Credentials) string {
	return fmt.Sprintf("HOSTNAME=%s;PORT=%d;DATABASE=%s;UID=%s;PWD=%s;",
		creds.Host, creds.Port, creds.DBName, creds.User, creds.Password)
}

func (c Connector) Open(ctx context.Context, creds database.Credentials) (*sql.DB, error) {
	if !database.IsDriverRegistered(DriverName) {
		return nil, fmt.Errorf("%w: database driver %q is not installed; build csv2pg with github.com/ibmdb/go_ibm_db",
			database.ErrConnection, DriverName)
	}
	db, err := database.OpenSQL(ctx, DriverName, c.DSN(creds))
	if err != nil {
		return nil, fmt.Errorf("db2 %s:%d/%s: %w", creds.Host, creds.Port, creds.DBName, err)
	}
	return db, nil
}
