// Package oracle registers the Oracle connector, backed by the pure Go go-ora driver.
package oracle

import (
	"context"
	"database/sql"
	"fmt"

	goora "github.com/sijms/go-ora/v2"

	"github.com/csv2pg/csv2pg-go/internal/database"
)

// DefaultPort is the standard Oracle listener port.
const DefaultPort = 1521

func init() {
	database.Register(Connector{})
}

// Connector opens Oracle connections. DBName is the service name.
type Connector struct{}

func (Connector) Type() database.Type { return database.Oracle }

func (Connector) DefaultPort() int { return DefaultPort }

func (Connector) DSN(creds database.Credentials) string {
	return goora.BuildUrl(creds.Host, creds.Port, creds.DBName, creds.User, creds.Password, nil)
}

func (c Connector) Open(ctx context.Context, creds database.Credentials) (*sql.DB, error) {
	db, err := database.OpenSQL(ctx, "oracle", c.DSN(creds))
	if err != nil {
		return nil, fmt.Errorf("oracle %s:%d/%s: %w", creds.Host, creds.Port, creds.DBName, err)
	}
	return db, nil
}
