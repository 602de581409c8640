// Package mysql registers the MySQL connector.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"

	"github.com/csv2pg/csv2pg-go/internal/database"
)

// DefaultPort is the standard MySQL port.
const DefaultPort = 3306

func init() {
	database.Register(Connector{})
}

// Connector opens MySQL connections.
type Connector struct{}

func (Connector) Type() database.Type { return database.MySQL }

func (Connector) DefaultPort() int { return DefaultPort }

func (Connector) DSN(creds database.Credentials) string {
	cfg := driver.NewConfig()
	cfg.User = creds.User
	cfg.Passwd = creds.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port))
	cfg.DBName = creds.DBName
	return cfg.FormatDSN()
}

func (c Connector) Open(ctx context.Context, creds database.Credentials) (*sql.DB, error) {
	db, err := database.OpenSQL(ctx, "mysql", c.DSN(creds))
	if err != nil {
		return nil, fmt.Errorf("mysql %s:%d: %w", creds.Host, creds.Port, err)
	}
	return db, nil
}
