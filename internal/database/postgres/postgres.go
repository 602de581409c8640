// Package postgres registers the PostgreSQL connector, backed by pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/csv2pg/csv2pg-go/internal/database"
)

// DefaultPort is the standard PostgreSQL port.
const DefaultPort = 5432

// driverName is the name pgx registers with database/sql.
const driverName = "pgx"

func init() {
	database.Register(Connector{})
}

// Connector opens PostgreSQL connections.
type Connector struct{}

func (Connector) Type() database.Type { return database.Postgres }

func (Connector) DefaultPort() int { return DefaultPort }

// DSN renders a postgres:// URL. sslmode defaults to disable, matching a local psql session.
func (Connector) DSN(creds database.Credentials) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(creds.Host, strconv.Itoa(creds.Port)),
		Path:   "/" + creds.DBName,
	}
	if creds.User != "" {
		if creds.Password != "" {
			u.User = url.UserPassword(creds.User, creds.Password)
		} else {
			u.User = url.User(creds.User)
		}
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Connector) Open(ctx context.Context, creds database.Credentials) (*sql.DB, error) {
	db, err := database.OpenSQL(ctx, driverName, c.DSN(creds))
	if err != nil {
		return nil, fmt.Errorf("postgres %s:%d: %w", creds.Host, creds.Port, err)
	}
	return db, nil
}
