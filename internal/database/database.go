// Package database maps database types to connectors.
//
// Each supported database lives in its own subpackage, which registers a
// Connector from init(). The generate flow never connects; connections are
// only opened by the ping command.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Type identifies a database product.
type Type string

const (
	Oracle    Type = "oracle"
	MySQL     Type = "mysql"
	Postgres  Type = "postgres"
	DB2       Type = "db2"
	SQLServer Type = "mssql"
	SQLite    Type = "sqlite"
)

var (
	// ErrUnsupportedType is returned for database types without a connector.
	ErrUnsupportedType = errors.New("unsupported database type")

	// ErrConnection is returned when a connection cannot be established,
	// including when the driver is not linked into the binary.
	ErrConnection = errors.New("database connection failed")
)

// Credentials are the settings needed to open a connection.
type Credentials struct {
	User     string
	Password string
	Host     string
	Port     int
	DBName   string
}

// Connector opens connections to one database type.
type Connector interface {
	Type() Type
	// DefaultPort is the port used when Credentials.Port is zero.
	// File based databases return 0.
	DefaultPort() int
	// DSN renders the driver connection string.
	DSN(creds Credentials) string
	// Open returns a verified connection.
	Open(ctx context.Context, creds Credentials) (*sql.DB, error)
}

var (
	mu         sync.RWMutex
	connectors = map[Type]Connector{}
)

// Register makes a connector available by its type.
//
// Panics:
//   - If c is nil or has an empty type.
//   - If the type is already registered.
func Register(c Connector) {
	mu.Lock()
	defer mu.Unlock()

	if c == nil {
		panic("database: Register called with nil connector")
	}
	t := c.Type()
	if t == "" {
		panic("database: Register called with empty type")
	}
	if _, exists := connectors[t]; exists {
		panic(fmt.Sprintf("database: connector already registered for type=%q", t))
	}
	connectors[t] = c
}

// ParseType canonicalizes a database type tag.
func ParseType(tag string) Type {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "postgresql", "pg":
		return Postgres
	case "sqlserver":
		return SQLServer
	case "sqlite3":
		return SQLite
	default:
		return Type(strings.ToLower(strings.TrimSpace(tag)))
	}
}

// Lookup returns the connector registered for tag.
func Lookup(tag string) (Connector, error) {
	t := ParseType(tag)

	mu.RLock()
	c, ok := connectors[t]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (choose one of %s)", ErrUnsupportedType, tag, strings.Join(typeNames(), ", "))
	}
	return c, nil
}

// DefaultPort returns the default port for a database type tag.
func DefaultPort(tag string) (int, error) {
	c, err := Lookup(tag)
	if err != nil {
		return 0, err
	}
	return c.DefaultPort(), nil
}

// Types returns the registered database types, sorted.
func Types() []Type {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Type, 0, len(connectors))
	for t := range connectors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func typeNames() []string {
	types := Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// Connect opens and verifies a connection for the given type tag.
// A zero port is replaced by the connector's default port.
func Connect(ctx context.Context, tag string, creds Credentials) (*sql.DB, error) {
	c, err := Lookup(tag)
	if err != nil {
		return nil, err
	}
	if creds.Port == 0 {
		creds.Port = c.DefaultPort()
	}
	return c.Open(ctx, creds)
}

// OpenSQL opens a database/sql handle and pings it.
// Every failure, including an unregistered driver, wraps ErrConnection.
func OpenSQL(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s driver: %w", ErrConnection, driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return db, nil
}

// IsDriverRegistered reports whether database/sql knows driverName.
func IsDriverRegistered(driverName string) bool {
	for _, d := range sql.Drivers() {
		if d == driverName {
			return true
		}
	}
	return false
}
