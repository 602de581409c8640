// Package config provides configuration types and parsing for csv2pg.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csv2pg/csv2pg-go/internal/sqlgen"
)

const (
	DefaultDBType = "postgres"
	DefaultHost   = "localhost"
	DefaultDBName = "postgres"
	DefaultOutDir = "."

	// DefaultTimeout bounds the ping command.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrMissingInput is returned when no input file or pattern is given.
	ErrMissingInput = errors.New("must specify an input file, directory or pattern")

	// ErrMissingColumnType is returned when the column type is blank.
	ErrMissingColumnType = errors.New("column type must not be empty")
)

// Config holds all configuration options for one csv2pg run.
type Config struct {
	Input       string
	TableName   string
	DDLName     string // base name of the .sql file
	CopyOptions string
	ColumnType  string
	Encoding    string // overrides detection when set
	OutDir      string
	Sanitize    bool
	Verbose     bool
	Debug       bool
	DB          DBConfig
}

// DBConfig holds the connection settings.
type DBConfig struct {
	Type     string `yaml:"type"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"` // 0 means the default port of Type
	Name     string `yaml:"name"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		CopyOptions: sqlgen.DefaultCopyOptions,
		ColumnType:  sqlgen.DefaultColumnType,
		OutDir:      DefaultOutDir,
		DB: DBConfig{
			Type: DefaultDBType,
			Host: DefaultHost,
			Name: DefaultDBName,
		},
	}
}

// Validate checks if the configuration is valid for the generate command.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return ErrMissingInput
	}
	if strings.TrimSpace(c.ColumnType) == "" {
		return ErrMissingColumnType
	}
	if c.DB.Port < 0 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.DB.Port)
	}
	return nil
}

// File is the YAML configuration file layout.
type File struct {
	Table       string   `yaml:"table"`
	DDL         string   `yaml:"ddl"`
	CopyOptions string   `yaml:"copy_options"`
	ColumnType  string   `yaml:"column_type"`
	Encoding    string   `yaml:"encoding"`
	OutDir      string   `yaml:"out_dir"`
	Sanitize    *bool    `yaml:"sanitize"`
	Database    DBConfig `yaml:"database"`
}

// Load reads a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the values set in f into c, skipping the settings whose
// command-line flag was given explicitly. changed reports that for a flag name.
func (c *Config) Apply(f *File, changed func(flag string) bool) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	setString := func(flag string, dst *string, v string) {
		if v != "" && !changed(flag) {
			*dst = v
		}
	}

	setString("table", &c.TableName, f.Table)
	setString("ddl", &c.DDLName, f.DDL)
	setString("optcp", &c.CopyOptions, f.CopyOptions)
	setString("column-type", &c.ColumnType, f.ColumnType)
	setString("encoding", &c.Encoding, f.Encoding)
	setString("out-dir", &c.OutDir, f.OutDir)
	if f.Sanitize != nil && !changed("sanitize") {
		c.Sanitize = *f.Sanitize
	}

	setString("dbtype", &c.DB.Type, f.Database.Type)
	setString("user", &c.DB.User, f.Database.User)
	setString("password", &c.DB.Password, f.Database.Password)
	setString("host", &c.DB.Host, f.Database.Host)
	setString("dbname", &c.DB.Name, f.Database.Name)
	if f.Database.Port != 0 && !changed("port") {
		c.DB.Port = f.Database.Port
	}
}
