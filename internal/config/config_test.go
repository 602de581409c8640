package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CopyOptions != "DELIMITER ',' CSV HEADER" {
		t.Errorf("CopyOptions = %q", cfg.CopyOptions)
	}
	if cfg.ColumnType != "VARCHAR2(4000)" {
		t.Errorf("ColumnType = %q", cfg.ColumnType)
	}
	if cfg.DB.Type != "postgres" || cfg.DB.Host != "localhost" || cfg.DB.Port != 0 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.OutDir != "." {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.Input = "data.csv" },
		},
		{
			name:    "missing input",
			mutate:  func(c *Config) {},
			wantErr: ErrMissingInput,
		},
		{
			name: "blank column type",
			mutate: func(c *Config) {
				c.Input = "data.csv"
				c.ColumnType = "  "
			},
			wantErr: ErrMissingColumnType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	cfg := Default()
	cfg.Input = "data.csv"
	cfg.DB.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("Config.Validate() expected error for out of range port")
	}
}

const sampleYAML = `
table: orders
column_type: TEXT
copy_options: DELIMITER ';' CSV HEADER
sanitize: true
database:
  type: mysql
  user: loader
  host: db.internal
  port: 3307
  name: sales
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csv2pg.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	f, err := Load(writeConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := Default()
	cfg.Apply(f, nil)

	if cfg.TableName != "orders" {
		t.Errorf("TableName = %q, want orders", cfg.TableName)
	}
	if cfg.ColumnType != "TEXT" {
		t.Errorf("ColumnType = %q, want TEXT", cfg.ColumnType)
	}
	if cfg.CopyOptions != "DELIMITER ';' CSV HEADER" {
		t.Errorf("CopyOptions = %q", cfg.CopyOptions)
	}
	if !cfg.Sanitize {
		t.Error("Sanitize = false, want true")
	}
	want := DBConfig{Type: "mysql", User: "loader", Host: "db.internal", Port: 3307, Name: "sales"}
	if cfg.DB != want {
		t.Errorf("DB = %+v, want %+v", cfg.DB, want)
	}
	// Unset keys keep their defaults.
	if cfg.OutDir != "." {
		t.Errorf("OutDir = %q, want .", cfg.OutDir)
	}
}

func TestApplyKeepsExplicitFlags(t *testing.T) {
	f, err := Load(writeConfig(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := Default()
	cfg.TableName = "from_flag"
	cfg.DB.Port = 5433
	changed := map[string]bool{"table": true, "port": true}
	cfg.Apply(f, func(name string) bool { return changed[name] })

	if cfg.TableName != "from_flag" {
		t.Errorf("TableName = %q, want from_flag", cfg.TableName)
	}
	if cfg.DB.Port != 5433 {
		t.Errorf("Port = %d, want 5433", cfg.DB.Port)
	}
	if cfg.DB.Type != "mysql" {
		t.Errorf("Type = %q, want mysql", cfg.DB.Type)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("table: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load(bad yaml) expected error")
	}
}
