// Package cli provides the command-line interface for csv2pg.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csv2pg/csv2pg-go/internal/config"
	"github.com/csv2pg/csv2pg-go/internal/database"
	"github.com/csv2pg/csv2pg-go/internal/pipeline"
	"github.com/csv2pg/csv2pg-go/internal/report"
	"github.com/csv2pg/csv2pg-go/internal/source"
	"github.com/csv2pg/csv2pg-go/internal/sqlgen"
)

// Version is reported by --version. It is set from main.
var Version = "dev"

// Exit statuses returned by ExitCode.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitNotFound = 2
)

// NotFoundError reports that the input file or pattern matched nothing.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("File %s not found", e.Path) }

func (e *NotFoundError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, source.ErrFileNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// app holds the flag values shared by the commands of one invocation.
type app struct {
	cfg        *config.Config
	configPath string
	pingOpts   pingOptions
}

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "csv2pg [flags] <file|dir|glob>",
		Short: "Generate a PostgreSQL table and \\copy script from a CSV file",
		Long: `csv2pg - CSV to PostgreSQL loader script generator

Reads the header line of a CSV file and writes a SQL script containing a
CREATE TABLE statement and a psql \copy command that loads the file.

Features:
  • Detects the file encoding and writes a UTF-8 copy without BOM
  • Upper-cases header names and replaces spaces with underscores
  • Reads compressed files (.gz, .bz2, .xz, .zst, .zip)
  • Accepts a directory or glob pattern matching a single file`,
		Example: `  # Generate orders.sql for a Latin-1 export
  csv2pg -t orders data.csv

  # Use TEXT columns and print the script instead of writing a file
  csv2pg -t orders -c TEXT -d - data.csv.gz

  # Check the database settings
  csv2pg ping --dbtype mysql -u loader -m db.internal --dbname sales`,
		Args:              cobra.ExactArgs(1),
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runGenerate,
	}

	f := rootCmd.Flags()
	f.StringVarP(&a.cfg.TableName, "table", "t", "", "Table name (default: placeholder to edit by hand)")
	f.StringVarP(&a.cfg.DDLName, "ddl", "d", "", "Name of the generated .sql file, '-' for stdout (default: table name)")
	f.StringVar(&a.cfg.CopyOptions, "optcp", sqlgen.DefaultCopyOptions, "Options appended to the \\copy command")
	f.StringVarP(&a.cfg.ColumnType, "column-type", "c", sqlgen.DefaultColumnType, "Type declared for every column")
	f.StringVarP(&a.cfg.Encoding, "encoding", "e", "", "Source encoding, skips detection (e.g. iso-8859-1)")
	f.StringVarP(&a.cfg.OutDir, "out-dir", "o", config.DefaultOutDir, "Directory for the converted file and the script")
	f.BoolVar(&a.cfg.Sanitize, "sanitize", false, "Replace characters that are not valid in SQL identifiers")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML configuration file")
	pf.BoolVarP(&a.cfg.Verbose, "verbose", "v", false, "Print progress details")
	pf.BoolVar(&a.cfg.Debug, "debug", false, "Print debug output (implies --verbose)")
	pf.StringVar(&a.cfg.DB.Type, "dbtype", config.DefaultDBType, "Database type: postgres, mysql, oracle, db2, mssql or sqlite")
	pf.StringVarP(&a.cfg.DB.User, "user", "u", "", "Database user")
	pf.StringVarP(&a.cfg.DB.Password, "password", "p", "", "Database password")
	pf.StringVarP(&a.cfg.DB.Host, "host", "m", config.DefaultHost, "Database host")
	pf.IntVarP(&a.cfg.DB.Port, "port", "n", 0, "Database port (default: standard port of --dbtype)")
	pf.StringVar(&a.cfg.DB.Name, "dbname", config.DefaultDBName, "Database name (file path for sqlite)")

	rootCmd.AddCommand(a.newPingCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig applies the --config file. Flags given on the command line win.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if a.configPath == "" {
		return nil
	}
	f, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg.Apply(f, cmd.Flags().Changed)
	return nil
}

// reporter writes progress to stdout, or to stderr when the script itself goes to stdout.
func (a *app) reporter(cmd *cobra.Command) *report.Reporter {
	out := cmd.OutOrStdout()
	if a.cfg.DDLName == sqlgen.StdoutPath {
		out = cmd.ErrOrStderr()
	}
	return report.New(out, cmd.ErrOrStderr(), a.cfg.Verbose, a.cfg.Debug)
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	cfg.Input = args[0]
	if err := cfg.Validate(); err != nil {
		return err
	}

	rep := a.reporter(cmd)
	port, err := a.resolvePort(rep)
	if err != nil {
		return err
	}
	rep.Debugf("Arguments:")
	rep.DebugFields(a.debugFields(port))

	job := pipeline.Job{
		Source:      cfg.Input,
		Table:       cfg.TableName,
		DDLName:     cfg.DDLName,
		CopyOptions: cfg.CopyOptions,
		ColumnType:  cfg.ColumnType,
		Encoding:    cfg.Encoding,
		OutDir:      cfg.OutDir,
		Sanitize:    cfg.Sanitize,
	}
	if _, err := pipeline.Run(job, rep); err != nil {
		if errors.Is(err, source.ErrFileNotFound) {
			return &NotFoundError{Path: cfg.Input, Err: err}
		}
		return err
	}
	return nil
}

// resolvePort returns the configured port, or the default port of the
// database type when none was given.
func (a *app) resolvePort(rep *report.Reporter) (int, error) {
	db := a.cfg.DB
	if db.Port != 0 {
		return db.Port, nil
	}
	port, err := database.DefaultPort(db.Type)
	if err != nil {
		return 0, err
	}
	if port != 0 {
		rep.Verbosef("Using default port %d for %s.", port, database.ParseType(db.Type))
	}
	return port, nil
}

// debugFields lists the effective settings. The password is masked.
func (a *app) debugFields(port int) map[string]interface{} {
	cfg := a.cfg
	password := ""
	if cfg.DB.Password != "" {
		password = "********"
	}
	return map[string]interface{}{
		"file":        cfg.Input,
		"table":       cfg.TableName,
		"ddl":         cfg.DDLName,
		"optcp":       cfg.CopyOptions,
		"column-type": cfg.ColumnType,
		"encoding":    cfg.Encoding,
		"out-dir":     cfg.OutDir,
		"sanitize":    cfg.Sanitize,
		"dbtype":      cfg.DB.Type,
		"user":        cfg.DB.User,
		"password":    password,
		"host":        cfg.DB.Host,
		"port":        port,
		"dbname":      cfg.DB.Name,
	}
}
