// Package pipeline generates the CREATE TABLE and \copy script for one CSV file.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/csv2pg/csv2pg-go/internal/charset"
	"github.com/csv2pg/csv2pg-go/internal/header"
	"github.com/csv2pg/csv2pg-go/internal/report"
	"github.com/csv2pg/csv2pg-go/internal/source"
	"github.com/csv2pg/csv2pg-go/internal/sqlgen"
)

// ErrEmptyHeader is returned when the first line of the file is empty.
var ErrEmptyHeader = errors.New("header line is empty")

// Job describes one invocation.
type Job struct {
	Source      string // file, directory or glob pattern
	Table       string // empty renders a placeholder
	DDLName     string // base name of the .sql file; "-" writes to stdout
	CopyOptions string
	ColumnType  string
	Encoding    string // skips detection when set
	OutDir      string
	Sanitize    bool
}

// Result describes the files a Job produced.
type Result struct {
	Source         string
	Encoding       string
	NormalizedFile string
	SQLFile        string
	Script         string
	Columns        *header.ColumnSet
}

// Run converts the source file to UTF-8, reads its header and writes the SQL script.
// The converted data file is left in OutDir; the script refers to it.
func Run(job Job, rep *report.Reporter) (*Result, error) {
	if rep == nil {
		rep = report.Discard()
	}
	outDir := job.OutDir
	if outDir == "" {
		outDir = "."
	}

	rep.Verbosef("Finding file.")
	path, err := source.Resolve(job.Source)
	if err != nil {
		return nil, err
	}
	rep.Debugf("Found file: %s", path)

	label := job.Encoding
	if label == "" {
		rep.Debugf("Determine the file type for '%s'", path)
		label, err = charset.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to detect encoding of %s: %w", path, err)
		}
		rep.Infof("File %s appears to be in %s format.", path, label)
	} else {
		rep.Infof("Using encoding %s.", label)
	}

	rep.Infof("Converting to utf-8 without bom.")
	conv, err := charset.Convert(path, label, outDir)
	if err != nil {
		return nil, err
	}
	rep.Infof("Converted file: %s (%s bytes)", conv.Output, report.FmtBytes(int64(conv.Bytes)))

	rep.Verbosef("Reading header of %s.", report.ShortPath(conv.Output))
	line, err := source.ReadFirstLine(conv.Output)
	if err != nil {
		return nil, err
	}
	cols := header.NormalizeWith(line, header.Options{Header: true, Sanitize: job.Sanitize})
	if cols == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyHeader, path)
	}
	reportColumns(rep, cols)
	names := cols.Names()

	rep.Verbosef("Generating CREATE TABLE statement.")
	ddl, err := sqlgen.CreateTable(job.Table, names, job.ColumnType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CREATE TABLE: %w", err)
	}
	if strings.TrimSpace(job.Table) == "" {
		rep.Warnf("no table name given; replace %s in the generated SQL before running it", sqlgen.TablePlaceholder)
	}

	rep.Verbosef("Generating copy command.")
	copyCmd, err := sqlgen.CopyCommand(job.Table, names, conv.Output, job.CopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate copy command: %w", err)
	}

	script := sqlgen.Script(ddl, copyCmd)
	sqlPath := SQLFileName(job, path)
	if err := sqlgen.WriteScript(sqlPath, script); err != nil {
		return nil, err
	}
	if sqlPath != sqlgen.StdoutPath {
		rep.Successf("Generated SQL file: %s", sqlPath)
	}

	return &Result{
		Source:         path,
		Encoding:       conv.Encoding,
		NormalizedFile: conv.Output,
		SQLFile:        sqlPath,
		Script:         script,
		Columns:        cols,
	}, nil
}

func reportColumns(rep *report.Reporter, cols *header.ColumnSet) {
	for _, c := range cols.Collisions() {
		rep.Warnf("column %q at position %d normalizes to %s, which is already defined; the columns were merged",
			c.Raw, c.Position+1, c.Name)
	}
	for _, pos := range cols.Skipped() {
		rep.Warnf("column at position %d has an empty name and was skipped", pos+1)
	}
	rep.Debugf("Found %d columns:", cols.Len())
	rep.DebugList(cols.Names())
}

// SQLFileName returns where the script of job is written.
// The name defaults to the table name, then to the source file name up to its first dot.
func SQLFileName(job Job, sourcePath string) string {
	if job.DDLName == sqlgen.StdoutPath {
		return sqlgen.StdoutPath
	}

	name := strings.TrimSpace(job.DDLName)
	if name == "" {
		name = strings.TrimSpace(job.Table)
	}
	if name == "" {
		name = source.TableName(sourcePath)
	}

	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".sql") && !strings.HasSuffix(lower, ".sql.gz") {
		name += ".sql"
	}

	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	outDir := job.OutDir
	if outDir == "" {
		outDir = "."
	}
	return filepath.Join(outDir, name)
}
