// Package sqlgen renders the CREATE TABLE statement and the \copy command for a CSV file.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// TablePlaceholder replaces a missing table name. It is not valid SQL on
	// purpose: the generated file has to be edited before it can run.
	TablePlaceholder = "<TABLE NAME>"

	// DefaultCopyOptions are used when no copy options are given.
	DefaultCopyOptions = "DELIMITER ',' CSV HEADER"

	// DefaultColumnType is applied to every column unless overridden.
	DefaultColumnType = "VARCHAR2(4000)"
)

var (
	// ErrNoColumns is returned when there are no columns to render.
	ErrNoColumns = errors.New("no columns")

	// ErrNoColumnType is returned when the column type is empty.
	ErrNoColumnType = errors.New("column type is empty")
)

func tableOrPlaceholder(table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		return TablePlaceholder
	}
	return table
}

// CreateTable renders a CREATE TABLE statement declaring every column with columnType.
// Column names are written as given, without quoting.
func CreateTable(table string, columns []string, columnType string) (string, error) {
	if len(columns) == 0 {
		return "", ErrNoColumns
	}
	columnType = strings.TrimSpace(columnType)
	if columnType == "" {
		return "", ErrNoColumnType
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("  %s %s", col, columnType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s(\n", tableOrPlaceholder(table))
	b.WriteString(strings.Join(defs, ",\n"))
	b.WriteString("\n);\n")
	return b.String(), nil
}

// CopyCommand renders a psql \copy command loading file into the given columns.
// The file path and options are inserted verbatim.
func CopyCommand(table string, columns []string, file, options string) (string, error) {
	if len(columns) == 0 {
		return "", ErrNoColumns
	}
	if strings.TrimSpace(options) == "" {
		options = DefaultCopyOptions
	}

	return fmt.Sprintf("\\copy %s(%s) from '%s' %s;\n",
		tableOrPlaceholder(table),
		strings.Join(columns, ", "),
		file,
		options), nil
}

// Script joins the CREATE TABLE statement and the copy command.
func Script(ddl, copyCmd string) string {
	return ddl + copyCmd
}
