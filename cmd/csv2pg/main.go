// csv2pg - CSV to PostgreSQL loader script generator
//
// Reads the header of a CSV file, converts the file to UTF-8 and writes a
// CREATE TABLE statement and a psql \copy command for it.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/csv2pg/csv2pg-go/internal/cli"
)

// Version information (set via ldflags at build time)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Version = version + " (built " + buildTime + ")"
	if err := cli.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		_, _ = errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
