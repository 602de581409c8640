// Package report provides colored user output and verbose/debug diagnostics for csv2pg.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	// Colors for output
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	debugColor   = color.New(color.FgHiBlack)
)

// Reporter writes progress messages for a single invocation.
// Verbosity is fixed at construction time.
type Reporter struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	debug   bool
	now     func() time.Time
}

// New creates a Reporter writing to out (info, success, verbose, debug) and
// errOut (warnings). Debug output implies verbose output.
func New(out, errOut io.Writer, verbose, debug bool) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &Reporter{
		out:     out,
		errOut:  errOut,
		verbose: verbose || debug,
		debug:   debug,
		now:     time.Now,
	}
}

// Discard returns a Reporter that prints nothing.
func Discard() *Reporter {
	return New(io.Discard, io.Discard, false, false)
}

// IsVerbose reports whether verbose output is enabled.
func (r *Reporter) IsVerbose() bool { return r.verbose }

// IsDebug reports whether debug output is enabled.
func (r *Reporter) IsDebug() bool { return r.debug }

// Infof prints an informational line.
func (r *Reporter) Infof(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(r.out, format+"\n", args...)
}

// Successf prints a success line.
func (r *Reporter) Successf(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(r.out, "✓ "+format+"\n", args...)
}

// Warnf prints a warning line to the error stream.
func (r *Reporter) Warnf(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(r.errOut, "Warning: "+format+"\n", args...)
}

// Verbosef prints a line only in verbose mode.
func (r *Reporter) Verbosef(format string, args ...interface{}) {
	if !r.verbose {
		return
	}
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Debugf prints a timestamped line only in debug mode.
func (r *Reporter) Debugf(format string, args ...interface{}) {
	if !r.debug {
		return
	}
	r.debugLine(fmt.Sprintf(format, args...))
}

// DebugList prints the items joined with ", ".
func (r *Reporter) DebugList(items []string) {
	if !r.debug {
		return
	}
	r.debugLine(strings.Join(items, ", "))
}

// DebugFields prints the fields as "key: value" pairs sorted by key.
func (r *Reporter) DebugFields(fields map[string]interface{}) {
	if !r.debug {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, fields[k])
	}
	r.debugLine(strings.Join(parts, ", "))
}

func (r *Reporter) debugLine(msg string) {
	_, _ = debugColor.Fprintf(r.out, "DEBUG: %s: %s\n", r.now().Format("2006-01-02 15:04:05.000000"), msg)
}

// Helper functions

// FmtBytes formats a byte count in a short human form.
func FmtBytes(n int64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// ShortPath returns the last element of a slash separated path.
func ShortPath(filePath string) string {
	parts := strings.Split(filePath, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return filePath
}
