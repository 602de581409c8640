package sqlgen

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StdoutPath makes OpenOutputFile write to standard output.
const StdoutPath = "-"

// OpenOutputFile opens an output file, handling compression automatically based on extension.
// If filePath is "-", returns os.Stdout.
func OpenOutputFile(filePath string) (io.WriteCloser, error) {
	if filePath == StdoutPath {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".gz":
		return &gzipWriter{file: file, writer: gzip.NewWriter(file)}, nil
	default:
		return file, nil
	}
}

// WriteScript writes script to filePath.
func WriteScript(filePath, script string) error {
	output, err := OpenOutputFile(filePath)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(output, script); err != nil {
		output.Close()
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filePath, err)
	}
	return nil
}

// gzipWriter wraps gzip writer and file to close both properly.
type gzipWriter struct {
	file   *os.File
	writer *gzip.Writer
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	return g.writer.Write(p)
}

func (g *gzipWriter) Close() error {
	if err := g.writer.Close(); err != nil {
		g.file.Close()
		return err
	}
	return g.file.Close()
}

// nopCloser keeps stdout open after the script is written.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
