// Package source locates CSV input files and opens them, handling compression.
package source

import (
	"archive/zip"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrAmbiguous is returned when a pattern matches more than one file.
	ErrAmbiguous = errors.New("pattern matches more than one file")
)

// compressionExts lists the suffixes OpenFile decompresses transparently.
var compressionExts = []string{".gz", ".bz2", ".xz", ".zst", ".zip"}

// Open opens a file, handling compression automatically based on extension.
// Supports .gz, .bz2, .xz, .zst and .zip (first archive entry).
func Open(filePath string) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".zip" {
		return openZip(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, notFound(filePath, err)
	}

	switch ext {
	case ".gz":
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &compressedFile{Reader: gzReader, file: file, closeFn: gzReader.Close}, nil
	case ".bz2":
		return &compressedFile{Reader: bzip2.NewReader(file), file: file}, nil
	case ".xz":
		xzReader, err := xz.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return &compressedFile{Reader: xzReader, file: file}, nil
	case ".zst":
		decoder, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return &compressedFile{Reader: decoder, file: file, closeFn: func() error {
			decoder.Close()
			return nil
		}}, nil
	default:
		return file, nil
	}
}

// compressedFile wraps a decompressing reader and the underlying file to close both.
type compressedFile struct {
	io.Reader
	file    io.Closer
	closeFn func() error
}

func (c *compressedFile) Close() error {
	var err error
	if c.closeFn != nil {
		err = c.closeFn()
	}
	if cerr := c.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func openZip(filePath string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, notFound(filePath, err)
	}
	if len(archive.File) == 0 {
		archive.Close()
		return nil, fmt.Errorf("zip archive %s is empty", filePath)
	}
	entry, err := archive.File[0].Open()
	if err != nil {
		archive.Close()
		return nil, fmt.Errorf("failed to open zip entry %s: %w", archive.File[0].Name, err)
	}
	return &compressedFile{Reader: entry, file: archive, closeFn: entry.Close}, nil
}

func notFound(filePath string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	return err
}

// StripCompression removes compression suffixes from a file name.
func StripCompression(name string) string {
	for {
		ext := strings.ToLower(filepath.Ext(name))
		if !isCompressionExt(ext) {
			return name
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
}

func isCompressionExt(ext string) bool {
	for _, c := range compressionExts {
		if ext == c {
			return true
		}
	}
	return false
}

// TableName derives a table name from a file path: the base name up to the first dot.
func TableName(filePath string) string {
	base := filepath.Base(filePath)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ReadFirstLine returns the first line of a file, without its line terminator.
func ReadFirstLine(filePath string) (string, error) {
	file, err := Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	line, err := bufio.NewReader(file).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read first line: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
