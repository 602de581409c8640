// Package charset detects the text encoding of CSV files and rewrites them as UTF-8 without BOM.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"

	"github.com/csv2pg/csv2pg-go/internal/source"
)

// OutputPrefix is prepended to the name of every converted file.
const OutputPrefix = "csv2pg-"

// sniffSize is how much of a file the detector looks at.
const sniffSize = 64 << 10

var (
	// ErrDecode is returned when the content does not match the encoding label.
	ErrDecode = errors.New("decode error")

	// ErrUnknownEncoding is returned for labels no decoder is known for.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// aliases maps detector spellings to names the encoding indexes know.
var aliases = map[string]string{
	"ascii":    "us-ascii",
	"gb-18030": "gb18030",
	"utf8":     "utf-8",
}

// Conversion describes a converted file.
type Conversion struct {
	Source   string
	Output   string
	Encoding string
	Bytes    int
}

// Detect returns the lower-cased best guess for the encoding of r.
// Empty input is reported as utf-8.
func Detect(r io.Reader) (string, error) {
	sample, err := io.ReadAll(io.LimitReader(r, sniffSize))
	if err != nil {
		return "", fmt.Errorf("failed to read sample: %w", err)
	}
	if len(sample) == 0 {
		return "utf-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return "", fmt.Errorf("failed to detect encoding: %w", err)
	}
	return normalizeLabel(result.Charset), nil
}

// DetectFile detects the encoding of a file, decompressing it if needed.
func DetectFile(filePath string) (string, error) {
	file, err := source.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return Detect(file)
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if alias, ok := aliases[label]; ok {
		return alias
	}
	return label
}

// Lookup returns the decoder for an encoding label.
// The label "utf-8" removes a leading byte order mark; so do the UTF-16 and UTF-32 labels.
func Lookup(label string) (encoding.Encoding, error) {
	label = normalizeLabel(label)
	switch label {
	case "utf-8":
		return unicode.UTF8BOM, nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be", "utf-16":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), nil
	case "utf-32be", "utf-32":
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM), nil
	}

	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
}

// Transcode decodes data from the labelled encoding and returns it as UTF-8.
func Transcode(data []byte, label string) ([]byte, error) {
	label = normalizeLabel(label)
	enc, err := Lookup(label)
	if err != nil {
		return nil, err
	}

	switch label {
	case "utf-8":
		body := bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(body) {
			return nil, fmt.Errorf("%w: invalid utf-8 at byte %d", ErrDecode, invalidUTF8Offset(body)+len(data)-len(body))
		}
		return bytes.Clone(body), nil
	case "us-ascii":
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: non-ascii byte at %d", ErrDecode, i)
			}
		}
		return bytes.Clone(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, label, err)
	}
	if err := checkReplacements(data, out, enc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, label, err)
	}
	return out, nil
}

// checkReplacements fails when the decoder substituted U+FFFD for bytes it
// could not decode. A U+FFFD that data really encodes survives re-encoding,
// a substituted one does not.
func checkReplacements(data, out []byte, enc encoding.Encoding) error {
	i := bytes.IndexRune(out, utf8.RuneError)
	if i < 0 {
		return nil
	}
	back, err := enc.NewEncoder().Bytes(out)
	if err == nil && bytes.Equal(trimBOM(back), trimBOM(data)) {
		return nil
	}
	return fmt.Errorf("input does not decode cleanly (replacement character at output byte %d)", i)
}

// boms are checked longest first; the utf-32le mark starts with the utf-16le one.
var boms = [][]byte{
	{0x00, 0x00, 0xFE, 0xFF},
	{0xFF, 0xFE, 0x00, 0x00},
	utf8BOM,
	{0xFE, 0xFF},
	{0xFF, 0xFE},
}

func trimBOM(b []byte) []byte {
	for _, bom := range boms {
		if bytes.HasPrefix(b, bom) {
			return b[len(bom):]
		}
	}
	return b
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// OutputName returns the name of the converted copy of filePath.
// Compression suffixes are dropped because the copy is written uncompressed.
func OutputName(filePath string) string {
	return OutputPrefix + source.StripCompression(filepath.Base(filePath))
}

// Convert rewrites filePath as UTF-8 without BOM into outDir and returns the result.
// The source is read whole and decoded with the given label; there is no fallback encoding.
func Convert(filePath, label, outDir string) (*Conversion, error) {
	in, err := source.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	out, err := Transcode(data, label)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s as %s: %w", filePath, label, err)
	}

	if outDir == "" {
		outDir = "."
	}
	outPath := filepath.Join(outDir, OutputName(filePath))
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write converted file: %w", err)
	}

	return &Conversion{
		Source:   filePath,
		Output:   outPath,
		Encoding: normalizeLabel(label),
		Bytes:    len(out),
	}, nil
}
