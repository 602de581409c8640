package charset

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"

	"github.com/csv2pg/csv2pg-go/internal/source"
)

const text = "Name,Straße,Café\nJosé,Größe,Crème brûlée\n"

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("Encoder.Bytes() error = %v", err)
	}
	return b
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestTranscodeMatchesReference(t *testing.T) {
	tests := []struct {
		label string
		enc   encoding.Encoding
		text  string
	}{
		{"iso-8859-1", charmap.ISO8859_1, text},
		{"ISO-8859-1", charmap.ISO8859_1, text},
		{"windows-1252", charmap.Windows1252, text + "price €\n"},
		{"iso-8859-15", charmap.ISO8859_15, "€,Œuvre\n"},
		{"windows-1251", charmap.Windows1251, "Имя,Город\n"},
		{"shift_jis", japanese.ShiftJIS, "名前,都市\n"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			src := encode(t, tt.enc, tt.text)

			got, err := Transcode(src, tt.label)
			if err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}

			want, err := tt.enc.NewDecoder().Bytes(src)
			if err != nil {
				t.Fatalf("reference decode error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Transcode() = %q, want %q", got, want)
			}
			if string(got) != tt.text {
				t.Errorf("Transcode() = %q, want original text %q", got, tt.text)
			}
		})
	}
}

func TestTranscodeStripsUTF8BOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name\n1,Zoë\n")...)

	for _, label := range []string{"utf-8", "UTF-8"} {
		got, err := Transcode(src, label)
		if err != nil {
			t.Fatalf("Transcode(%s) error = %v", label, err)
		}
		if bytes.HasPrefix(got, []byte{0xEF, 0xBB, 0xBF}) {
			t.Errorf("Transcode(%s) kept the BOM", label)
		}
		if string(got) != "id,name\n1,Zoë\n" {
			t.Errorf("Transcode(%s) = %q", label, got)
		}
	}
}

func TestTranscodeUTF16(t *testing.T) {
	src := encode(t, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "id,name\n")
	got, err := Transcode(src, "utf-16le")
	if err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}
	if string(got) != "id,name\n" {
		t.Errorf("Transcode() = %q, want %q", got, "id,name\n")
	}
}

func TestTranscodeDecodeErrors(t *testing.T) {
	latin1 := encode(t, charmap.ISO8859_1, text)

	tests := []struct {
		name  string
		data  []byte
		label string
		want  error
	}{
		{"latin-1 bytes labelled utf-8", latin1, "utf-8", ErrDecode},
		{"non-ascii labelled ascii", latin1, "ascii", ErrDecode},
		{"unknown label", []byte("id"), "klingon-8", ErrUnknownEncoding},
		{"shift_jis lead byte without trail", []byte{0x81, 0x20, 'a'}, "shift_jis", ErrDecode},
		{"euc-jp lead byte without trail", []byte{0x8e, 0x20}, "euc-jp", ErrDecode},
		{"utf-16le odd length", []byte("a\x00b"), "utf-16le", ErrDecode},
		{"utf-16le lone surrogate", []byte{0x00, 0xd8, 'a', 0x00}, "utf-16le", ErrDecode},
		{"windows-1252 undefined byte", []byte{0x81}, "windows-1252", ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transcode(tt.data, tt.label)
			if !errors.Is(err, tt.want) {
				t.Errorf("Transcode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTranscodeKeepsEncodedReplacementChar(t *testing.T) {
	src := "id,\ufffd\n"
	for _, tt := range []struct {
		label string
		enc   encoding.Encoding
	}{
		{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
		{"utf-16be", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
		{"gb18030", simplifiedchinese.GB18030},
	} {
		t.Run(tt.label, func(t *testing.T) {
			got, err := Transcode(encode(t, tt.enc, src), tt.label)
			if err != nil {
				t.Fatalf("Transcode() error = %v", err)
			}
			if string(got) != src {
				t.Errorf("Transcode() = %q, want %q", got, src)
			}
		})
	}
}

func TestConvertRejectsMislabelledFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sjis.csv", []byte{'i', 'd', ',', 0x81, 0x20, '\n'})

	_, err := Convert(path, "shift_jis", dir)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Convert() error = %v, want ErrDecode", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, OutputName(path))); !os.IsNotExist(statErr) {
		t.Error("converted file written despite decode error")
	}
}

func TestTranscodeASCII(t *testing.T) {
	got, err := Transcode([]byte("id,name\n"), "ascii")
	if err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}
	if string(got) != "id,name\n" {
		t.Errorf("Transcode() = %q", got)
	}
}

func TestLookup(t *testing.T) {
	for _, label := range []string{"utf-8", "iso-8859-1", "windows-1252", "shift_jis", "euc-jp", "gb-18030", "big5", "koi8-r", "utf-16be", "utf-32le", "ascii"} {
		enc, err := Lookup(label)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", label, err)
			continue
		}
		if enc == nil {
			t.Errorf("Lookup(%q) returned nil encoding", label)
		}
	}
}

func TestDetect(t *testing.T) {
	label, err := Detect(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Detect(empty) error = %v", err)
	}
	if label != "utf-8" {
		t.Errorf("Detect(empty) = %q, want utf-8", label)
	}

	utf8Text := strings.Repeat("Größe,Crème brûlée,Café,naïve,façade\n", 20)
	label, err = Detect(strings.NewReader(utf8Text))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if label != "utf-8" {
		t.Errorf("Detect() = %q, want utf-8", label)
	}
	if label != strings.ToLower(label) {
		t.Errorf("Detect() = %q, want lower case", label)
	}
}

func TestDetectFileMissing(t *testing.T) {
	_, err := DetectFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, source.ErrFileNotFound) {
		t.Errorf("DetectFile() error = %v, want ErrFileNotFound", err)
	}
}

func TestConvert(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := writeFile(t, srcDir, "people.csv", encode(t, charmap.ISO8859_1, text))

	conv, err := Convert(src, "iso-8859-1", outDir)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	wantPath := filepath.Join(outDir, "csv2pg-people.csv")
	if conv.Output != wantPath {
		t.Errorf("Output = %q, want %q", conv.Output, wantPath)
	}
	if conv.Bytes != len(text) {
		t.Errorf("Bytes = %d, want %d", conv.Bytes, len(text))
	}

	got, err := os.ReadFile(conv.Output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != text {
		t.Errorf("converted content = %q, want %q", got, text)
	}
}

func TestConvertCompressed(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(append([]byte{0xEF, 0xBB, 0xBF}, "id,name\n"...)); err != nil {
		t.Fatalf("gzip Write() error = %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip Close() error = %v", err)
	}
	src := writeFile(t, srcDir, "orders.csv.gz", buf.Bytes())

	conv, err := Convert(src, "utf-8", outDir)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if filepath.Base(conv.Output) != "csv2pg-orders.csv" {
		t.Errorf("Output = %q, want csv2pg-orders.csv", conv.Output)
	}
	got, err := os.ReadFile(conv.Output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "id,name\n" {
		t.Errorf("converted content = %q", got)
	}
}

func TestConvertMissingFile(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "missing.csv"), "utf-8", t.TempDir())
	if !errors.Is(err, source.ErrFileNotFound) {
		t.Errorf("Convert() error = %v, want ErrFileNotFound", err)
	}
}

func TestConvertDecodeErrorWritesNothing(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := writeFile(t, srcDir, "bad.csv", encode(t, charmap.ISO8859_1, text))

	_, err := Convert(src, "utf-8", outDir)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Convert() error = %v, want ErrDecode", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "csv2pg-bad.csv")); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat error = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data.csv", "csv2pg-data.csv"},
		{"in/data.csv", "csv2pg-data.csv"},
		{"data.csv.gz", "csv2pg-data.csv"},
		{"archive.csv.zip", "csv2pg-archive.csv"},
	}
	for _, tt := range tests {
		if got := OutputName(tt.input); got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
