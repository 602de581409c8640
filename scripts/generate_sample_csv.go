package main

import (
	"compress/gzip"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/csv2pg/csv2pg-go/internal/charset"
)

// headerPool holds column names that need normalization: spaces, mixed case,
// quotes and characters outside ASCII.
var headerPool = []string{
	"Customer Id", "Full Name", "Straße", "Ville", "Café", "e-mail",
	"Größe", "Prix €", "Crème", "Order Date", "Montant TTC", "Pays",
}

var valuePool = []string{"José", "Orléans", "Größe", "Ærøskøbing", "naïve", "Zürich", "plain"}

func main() {
	var (
		rows     = flag.Int("rows", 1000, "Number of rows to generate")
		cols     = flag.Int("cols", 6, "Number of columns")
		output   = flag.String("output", "sample.csv", "Output file path; .gz, .xz and .zst are compressed")
		encName  = flag.String("encoding", "iso-8859-1", "Encoding of the output file")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		dupNames = flag.Bool("duplicates", false, "Repeat the first column name in another case")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seed))

	enc, err := charset.Lookup(*encName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	compressed, err := compressor(file, *output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating compressor: %v\n", err)
		os.Exit(1)
	}

	// Characters the encoding can't represent abort the run.
	encoded := enc.NewEncoder().Writer(compressed)
	writer := csv.NewWriter(encoded)

	header := make([]string, *cols)
	for i := range header {
		name := headerPool[i%len(headerPool)]
		if i >= len(headerPool) {
			name = fmt.Sprintf("%s %d", name, i/len(headerPool)+1)
		}
		header[i] = name
	}
	if *dupNames && *cols > 1 {
		header[*cols-1] = strings.ToLower(header[0])
	}
	if err := writer.Write(header); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing header: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *rows; i++ {
		row := make([]string, *cols)
		for j := range row {
			switch j % 3 {
			case 0: // Integer
				row[j] = fmt.Sprintf("%d", rnd.Intn(1000000))
			case 1: // Accented text
				row[j] = valuePool[rnd.Intn(len(valuePool))]
			case 2: // Decimal
				row[j] = fmt.Sprintf("%.2f", rnd.Float64()*1000)
			}
		}
		if err := writer.Write(row); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing row %d: %v\n", i+1, err)
			os.Exit(1)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output as %s: %v\n", *encName, err)
		os.Exit(1)
	}
	if c, ok := encoded.(io.Closer); ok {
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output as %s: %v\n", *encName, err)
			os.Exit(1)
		}
	}
	if err := compressed.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing output: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Successfully generated %d rows with %d columns in %s (%s)\n", *rows, *cols, *output, *encName)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// compressor wraps w according to the extension of name.
func compressor(w io.Writer, name string) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".xz":
		return xz.NewWriter(w)
	case ".zst":
		return zstd.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}
