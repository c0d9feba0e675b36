// Package source turns files and streams into analysis tables. It is the
// only place that touches the file system on the read path; the analysis
// engine receives finished tables.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/autoeda/internal/analysis"
	"github.com/rs/zerolog/log"
)

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported dataset format")

// StdinName is the path that selects standard input.
const StdinName = "-"

// Options selects what to read from multi-sheet sources.
type Options struct {
	// SheetName picks an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex picks an XLSX sheet by 1-based position when SheetName is empty.
	SheetIndex int
}

// Document is a loaded dataset with where it came from.
type Document struct {
	Name      string
	Path      string
	SizeBytes int64
	Table     *analysis.Table
}

// Loader reads one file format.
type Loader interface {
	CanLoad(path string) bool
	Load(data []byte, opt Options) (*analysis.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile reads path with the first loader that accepts it.
func LoadFile(path string, opt Options) (*Document, error) {
	if path == StdinName {
		return LoadReader(os.Stdin, "stdin")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		t, err := l.Load(data, opt)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		log.Debug().Str("path", path).Int("rows", t.Len()).Int("cols", t.Cols()).Msg("dataset loaded")
		return &Document{Name: filepath.Base(path), Path: path, SizeBytes: int64(len(data)), Table: t}, nil
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

// LoadReader reads CSV text from r.
func LoadReader(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	t, err := csvLoader{}.Load(data, Options{})
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, SizeBytes: int64(len(data)), Table: t}, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt")
}

// Load strips a UTF-8 byte order mark so it does not end up in the first
// header name, then hands the text to the CSV parser.
func (csvLoader) Load(data []byte, _ Options) (*analysis.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return analysis.Parse(string(data)), nil
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
