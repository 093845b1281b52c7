package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"babynames/internal/models"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/labstack/gommon/log"
)

var (
	ErrDataDirMissing = errors.New("data directory not found")
	ErrNoRecords      = errors.New("no name records loaded")
)

// Year files are named yobYYYY.txt; the year sits at a fixed offset.
const (
	yearFilePrefix = "yob"
	yearFileSuffix = ".txt"
	yearOffset     = len(yearFilePrefix)
	yearDigits     = 4

	defaultChunkSize = 4096
)

var nameSchema = arrow.NewSchema([]arrow.Field{
	{Name: "name", Type: arrow.BinaryTypes.String},
	{Name: "gender", Type: arrow.BinaryTypes.String},
	{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
}, nil)

type loadConfig struct {
	logger    *log.Logger
	mem       memory.Allocator
	chunkSize int
}

type LoadOption func(*loadConfig)

func WithLogger(l *log.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = l }
}

func WithAllocator(mem memory.Allocator) LoadOption {
	return func(c *loadConfig) { c.mem = mem }
}

func WithChunkSize(n int) LoadOption {
	return func(c *loadConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// --- 1. FILENAME HELPERS ---

// parseYear extracts the year from "yob1900.txt" -> 1900
func parseYear(filename string) (int32, bool) {
	if len(filename) != yearOffset+yearDigits+len(yearFileSuffix) {
		return 0, false
	}
	if !strings.HasPrefix(filename, yearFilePrefix) || !strings.HasSuffix(filename, yearFileSuffix) {
		return 0, false
	}
	var y int32
	for _, c := range []byte(filename[yearOffset : yearOffset+yearDigits]) {
		if c < '0' || c > '9' {
			return 0, false
		}
		y = y*10 + int32(c-'0')
	}
	return y, true
}

type yearFile struct {
	path string
	name string
	year int32
}

func listYearFiles(dir string) ([]yearFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataDirMissing, dir)
		}
		return nil, fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDataDirMissing, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var files []yearFile
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		year, ok := parseYear(e.Name())
		if !ok {
			continue
		}
		files = append(files, yearFile{path: filepath.Join(dir, e.Name()), name: e.Name(), year: year})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

// --- 2. MAIN LOADER ---

// LoadDir reads every yobYYYY.txt file in dir into a RecordStore.
// A parse error in any file aborts the load.
func LoadDir(dir string, opts ...LoadOption) (*RecordStore, error) {
	cfg := loadConfig{chunkSize: defaultChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New("engine")
		cfg.logger.SetLevel(log.OFF)
	}
	if cfg.mem == nil {
		cfg.mem = memory.NewGoAllocator()
	}

	start := time.Now()
	files, err := listYearFiles(dir)
	if err != nil {
		return nil, err
	}
	cfg.logger.Infof("Loading %d year files from %s...", len(files), dir)

	store := NewRecordStore()
	for _, yf := range files {
		n, err := loadFile(store, yf, &cfg)
		if err != nil {
			return nil, err
		}
		cfg.logger.Infof("loaded %s: %d rows", yf.name, n)
	}

	cfg.logger.Infof("Load Complete. Files: %d. Rows: %d. Names: %d. Time: %v",
		len(files), store.Len(), len(store.NameDict), time.Since(start))
	return store, nil
}

func loadFile(store *RecordStore, yf yearFile, cfg *loadConfig) (rows int, err error) {
	// The arrow reader panics when the first row has the wrong column count.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parse %s: %v", yf.name, p)
		}
	}()

	f, err := os.Open(yf.path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", yf.name, err)
	}
	defer f.Close()

	r := csv.NewReader(f, nameSchema,
		csv.WithComma(','),
		csv.WithHeader(false),
		csv.WithChunk(cfg.chunkSize),
		csv.WithAllocator(cfg.mem),
	)
	defer r.Release()

	for r.Next() {
		rec := r.Record()
		names := rec.Column(0).(*array.String)
		genders := rec.Column(1).(*array.String)
		counts := rec.Column(2).(*array.Int64)

		for i := 0; i < int(rec.NumRows()); i++ {
			var count int64
			if counts.IsValid(i) {
				count = counts.Value(i)
			}
			gender := models.Gender(strings.TrimSpace(genders.Value(i)))
			store.Append(strings.TrimSpace(names.Value(i)), gender, count, yf.year)
			rows++
		}
	}
	if err := r.Err(); err != nil && !errors.Is(err, io.EOF) {
		return rows, fmt.Errorf("parse %s: %w", yf.name, err)
	}
	return rows, nil
}
