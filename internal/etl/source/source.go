package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/pkg/common"

	"github.com/gocarina/gocsv"
)

// ErrSourceNotFound is returned when no raw input exists for an entity.
var ErrSourceNotFound = errors.New("raw source not found")

// Source provides the raw vendor table of an entity.
type Source interface {
	Read(ctx context.Context, entity string) (*frame.Frame, error)
}

// DefaultFiles maps each entity to the raw CSV the acquisition job writes.
var DefaultFiles = map[string]string{
	common.EntityCompanies:           common.RawCompaniesFile,
	common.EntityStockPrices:         common.RawPricesFile,
	common.EntityFinancialStatements: common.RawFinancialsFile,
}

type csvSource struct {
	dir   string
	files map[string]string
}

// NewCSVSource reads raw tables from CSV files in dir.
func NewCSVSource(dir string) Source {
	return &csvSource{dir: dir, files: DefaultFiles}
}

// Read loads the CSV of entity into a frame with the vendor's column names.
func (s *csvSource) Read(ctx context.Context, entity string) (*frame.Frame, error) {
	name, ok := s.files[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	path := filepath.Join(s.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return frame.New(nil, nil), nil
	}

	records, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return frame.FromRecords(columnsOf(records), records), nil
}

// columnsOf returns the header names seen in records, sorted for stable output.
func columnsOf(records []map[string]string) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
