package repository

import (
	"context"
	"fmt"

	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/pkg/common"
	"golang-market-etl/pkg/logger"

	"gorm.io/gorm"
)

// MaxPlaceholders is the bind parameter limit shared by MySQL and Postgres.
const MaxPlaceholders = 65535

// StoreError reports a failed chunk. Rows committed before Offset stay stored.
type StoreError struct {
	Entity    string
	Offset    int
	Committed int
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: chunk at row %d failed after %d committed rows: %v", e.Entity, e.Offset, e.Committed, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// LoadResult summarizes one load.
type LoadResult struct {
	Entity    string
	Total     int
	Committed int
	// Affected is the driver-reported row count; MySQL counts an updated row twice.
	Affected int64
	Chunks   int
}

// ProgressFunc observes each committed chunk.
type ProgressFunc func(entity string, processed, total int)

// Loader writes normalized frames into their target tables.
type Loader interface {
	Load(ctx context.Context, target Target, f *frame.Frame) (LoadResult, error)
}

// Option configures a Loader.
type Option func(*loader)

// WithChunkSize sets the number of rows per transaction.
func WithChunkSize(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.chunkSize = n
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(l *loader) {
		l.progress = fn
	}
}

// WithMaxPlaceholders overrides the bind parameter limit, e.g. for SQLite builds
// compiled with a lower SQLITE_MAX_VARIABLE_NUMBER.
func WithMaxPlaceholders(n int) Option {
	return func(l *loader) {
		if n > 0 {
			l.maxPlaceholders = n
		}
	}
}

// NewLoader creates a new GORM-based loader.
func NewLoader(db *gorm.DB, log *logger.Logger, opts ...Option) Loader {
	l := &loader{
		db:              db,
		logger:          log,
		chunkSize:       common.DefaultChunkSize,
		maxPlaceholders: MaxPlaceholders,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type loader struct {
	db              *gorm.DB
	logger          *logger.Logger
	chunkSize       int
	maxPlaceholders int
	progress        ProgressFunc
}

// Load inserts f in sequential chunks, each in its own transaction, resolving
// key collisions with the target policy. Only columns present on f are written,
// except for targets that overwrite whole records.
func (l *loader) Load(ctx context.Context, target Target, f *frame.Frame) (LoadResult, error) {
	result := LoadResult{Entity: target.Entity, Total: f.Len()}
	if f.Len() == 0 {
		return result, nil
	}

	columns := target.WriteColumns(f.Columns())
	onConflict := target.Policy.Clause(target.Keys, columns)
	size := l.rowsPerChunk(len(columns))

	l.logger.InfoContext(ctx, "Loading records",
		logger.StringField("entity", target.Entity),
		logger.IntField("rows", result.Total),
		logger.IntField("chunk_size", size),
		logger.StringField("policy", target.Policy.String()))

	for offset := 0; offset < result.Total; offset += size {
		if err := ctx.Err(); err != nil {
			return result, &StoreError{Entity: target.Entity, Offset: offset, Committed: result.Committed, Err: err}
		}

		end := offset + size
		if end > result.Total {
			end = result.Total
		}
		values := toValues(f.Slice(offset, end), columns)

		var affected int64
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(target.Model).Clauses(onConflict).Create(&values)
			affected = res.RowsAffected
			return res.Error
		})
		if err != nil {
			storeErr := &StoreError{Entity: target.Entity, Offset: offset, Committed: result.Committed, Err: err}
			l.logger.ErrorContext(ctx, "Failed to store chunk", logger.ErrorField(storeErr))
			return result, storeErr
		}

		result.Committed = end
		result.Affected += affected
		result.Chunks++
		l.logger.InfoContext(ctx, "Chunk committed",
			logger.StringField("entity", target.Entity),
			logger.StringField("progress", fmt.Sprintf("%d/%d", result.Committed, result.Total)))
		if l.progress != nil {
			l.progress(target.Entity, result.Committed, result.Total)
		}
	}

	return result, nil
}

// rowsPerChunk caps the configured chunk size so a chunk never exceeds the
// placeholder limit.
func (l *loader) rowsPerChunk(columns int) int {
	size := l.chunkSize
	if columns == 0 {
		return size
	}
	if limit := (l.maxPlaceholders - 1) / columns; limit < size {
		size = limit
	}
	if size < 1 {
		size = 1
	}
	return size
}

func toValues(rows []frame.Row, columns []string) []map[string]interface{} {
	values := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		v := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			v[c] = row[c]
		}
		values[i] = v
	}
	return values
}
