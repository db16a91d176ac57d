package frame

import (
	"fmt"
	"strings"
)

// Row maps a column name to its value. A column can be present on the frame
// while a given row holds nil for it.
type Row map[string]interface{}

// Frame is an ordered column set over a slice of rows. Column presence is
// tracked separately from cell values, so "column never existed" and
// "value is missing" stay distinguishable.
type Frame struct {
	columns []string
	present map[string]struct{}
	rows    []Row
}

// New creates a frame. Columns are de-duplicated, first occurrence wins.
func New(columns []string, rows []Row) *Frame {
	f := &Frame{present: make(map[string]struct{}, len(columns))}
	for _, c := range columns {
		f.addColumn(c)
	}
	if rows == nil {
		rows = []Row{}
	}
	f.rows = rows
	return f
}

// FromRecords builds a frame from string records such as CSV rows keyed by header.
func FromRecords(columns []string, records []map[string]string) *Frame {
	rows := make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := rec[c]; ok {
				row[c] = v
			}
		}
		rows[i] = row
	}
	return New(columns, rows)
}

func (f *Frame) addColumn(col string) {
	if _, ok := f.present[col]; ok {
		return
	}
	f.present[col] = struct{}{}
	f.columns = append(f.columns, col)
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Has reports whether col is part of the frame.
func (f *Frame) Has(col string) bool {
	_, ok := f.present[col]
	return ok
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Rows returns the underlying rows. Mutating them mutates the frame.
func (f *Frame) Rows() []Row {
	return f.rows
}

// Rename renames present columns using mapping (old -> new). If the new name is
// already present, the existing column is kept and the old one is dropped.
func (f *Frame) Rename(mapping map[string]string) {
	for i := 0; i < len(f.columns); i++ {
		oldName := f.columns[i]
		newName, ok := mapping[oldName]
		if !ok || newName == oldName {
			continue
		}

		delete(f.present, oldName)
		if f.Has(newName) {
			f.columns = append(f.columns[:i], f.columns[i+1:]...)
			i--
			for _, row := range f.rows {
				delete(row, oldName)
			}
			continue
		}

		f.columns[i] = newName
		f.present[newName] = struct{}{}
		for _, row := range f.rows {
			if v, ok := row[oldName]; ok {
				row[newName] = v
				delete(row, oldName)
			}
		}
	}
}

// Set adds col (or replaces its values) using fn evaluated on every row.
func (f *Frame) Set(col string, fn func(Row) interface{}) {
	for _, row := range f.rows {
		row[col] = fn(row)
	}
	f.addColumn(col)
}

// Drop removes columns from the frame.
func (f *Frame) Drop(cols ...string) {
	for _, col := range cols {
		if !f.Has(col) {
			continue
		}
		delete(f.present, col)
		for i, c := range f.columns {
			if c == col {
				f.columns = append(f.columns[:i], f.columns[i+1:]...)
				break
			}
		}
		for _, row := range f.rows {
			delete(row, col)
		}
	}
}

// Select returns a new frame with only the given columns that are present, in
// the given order. Rows are copied.
func (f *Frame) Select(cols ...string) *Frame {
	kept := make([]string, 0, len(cols))
	for _, c := range cols {
		if f.Has(c) {
			kept = append(kept, c)
		}
	}

	rows := make([]Row, len(f.rows))
	for i, row := range f.rows {
		out := make(Row, len(kept))
		for _, c := range kept {
			out[c] = row[c]
		}
		rows[i] = out
	}
	return New(kept, rows)
}

// Filter keeps the rows for which keep returns true, preserving order.
func (f *Frame) Filter(keep func(Row) bool) int {
	kept := f.rows[:0]
	dropped := 0
	for _, row := range f.rows {
		if keep(row) {
			kept = append(kept, row)
			continue
		}
		dropped++
	}
	f.rows = kept
	return dropped
}

// DedupeBy removes rows sharing the same key values. With keepLast the last
// occurrence survives at the position of the first one; otherwise the first wins.
func (f *Frame) DedupeBy(keepLast bool, keys ...string) int {
	index := make(map[string]int, len(f.rows))
	out := make([]Row, 0, len(f.rows))
	for _, row := range f.rows {
		k := rowKey(row, keys)
		if pos, seen := index[k]; seen {
			if keepLast {
				out[pos] = row
			}
			continue
		}
		index[k] = len(out)
		out = append(out, row)
	}
	dropped := len(f.rows) - len(out)
	f.rows = out
	return dropped
}

// Slice returns rows [start, end) clamped to the frame length.
func (f *Frame) Slice(start, end int) []Row {
	if start < 0 {
		start = 0
	}
	if end > len(f.rows) {
		end = len(f.rows)
	}
	if start >= end {
		return nil
	}
	return f.rows[start:end]
}

func rowKey(row Row, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(row[k])
	}
	return strings.Join(parts, "\x1f")
}
