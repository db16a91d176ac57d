package repository

import (
	"gorm.io/gorm/clause"
)

type policyKind int

const (
	preserveExisting policyKind = iota
	overwriteAll
	overwritePartial
)

// ConflictPolicy decides what happens when an incoming row collides with a
// stored row on the unique key.
type ConflictPolicy struct {
	kind   policyKind
	fields []string
}

// PreserveExisting keeps the stored row untouched.
func PreserveExisting() ConflictPolicy {
	return ConflictPolicy{kind: preserveExisting}
}

// OverwriteAll replaces every loaded non-key column of the stored row.
func OverwriteAll() ConflictPolicy {
	return ConflictPolicy{kind: overwriteAll}
}

// OverwritePartial replaces only the named columns of the stored row.
func OverwritePartial(fields ...string) ConflictPolicy {
	return ConflictPolicy{kind: overwritePartial, fields: append([]string(nil), fields...)}
}

func (p ConflictPolicy) String() string {
	switch p.kind {
	case overwriteAll:
		return "overwrite_all"
	case overwritePartial:
		return "overwrite_partial"
	default:
		return "preserve_existing"
	}
}

// UpdateColumns returns the columns an upsert rewrites for the given loaded
// column set. Keys are never rewritten.
func (p ConflictPolicy) UpdateColumns(keys, loaded []string) []string {
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	var candidates []string
	switch p.kind {
	case overwriteAll:
		candidates = loaded
	case overwritePartial:
		isLoaded := make(map[string]bool, len(loaded))
		for _, c := range loaded {
			isLoaded[c] = true
		}
		for _, f := range p.fields {
			if isLoaded[f] {
				candidates = append(candidates, f)
			}
		}
	default:
		return nil
	}

	var out []string
	for _, c := range candidates {
		if !isKey[c] {
			out = append(out, c)
		}
	}
	return out
}

// Clause renders the policy as a gorm ON CONFLICT clause. Dialects translate
// it, e.g. MySQL emits ON DUPLICATE KEY UPDATE.
func (p ConflictPolicy) Clause(keys, loaded []string) clause.OnConflict {
	conflict := clause.OnConflict{Columns: make([]clause.Column, len(keys))}
	for i, k := range keys {
		conflict.Columns[i] = clause.Column{Name: k}
	}

	update := p.UpdateColumns(keys, loaded)
	if len(update) == 0 {
		conflict.DoNothing = true
		return conflict
	}
	conflict.DoUpdates = clause.AssignmentColumns(update)
	return conflict
}
