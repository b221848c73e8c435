// Package diff implements the change-diff engine behind the action history:
// it flattens record snapshots into leaf paths, computes field-level
// before/after diffs and renders them as human-readable descriptions.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"example.com/giradamata/services/admin/internal/format"
)

// Kind classifies a mutation from its before/after snapshots
type Kind string

const (
	Create Kind = "CREATE"
	Update Kind = "UPDATE"
	Delete Kind = "DELETE"
)

// EmptySentinel is rendered for null, undefined and empty-string values
const EmptySentinel = "vazio"

// DefaultIgnoredPrefixes is the set of volatile and structural paths excluded
// from diffs: identifiers, timestamps, nested person blobs, the soft-delete
// marker and audit metadata.
func DefaultIgnoredPrefixes() *IgnoreSet {
	return NewIgnoreSet(
		"id",
		"createdAt",
		"updatedAt",
		"eventId",
		"personId",
		"person",
		"people",
		"registrations",
		"isDeleted",
		"actor",
		"ipAddress",
		"locationInfo",
	)
}

// IgnoreSet holds the path prefixes excluded from flattening. It is passed
// into the engine rather than baked into the traversal so the list can be
// tested independently.
type IgnoreSet struct {
	prefixes map[string]struct{}
}

// NewIgnoreSet builds an ignore set from path prefixes
func NewIgnoreSet(prefixes ...string) *IgnoreSet {
	set := &IgnoreSet{prefixes: make(map[string]struct{}, len(prefixes))}
	for _, p := range prefixes {
		set.prefixes[p] = struct{}{}
	}
	return set
}

// Ignored reports whether a path falls under any ignored prefix
func (s *IgnoreSet) Ignored(path string) bool {
	if s == nil {
		return false
	}
	for prefix := range s.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}

// Change is one field-level difference between two snapshots
type Change struct {
	Path   string
	Before interface{}
	After  interface{}
}

// Flatten recursively flattens a nested record into dot-delimited leaf paths.
// Arrays are treated as opaque leaf values. Paths under the ignore set are
// skipped.
func Flatten(record map[string]interface{}, ignore *IgnoreSet) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", record, ignore)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, record map[string]interface{}, ignore *IgnoreSet) {
	for key, value := range record {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if ignore.Ignored(path) {
			continue
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenInto(out, path, nested, ignore)
			continue
		}
		out[path] = value
	}
}

// Compute flattens both snapshots, unions their key sets and keeps only the
// paths whose values differ structurally. Changes come back sorted by path.
func Compute(before, after map[string]interface{}, ignore *IgnoreSet) []Change {
	flatBefore := Flatten(before, ignore)
	flatAfter := Flatten(after, ignore)

	paths := make(map[string]struct{}, len(flatBefore)+len(flatAfter))
	for p := range flatBefore {
		paths[p] = struct{}{}
	}
	for p := range flatAfter {
		paths[p] = struct{}{}
	}

	var changes []Change
	for path := range paths {
		b, a := flatBefore[path], flatAfter[path]
		if canonical(b) == canonical(a) {
			continue
		}
		changes = append(changes, Change{Path: path, Before: b, After: a})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// canonical serializes a value so structurally equal values compare equal
// regardless of key order. json.Marshal emits map keys sorted, which gives a
// canonical form for free.
func canonical(v interface{}) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Classify derives the mutation kind from the presence and soft-delete state
// of the snapshots. An UPDATE with zero diffed paths is still a valid UPDATE.
func Classify(before, after map[string]interface{}) Kind {
	if before == nil {
		return Create
	}
	if after == nil {
		return Delete
	}
	if deleted, ok := after["isDeleted"].(bool); ok && deleted {
		return Delete
	}
	return Update
}

// dateLike reports whether a path refers to a date or timestamp field
func dateLike(path string) bool {
	lower := strings.ToLower(path)
	leaf := lower
	if i := strings.LastIndex(lower, "."); i >= 0 {
		leaf = lower[i+1:]
	}
	return strings.Contains(lower, "date") ||
		strings.Contains(lower, "deadline") ||
		strings.HasSuffix(leaf, "at")
}

// amountLike reports whether a path refers to a monetary field
func amountLike(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, "amount") || strings.Contains(lower, "price")
}

// FormatValue renders a leaf value for human display: localized booleans,
// DD/MM/YYYY dates, currency for amounts, JSON for objects, and the empty
// sentinel for null or blank values.
func FormatValue(path string, value interface{}) string {
	if value == nil {
		return EmptySentinel
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "Sim"
		}
		return "Não"
	case string:
		if v == "" {
			return EmptySentinel
		}
		if dateLike(path) {
			if formatted, ok := formatDate(v); ok {
				return formatted
			}
		}
		return v
	case float64:
		if amountLike(path) {
			return format.Currency(v)
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// formatDate parses a date-like string and renders it as DD/MM/YYYY, with
// HH:mm appended when the value carries a non-midnight time component
func formatDate(s string) (string, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Hour() == 0 && t.Minute() == 0 {
			return t.Format("02/01/2006"), true
		}
		return t.Format("02/01/2006 15:04"), true
	}
	return "", false
}

// Summary renders a one-line-per-field description of a mutation, the text
// stored in each history entry
func Summary(kind Kind, recordLabel string, changes []Change) string {
	switch kind {
	case Create:
		return fmt.Sprintf("Criado: %s", recordLabel)
	case Delete:
		return fmt.Sprintf("Excluído: %s", recordLabel)
	}

	if len(changes) == 0 {
		return fmt.Sprintf("Atualizado: %s (nenhuma alteração detectada)", recordLabel)
	}

	lines := make([]string, 0, len(changes)+1)
	lines = append(lines, fmt.Sprintf("Atualizado: %s", recordLabel))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("%s: %s → %s",
			c.Path, FormatValue(c.Path, c.Before), FormatValue(c.Path, c.After)))
	}
	return strings.Join(lines, "\n")
}
