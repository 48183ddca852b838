// Package entity holds the raw game data shapes produced from the upstream
// XML API and the accessor used to read fields out of them.
package entity

import (
	"sort"
	"strconv"
	"strings"
)

// Record is one game object's raw attributes. Values are strings, nested
// Records, or []any slices of those. Keys are kept verbatim from upstream.
type Record map[string]any

// Table maps an entity id to its record. Tables are attached to details as
// auxiliary data for resolving cross references.
type Table map[string]Record

// Lookup resolves a dot separated field path against rec.
//
// A path segment that is missing from the current record is skipped and the
// remaining segments continue on that same record, so "B.A.X" against
// {"A": {"X": "1"}} yields "1". A missing final segment yields nil.
//
// String results that are empty, exactly "0", or "none" in any case are
// reported as nil. Other empty values (nil, empty record or slice) are nil too.
func Lookup(rec Record, path string) any {
	if rec == nil || path == "" {
		return nil
	}

	segments := strings.Split(path, ".")
	current := rec
	for i, segment := range segments {
		value, ok := current[segment]
		last := i == len(segments)-1
		if !ok {
			if last {
				return nil
			}
			continue
		}
		if last {
			return normalize(value)
		}
		next, ok := asRecord(value)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// LookupString is Lookup for fields expected to hold text. Non-string values
// and absent fields yield "".
func LookupString(rec Record, path string) string {
	if s, ok := Lookup(rec, path).(string); ok {
		return s
	}
	return ""
}

// LookupInt parses the field at path as an integer.
func LookupInt(rec Record, path string) (int, bool) {
	s := LookupString(rec, path)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// LookupFloat parses the field at path as a float.
func LookupFloat(rec Record, path string) (float64, bool) {
	s := LookupString(rec, path)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsAbsent reports whether a raw string counts as "no value".
func IsAbsent(s string) bool {
	return s == "" || s == "0" || strings.EqualFold(s, "none")
}

func normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if IsAbsent(v) {
			return nil
		}
		return v
	case Record:
		if len(v) == 0 {
			return nil
		}
		return v
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		return Record(v)
	case []any:
		if len(v) == 0 {
			return nil
		}
		return v
	default:
		return v
	}
}

func asRecord(value any) (Record, bool) {
	switch v := value.(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	default:
		return nil, false
	}
}

// IDs returns the table's ids in ascending order, numerically when every id is
// a number.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t))
	numeric := true
	for id := range t {
		ids = append(ids, id)
		if _, err := strconv.Atoi(id); err != nil {
			numeric = false
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if numeric {
			a, _ := strconv.Atoi(ids[i])
			b, _ := strconv.Atoi(ids[j])
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Clone returns a shallow copy of rec so callers can attach synthesized fields
// without touching the cached original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
