// Package vector defines the TestVector value type: one fully-specified
// combination of factor values representing a single benchmark run, plus
// the deterministic ordering and naming rules downstream tooling relies on.
package vector

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Origin records where a vector came from: the model, scaling policy and
// candidate tag that produced it. A deduplicated vector reached through
// several models or policies carries all contributing origins.
type Origin struct {
	Model  string
	Policy string
	Tag    string
}

// TestVector is an immutable mapping from each declared factor name to a
// concrete value. Identity is defined over the full factor/value mapping;
// origins are metadata and do not participate in equality.
type TestVector struct {
	factors []string
	values  map[string]Value
	origins []Origin
}

// New builds a TestVector over the declared factor list. Every factor must
// be present in values; extra values are rejected so that a vector never
// silently carries factors the project did not declare.
func New(factors []string, values map[string]Value, origins ...Origin) (*TestVector, error) {
	if len(values) != len(factors) {
		for _, f := range factors {
			if _, ok := values[f]; !ok {
				return nil, fmt.Errorf("missing value for factor %q", f)
			}
		}
		return nil, fmt.Errorf("got %d values for %d declared factors", len(values), len(factors))
	}
	vals := make(map[string]Value, len(factors))
	for _, f := range factors {
		v, ok := values[f]
		if !ok {
			return nil, fmt.Errorf("missing value for factor %q", f)
		}
		vals[f] = v
	}
	return &TestVector{factors: factors, values: vals, origins: origins}, nil
}

// Factors returns the declared factor names in order.
func (tv *TestVector) Factors() []string { return tv.factors }

// Value returns the value for a factor name.
func (tv *TestVector) Value(name string) (Value, bool) {
	v, ok := tv.values[name]
	return v, ok
}

// Origins returns the provenance metadata for this vector.
func (tv *TestVector) Origins() []Origin { return tv.origins }

// MergeOrigins unions another vector's origins into this one's metadata.
// The factor mapping itself is never touched.
func (tv *TestVector) MergeOrigins(other *TestVector) {
	seen := make(map[Origin]struct{}, len(tv.origins))
	for _, o := range tv.origins {
		seen[o] = struct{}{}
	}
	for _, o := range other.origins {
		if _, dup := seen[o]; !dup {
			seen[o] = struct{}{}
			tv.origins = append(tv.origins, o)
		}
	}
}

// Key returns the canonical identity string: factor=value pairs in declared
// order, joined by a separator that cannot appear in canonical values.
// Values render through their kind-tagged key form, so the string "1" and
// the number 1 stay distinct. Two vectors are the same vector iff their
// keys are equal.
func (tv *TestVector) Key() string {
	var b strings.Builder
	for i, f := range tv.factors {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(f)
		b.WriteByte('=')
		b.WriteString(tv.values[f].keyString())
	}
	return b.String()
}

// String renders the vector for logs and reports.
func (tv *TestVector) String() string {
	parts := make([]string, len(tv.factors))
	for i, f := range tv.factors {
		parts[i] = f + "=" + tv.values[f].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// DirName returns the result directory for this vector: one path segment
// per declared factor, in order, each "factor-value". The mapping is stable
// across runs and injective as long as canonical values avoid path
// separators; separators in values are replaced with '_'.
func (tv *TestVector) DirName() string {
	segs := make([]string, len(tv.factors))
	for i, f := range tv.factors {
		val := tv.values[f].String()
		val = strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ' ':
				return '_'
			}
			return r
		}, val)
		segs[i] = f + "-" + val
	}
	return filepath.Join(segs...)
}

// Less orders two vectors lexicographically over the declared factor list,
// using each value's natural ordering. Both vectors must share the same
// factor list.
func Less(a, b *TestVector) bool {
	for _, f := range a.factors {
		if c := a.values[f].Compare(b.values[f]); c != 0 {
			return c < 0
		}
	}
	return false
}

// Sort orders vectors in place into the canonical output order. Sorting is
// idempotent: re-sorting an already sorted slice leaves it unchanged.
func Sort(vs []*TestVector) {
	sort.SliceStable(vs, func(i, j int) bool { return Less(vs[i], vs[j]) })
}
