// Package bytesize provides a byte-quantity value type for memory sizes
// declared in project configuration, such as "128G" or "13.3K". Units are
// binary: K, M and G denote multiples of 1024.
package bytesize

import (
	"fmt"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// Size is a byte quantity. The zero value means "not set".
type Size int64

const (
	KiB Size = 1024
	MiB Size = 1024 * KiB
	GiB Size = 1024 * MiB
)

// Parse converts a unit-suffixed string into a Size. Accepted forms follow
// RAM-size conventions: "128G", "5g", "13.3K", "512MiB", or a plain byte
// count like "4096". Units are case-insensitive and binary.
func Parse(s string) (Size, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	return Size(n), nil
}

// MustParse is Parse for static values; it panics on error.
func MustParse(s string) Size {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the size in its canonical form: the largest binary unit
// that divides it exactly, otherwise a plain byte count. The mapping is
// injective, so canonical strings are safe to use as identity keys and in
// result directory names.
func (s Size) String() string {
	switch {
	case s >= GiB && s%GiB == 0:
		return fmt.Sprintf("%dG", s/GiB)
	case s >= MiB && s%MiB == 0:
		return fmt.Sprintf("%dM", s/MiB)
	case s >= KiB && s%KiB == 0:
		return fmt.Sprintf("%dK", s/KiB)
	default:
		return fmt.Sprintf("%d", int64(s))
	}
}

// Bytes returns the quantity as a plain int64 byte count.
func (s Size) Bytes() int64 { return int64(s) }

// UnmarshalYAML accepts either a unit-suffixed string or an integer byte
// count, so YAML documents can write mem_per_node: "120G" or numa_mem: 68719476736.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		var n int64
		if err2 := node.Decode(&n); err2 != nil {
			return fmt.Errorf("line %d: size must be a string or integer", node.Line)
		}
		if n < 0 {
			return fmt.Errorf("line %d: size must not be negative", node.Line)
		}
		*s = Size(n)
		return nil
	}
	v, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = v
	return nil
}

// MarshalYAML emits the canonical string form.
func (s Size) MarshalYAML() (any, error) {
	return s.String(), nil
}
