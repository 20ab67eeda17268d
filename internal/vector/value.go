package vector

import (
	"strconv"
	"strings"

	"github.com/vk/benchplan/internal/bytesize"
)

// Kind discriminates the closed set of factor value types.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindSize
)

// Value is a single factor value: a string, boolean, integer or byte
// quantity. Values are immutable and comparable; the zero value is the
// empty string.
type Value struct {
	kind Kind
	str  string
	num  int64
}

// String wraps a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Size wraps a byte-quantity value.
func Size(s bytesize.Size) Value { return Value{kind: KindSize, num: int64(s)} }

// Bool wraps a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Kind reports the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the numeric payload for integer and size values.
func (v Value) AsInt() int64 { return v.num }

// AsSize returns the payload as a byte quantity.
func (v Value) AsSize() bytesize.Size { return bytesize.Size(v.num) }

// AsBool returns the payload as a boolean.
func (v Value) AsBool() bool { return v.num != 0 }

// String renders the canonical textual form: raw text for strings, decimal
// for integers, the canonical unit form for sizes, "true"/"false" for
// booleans. Canonical forms are what appear in keys and directory names.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindSize:
		return bytesize.Size(v.num).String()
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	default:
		return v.str
	}
}

// keyString renders the identity form used in vector keys. A class prefix
// keeps the string "1" distinct from the number 1, while the numeric kinds,
// which Compare treats as equal by magnitude, share one representation so
// that key equality and Compare equality always agree.
func (v Value) keyString() string {
	if v.numeric() {
		return "#" + strconv.FormatInt(v.num, 10)
	}
	return "s" + v.str
}

// Equal reports whether two values are identical. Integer and size values
// of equal magnitude compare equal, matching Compare.
func (v Value) Equal(o Value) bool { return v.Compare(o) == 0 }

// Compare imposes a total order: numeric kinds (int, size) compare by
// magnitude against each other, strings lexicographically, and mixed
// kinds by kind rank so that sorting never depends on insertion order.
func (v Value) Compare(o Value) int {
	vn, on := v.numeric(), o.numeric()
	if vn && on {
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		default:
			return 0
		}
	}
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	return strings.Compare(v.str, o.str)
}

func (v Value) numeric() bool {
	return v.kind == KindInt || v.kind == KindSize || v.kind == KindBool
}
