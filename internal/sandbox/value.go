package sandbox

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is a runtime value inside the sandbox. The covered types mirror the
// Python built-ins the trainer quizzes on: NoneType, bool, int, float, str,
// bytes, bytearray, list, tuple, set, dict and range.
type Value interface {
	// TypeName returns the Python-facing type name, used in error messages.
	TypeName() string
	// Repr renders the value as a Python literal, used in verdict messages.
	Repr() string
}

type (
	// None is the NoneType singleton.
	None struct{}

	// Bool is a boolean value.
	Bool bool

	// Int is an integer value.
	Int int64

	// Float is a floating-point value.
	Float float64

	// Str is a text string. Length and indexing are by rune, as in Python.
	Str string

	// Bytes is an immutable byte string.
	Bytes []byte

	// ByteArray is a mutable byte string. It is held by pointer so that
	// statement-mode code can modify a caller-supplied binding in place.
	ByteArray struct {
		B []byte
	}

	// List is a mutable sequence, held by pointer for in-place mutation.
	List struct {
		Items []Value
	}

	// Tuple is an immutable sequence.
	Tuple []Value

	// Set is an unordered collection of unique values. Membership uses value
	// equality; the element count in any sandboxed snippet is tiny, so a
	// slice with linear lookup stands in for a hash set.
	Set struct {
		Items []Value
	}

	// Dict maps keys to values, preserving insertion order.
	Dict struct {
		Keys []Value
		Vals []Value
	}

	// Range is the lazy integer sequence produced by range(). It is never
	// materialized unless a container constructor asks for its elements.
	Range struct {
		Start, Stop, Step int64
	}
)

func (None) TypeName() string      { return "NoneType" }
func (Bool) TypeName() string      { return "bool" }
func (Int) TypeName() string       { return "int" }
func (Float) TypeName() string     { return "float" }
func (Str) TypeName() string       { return "str" }
func (Bytes) TypeName() string     { return "bytes" }
func (*ByteArray) TypeName() string { return "bytearray" }
func (*List) TypeName() string     { return "list" }
func (Tuple) TypeName() string     { return "tuple" }
func (*Set) TypeName() string      { return "set" }
func (*Dict) TypeName() string     { return "dict" }
func (Range) TypeName() string     { return "range" }

func (None) Repr() string    { return "None" }
func (b Bool) Repr() string  { return map[bool]string{true: "True", false: "False"}[bool(b)] }
func (i Int) Repr() string   { return strconv.FormatInt(int64(i), 10) }
func (f Float) Repr() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	// Bare integers render with a trailing ".0" the way Python does.
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

func (s Str) Repr() string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range string(s) {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (b Bytes) Repr() string     { return "b" + bytesLiteral(b) }
func (b *ByteArray) Repr() string { return "bytearray(b" + bytesLiteral(b.B) + ")" }

func bytesLiteral(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, c := range b {
		switch {
		case c == '\'':
			sb.WriteString(`\'`)
		case c == '\\':
			sb.WriteString(`\\`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func (l *List) Repr() string { return "[" + joinReprs(l.Items, ", ") + "]" }

func (t Tuple) Repr() string {
	if len(t) == 1 {
		return "(" + t[0].Repr() + ",)"
	}
	return "(" + joinReprs(t, ", ") + ")"
}

func (s *Set) Repr() string {
	if len(s.Items) == 0 {
		return "set()"
	}
	return "{" + joinReprs(s.Items, ", ") + "}"
}

func (d *Dict) Repr() string {
	parts := make([]string, len(d.Keys))
	for i := range d.Keys {
		parts[i] = d.Keys[i].Repr() + ": " + d.Vals[i].Repr()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r Range) Repr() string {
	if r.Step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

func joinReprs(vs []Value, sep string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Repr()
	}
	return strings.Join(parts, sep)
}

// Len returns the element count of r without materializing it.
func (r Range) Len() int64 {
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	}
	if r.Start <= r.Stop {
		return 0
	}
	return (r.Start - r.Stop + (-r.Step) - 1) / (-r.Step)
}

// At returns the i-th element of r. The caller bounds-checks against Len.
func (r Range) At(i int64) int64 { return r.Start + i*r.Step }

// Truthy reports Python truthiness: None, False, zero and empty containers
// are false, everything else is true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case None:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case Str:
		return len(x) != 0
	case Bytes:
		return len(x) != 0
	case *ByteArray:
		return len(x.B) != 0
	case *List:
		return len(x.Items) != 0
	case Tuple:
		return len(x) != 0
	case *Set:
		return len(x.Items) != 0
	case *Dict:
		return len(x.Keys) != 0
	case Range:
		return x.Len() != 0
	}
	return true
}

// Equal reports value equality with Python semantics: ints and floats compare
// across types, bytes equals bytearray with the same content, ranges compare
// as the sequences they denote, and containers compare element-wise. Identity
// is never considered; see Is.
func Equal(a, b Value) bool {
	if an, aok := asFloat(a); aok {
		if bn, bok := asFloat(b); bok {
			// bool participates in numeric equality (True == 1).
			return an == bn
		}
		return false
	}
	switch x := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Bytes:
		return bytesEqual([]byte(x), b)
	case *ByteArray:
		return bytesEqual(x.B, b)
	case *List:
		y, ok := b.(*List)
		return ok && seqEqual(x.Items, y.Items)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && seqEqual(x, y)
	case *Set:
		y, ok := b.(*Set)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for _, e := range x.Items {
			if !containsValue(y.Items, e) {
				return false
			}
		}
		return true
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || len(x.Keys) != len(y.Keys) {
			return false
		}
		for i, k := range x.Keys {
			j, found := findKey(y, k)
			if !found || !Equal(x.Vals[i], y.Vals[j]) {
				return false
			}
		}
		return true
	case Range:
		y, ok := b.(Range)
		if !ok {
			return false
		}
		// range(0) == range(2, 2, 3): equal as sequences.
		n := x.Len()
		if n != y.Len() {
			return false
		}
		if n == 0 {
			return true
		}
		if x.Start != y.Start {
			return false
		}
		return n == 1 || x.Step == y.Step
	}
	return false
}

func bytesEqual(a []byte, b Value) bool {
	switch y := b.(type) {
	case Bytes:
		return string(a) == string(y)
	case *ByteArray:
		return string(a) == string(y.B)
	}
	return false
}

func seqEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func containsValue(vs []Value, v Value) bool {
	for _, e := range vs {
		if Equal(e, v) {
			return true
		}
	}
	return false
}

func findKey(d *Dict, k Value) (int, bool) {
	for i, e := range d.Keys {
		if Equal(e, k) {
			return i, true
		}
	}
	return 0, false
}

// Is reports Python identity. Mutable containers are identical only when they
// are the same object; immutable values fall back to value equality, which is
// all the trainer's identity questions (x is None) rely on.
func Is(a, b Value) bool {
	switch x := a.(type) {
	case *List:
		y, ok := b.(*List)
		return ok && x == y
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x == y
	case *Set:
		y, ok := b.(*Set)
		return ok && x == y
	case *ByteArray:
		y, ok := b.(*ByteArray)
		return ok && x == y
	}
	if sameTypeName(a, b) {
		return Equal(a, b)
	}
	return false
}

func sameTypeName(a, b Value) bool { return a.TypeName() == b.TypeName() }

func asFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Copy returns a deep copy of v. Checkers hand each evaluation a fresh copy
// of the item's environment so one attempt can never leak state into the next.
func Copy(v Value) Value {
	switch x := v.(type) {
	case *List:
		items := make([]Value, len(x.Items))
		for i, e := range x.Items {
			items[i] = Copy(e)
		}
		return &List{Items: items}
	case Tuple:
		items := make([]Value, len(x))
		for i, e := range x {
			items[i] = Copy(e)
		}
		return Tuple(items)
	case *Set:
		items := make([]Value, len(x.Items))
		for i, e := range x.Items {
			items[i] = Copy(e)
		}
		return &Set{Items: items}
	case *Dict:
		keys := make([]Value, len(x.Keys))
		vals := make([]Value, len(x.Vals))
		for i := range x.Keys {
			keys[i] = Copy(x.Keys[i])
			vals[i] = Copy(x.Vals[i])
		}
		return &Dict{Keys: keys, Vals: vals}
	case *ByteArray:
		return &ByteArray{B: append([]byte(nil), x.B...)}
	case Bytes:
		return Bytes(append([]byte(nil), x...))
	}
	return v
}

// StrLen is the rune count of s, matching Python's len() for str.
func StrLen(s Str) int { return utf8.RuneCountInString(string(s)) }

// Compare orders a against b, returning -1, 0 or 1. It supports the orderings
// Python defines for the covered types: numbers, strings, bytes and sequences
// (lexicographic). A false second return means the two are unorderable.
func Compare(a, b Value) (int, bool) {
	if an, aok := asFloat(a); aok {
		if bn, bok := asFloat(b); bok {
			switch {
			case an < bn:
				return -1, true
			case an > bn:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	switch x := a.(type) {
	case Str:
		if y, ok := b.(Str); ok {
			return strings.Compare(string(x), string(y)), true
		}
	case Bytes:
		if y, ok := b.(Bytes); ok {
			return strings.Compare(string(x), string(y)), true
		}
	case *List:
		if y, ok := b.(*List); ok {
			return seqCompare(x.Items, y.Items)
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			return seqCompare(x, y)
		}
	}
	return 0, false
}

func seqCompare(a, b []Value) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, ok := Compare(a[i], b[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	switch {
	case len(a) < len(b):
		return -1, true
	case len(a) > len(b):
		return 1, true
	}
	return 0, true
}

// sortValues orders vs in place for sorted(). Mixed unorderable element types
// surface as an error from the caller, which probes with Compare first.
func sortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		c, _ := Compare(vs[i], vs[j])
		return c < 0
	})
}
