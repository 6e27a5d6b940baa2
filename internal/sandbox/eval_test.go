package sandbox

import (
	"errors"
	"testing"
)

func mustEval(t *testing.T, text string, env map[string]Value) Value {
	t.Helper()
	v, err := Eval(text, env)
	if err != nil {
		t.Fatalf("Eval(%q): %v", text, err)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		text string
		want Value
	}{
		{"2 ** 10", Int(1024)},
		{"1_000_000 * 1_000_001 // 2", Int(500000500000)},
		{"7 // 2", Int(3)},
		{"-7 // 2", Int(-4)},
		{"7 % 3", Int(1)},
		{"-7 % 3", Int(2)},
		{"1 / 2", Float(0.5)},
		{"2 * 3.0", Float(6)},
		{"0.1 + 0.2 == 0.3", Bool(false)},
		{"-2 ** 2", Int(-4)}, // ** binds tighter than unary minus
		{"2 ** -1", Float(0.5)},
		{"1 << 4", Int(16)},
		{"~0", Int(-1)},
		{"True + True", Int(2)},
	}
	for _, tc := range cases {
		got := mustEval(t, tc.text, nil)
		if !Equal(got, tc.want) {
			t.Errorf("Eval(%q) = %s, want %s", tc.text, got.Repr(), tc.want.Repr())
		}
	}
}

func TestComparisonsAndIdentity(t *testing.T) {
	env := map[string]Value{"x": None{}, "a": &List{Items: []Value{Int(1)}}}
	cases := []struct {
		text string
		want bool
	}{
		{"x is None", true},
		{"x is not None", false},
		{"a is a", true},
		{"a is a.copy()", false},
		{"a == a.copy()", true},
		{"1 < 2 < 3", true},
		{"1 < 2 > 3", false},
		{"'b' in 'abc'", true},
		{"2 in range(10, 0, -2)", true},
		{"3 in range(10, 0, -2)", false},
		{"'a' in {'a': 1}", true},
	}
	for _, tc := range cases {
		got := mustEval(t, tc.text, env)
		if b, ok := got.(Bool); !ok || bool(b) != tc.want {
			t.Errorf("Eval(%q) = %s, want %v", tc.text, got.Repr(), tc.want)
		}
	}
}

func TestBoolOperatorsReturnOperands(t *testing.T) {
	got := mustEval(t, "None or 5", nil)
	if !Equal(got, Int(5)) {
		t.Errorf("None or 5 = %s, want 5", got.Repr())
	}
	got = mustEval(t, "0 and 5", nil)
	if !Equal(got, Int(0)) {
		t.Errorf("0 and 5 = %s, want 0", got.Repr())
	}
}

func TestStringsAndSlicing(t *testing.T) {
	env := map[string]Value{"s": Str("  python  ")}
	got := mustEval(t, "s.strip().capitalize()", env)
	if !Equal(got, Str("Python")) {
		t.Errorf("got %s, want 'Python'", got.Repr())
	}

	got = mustEval(t, "'abcdef'[1:4]", nil)
	if !Equal(got, Str("bcd")) {
		t.Errorf("slice = %s, want 'bcd'", got.Repr())
	}
	got = mustEval(t, "'abc'[::-1]", nil)
	if !Equal(got, Str("cba")) {
		t.Errorf("reverse slice = %s, want 'cba'", got.Repr())
	}
	got = mustEval(t, "len('Привет')", nil)
	if !Equal(got, Int(6)) {
		t.Errorf("len of non-ASCII str = %s, want 6 (runes, not bytes)", got.Repr())
	}
}

func TestContainersAndBuiltins(t *testing.T) {
	env := map[string]Value{
		"nums": &List{Items: []Value{Int(1), Int(2), Int(2), Int(3), Int(3), Int(3), Int(4)}},
		"s1":   newSet([]Value{Int(1), Int(2), Int(3)}),
		"s2":   newSet([]Value{Int(2), Int(3), Int(4)}),
		"d":    &Dict{Keys: []Value{Str("a"), Str("b")}, Vals: []Value{Int(1), Int(2)}},
	}

	got := mustEval(t, "set(nums)", env)
	if !Equal(got, newSet([]Value{Int(1), Int(2), Int(3), Int(4)})) {
		t.Errorf("set(nums) = %s", got.Repr())
	}

	got = mustEval(t, "s1 & s2", env)
	if !Equal(got, newSet([]Value{Int(2), Int(3)})) {
		t.Errorf("s1 & s2 = %s, want {2, 3}", got.Repr())
	}

	got = mustEval(t, "d.get('x', 0)", env)
	if !Equal(got, Int(0)) {
		t.Errorf("d.get('x', 0) = %s, want 0", got.Repr())
	}

	got = mustEval(t, "sorted([3, 1, 2])", env)
	if !Equal(got, &List{Items: []Value{Int(1), Int(2), Int(3)}}) {
		t.Errorf("sorted = %s", got.Repr())
	}

	got = mustEval(t, "sum(range(1, 1000001))", nil)
	if !Equal(got, Int(500000500000)) {
		t.Errorf("sum(range(1, 1000001)) = %s", got.Repr())
	}

	got = mustEval(t, "(5,)", nil)
	tup, ok := got.(Tuple)
	if !ok || len(tup) != 1 || !Equal(tup[0], Int(5)) {
		t.Errorf("(5,) = %s, want a one-element tuple", got.Repr())
	}
	if got.Repr() != "(5,)" {
		t.Errorf("repr = %q, want \"(5,)\"", got.Repr())
	}

	got = mustEval(t, "bytes('abc', 'utf-8')", nil)
	if !Equal(got, Bytes("abc")) {
		t.Errorf("bytes('abc', 'utf-8') = %s", got.Repr())
	}

	got = mustEval(t, "'abc'.encode('utf-8')", nil)
	if !Equal(got, Bytes("abc")) {
		t.Errorf("encode = %s", got.Repr())
	}

	got = mustEval(t, "range(10, 0, -2)", nil)
	if !Equal(got, Range{Start: 10, Stop: 0, Step: -2}) {
		t.Errorf("range = %s", got.Repr())
	}
	got = mustEval(t, "list(range(0))", nil)
	if !Equal(got, &List{}) {
		t.Errorf("list(range(0)) = %s, want []", got.Repr())
	}
}

func TestRuntimeFailures(t *testing.T) {
	env := map[string]Value{"a": &List{Items: []Value{Int(1)}}}
	cases := []string{
		"1 / 0",
		"1 // 0",
		"a[10]",
		"'a' + 1",
		"{'k': 1}['missing']",
		"len(1)",
		"min([])",
	}
	for _, text := range cases {
		_, err := Eval(text, env)
		var se *Error
		if !errors.As(err, &se) {
			t.Fatalf("Eval(%q) err = %v, want *Error", text, err)
		}
		if se.Kind != RuntimeFailure {
			t.Errorf("Eval(%q) kind = %v, want RuntimeFailure", text, se.Kind)
		}
	}
}

func TestEvaluationBudget(t *testing.T) {
	sb := New(Limits{MaxSteps: 1000, MaxElems: 1000})
	_, err := sb.Eval("list(range(1000000))", nil)
	var se *Error
	if !errors.As(err, &se) || se.Kind != RuntimeFailure {
		t.Fatalf("err = %v, want RuntimeFailure from the budget", err)
	}
}

// Repetition counts big enough to overflow the element-count product must be
// rejected by the budget, never reach the allocation.
func TestRepeatCountOverflow(t *testing.T) {
	for _, expr := range []string{
		"'ab' * (2 ** 62)",
		"b'ab' * (2 ** 62)",
		"[1, 2] * (2 ** 62)",
		"(1, 2) * (2 ** 62)",
		"(2 ** 62) * 'ab'",
	} {
		_, err := Eval(expr, nil)
		var se *Error
		if !errors.As(err, &se) || se.Kind != RuntimeFailure {
			t.Errorf("Eval(%q) err = %v, want RuntimeFailure", expr, err)
		}
	}
}

func TestRangeSumOverflow(t *testing.T) {
	_, err := Eval("sum(range(10 ** 12))", nil)
	var se *Error
	if !errors.As(err, &se) || se.Kind != RuntimeFailure {
		t.Fatalf("err = %v, want RuntimeFailure for an overflowing sum", err)
	}

	// Well inside the bound, the closed form still holds.
	v, err := Eval("sum(range(1, 1000001))", nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !Equal(v, Int(500000500000)) {
		t.Errorf("sum = %s, want 500000500000", v.Repr())
	}
}

func TestStatementMode(t *testing.T) {
	env := map[string]Value{"ba": &ByteArray{B: []byte("abc")}}
	v, err := Run("ba[0] = 65", env, "ba")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !Equal(v, &ByteArray{B: []byte("Abc")}) {
		t.Errorf("post-state = %s, want bytearray(b'Abc')", v.Repr())
	}

	env = map[string]Value{"nums": &List{Items: []Value{Int(1), Int(2), Int(3), Int(4), Int(5), Int(6)}}}
	v, err = Run("nums.remove(2); nums.remove(4); nums.remove(6)", env, "nums")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !Equal(v, &List{Items: []Value{Int(1), Int(3), Int(5)}}) {
		t.Errorf("post-state = %s, want [1, 3, 5]", v.Repr())
	}

	// Slice assignment replaces contents in place.
	env = map[string]Value{"nums": &List{Items: []Value{Int(1), Int(2), Int(3)}}}
	before := env["nums"].(*List)
	v, err = Run("nums[:] = [9, 8]", env, "nums")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(*List) != before {
		t.Error("slice assignment should mutate the same list object")
	}
	if !Equal(v, &List{Items: []Value{Int(9), Int(8)}}) {
		t.Errorf("post-state = %s, want [9, 8]", v.Repr())
	}

	// Rebinding the name yields the new value, not the original object.
	env = map[string]Value{"ba": &ByteArray{B: []byte("abc")}}
	v, err = Run("ba = 42", env, "ba")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !Equal(v, Int(42)) {
		t.Errorf("post-state = %s, want 42", v.Repr())
	}
}

func TestReprRendering(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"None", "None"},
		{"True", "True"},
		{"3.0", "3.0"},
		{"'it\\'s'", `'it\'s'`},
		{"[1, 2, [3]]", "[1, 2, [3]]"},
		{"{'a': 1}", "{'a': 1}"},
		{"set()", "set()"},
		{"b'abc'", "b'abc'"},
		{"bytearray(b'abc')", "bytearray(b'abc')"},
		{"range(10, 0, -2)", "range(10, 0, -2)"},
	}
	for _, tc := range cases {
		got := mustEval(t, tc.text, nil)
		if got.Repr() != tc.want {
			t.Errorf("Eval(%q).Repr() = %q, want %q", tc.text, got.Repr(), tc.want)
		}
	}
}
