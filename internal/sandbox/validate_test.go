package sandbox

import (
	"errors"
	"strings"
	"testing"
)

func evalErr(t *testing.T, text string, env map[string]Value) *Error {
	t.Helper()
	_, err := Eval(text, env)
	if err == nil {
		t.Fatalf("Eval(%q) succeeded, want rejection", text)
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("Eval(%q) returned %T, want *Error", text, err)
	}
	return se
}

func TestEmptyInputRejected(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		se := evalErr(t, text, nil)
		if se.Kind != EmptyInput {
			t.Errorf("Eval(%q) kind = %v, want EmptyInput", text, se.Kind)
		}
	}
}

func TestDisallowedNames(t *testing.T) {
	for _, text := range []string{"evil", "x + evil", "[1, evil]", "d[evil]"} {
		se := evalErr(t, text, map[string]Value{"x": Int(1), "d": &Dict{}})
		if se.Kind != NameRejected {
			t.Errorf("Eval(%q) kind = %v, want NameRejected", text, se.Kind)
		}
		if !strings.Contains(se.Reason, "evil") {
			t.Errorf("Eval(%q) reason = %q, want it to name the identifier", text, se.Reason)
		}
	}
}

func TestDisallowedCalls(t *testing.T) {
	cases := []string{
		"open('x')",
		"eval('1')",
		"len(open('x'))", // nested inside an otherwise valid call
		"sorted([1]) + open('x')",
	}
	for _, text := range cases {
		se := evalErr(t, text, nil)
		if se.Kind != CallRejected && se.Kind != NameRejected {
			t.Errorf("Eval(%q) kind = %v, want CallRejected or NameRejected", text, se.Kind)
		}
	}
}

func TestIndirectCalleeRejected(t *testing.T) {
	// Calling through anything but a direct name is closed off.
	se := evalErr(t, "[len][0]('x')", nil)
	if se.Kind != CallRejected {
		t.Errorf("kind = %v, want CallRejected", se.Kind)
	}
}

func TestDisallowedMethods(t *testing.T) {
	env := map[string]Value{"s": Str("hi")}
	se := evalErr(t, "s.format()", env)
	if se.Kind != CallRejected {
		t.Errorf("s.format() kind = %v, want CallRejected", se.Kind)
	}
	// __-style attribute escapes must never validate.
	se = evalErr(t, "s.__class__", env)
	if se.Kind != SyntaxRejected && se.Kind != NameRejected {
		t.Errorf("s.__class__ kind = %v, want a rejection", se.Kind)
	}
}

func TestBareAttributeRejected(t *testing.T) {
	se := evalErr(t, "s.strip", map[string]Value{"s": Str(" a ")})
	if se.Kind != SyntaxRejected {
		t.Errorf("kind = %v, want SyntaxRejected (bare attribute access)", se.Kind)
	}
}

func TestMutatingMethodRejectedInExpressionMode(t *testing.T) {
	se := evalErr(t, "a.append(4)", map[string]Value{"a": &List{Items: []Value{Int(1)}}})
	if se.Kind != CallRejected {
		t.Errorf("kind = %v, want CallRejected", se.Kind)
	}
	// The same call is fine in statement mode.
	v, err := Run("a.append(4)", map[string]Value{"a": &List{Items: []Value{Int(1)}}}, "a")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := &List{Items: []Value{Int(1), Int(4)}}
	if !Equal(v, want) {
		t.Errorf("post-state = %s, want %s", v.Repr(), want.Repr())
	}
}

func TestAssignmentRejectedInExpressionMode(t *testing.T) {
	se := evalErr(t, "x = 5\nx", map[string]Value{"x": Int(1)})
	if se.Kind != SyntaxRejected {
		t.Errorf("kind = %v, want SyntaxRejected", se.Kind)
	}
}

func TestEnvironmentVocabularyEnforced(t *testing.T) {
	_, err := Eval("1 + 1", map[string]Value{"sneaky": Int(1)})
	var se *Error
	if !errors.As(err, &se) || se.Kind != NameRejected {
		t.Fatalf("err = %v, want NameRejected for out-of-vocabulary env key", err)
	}
	_, err = Run("x = 1", map[string]Value{"sneaky": Int(1)}, "sneaky")
	if !errors.As(err, &se) || se.Kind != NameRejected {
		t.Fatalf("Run err = %v, want NameRejected", err)
	}
}

func TestPermittedConstructsValidate(t *testing.T) {
	env := map[string]Value{
		"x":    Int(3),
		"s":    Str("  hi  "),
		"a":    &List{Items: []Value{Int(1), Int(2), Int(3)}},
		"d":    &Dict{Keys: []Value{Str("a")}, Vals: []Value{Int(1)}},
		"s1":   newSet([]Value{Int(1), Int(2), Int(3)}),
		"s2":   newSet([]Value{Int(2), Int(3), Int(4)}),
		"nums": &List{Items: []Value{Int(1), Int(2), Int(2)}},
	}
	cases := []string{
		"None", "True", "False", "42", "3.5", "'abc'", "b'abc'",
		"[1, 2]", "(1,)", "{1, 2}", "{'k': 1}",
		"-x", "+x", "~x", "not x",
		"x + 1", "x ** 2", "7 // 2", "7 % 2", "1 << 3",
		"x == 3", "1 < x < 10", "x is None", "x is not None",
		"2 in a", "5 not in a",
		"True and False", "x or None",
		"a[0]", "a[-1]", "a[:]", "a[::-1]", "s[1:3]",
		"len(s)", "sum(a)", "min(a)", "max(1, 2)", "sorted(nums)",
		"range(10, 0, -2)", "list(set(nums))", "dict(d)",
		"tuple(a)", "bytes('abc', 'utf-8')", "bytearray(b'abc')",
		"s.strip()", "s.strip().capitalize()", "a.copy()", "d.get('x', 0)",
		"s1 & s2", "s1 | s2",
	}
	for _, text := range cases {
		if _, err := Eval(text, env); err != nil {
			t.Errorf("Eval(%q) = %v, want success", text, err)
		}
	}
}

func TestIdempotentEvaluation(t *testing.T) {
	env := map[string]Value{"a": &List{Items: []Value{Int(1), Int(2)}}}
	first, err := Eval("sorted(a)[::-1]", env)
	if err != nil {
		t.Fatalf("first eval: %v", err)
	}
	second, err := Eval("sorted(a)[::-1]", env)
	if err != nil {
		t.Fatalf("second eval: %v", err)
	}
	if !Equal(first, second) {
		t.Errorf("first = %s, second = %s, want identical results", first.Repr(), second.Repr())
	}
	// The environment binding itself is untouched.
	want := &List{Items: []Value{Int(1), Int(2)}}
	if !Equal(env["a"], want) {
		t.Errorf("env mutated to %s", env["a"].Repr())
	}
}
