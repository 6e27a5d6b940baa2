package quiz

import (
	"fmt"
	"strings"

	"github.com/typedrill/typedrill/internal/sandbox"
)

// Env is an item's variable environment, copied fresh for every evaluation
// so one attempt can never observe another's mutations.
type Env map[string]sandbox.Value

func (e Env) fresh() map[string]sandbox.Value {
	out := make(map[string]sandbox.Value, len(e))
	for k, v := range e {
		out[k] = sandbox.Copy(v)
	}
	return out
}

// Exact passes when the trimmed answer matches expected exactly.
func Exact(expected string) Checker {
	want := strings.TrimSpace(expected)
	return func(answer string) Verdict {
		if strings.TrimSpace(answer) == want {
			return Verdict{Passed: true, Message: "Correct!"}
		}
		return Verdict{Message: fmt.Sprintf("Expected: %s", want)}
	}
}

// Choice passes when the answer names the correct option, case-insensitively.
func Choice(correct string) Checker {
	want := strings.ToUpper(strings.TrimSpace(correct))
	return func(answer string) Verdict {
		if strings.ToUpper(strings.TrimSpace(answer)) == want {
			return Verdict{Passed: true, Message: "Correct!"}
		}
		return Verdict{Message: fmt.Sprintf("Wrong. The correct answer is %s", want)}
	}
}

// TextLines passes when the answer, split on ';' with each part trimmed,
// equals the expected sequence. Used for "what does this print N times"
// items.
func TextLines(expected []string) Checker {
	want := make([]string, len(expected))
	for i, l := range expected {
		want[i] = strings.TrimSpace(l)
	}
	return func(answer string) Verdict {
		var got []string
		for _, part := range strings.Split(strings.TrimSpace(answer), ";") {
			if p := strings.TrimSpace(part); p != "" {
				got = append(got, p)
			}
		}
		if len(got) == len(want) {
			ok := true
			for i := range got {
				if got[i] != want[i] {
					ok = false
					break
				}
			}
			if ok {
				return Verdict{Passed: true, Message: "Correct!"}
			}
		}
		return Verdict{Message: fmt.Sprintf("Expected: %s", strings.Join(want, "; "))}
	}
}

// EvalEquals evaluates the answer as an expression in the sandbox and
// compares the result to expected by value equality.
func EvalEquals(env Env, expected sandbox.Value) Checker {
	return func(answer string) Verdict {
		val, err := sandbox.Eval(answer, env.fresh())
		if err != nil {
			return Verdict{Message: fmt.Sprintf("Could not evaluate the answer: %s", err)}
		}
		detail := fmt.Sprintf("got %s, expected %s", val.Repr(), expected.Repr())
		if sandbox.Equal(val, expected) {
			return Verdict{Passed: true, Message: "Correct! " + detail}
		}
		return Verdict{Message: "Wrong. " + detail}
	}
}

// EvalPredicate evaluates the answer as an expression and applies a boolean
// test to the result. The predicate also receives the fresh environment the
// expression ran against, so "is a copy, not the same object" tests can
// compare identities.
func EvalPredicate(env Env, pred func(v sandbox.Value, env map[string]sandbox.Value) bool, expected string) Checker {
	return func(answer string) Verdict {
		fresh := env.fresh()
		val, err := sandbox.Eval(answer, fresh)
		if err != nil {
			return Verdict{Message: fmt.Sprintf("Could not evaluate the answer: %s", err)}
		}
		if pred(val, fresh) {
			return Verdict{Passed: true, Message: "Correct!"}
		}
		return Verdict{Message: fmt.Sprintf("Wrong. Expected: %s", expected)}
	}
}

// Mutation runs the answer in statement mode against a fresh copy of the
// named mutable binding and compares its post-state to expected by value
// equality.
func Mutation(env Env, binding string, expected sandbox.Value) Checker {
	return func(answer string) Verdict {
		post, err := sandbox.Run(answer, env.fresh(), binding)
		if err != nil {
			return Verdict{Message: fmt.Sprintf("Could not run the answer: %s", err)}
		}
		detail := fmt.Sprintf("%s ended as %s, expected %s", binding, post.Repr(), expected.Repr())
		if sandbox.Equal(post, expected) {
			return Verdict{Passed: true, Message: "Correct! " + detail}
		}
		return Verdict{Message: "Wrong. " + detail}
	}
}
