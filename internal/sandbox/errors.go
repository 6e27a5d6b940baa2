package sandbox

import "fmt"

// ErrorKind classifies sandbox failures for checkers and tests.
type ErrorKind int

const (
	// EmptyInput means the answer was blank or whitespace-only.
	EmptyInput ErrorKind = iota
	// SyntaxRejected means the input does not parse as the restricted grammar.
	SyntaxRejected
	// NameRejected means the input references an identifier outside the
	// allow-list.
	NameRejected
	// CallRejected means the input calls a function or method outside the
	// allow-list, or calls through something other than a direct name.
	CallRejected
	// RuntimeFailure means the input validated but failed during evaluation.
	RuntimeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty input"
	case SyntaxRejected:
		return "syntax rejected"
	case NameRejected:
		return "name rejected"
	case CallRejected:
		return "call rejected"
	case RuntimeFailure:
		return "runtime failure"
	}
	return "unknown"
}

// Error is the failure type every sandbox entry point returns. The Reason is
// user-facing: checkers embed it verbatim in failing verdict messages.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func runtimeErrf(format string, args ...any) *Error {
	return &Error{Kind: RuntimeFailure, Reason: fmt.Sprintf(format, args...)}
}
