// Package quiz defines the item catalog and the verification strategies
// that turn a raw answer string into a pass/fail verdict. Every strategy is
// total: parse, validation and evaluation failures fold into a failing
// verdict, never a fault.
package quiz

// Level tags an item's difficulty.
type Level string

const (
	LevelEasy Level = "easy"
	LevelHard Level = "hard"
)

// Verdict is the outcome of checking one answer. It is produced once per
// check and never retained by the sandbox.
type Verdict struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Checker maps an answer string to a verdict. Implementations close over
// fixed parameters chosen at item construction time and hold no mutable
// state, so checking is idempotent.
type Checker func(answer string) Verdict

// Item is one quiz exercise. Items are constructed once at startup and read
// only for the lifetime of the process.
type Item struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Level  Level   `json:"level"`
	Prompt string  `json:"prompt"`
	Hint   string  `json:"hint"`
	Check  Checker `json:"-"`
}
