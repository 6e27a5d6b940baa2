package quiz

import (
	"fmt"
	"math/rand"

	"github.com/typedrill/typedrill/internal/sandbox"
)

// Catalog is the read-only item pool a session draws from.
type Catalog struct {
	items []Item
}

// NewCatalog returns the compiled-in default item set.
func NewCatalog() *Catalog { return &Catalog{items: defaultItems()} }

// Items returns all items.
func (c *Catalog) Items() []Item { return c.items }

// Pool returns the items for a mode ("easy", "hard" or "mixed"), shuffled
// with the given source.
func (c *Catalog) Pool(mode string, rng *rand.Rand) []Item {
	var pool []Item
	for _, it := range c.items {
		if mode == "mixed" || string(it.Level) == mode {
			pool = append(pool, it)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool
}

// ByID returns one item.
func (c *Catalog) ByID(id string) (Item, error) {
	for _, it := range c.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("unknown item: %s", id)
}

// Value construction helpers, to keep the item definitions readable.

func ints(ns ...int64) []sandbox.Value {
	out := make([]sandbox.Value, len(ns))
	for i, n := range ns {
		out[i] = sandbox.Int(n)
	}
	return out
}

func listOf(ns ...int64) *sandbox.List { return &sandbox.List{Items: ints(ns...)} }
func setOf(ns ...int64) *sandbox.Set   { return &sandbox.Set{Items: ints(ns...)} }

func dictOf(pairs ...any) *sandbox.Dict {
	d := &sandbox.Dict{}
	for i := 0; i < len(pairs); i += 2 {
		d.Keys = append(d.Keys, sandbox.Str(pairs[i].(string)))
		d.Vals = append(d.Vals, sandbox.Int(int64(pairs[i+1].(int))))
	}
	return d
}

func defaultItems() []Item {
	return []Item{
		// NoneType
		{
			ID:     "none_is",
			Title:  "Testing for None",
			Level:  LevelEasy,
			Prompt: "Given: x = None\nWrite an expression that is True only when x really is None.\n(Write ONLY the expression.)",
			Hint:   "Use the identity operator, not equality.",
			Check:  EvalEquals(Env{"x": sandbox.None{}}, sandbox.Bool(true)),
		},
		{
			ID:    "none_default",
			Title: "Safe default argument",
			Level: LevelHard,
			Prompt: "What does this program print? Answer as two outputs joined by ';'\n(example: [1]; [1])\n\n" +
				"def f(a=None):\n    if a is None:\n        a = []\n    a.append(1)\n    return a\n\nprint(f())\nprint(f())",
			Hint:  "With a=None a fresh empty list is created on every call.",
			Check: TextLines([]string{"[1]", "[1]"}),
		},

		// bool
		{
			ID:     "bool_truth",
			Title:  "Truthiness",
			Level:  LevelEasy,
			Prompt: "What does print output? Answer joined by ';' without extra text: bool(\"\"); bool([0])",
			Hint:   "An empty string is falsy, a non-empty list is truthy.",
			Check:  TextLines([]string{"False", "True"}),
		},
		{
			ID:     "bool_spaces",
			Title:  "Non-blank string test",
			Level:  LevelHard,
			Prompt: "Write an expression that is True only when s is a non-empty string that is not just whitespace. Given: s = '  hi  '",
			Hint:   "Combine strip() with a comparison against ''.",
			Check:  EvalEquals(Env{"s": sandbox.Str("  hi  ")}, sandbox.Bool(true)),
		},

		// int / float
		{
			ID:     "float_peculiar",
			Title:  "Floating point",
			Level:  LevelEasy,
			Prompt: "What does this expression print: 0.1 + 0.2 == 0.3 ? (Answer: True or False)",
			Hint:   "IEEE 754 accumulates representation error.",
			Check:  Exact("False"),
		},
		{
			ID:     "sum_gauss",
			Title:  "Sum of 1..1_000_000",
			Level:  LevelHard,
			Prompt: "Write a loop-free expression computing the sum of the numbers from 1 to 1_000_000 inclusive.",
			Hint:   "Remember Gauss: n*(n+1)//2.",
			Check:  EvalEquals(Env{}, sandbox.Int(1_000_000*1_000_001/2)),
		},

		// str
		{
			ID:     "str_strip_title",
			Title:  "Trim and capitalize",
			Level:  LevelEasy,
			Prompt: "Given: s = '  python  '. Write an expression that returns 'Python'.",
			Hint:   "Chain strip() and capitalize().",
			Check:  EvalEquals(Env{"s": sandbox.Str("  python  ")}, sandbox.Str("Python")),
		},
		{
			ID:     "str_count",
			Title:  "Counting substrings",
			Level:  LevelHard,
			Prompt: "Given: s = 'banana bandana'. Write an expression returning how many times 'an' occurs in s.",
			Hint:   "str has a counting method.",
			Check:  EvalEquals(Env{"s": sandbox.Str("banana bandana")}, sandbox.Int(4)),
		},

		// tuple
		{
			ID:     "tuple_one",
			Title:  "One-element tuple",
			Level:  LevelEasy,
			Prompt: "Create a tuple holding the single value 5 (write the expression).",
			Hint:   "The trailing comma is required.",
			Check: EvalPredicate(Env{}, func(v sandbox.Value, _ map[string]sandbox.Value) bool {
				t, ok := v.(sandbox.Tuple)
				return ok && len(t) == 1 && sandbox.Equal(t[0], sandbox.Int(5))
			}, "(5,)"),
		},
		{
			ID:    "tuple_mutable_inside",
			Title: "Immutable container, mutable element",
			Level: LevelHard,
			Prompt: "What does this code print? Answer as a tuple.\n" +
				"t = (1, 2, [3, 4])\nt[2].append(5)\nprint(t)",
			Hint:  "The tuple is immutable, but the list inside it is not.",
			Check: Exact("(1, 2, [3, 4, 5])"),
		},

		// list
		{
			ID:     "list_copy",
			Title:  "Copying a list",
			Level:  LevelEasy,
			Prompt: "Given: a = [1, 2, 3]. Write an expression that creates a shallow copy of the list.",
			Hint:   "Either a.copy() or a[:].",
			Check: EvalPredicate(Env{"a": listOf(1, 2, 3)},
				func(v sandbox.Value, env map[string]sandbox.Value) bool {
					l, ok := v.(*sandbox.List)
					if !ok || !sandbox.Equal(l, listOf(1, 2, 3)) {
						return false
					}
					// Must be a fresh object, not the binding itself.
					return !sandbox.Is(v, env["a"])
				}, "a fresh copy of the list, not a again"),
		},
		{
			ID:     "list_remove_evens",
			Title:  "Removing evens in place",
			Level:  LevelHard,
			Prompt: "Given: nums = [1, 2, 3, 4, 5, 6]\nWrite one line of statements that removes all even numbers FROM nums, in place.",
			Hint:   "Either slice assignment (nums[:] = ...) or repeated nums.remove(...), separated by ';'.",
			Check:  Mutation(Env{"nums": listOf(1, 2, 3, 4, 5, 6)}, "nums", listOf(1, 3, 5)),
		},

		// dict
		{
			ID:     "dict_get_default",
			Title:  "get with a fallback",
			Level:  LevelEasy,
			Prompt: "Given: d = {'a': 1, 'b': 2}. Write an expression returning the value for key 'x', or 0 when the key is missing.",
			Hint:   "d.get('x', 0)",
			Check:  EvalEquals(Env{"d": dictOf("a", 1, "b", 2)}, sandbox.Int(0)),
		},
		{
			ID:     "dict_squares",
			Title:  "Squares dictionary",
			Level:  LevelHard,
			Prompt: "Write an expression producing the dict that maps each of 1, 2, 3, 4, 5 to its square.",
			Hint:   "A dict display works: {1: 1, 2: 4, ...}",
			Check: EvalEquals(Env{}, &sandbox.Dict{
				Keys: ints(1, 2, 3, 4, 5),
				Vals: ints(1, 4, 9, 16, 25),
			}),
		},

		// set
		{
			ID:     "set_dedup",
			Title:  "Removing duplicates",
			Level:  LevelEasy,
			Prompt: "Given: nums = [1, 2, 2, 3, 3, 3, 4]. Write an expression returning a list of the unique numbers (any order).",
			Hint:   "list(set(nums))",
			Check: EvalPredicate(Env{"nums": listOf(1, 2, 2, 3, 3, 3, 4)},
				func(v sandbox.Value, _ map[string]sandbox.Value) bool {
					l, ok := v.(*sandbox.List)
					if !ok {
						return false
					}
					uniq := &sandbox.Set{}
					for _, it := range l.Items {
						uniq.Items = appendUnique(uniq.Items, it)
					}
					return sandbox.Equal(uniq, setOf(1, 2, 3, 4))
				}, "a list of the unique values"),
		},
		{
			ID:     "set_intersection",
			Title:  "Set intersection",
			Level:  LevelHard,
			Prompt: "Given: s1 = {1, 2, 3}, s2 = {2, 3, 4}. Write an expression returning the elements present in both sets.",
			Hint:   "s1 & s2",
			Check:  EvalEquals(Env{"s1": setOf(1, 2, 3), "s2": setOf(2, 3, 4)}, setOf(2, 3)),
		},

		// bytes / bytearray
		{
			ID:     "bytes_from_str",
			Title:  "bytes from a string",
			Level:  LevelEasy,
			Prompt: "Write an expression creating the bytes for the string 'abc' in UTF-8.",
			Hint:   "'abc'.encode('utf-8') or bytes('abc', 'utf-8')",
			Check:  EvalEquals(Env{}, sandbox.Bytes("abc")),
		},
		{
			ID:     "bytearray_modify",
			Title:  "Patching the first byte",
			Level:  LevelHard,
			Prompt: "Given: ba = bytearray(b'abc')\nWrite one line that replaces the first byte with 65 (the code for 'A').\nAfterwards ba must equal bytearray(b'Abc').",
			Hint:   "ba[0] = 65",
			Check:  Mutation(Env{"ba": &sandbox.ByteArray{B: []byte("abc")}}, "ba", &sandbox.ByteArray{B: []byte("Abc")}),
		},

		// range
		{
			ID:     "range_desc",
			Title:  "Descending range",
			Level:  LevelEasy,
			Prompt: "Write the expression: a range from 10 down to 0 with step -2 (10 included, 0 excluded).",
			Hint:   "range(10, 0, -2)",
			Check:  EvalEquals(Env{}, sandbox.Range{Start: 10, Stop: 0, Step: -2}),
		},
		{
			ID:     "range_zero",
			Title:  "Empty range",
			Level:  LevelHard,
			Prompt: "What does list(range(0)) return? Write the exact output.",
			Hint:   "An empty list.",
			Check:  Exact("[]"),
		},

		// multiple choice
		{
			ID:    "mc_immutable",
			Title: "Which one is immutable?",
			Level: LevelEasy,
			Prompt: "Which of these built-in types is immutable?\n" +
				"  A) list\n  B) dict\n  C) tuple\n  D) bytearray",
			Hint:  "It is the one you cannot append to.",
			Check: Choice("C"),
		},
	}
}

func appendUnique(items []sandbox.Value, v sandbox.Value) []sandbox.Value {
	for _, e := range items {
		if sandbox.Equal(e, v) {
			return items
		}
	}
	return append(items, v)
}
