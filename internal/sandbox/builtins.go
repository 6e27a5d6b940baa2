package sandbox

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// callBuiltin dispatches the allow-listed built-in functions. The validator
// has already confirmed the name is permitted, so an unknown name here is a
// programming error reported as a runtime failure.
func (e *evaluator) callBuiltin(name string, args []Value) (Value, error) {
	switch name {
	case "len":
		if len(args) != 1 {
			return nil, fmtArgCount("len", len(args), "exactly one")
		}
		return builtinLen(args[0])
	case "sum":
		if len(args) != 1 {
			return nil, fmtArgCount("sum", len(args), "exactly one")
		}
		return e.builtinSum(args[0])
	case "min", "max":
		return e.builtinMinMax(name, args)
	case "sorted":
		if len(args) != 1 {
			return nil, fmtArgCount("sorted", len(args), "exactly one")
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		if err := orderable(items); err != nil {
			return nil, err
		}
		sortValues(items)
		return &List{Items: items}, nil
	case "range":
		return builtinRange(args)
	case "list":
		if len(args) == 0 {
			return &List{}, nil
		}
		if len(args) > 1 {
			return nil, fmtArgCount("list", len(args), "at most one")
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		return &List{Items: items}, nil
	case "tuple":
		if len(args) == 0 {
			return Tuple{}, nil
		}
		if len(args) > 1 {
			return nil, fmtArgCount("tuple", len(args), "at most one")
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case "set":
		if len(args) == 0 {
			return &Set{}, nil
		}
		if len(args) > 1 {
			return nil, fmtArgCount("set", len(args), "at most one")
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		return newSet(items), nil
	case "dict":
		if len(args) == 0 {
			return &Dict{}, nil
		}
		if len(args) > 1 {
			return nil, fmtArgCount("dict", len(args), "at most one")
		}
		return builtinDict(args[0])
	case "bytes":
		return e.builtinBytes("bytes", args)
	case "bytearray":
		return e.builtinBytes("bytearray", args)
	}
	return nil, runtimeErrf("unknown builtin %s", name)
}

func builtinLen(v Value) (Value, error) {
	switch x := v.(type) {
	case Str:
		return Int(StrLen(x)), nil
	case Bytes:
		return Int(len(x)), nil
	case *ByteArray:
		return Int(len(x.B)), nil
	case *List:
		return Int(len(x.Items)), nil
	case Tuple:
		return Int(len(x)), nil
	case *Set:
		return Int(len(x.Items)), nil
	case *Dict:
		return Int(len(x.Keys)), nil
	case Range:
		return Int(x.Len()), nil
	}
	return nil, runtimeErrf("object of type '%s' has no len()", v.TypeName())
}

// builtinSum sums numerics. Ranges are summed lazily so sum(range(1, 10**6))
// does not materialize a million elements.
func (e *evaluator) builtinSum(v Value) (Value, error) {
	if r, ok := v.(Range); ok {
		// Arithmetic series: n*(first+last)/2, constant time.
		n := r.Len()
		if n == 0 {
			return Int(0), nil
		}
		first, last := r.At(0), r.At(n-1)
		total := first + last
		if (last > 0 && total < first) || (last < 0 && total > first) {
			return nil, runtimeErrf("integer overflow in sum()")
		}
		const limit = int64(1) << 62
		if n > limit/maxInt64(absInt64(total), 1) {
			return nil, runtimeErrf("integer overflow in sum()")
		}
		return Int(n * total / 2), nil
	}
	items, err := e.iterate(v)
	if err != nil {
		return nil, err
	}
	var (
		intSum   int64
		floatSum float64
		isFloat  bool
	)
	for _, it := range items {
		switch n := it.(type) {
		case Int:
			intSum += int64(n)
		case Bool:
			b, _ := asInt(n)
			intSum += b
		case Float:
			isFloat = true
			floatSum += float64(n)
		default:
			return nil, runtimeErrf("unsupported operand type(s) for +: 'int' and '%s'", it.TypeName())
		}
	}
	if isFloat {
		return Float(floatSum + float64(intSum)), nil
	}
	return Int(intSum), nil
}

func (e *evaluator) builtinMinMax(name string, args []Value) (Value, error) {
	var items []Value
	switch len(args) {
	case 0:
		return nil, fmtArgCount(name, 0, "at least one")
	case 1:
		var err error
		items, err = e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, runtimeErrf("%s() arg is an empty sequence", name)
		}
	default:
		items = args
	}
	if err := orderable(items); err != nil {
		return nil, err
	}
	best := items[0]
	for _, it := range items[1:] {
		c, _ := Compare(it, best)
		if (name == "min" && c < 0) || (name == "max" && c > 0) {
			best = it
		}
	}
	return best, nil
}

func orderable(items []Value) error {
	for i := 1; i < len(items); i++ {
		if _, ok := Compare(items[i], items[0]); !ok {
			return runtimeErrf("'<' not supported between instances of '%s' and '%s'",
				items[i].TypeName(), items[0].TypeName())
		}
	}
	return nil
}

func builtinRange(args []Value) (Value, error) {
	nums := make([]int64, len(args))
	for i, a := range args {
		n, ok := asInt(a)
		if !ok {
			return nil, runtimeErrf("'%s' object cannot be interpreted as an integer", a.TypeName())
		}
		nums[i] = n
	}
	switch len(args) {
	case 1:
		return Range{Start: 0, Stop: nums[0], Step: 1}, nil
	case 2:
		return Range{Start: nums[0], Stop: nums[1], Step: 1}, nil
	case 3:
		if nums[2] == 0 {
			return nil, runtimeErrf("range() arg 3 must not be zero")
		}
		return Range{Start: nums[0], Stop: nums[1], Step: nums[2]}, nil
	}
	return nil, fmtArgCount("range", len(args), "one to three")
}

func builtinDict(v Value) (Value, error) {
	switch x := v.(type) {
	case *Dict:
		return Copy(x).(*Dict), nil
	case *List:
		return dictFromPairs(x.Items)
	case Tuple:
		return dictFromPairs(x)
	}
	return nil, runtimeErrf("cannot convert '%s' object to dict", v.TypeName())
}

func dictFromPairs(items []Value) (Value, error) {
	d := &Dict{}
	for _, it := range items {
		pair, ok := it.(Tuple)
		if !ok || len(pair) != 2 {
			if l, lok := it.(*List); lok && len(l.Items) == 2 {
				dictSet(d, l.Items[0], l.Items[1])
				continue
			}
			return nil, runtimeErrf("dict update sequence elements must be pairs")
		}
		dictSet(d, pair[0], pair[1])
	}
	return d, nil
}

// builtinBytes implements bytes() and bytearray(): from another bytes-like
// value, from a str plus encoding, from an int (zero-filled) or from an
// iterable of ints.
func (e *evaluator) builtinBytes(name string, args []Value) (Value, error) {
	wrap := func(b []byte) Value {
		if name == "bytearray" {
			return &ByteArray{B: b}
		}
		return Bytes(b)
	}

	switch len(args) {
	case 0:
		return wrap(nil), nil
	case 1:
		switch x := args[0].(type) {
		case Bytes:
			return wrap(append([]byte(nil), x...)), nil
		case *ByteArray:
			return wrap(append([]byte(nil), x.B...)), nil
		case Int:
			if x < 0 {
				return nil, runtimeErrf("negative count")
			}
			if err := e.bulk(int(x)); err != nil {
				return nil, err
			}
			return wrap(make([]byte, x)), nil
		case Str:
			return nil, runtimeErrf("string argument without an encoding")
		default:
			items, err := e.iterate(args[0])
			if err != nil {
				return nil, err
			}
			out := make([]byte, len(items))
			for i, it := range items {
				n, ok := asInt(it)
				if !ok || n < 0 || n > 255 {
					return nil, runtimeErrf("%s must be an iterable of ints in range(256)", name)
				}
				out[i] = byte(n)
			}
			return wrap(out), nil
		}
	case 2:
		s, sok := args[0].(Str)
		enc, eok := args[1].(Str)
		if !sok || !eok {
			return nil, runtimeErrf("%s() with two arguments takes a string and an encoding", name)
		}
		b, err := encodeStr(string(s), string(enc))
		if err != nil {
			return nil, err
		}
		return wrap(b), nil
	}
	return nil, fmtArgCount(name, len(args), "at most two")
}

// encodeStr supports the encodings the trainer's items use.
func encodeStr(s, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "utf8", "utf_8":
		return []byte(s), nil
	case "ascii":
		for _, r := range s {
			if r > unicode.MaxASCII {
				return nil, runtimeErrf("'ascii' codec can't encode character %q", r)
			}
		}
		return []byte(s), nil
	case "latin1", "latin_1", "iso88591":
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 0xff {
				return nil, runtimeErrf("'latin-1' codec can't encode character %q", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	}
	return nil, runtimeErrf("unknown encoding: %s", encoding)
}

// decodeBytes supports the same encodings in the other direction.
func decodeBytes(b []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.ReplaceAll(encoding, "-", "")) {
	case "utf8", "utf_8":
		if !utf8.Valid(b) {
			return "", runtimeErrf("'utf-8' codec can't decode bytes")
		}
		return string(b), nil
	case "ascii":
		for _, c := range b {
			if c > 127 {
				return "", runtimeErrf("'ascii' codec can't decode byte 0x%02x", c)
			}
		}
		return string(b), nil
	case "latin1", "latin_1", "iso88591":
		rs := make([]rune, len(b))
		for i, c := range b {
			rs[i] = rune(c)
		}
		return string(rs), nil
	}
	return "", runtimeErrf("unknown encoding: %s", encoding)
}
