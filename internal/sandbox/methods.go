package sandbox

import (
	"strings"
	"unicode"
)

// callMethod dispatches the allow-listed methods on built-in values. Which
// method names are reachable at all is the validator's decision; dispatch
// here only has to get the semantics right and turn misuse into runtime
// failures.
func (e *evaluator) callMethod(recv Value, name string, args []Value) (Value, error) {
	switch r := recv.(type) {
	case Str:
		return strMethod(r, name, args)
	case Bytes:
		return bytesMethod([]byte(r), name, args)
	case *ByteArray:
		return e.byteArrayMethod(r, name, args)
	case *List:
		return e.listMethod(r, name, args)
	case Tuple:
		return seqMethod(r, recv.TypeName(), name, args)
	case *Set:
		return e.setMethod(r, name, args)
	case *Dict:
		return e.dictMethod(r, name, args)
	}
	return nil, noMethod(recv, name)
}

func noMethod(recv Value, name string) *Error {
	return runtimeErrf("'%s' object has no attribute '%s'", recv.TypeName(), name)
}

func wantArgs(recv Value, name string, args []Value, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return runtimeErrf("%s.%s() takes %d argument(s) (%d given)", recv.TypeName(), name, min, len(args))
		}
		return runtimeErrf("%s.%s() takes %d to %d arguments (%d given)", recv.TypeName(), name, min, max, len(args))
	}
	return nil
}

func strMethod(s Str, name string, args []Value) (Value, error) {
	str := string(s)

	strArg := func(i int) (string, error) {
		v, ok := args[i].(Str)
		if !ok {
			return "", runtimeErrf("str.%s() argument must be str, not %s", name, args[i].TypeName())
		}
		return string(v), nil
	}

	switch name {
	case "strip", "lstrip", "rstrip":
		cutset := " \t\n\r\v\f"
		if len(args) > 1 {
			return nil, wantArgs(s, name, args, 0, 1)
		}
		if len(args) == 1 {
			c, err := strArg(0)
			if err != nil {
				return nil, err
			}
			cutset = c
		}
		switch name {
		case "strip":
			return Str(strings.Trim(str, cutset)), nil
		case "lstrip":
			return Str(strings.TrimLeft(str, cutset)), nil
		default:
			return Str(strings.TrimRight(str, cutset)), nil
		}
	case "lower":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		return Str(strings.ToLower(str)), nil
	case "upper":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		return Str(strings.ToUpper(str)), nil
	case "capitalize":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		if str == "" {
			return s, nil
		}
		runes := []rune(strings.ToLower(str))
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		return Str(string(runes)), nil
	case "title":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		return Str(titleCase(str)), nil
	case "replace":
		if err := wantArgs(s, name, args, 2, 2); err != nil {
			return nil, err
		}
		old, err := strArg(0)
		if err != nil {
			return nil, err
		}
		new_, err := strArg(1)
		if err != nil {
			return nil, err
		}
		return Str(strings.ReplaceAll(str, old, new_)), nil
	case "split":
		if len(args) == 0 {
			fields := strings.Fields(str)
			items := make([]Value, len(fields))
			for i, f := range fields {
				items[i] = Str(f)
			}
			return &List{Items: items}, nil
		}
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		sep, err := strArg(0)
		if err != nil {
			return nil, err
		}
		if sep == "" {
			return nil, runtimeErrf("empty separator")
		}
		parts := strings.Split(str, sep)
		items := make([]Value, len(parts))
		for i, p := range parts {
			items[i] = Str(p)
		}
		return &List{Items: items}, nil
	case "startswith", "endswith":
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		prefix, err := strArg(0)
		if err != nil {
			return nil, err
		}
		if name == "startswith" {
			return Bool(strings.HasPrefix(str, prefix)), nil
		}
		return Bool(strings.HasSuffix(str, prefix)), nil
	case "count":
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		sub, err := strArg(0)
		if err != nil {
			return nil, err
		}
		return Int(strings.Count(str, sub)), nil
	case "find", "index":
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		sub, err := strArg(0)
		if err != nil {
			return nil, err
		}
		// Positions count runes, as Python indexes do.
		byteIdx := strings.Index(str, sub)
		if byteIdx < 0 {
			if name == "index" {
				return nil, runtimeErrf("substring not found")
			}
			return Int(-1), nil
		}
		return Int(len([]rune(str[:byteIdx]))), nil
	case "encode":
		if err := wantArgs(s, name, args, 0, 1); err != nil {
			return nil, err
		}
		enc := "utf-8"
		if len(args) == 1 {
			c, err := strArg(0)
			if err != nil {
				return nil, err
			}
			enc = c
		}
		b, err := encodeStr(str, enc)
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	}
	return nil, noMethod(s, name)
}

// titleCase uppercases the first letter of each word, lowercasing the rest,
// matching str.title() for the ASCII-ish inputs the items use.
func titleCase(s string) string {
	out := []rune(strings.ToLower(s))
	startOfWord := true
	for i, r := range out {
		if unicode.IsLetter(r) {
			if startOfWord {
				out[i] = unicode.ToUpper(r)
			}
			startOfWord = false
		} else {
			startOfWord = true
		}
	}
	return string(out)
}

func bytesMethod(b []byte, name string, args []Value) (Value, error) {
	switch name {
	case "decode":
		enc := "utf-8"
		if len(args) == 1 {
			s, ok := args[0].(Str)
			if !ok {
				return nil, runtimeErrf("decode() argument must be str")
			}
			enc = string(s)
		} else if len(args) > 1 {
			return nil, runtimeErrf("decode() takes at most one argument")
		}
		s, err := decodeBytes(b, enc)
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case "count":
		if len(args) != 1 {
			return nil, runtimeErrf("count() takes one argument")
		}
		switch x := args[0].(type) {
		case Int:
			if x < 0 || x > 255 {
				return nil, runtimeErrf("byte must be in range(256)")
			}
			return Int(strings.Count(string(b), string([]byte{byte(x)}))), nil
		case Bytes:
			return Int(strings.Count(string(b), string(x))), nil
		}
		return nil, runtimeErrf("count() argument must be int or bytes")
	}
	return nil, noMethod(Bytes(b), name)
}

func (e *evaluator) byteArrayMethod(ba *ByteArray, name string, args []Value) (Value, error) {
	byteArg := func(i int) (byte, error) {
		n, ok := asInt(args[i])
		if !ok || n < 0 || n > 255 {
			return 0, runtimeErrf("an integer in range(256) is required")
		}
		return byte(n), nil
	}

	switch name {
	case "append":
		if err := wantArgs(ba, name, args, 1, 1); err != nil {
			return nil, err
		}
		c, err := byteArg(0)
		if err != nil {
			return nil, err
		}
		ba.B = append(ba.B, c)
		return None{}, nil
	case "extend":
		if err := wantArgs(ba, name, args, 1, 1); err != nil {
			return nil, err
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			n, ok := asInt(it)
			if !ok || n < 0 || n > 255 {
				return nil, runtimeErrf("an integer in range(256) is required")
			}
			ba.B = append(ba.B, byte(n))
		}
		return None{}, nil
	case "clear":
		if err := wantArgs(ba, name, args, 0, 0); err != nil {
			return nil, err
		}
		ba.B = ba.B[:0]
		return None{}, nil
	case "copy":
		if err := wantArgs(ba, name, args, 0, 0); err != nil {
			return nil, err
		}
		return &ByteArray{B: append([]byte(nil), ba.B...)}, nil
	case "decode", "count":
		return bytesMethod(ba.B, name, args)
	}
	return nil, noMethod(ba, name)
}

func (e *evaluator) listMethod(l *List, name string, args []Value) (Value, error) {
	switch name {
	case "copy":
		if err := wantArgs(l, name, args, 0, 0); err != nil {
			return nil, err
		}
		// Shallow copy, matching Python's list.copy().
		return &List{Items: append([]Value(nil), l.Items...)}, nil
	case "append":
		if err := wantArgs(l, name, args, 1, 1); err != nil {
			return nil, err
		}
		l.Items = append(l.Items, args[0])
		return None{}, nil
	case "extend":
		if err := wantArgs(l, name, args, 1, 1); err != nil {
			return nil, err
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, items...)
		return None{}, nil
	case "insert":
		if err := wantArgs(l, name, args, 2, 2); err != nil {
			return nil, err
		}
		n, ok := asInt(args[0])
		if !ok {
			return nil, runtimeErrf("insert() index must be an integer")
		}
		i := int(n)
		if i < 0 {
			i += len(l.Items)
		}
		if i < 0 {
			i = 0
		}
		if i > len(l.Items) {
			i = len(l.Items)
		}
		l.Items = append(l.Items, nil)
		copy(l.Items[i+1:], l.Items[i:])
		l.Items[i] = args[1]
		return None{}, nil
	case "remove":
		if err := wantArgs(l, name, args, 1, 1); err != nil {
			return nil, err
		}
		for i, it := range l.Items {
			if Equal(it, args[0]) {
				l.Items = append(l.Items[:i], l.Items[i+1:]...)
				return None{}, nil
			}
		}
		return nil, runtimeErrf("list.remove(x): x not in list")
	case "pop":
		if err := wantArgs(l, name, args, 0, 1); err != nil {
			return nil, err
		}
		if len(l.Items) == 0 {
			return nil, runtimeErrf("pop from empty list")
		}
		i := len(l.Items) - 1
		if len(args) == 1 {
			var err error
			i, err = seqIndex(args[0], len(l.Items))
			if err != nil {
				return nil, err
			}
		}
		v := l.Items[i]
		l.Items = append(l.Items[:i], l.Items[i+1:]...)
		return v, nil
	case "clear":
		if err := wantArgs(l, name, args, 0, 0); err != nil {
			return nil, err
		}
		l.Items = l.Items[:0]
		return None{}, nil
	case "sort":
		if err := wantArgs(l, name, args, 0, 0); err != nil {
			return nil, err
		}
		if err := orderable(l.Items); err != nil {
			return nil, err
		}
		sortValues(l.Items)
		return None{}, nil
	case "reverse":
		if err := wantArgs(l, name, args, 0, 0); err != nil {
			return nil, err
		}
		for i, j := 0, len(l.Items)-1; i < j; i, j = i+1, j-1 {
			l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
		}
		return None{}, nil
	case "count", "index":
		return seqMethod(l.Items, "list", name, args)
	}
	return nil, noMethod(l, name)
}

// seqMethod implements the read-only sequence methods shared by list and tuple.
func seqMethod(items []Value, typeName, name string, args []Value) (Value, error) {
	switch name {
	case "count":
		if len(args) != 1 {
			return nil, runtimeErrf("%s.count() takes one argument", typeName)
		}
		n := 0
		for _, it := range items {
			if Equal(it, args[0]) {
				n++
			}
		}
		return Int(n), nil
	case "index":
		if len(args) != 1 {
			return nil, runtimeErrf("%s.index() takes one argument", typeName)
		}
		for i, it := range items {
			if Equal(it, args[0]) {
				return Int(i), nil
			}
		}
		return nil, runtimeErrf("%s is not in %s", args[0].Repr(), typeName)
	}
	return nil, runtimeErrf("'%s' object has no attribute '%s'", typeName, name)
}

func (e *evaluator) setMethod(s *Set, name string, args []Value) (Value, error) {
	otherSet := func() (*Set, error) {
		if len(args) != 1 {
			return nil, runtimeErrf("set.%s() takes one argument", name)
		}
		items, err := e.iterate(args[0])
		if err != nil {
			return nil, err
		}
		return newSet(items), nil
	}

	switch name {
	case "copy":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		return &Set{Items: append([]Value(nil), s.Items...)}, nil
	case "union":
		o, err := otherSet()
		if err != nil {
			return nil, err
		}
		return setOp("|", s, o), nil
	case "intersection":
		o, err := otherSet()
		if err != nil {
			return nil, err
		}
		return setOp("&", s, o), nil
	case "difference":
		o, err := otherSet()
		if err != nil {
			return nil, err
		}
		return setOp("-", s, o), nil
	case "issubset":
		o, err := otherSet()
		if err != nil {
			return nil, err
		}
		for _, v := range s.Items {
			if !containsValue(o.Items, v) {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	case "add":
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		if !containsValue(s.Items, args[0]) {
			s.Items = append(s.Items, args[0])
		}
		return None{}, nil
	case "remove", "discard":
		if err := wantArgs(s, name, args, 1, 1); err != nil {
			return nil, err
		}
		for i, it := range s.Items {
			if Equal(it, args[0]) {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
				return None{}, nil
			}
		}
		if name == "remove" {
			return nil, runtimeErrf("KeyError: %s", args[0].Repr())
		}
		return None{}, nil
	case "clear":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		s.Items = s.Items[:0]
		return None{}, nil
	case "pop":
		if err := wantArgs(s, name, args, 0, 0); err != nil {
			return nil, err
		}
		if len(s.Items) == 0 {
			return nil, runtimeErrf("pop from an empty set")
		}
		v := s.Items[0]
		s.Items = s.Items[1:]
		return v, nil
	}
	return nil, noMethod(s, name)
}

func (e *evaluator) dictMethod(d *Dict, name string, args []Value) (Value, error) {
	switch name {
	case "get":
		if err := wantArgs(d, name, args, 1, 2); err != nil {
			return nil, err
		}
		if i, found := findKey(d, args[0]); found {
			return d.Vals[i], nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return None{}, nil
	case "copy":
		if err := wantArgs(d, name, args, 0, 0); err != nil {
			return nil, err
		}
		return &Dict{
			Keys: append([]Value(nil), d.Keys...),
			Vals: append([]Value(nil), d.Vals...),
		}, nil
	case "pop":
		if err := wantArgs(d, name, args, 1, 2); err != nil {
			return nil, err
		}
		if i, found := findKey(d, args[0]); found {
			v := d.Vals[i]
			d.Keys = append(d.Keys[:i], d.Keys[i+1:]...)
			d.Vals = append(d.Vals[:i], d.Vals[i+1:]...)
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, runtimeErrf("KeyError: %s", args[0].Repr())
	case "clear":
		if err := wantArgs(d, name, args, 0, 0); err != nil {
			return nil, err
		}
		d.Keys = d.Keys[:0]
		d.Vals = d.Vals[:0]
		return None{}, nil
	case "update":
		if err := wantArgs(d, name, args, 1, 1); err != nil {
			return nil, err
		}
		o, ok := args[0].(*Dict)
		if !ok {
			return nil, runtimeErrf("update() argument must be a dict")
		}
		for i := range o.Keys {
			dictSet(d, o.Keys[i], o.Vals[i])
		}
		return None{}, nil
	case "setdefault":
		if err := wantArgs(d, name, args, 1, 2); err != nil {
			return nil, err
		}
		if i, found := findKey(d, args[0]); found {
			return d.Vals[i], nil
		}
		var def Value = None{}
		if len(args) == 2 {
			def = args[1]
		}
		dictSet(d, args[0], def)
		return def, nil
	}
	return nil, noMethod(d, name)
}
