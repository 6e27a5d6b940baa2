package sandbox

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Limits bounds evaluation work so grammatical but pathological inputs
// (say, list(range(10**9))) cannot stall a session.
type Limits struct {
	// MaxSteps caps evaluated nodes plus per-element container work.
	MaxSteps int
	// MaxElems caps the size of any materialized container.
	MaxElems int
}

// DefaultLimits is generous for quiz-sized snippets while still bounding
// runaway constructions.
var DefaultLimits = Limits{MaxSteps: 2_000_000, MaxElems: 1_000_000}

// evaluator executes a validated tree against a restricted context: the
// allow-listed builtins plus the caller's environment, nothing else.
type evaluator struct {
	env    map[string]Value
	limits Limits
	steps  int
}

// evalExpr evaluates a validated expression tree and returns its value.
// A panic inside the evaluator becomes a RuntimeFailure: nothing may escape
// the trust boundary as a fault.
func evalExpr(tree Node, env map[string]Value, limits Limits) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, runtimeErrf("evaluation failed: %v", r)
		}
	}()
	e := &evaluator{env: env, limits: limits}
	return e.eval(tree)
}

// evalProgram executes a validated statement sequence. Assignments write into
// the environment, so callers pass a copy they own. Panics are converted to
// RuntimeFailure like evalExpr.
func evalProgram(prog *ProgramNode, env map[string]Value, limits Limits) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = runtimeErrf("evaluation failed: %v", r)
		}
	}()
	e := &evaluator{env: env, limits: limits}
	for _, st := range prog.Stmts {
		if err := e.exec(st); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) step() error {
	e.steps++
	if e.steps > e.limits.MaxSteps {
		return runtimeErrf("evaluation budget exceeded")
	}
	return nil
}

func (e *evaluator) bulk(n int) error {
	if n > e.limits.MaxElems {
		return runtimeErrf("result too large (%d elements)", n)
	}
	e.steps += n
	if e.steps > e.limits.MaxSteps {
		return runtimeErrf("evaluation budget exceeded")
	}
	return nil
}

func (e *evaluator) exec(st Node) error {
	if err := e.step(); err != nil {
		return err
	}
	switch x := st.(type) {
	case *ExprStmtNode:
		_, err := e.eval(x.X)
		return err
	case *AssignNode:
		val, err := e.eval(x.Value)
		if err != nil {
			return err
		}
		return e.assign(x.Target, val)
	}
	return runtimeErrf("cannot execute %s", st.NodeKind())
}

func (e *evaluator) assign(target Node, val Value) error {
	switch t := target.(type) {
	case *NameNode:
		e.env[t.Ident] = val
		return nil
	case *SubscriptNode:
		recv, err := e.eval(t.Recv)
		if err != nil {
			return err
		}
		if sl, ok := t.Index.(*SliceNode); ok {
			return e.assignSlice(recv, sl, val)
		}
		idx, err := e.eval(t.Index)
		if err != nil {
			return err
		}
		return e.assignIndex(recv, idx, val)
	}
	return runtimeErrf("cannot assign to %s", target.NodeKind())
}

func (e *evaluator) assignIndex(recv, idx, val Value) error {
	switch r := recv.(type) {
	case *List:
		i, err := seqIndex(idx, len(r.Items))
		if err != nil {
			return err
		}
		r.Items[i] = val
		return nil
	case *ByteArray:
		i, err := seqIndex(idx, len(r.B))
		if err != nil {
			return err
		}
		n, ok := asInt(val)
		if !ok || n < 0 || n > 255 {
			return runtimeErrf("bytearray item must be an int in range(256)")
		}
		r.B[i] = byte(n)
		return nil
	case *Dict:
		dictSet(r, idx, val)
		return nil
	}
	return runtimeErrf("'%s' object does not support item assignment", recv.TypeName())
}

// assignSlice implements lst[a:b] = iterable (step slices are not assignable
// here; no item needs them).
func (e *evaluator) assignSlice(recv Value, sl *SliceNode, val Value) error {
	lst, ok := recv.(*List)
	if !ok {
		return runtimeErrf("'%s' object does not support slice assignment", recv.TypeName())
	}
	if sl.Step != nil {
		return runtimeErrf("extended slice assignment is not supported")
	}
	lo, hi, err := e.sliceBounds(sl, len(lst.Items))
	if err != nil {
		return err
	}
	src, err := e.iterate(val)
	if err != nil {
		return err
	}
	out := make([]Value, 0, len(lst.Items)-(hi-lo)+len(src))
	out = append(out, lst.Items[:lo]...)
	out = append(out, src...)
	out = append(out, lst.Items[hi:]...)
	lst.Items = out
	return nil
}

func (e *evaluator) eval(n Node) (Value, error) {
	if err := e.step(); err != nil {
		return nil, err
	}
	switch x := n.(type) {
	case *LiteralNode:
		return x.Val, nil
	case *NameNode:
		if v, ok := e.env[x.Ident]; ok {
			return v, nil
		}
		return nil, runtimeErrf("name '%s' is not defined", x.Ident)
	case *ListNode:
		items, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}
		return &List{Items: items}, nil
	case *TupleNode:
		items, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case *SetNode:
		items, err := e.evalAll(x.Elems)
		if err != nil {
			return nil, err
		}
		return newSet(items), nil
	case *DictNode:
		d := &Dict{}
		for i := range x.Keys {
			k, err := e.eval(x.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := e.eval(x.Vals[i])
			if err != nil {
				return nil, err
			}
			dictSet(d, k, v)
		}
		return d, nil
	case *UnaryNode:
		return e.evalUnary(x)
	case *BinaryNode:
		l, err := e.eval(x.L)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(x.R)
		if err != nil {
			return nil, err
		}
		return e.binaryOp(x.Op, l, r)
	case *BoolOpNode:
		return e.evalBoolOp(x)
	case *CompareNode:
		return e.evalCompare(x)
	case *CallNode:
		return e.evalCall(x)
	case *SubscriptNode:
		return e.evalSubscript(x)
	}
	return nil, runtimeErrf("cannot evaluate %s", n.NodeKind())
}

func (e *evaluator) evalAll(nodes []Node) ([]Value, error) {
	items := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := e.eval(n)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (e *evaluator) evalUnary(x *UnaryNode) (Value, error) {
	v, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "not":
		return Bool(!Truthy(v)), nil
	case "-":
		switch n := v.(type) {
		case Int:
			return -n, nil
		case Float:
			return -n, nil
		case Bool:
			i, _ := asInt(n)
			return Int(-i), nil
		}
	case "+":
		if _, ok := asFloat(v); ok {
			return v, nil
		}
	case "~":
		if i, ok := asInt(v); ok {
			return Int(^i), nil
		}
	}
	return nil, runtimeErrf("bad operand type for unary %s: '%s'", x.Op, v.TypeName())
}

func (e *evaluator) evalBoolOp(x *BoolOpNode) (Value, error) {
	// Python returns the deciding operand itself, not a bool.
	var last Value
	for i, n := range x.Vals {
		v, err := e.eval(n)
		if err != nil {
			return nil, err
		}
		last = v
		if i == len(x.Vals)-1 {
			break
		}
		if x.Op == "and" && !Truthy(v) {
			return v, nil
		}
		if x.Op == "or" && Truthy(v) {
			return v, nil
		}
	}
	return last, nil
}

func (e *evaluator) evalCompare(x *CompareNode) (Value, error) {
	left, err := e.eval(x.First)
	if err != nil {
		return nil, err
	}
	for i, op := range x.Ops {
		right, err := e.eval(x.Rest[i])
		if err != nil {
			return nil, err
		}
		ok, err := e.compareOnce(op, left, right)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Bool(false), nil
		}
		left = right
	}
	return Bool(true), nil
}

func (e *evaluator) compareOnce(op string, l, r Value) (bool, error) {
	switch op {
	case "==":
		return Equal(l, r), nil
	case "!=":
		return !Equal(l, r), nil
	case "is":
		return Is(l, r), nil
	case "is not":
		return !Is(l, r), nil
	case "in":
		return e.contains(r, l)
	case "not in":
		ok, err := e.contains(r, l)
		return !ok, err
	}
	c, ok := Compare(l, r)
	if !ok {
		return false, runtimeErrf("'%s' not supported between instances of '%s' and '%s'", op, l.TypeName(), r.TypeName())
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, runtimeErrf("unknown comparison %s", op)
}

func (e *evaluator) contains(container, elem Value) (bool, error) {
	switch c := container.(type) {
	case Str:
		s, ok := elem.(Str)
		if !ok {
			return false, runtimeErrf("'in <string>' requires string as left operand, not %s", elem.TypeName())
		}
		return strings.Contains(string(c), string(s)), nil
	case Bytes:
		return bytesContains([]byte(c), elem)
	case *ByteArray:
		return bytesContains(c.B, elem)
	case *List:
		return containsValue(c.Items, elem), nil
	case Tuple:
		return containsValue(c, elem), nil
	case *Set:
		return containsValue(c.Items, elem), nil
	case *Dict:
		_, found := findKey(c, elem)
		return found, nil
	case Range:
		n, ok := asInt(elem)
		if !ok {
			return false, nil
		}
		if c.Len() == 0 {
			return false, nil
		}
		if c.Step > 0 {
			return n >= c.Start && n < c.Stop && (n-c.Start)%c.Step == 0, nil
		}
		return n <= c.Start && n > c.Stop && (c.Start-n)%(-c.Step) == 0, nil
	}
	return false, runtimeErrf("argument of type '%s' is not iterable", container.TypeName())
}

func bytesContains(b []byte, elem Value) (bool, error) {
	switch x := elem.(type) {
	case Int:
		return x >= 0 && x <= 255 && strings.IndexByte(string(b), byte(x)) >= 0, nil
	case Bytes:
		return strings.Contains(string(b), string(x)), nil
	case *ByteArray:
		return strings.Contains(string(b), string(x.B)), nil
	}
	return false, runtimeErrf("a bytes-like object is required, not '%s'", elem.TypeName())
}

func (e *evaluator) evalSubscript(x *SubscriptNode) (Value, error) {
	recv, err := e.eval(x.Recv)
	if err != nil {
		return nil, err
	}
	if sl, ok := x.Index.(*SliceNode); ok {
		return e.evalSlice(recv, sl)
	}
	idx, err := e.eval(x.Index)
	if err != nil {
		return nil, err
	}
	return e.index(recv, idx)
}

func (e *evaluator) index(recv, idx Value) (Value, error) {
	if d, ok := recv.(*Dict); ok {
		if i, found := findKey(d, idx); found {
			return d.Vals[i], nil
		}
		return nil, runtimeErrf("KeyError: %s", idx.Repr())
	}
	switch r := recv.(type) {
	case *List:
		i, err := seqIndex(idx, len(r.Items))
		if err != nil {
			return nil, err
		}
		return r.Items[i], nil
	case Tuple:
		i, err := seqIndex(idx, len(r))
		if err != nil {
			return nil, err
		}
		return r[i], nil
	case Str:
		runes := []rune(string(r))
		i, err := seqIndex(idx, len(runes))
		if err != nil {
			return nil, err
		}
		return Str(string(runes[i])), nil
	case Bytes:
		i, err := seqIndex(idx, len(r))
		if err != nil {
			return nil, err
		}
		return Int(r[i]), nil
	case *ByteArray:
		i, err := seqIndex(idx, len(r.B))
		if err != nil {
			return nil, err
		}
		return Int(r.B[i]), nil
	case Range:
		i, err := seqIndex(idx, int(r.Len()))
		if err != nil {
			return nil, err
		}
		return Int(r.At(int64(i))), nil
	}
	return nil, runtimeErrf("'%s' object is not subscriptable", recv.TypeName())
}

func seqIndex(idx Value, length int) (int, error) {
	n, ok := asInt(idx)
	if !ok {
		return 0, runtimeErrf("indices must be integers, not %s", idx.TypeName())
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, runtimeErrf("index out of range")
	}
	return i, nil
}

// sliceBounds resolves low/high for a step-1 slice of a sequence of the
// given length, with Python's clamping.
func (e *evaluator) sliceBounds(sl *SliceNode, length int) (int, int, error) {
	resolve := func(n Node, def int) (int, error) {
		if n == nil {
			return def, nil
		}
		v, err := e.eval(n)
		if err != nil {
			return 0, err
		}
		i, ok := asInt(v)
		if !ok {
			return 0, runtimeErrf("slice indices must be integers, not %s", v.TypeName())
		}
		x := int(i)
		if x < 0 {
			x += length
		}
		if x < 0 {
			x = 0
		}
		if x > length {
			x = length
		}
		return x, nil
	}
	lo, err := resolve(sl.Low, 0)
	if err != nil {
		return 0, 0, err
	}
	hi, err := resolve(sl.High, length)
	if err != nil {
		return 0, 0, err
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi, nil
}

func (e *evaluator) evalSlice(recv Value, sl *SliceNode) (Value, error) {
	step := 1
	if sl.Step != nil {
		v, err := e.eval(sl.Step)
		if err != nil {
			return nil, err
		}
		n, ok := asInt(v)
		if !ok || n == 0 {
			return nil, runtimeErrf("slice step must be a non-zero integer")
		}
		step = int(n)
	}

	slice := func(length int, get func(int) Value) ([]Value, error) {
		idxs, err := e.sliceIndexes(sl, length, step)
		if err != nil {
			return nil, err
		}
		out := make([]Value, len(idxs))
		for i, j := range idxs {
			out[i] = get(j)
		}
		return out, nil
	}

	switch r := recv.(type) {
	case *List:
		items, err := slice(len(r.Items), func(i int) Value { return r.Items[i] })
		if err != nil {
			return nil, err
		}
		return &List{Items: items}, nil
	case Tuple:
		items, err := slice(len(r), func(i int) Value { return r[i] })
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case Str:
		runes := []rune(string(r))
		items, err := e.sliceIndexes(sl, len(runes), step)
		if err != nil {
			return nil, err
		}
		out := make([]rune, len(items))
		for i, j := range items {
			out[i] = runes[j]
		}
		return Str(string(out)), nil
	case Bytes:
		idxs, err := e.sliceIndexes(sl, len(r), step)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(idxs))
		for i, j := range idxs {
			out[i] = r[j]
		}
		return Bytes(out), nil
	case *ByteArray:
		idxs, err := e.sliceIndexes(sl, len(r.B), step)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(idxs))
		for i, j := range idxs {
			out[i] = r.B[j]
		}
		return &ByteArray{B: out}, nil
	}
	return nil, runtimeErrf("'%s' object is not sliceable", recv.TypeName())
}

// sliceIndexes returns the element indexes a slice selects, handling
// negative steps.
func (e *evaluator) sliceIndexes(sl *SliceNode, length, step int) ([]int, error) {
	resolve := func(n Node, def int) (int, error) {
		if n == nil {
			return def, nil
		}
		v, err := e.eval(n)
		if err != nil {
			return 0, err
		}
		i, ok := asInt(v)
		if !ok {
			return 0, runtimeErrf("slice indices must be integers, not %s", v.TypeName())
		}
		x := int(i)
		if x < 0 {
			x += length
		}
		return x, nil
	}

	clamp := func(x, lo, hi int) int {
		if x < lo {
			return lo
		}
		if x > hi {
			return hi
		}
		return x
	}

	var start, stop int
	var err error
	if step > 0 {
		if start, err = resolve(sl.Low, 0); err != nil {
			return nil, err
		}
		if stop, err = resolve(sl.High, length); err != nil {
			return nil, err
		}
		start = clamp(start, 0, length)
		stop = clamp(stop, 0, length)
	} else {
		if start, err = resolve(sl.Low, length-1); err != nil {
			return nil, err
		}
		if stop, err = resolve(sl.High, -length-1); err != nil {
			return nil, err
		}
		start = clamp(start, -1, length-1)
		stop = clamp(stop, -1, length-1)
		if sl.High == nil {
			stop = -1
		}
	}

	var idxs []int
	if step > 0 {
		for i := start; i < stop; i += step {
			idxs = append(idxs, i)
		}
	} else {
		for i := start; i > stop; i += step {
			idxs = append(idxs, i)
		}
	}
	if err := e.bulk(len(idxs)); err != nil {
		return nil, err
	}
	return idxs, nil
}

func (e *evaluator) binaryOp(op string, l, r Value) (Value, error) {
	// Set algebra first: & | ^ - are overloaded for sets.
	if ls, ok := l.(*Set); ok {
		if rs, ok := r.(*Set); ok {
			switch op {
			case "&", "|", "^", "-":
				return setOp(op, ls, rs), nil
			}
		}
	}

	switch op {
	case "+":
		return e.add(l, r)
	case "*":
		return e.mul(l, r)
	case "-", "/", "//", "%", "**":
		return arith(op, l, r)
	case "&", "|", "^", "<<", ">>":
		li, lok := asInt(l)
		ri, rok := asInt(r)
		if !lok || !rok {
			return nil, typeErr(op, l, r)
		}
		switch op {
		case "&":
			return Int(li & ri), nil
		case "|":
			return Int(li | ri), nil
		case "^":
			return Int(li ^ ri), nil
		case "<<":
			if ri < 0 || ri > 62 {
				return nil, runtimeErrf("shift count out of range")
			}
			return Int(li << uint(ri)), nil
		case ">>":
			if ri < 0 {
				return nil, runtimeErrf("negative shift count")
			}
			if ri > 62 {
				ri = 62
			}
			return Int(li >> uint(ri)), nil
		}
	}
	return nil, runtimeErrf("unsupported operator %s", op)
}

func typeErr(op string, l, r Value) *Error {
	return runtimeErrf("unsupported operand type(s) for %s: '%s' and '%s'", op, l.TypeName(), r.TypeName())
}

func (e *evaluator) add(l, r Value) (Value, error) {
	if isNumber(l) && isNumber(r) {
		return arith("+", l, r)
	}
	switch x := l.(type) {
	case Str:
		if y, ok := r.(Str); ok {
			return x + y, nil
		}
	case *List:
		if y, ok := r.(*List); ok {
			if err := e.bulk(len(x.Items) + len(y.Items)); err != nil {
				return nil, err
			}
			items := make([]Value, 0, len(x.Items)+len(y.Items))
			items = append(items, x.Items...)
			items = append(items, y.Items...)
			return &List{Items: items}, nil
		}
	case Tuple:
		if y, ok := r.(Tuple); ok {
			out := make(Tuple, 0, len(x)+len(y))
			return append(append(out, x...), y...), nil
		}
	case Bytes:
		if y, ok := r.(Bytes); ok {
			return Bytes(string(x) + string(y)), nil
		}
	}
	return nil, typeErr("+", l, r)
}

func (e *evaluator) mul(l, r Value) (Value, error) {
	if isNumber(l) && isNumber(r) {
		return arith("*", l, r)
	}
	// seq * int and int * seq
	if n, ok := asInt(l); ok {
		return e.repeat(r, n)
	}
	if n, ok := asInt(r); ok {
		return e.repeat(l, n)
	}
	return nil, typeErr("*", l, r)
}

func (e *evaluator) repeat(v Value, n int64) (Value, error) {
	if n < 0 {
		n = 0
	}
	switch x := v.(type) {
	case Str:
		if err := e.repeatBudget(n, len(x)); err != nil {
			return nil, err
		}
		return Str(strings.Repeat(string(x), int(n))), nil
	case Bytes:
		if err := e.repeatBudget(n, len(x)); err != nil {
			return nil, err
		}
		return Bytes(strings.Repeat(string(x), int(n))), nil
	case *List:
		if err := e.repeatBudget(n, len(x.Items)); err != nil {
			return nil, err
		}
		items := make([]Value, 0, int(n)*len(x.Items))
		for i := int64(0); i < n; i++ {
			items = append(items, x.Items...)
		}
		return &List{Items: items}, nil
	case Tuple:
		if err := e.repeatBudget(n, len(x)); err != nil {
			return nil, err
		}
		out := make(Tuple, 0, int(n)*len(x))
		for i := int64(0); i < n; i++ {
			out = append(out, x...)
		}
		return out, nil
	}
	return nil, typeErr("*", v, Int(n))
}

// repeatBudget charges for n copies of a size-element sequence. The bound is
// checked by division so the product cannot overflow before the check.
func (e *evaluator) repeatBudget(n int64, size int) error {
	if size > 0 && n > int64(e.limits.MaxElems/size) {
		return runtimeErrf("result too large")
	}
	return e.bulk(int(n) * size)
}

func isNumber(v Value) bool {
	_, ok := asFloat(v)
	return ok
}

// arith implements the numeric operators with Python's int/float promotion:
// int op int stays int except for true division.
func arith(op string, l, r Value) (Value, error) {
	li, lInt := l.(Int)
	ri, rInt := r.(Int)
	if lb, ok := l.(Bool); ok {
		n, _ := asInt(lb)
		li, lInt = Int(n), true
	}
	if rb, ok := r.(Bool); ok {
		n, _ := asInt(rb)
		ri, rInt = Int(n), true
	}

	if lInt && rInt {
		a, b := int64(li), int64(ri)
		switch op {
		case "+":
			return Int(a + b), nil
		case "-":
			return Int(a - b), nil
		case "*":
			return Int(a * b), nil
		case "/":
			if b == 0 {
				return nil, runtimeErrf("division by zero")
			}
			return Float(float64(a) / float64(b)), nil
		case "//":
			if b == 0 {
				return nil, runtimeErrf("integer division or modulo by zero")
			}
			return Int(floorDiv(a, b)), nil
		case "%":
			if b == 0 {
				return nil, runtimeErrf("integer division or modulo by zero")
			}
			return Int(a - floorDiv(a, b)*b), nil
		case "**":
			return intPow(a, b)
		}
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, typeErr(op, l, r)
	}
	switch op {
	case "+":
		return Float(lf + rf), nil
	case "-":
		return Float(lf - rf), nil
	case "*":
		return Float(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, runtimeErrf("float division by zero")
		}
		return Float(lf / rf), nil
	case "//":
		if rf == 0 {
			return nil, runtimeErrf("float floor division by zero")
		}
		return Float(math.Floor(lf / rf)), nil
	case "%":
		if rf == 0 {
			return nil, runtimeErrf("float modulo by zero")
		}
		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return Float(m), nil
	case "**":
		return Float(math.Pow(lf, rf)), nil
	}
	return nil, runtimeErrf("unsupported operator %s", op)
}

// floorDiv is Python's //, rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func intPow(base, exp int64) (Value, error) {
	if exp < 0 {
		return Float(math.Pow(float64(base), float64(exp))), nil
	}
	const limit = int64(1) << 62
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		if result > limit/maxInt64(absInt64(base), 1) && base != 0 && base != 1 && base != -1 {
			return nil, runtimeErrf("integer overflow in **")
		}
		result *= base
	}
	return Int(result), nil
}

func absInt64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// iterate materializes v's elements for container constructors and builtins.
func (e *evaluator) iterate(v Value) ([]Value, error) {
	switch x := v.(type) {
	case *List:
		return append([]Value(nil), x.Items...), nil
	case Tuple:
		return append([]Value(nil), x...), nil
	case *Set:
		return append([]Value(nil), x.Items...), nil
	case *Dict:
		// Iterating a dict yields its keys.
		return append([]Value(nil), x.Keys...), nil
	case Str:
		out := make([]Value, 0, utf8.RuneCountInString(string(x)))
		for _, r := range string(x) {
			out = append(out, Str(string(r)))
		}
		if err := e.bulk(len(out)); err != nil {
			return nil, err
		}
		return out, nil
	case Bytes:
		out := make([]Value, len(x))
		for i, b := range x {
			out[i] = Int(b)
		}
		return out, nil
	case *ByteArray:
		out := make([]Value, len(x.B))
		for i, b := range x.B {
			out[i] = Int(b)
		}
		return out, nil
	case Range:
		n := x.Len()
		if err := e.bulk(int(n)); err != nil {
			return nil, err
		}
		out := make([]Value, n)
		for i := int64(0); i < n; i++ {
			out[i] = Int(x.At(i))
		}
		return out, nil
	}
	return nil, runtimeErrf("'%s' object is not iterable", v.TypeName())
}

func newSet(items []Value) *Set {
	s := &Set{}
	for _, v := range items {
		if !containsValue(s.Items, v) {
			s.Items = append(s.Items, v)
		}
	}
	return s
}

func dictSet(d *Dict, k, v Value) {
	if i, found := findKey(d, k); found {
		d.Vals[i] = v
		return
	}
	d.Keys = append(d.Keys, k)
	d.Vals = append(d.Vals, v)
}

func setOp(op string, a, b *Set) *Set {
	out := &Set{}
	switch op {
	case "&":
		for _, v := range a.Items {
			if containsValue(b.Items, v) {
				out.Items = append(out.Items, v)
			}
		}
	case "|":
		out = newSet(append(append([]Value(nil), a.Items...), b.Items...))
	case "-":
		for _, v := range a.Items {
			if !containsValue(b.Items, v) {
				out.Items = append(out.Items, v)
			}
		}
	case "^":
		for _, v := range a.Items {
			if !containsValue(b.Items, v) {
				out.Items = append(out.Items, v)
			}
		}
		for _, v := range b.Items {
			if !containsValue(a.Items, v) {
				out.Items = append(out.Items, v)
			}
		}
	}
	return out
}

func (e *evaluator) evalCall(x *CallNode) (Value, error) {
	args, err := e.evalAll(x.Args)
	if err != nil {
		return nil, err
	}
	switch callee := x.Callee.(type) {
	case *NameNode:
		return e.callBuiltin(callee.Ident, args)
	case *AttributeNode:
		recv, err := e.eval(callee.Recv)
		if err != nil {
			return nil, err
		}
		return e.callMethod(recv, callee.Name, args)
	}
	return nil, runtimeErrf("invalid call target")
}

func fmtArgCount(name string, got int, want string) *Error {
	return runtimeErrf("%s() takes %s arguments (%d given)", name, want, got)
}
