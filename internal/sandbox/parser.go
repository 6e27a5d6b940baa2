package sandbox

import "fmt"

// parser is a Pratt parser over the restricted grammar. It recognizes the
// full expression surface; which constructs are actually permitted is the
// validator's decision, so that rejections carry policy diagnostics rather
// than parse errors.
type parser struct {
	toks []token
	i    int
}

// parseExpr parses src as a single expression.
func parseExpr(src string) (Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.at(tokEOF) {
		return nil, p.errf("unexpected %s after expression", p.peek().Type)
	}
	return e, nil
}

// parseStatements parses src as a sequence of statements separated by
// newlines or semicolons.
func parseStatements(src string) (*ProgramNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	prog := &ProgramNode{}
	for {
		p.skipSeparators()
		if p.at(tokEOF) {
			break
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, st)
		if !p.at(tokEOF) && !p.at(tokNewline) && !p.at(tokSemi) {
			return nil, p.errf("unexpected %s after statement", p.peek().Type)
		}
	}
	if len(prog.Stmts) == 0 {
		return nil, &Error{Kind: EmptyInput, Reason: "empty expression"}
	}
	return prog, nil
}

func newParser(src string) (*parser, error) {
	toks, err := newLexer(src).scan()
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

func (p *parser) errf(format string, args ...any) error {
	return &Error{Kind: SyntaxRejected, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() token    { return p.toks[p.i] }
func (p *parser) at(t tokenType) bool { return p.peek().Type == t }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if p.peek().Type != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) match(t tokenType) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(t tokenType) (token, error) {
	if !p.at(t) {
		return token{}, p.errf("expected %s, found %s", t, p.peek().Type)
	}
	return p.advance(), nil
}

func (p *parser) skipNewlines() {
	for p.at(tokNewline) {
		p.advance()
	}
}

func (p *parser) skipSeparators() {
	for p.at(tokNewline) || p.at(tokSemi) {
		p.advance()
	}
}

// statement parses one assignment or expression statement.
func (p *parser) statement() (Node, error) {
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.match(tokAssign) {
		return &ExprStmtNode{X: e}, nil
	}
	switch e.(type) {
	case *NameNode, *SubscriptNode:
	default:
		return nil, p.errf("cannot assign to %s", e.NodeKind())
	}
	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &AssignNode{Target: e, Value: rhs}, nil
}

// Binding powers, loosest first, mirroring Python's operator table.
const (
	bpOr = iota + 1
	bpAnd
	bpNot
	bpCompare
	bpBitOr
	bpBitXor
	bpBitAnd
	bpShift
	bpAdd
	bpMul
	bpUnary
	bpPower
)

func infixBP(t tokenType) (int, bool) {
	switch t {
	case tokOr:
		return bpOr, true
	case tokAnd:
		return bpAnd, true
	case tokEq, tokNotEq, tokLt, tokLtEq, tokGt, tokGtEq, tokIn, tokIs, tokNot:
		return bpCompare, true
	case tokPipe:
		return bpBitOr, true
	case tokCaret:
		return bpBitXor, true
	case tokAmp:
		return bpBitAnd, true
	case tokLShift, tokRShift:
		return bpShift, true
	case tokPlus, tokMinus:
		return bpAdd, true
	case tokStar, tokSlash, tokDoubleSlash, tokPercent:
		return bpMul, true
	case tokDoubleStar:
		return bpPower, true
	}
	return 0, false
}

var binaryOps = map[tokenType]string{
	tokPlus:        "+",
	tokMinus:       "-",
	tokStar:        "*",
	tokSlash:       "/",
	tokDoubleSlash: "//",
	tokPercent:     "%",
	tokDoubleStar:  "**",
	tokAmp:         "&",
	tokPipe:        "|",
	tokCaret:       "^",
	tokLShift:      "<<",
	tokRShift:      ">>",
}

var compareOps = map[tokenType]string{
	tokEq:    "==",
	tokNotEq: "!=",
	tokLt:    "<",
	tokLtEq:  "<=",
	tokGt:    ">",
	tokGtEq:  ">=",
}

func (p *parser) expression() (Node, error) { return p.binary(0) }

func (p *parser) binary(minBP int) (Node, error) {
	lhs, err := p.unary(minBP)
	if err != nil {
		return nil, err
	}
	for {
		bp, ok := infixBP(p.peek().Type)
		if !ok || bp < minBP {
			return lhs, nil
		}
		// "not" is infix only as part of "is not"/"not in".
		if p.at(tokNot) {
			bp = bpCompare
		}
		switch {
		case bp == bpCompare:
			lhs, err = p.comparison(lhs)
		case bp == bpOr || bp == bpAnd:
			lhs, err = p.boolChain(lhs)
		default:
			tt := p.advance().Type
			next := bp + 1
			if tt == tokDoubleStar { // right-associative
				next = bp
			}
			var rhs Node
			rhs, err = p.binary(next)
			if err == nil {
				lhs = &BinaryNode{Op: binaryOps[tt], L: lhs, R: rhs}
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

// comparison consumes a chain of comparison operators: a < b <= c.
func (p *parser) comparison(first Node) (Node, error) {
	cmp := &CompareNode{First: first}
	for {
		var op string
		switch {
		case p.at(tokIs):
			p.advance()
			op = "is"
			if p.match(tokNot) {
				op = "is not"
			}
		case p.at(tokIn):
			p.advance()
			op = "in"
		case p.at(tokNot):
			p.advance()
			if _, err := p.expect(tokIn); err != nil {
				return nil, p.errf("expected 'in' after 'not' in comparison")
			}
			op = "not in"
		default:
			tt := p.peek().Type
			s, ok := compareOps[tt]
			if !ok {
				if len(cmp.Ops) == 0 {
					return first, nil
				}
				return cmp, nil
			}
			p.advance()
			op = s
		}
		operand, err := p.binary(bpCompare + 1)
		if err != nil {
			return nil, err
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Rest = append(cmp.Rest, operand)
	}
}

// boolChain consumes a homogeneous and/or chain, grouping mixed chains by
// precedence the way Python does.
func (p *parser) boolChain(first Node) (Node, error) {
	tt := p.peek().Type
	op := "and"
	bp := bpAnd
	if tt == tokOr {
		op = "or"
		bp = bpOr
	}
	chain := &BoolOpNode{Op: op, Vals: []Node{first}}
	for p.at(tt) {
		p.advance()
		operand, err := p.binary(bp + 1)
		if err != nil {
			return nil, err
		}
		chain.Vals = append(chain.Vals, operand)
	}
	return chain, nil
}

func (p *parser) unary(minBP int) (Node, error) {
	switch p.peek().Type {
	case tokNot:
		if minBP > bpNot {
			break
		}
		p.advance()
		x, err := p.binary(bpNot)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: "not", X: x}, nil
	case tokMinus, tokPlus, tokTilde:
		op := map[tokenType]string{tokMinus: "-", tokPlus: "+", tokTilde: "~"}[p.advance().Type]
		x, err := p.binary(bpUnary)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, X: x}, nil
	}
	return p.postfix()
}

// postfix parses a primary followed by call, subscript and attribute suffixes.
func (p *parser) postfix() (Node, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(tokLParen):
			args, err := p.exprList(tokRParen)
			if err != nil {
				return nil, err
			}
			e = &CallNode{Callee: e, Args: args}
		case p.match(tokLBracket):
			idx, err := p.subscriptIndex()
			if err != nil {
				return nil, err
			}
			e = &SubscriptNode{Recv: e, Index: idx}
		case p.match(tokDot):
			name, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			e = &AttributeNode{Recv: e, Name: name.Text}
		default:
			return e, nil
		}
	}
}

// subscriptIndex parses the inside of "[...]": a plain index or a slice with
// optional low/high/step parts.
func (p *parser) subscriptIndex() (Node, error) {
	sl := &SliceNode{}
	isSlice := false

	if !p.at(tokColon) {
		low, err := p.expression()
		if err != nil {
			return nil, err
		}
		sl.Low = low
	}
	if p.match(tokColon) {
		isSlice = true
		if !p.at(tokColon) && !p.at(tokRBracket) {
			high, err := p.expression()
			if err != nil {
				return nil, err
			}
			sl.High = high
		}
		if p.match(tokColon) && !p.at(tokRBracket) {
			step, err := p.expression()
			if err != nil {
				return nil, err
			}
			sl.Step = step
		}
	}
	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	if isSlice {
		return sl, nil
	}
	return sl.Low, nil
}

func (p *parser) primary() (Node, error) {
	t := p.peek()
	switch t.Type {
	case tokInt, tokFloat, tokString, tokBytes:
		p.advance()
		return &LiteralNode{Val: t.Val}, nil
	case tokNone:
		p.advance()
		return &LiteralNode{Val: None{}}, nil
	case tokTrue:
		p.advance()
		return &LiteralNode{Val: Bool(true)}, nil
	case tokFalse:
		p.advance()
		return &LiteralNode{Val: Bool(false)}, nil
	case tokIdent:
		p.advance()
		return &NameNode{Ident: t.Text}, nil
	case tokLParen:
		return p.parenOrTuple()
	case tokLBracket:
		p.advance()
		elems, err := p.exprList(tokRBracket)
		if err != nil {
			return nil, err
		}
		return &ListNode{Elems: elems}, nil
	case tokLBrace:
		return p.setOrDict()
	}
	return nil, p.errf("unexpected %s", t.Type)
}

// parenOrTuple parses "(expr)", "()" and tuple displays "(a,)", "(a, b)".
func (p *parser) parenOrTuple() (Node, error) {
	p.advance() // '('
	if p.match(tokRParen) {
		return &TupleNode{}, nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.at(tokComma) {
		_, err := p.expect(tokRParen)
		return first, err
	}
	elems := []Node{first}
	for p.match(tokComma) {
		if p.at(tokRParen) {
			break
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &TupleNode{Elems: elems}, nil
}

// setOrDict parses "{}" (empty dict), set displays and dict displays.
func (p *parser) setOrDict() (Node, error) {
	p.advance() // '{'
	if p.match(tokRBrace) {
		return &DictNode{}, nil
	}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(tokColon) {
		d := &DictNode{}
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		d.Keys = append(d.Keys, first)
		d.Vals = append(d.Vals, val)
		for p.match(tokComma) {
			if p.at(tokRBrace) {
				break
			}
			k, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokColon); err != nil {
				return nil, err
			}
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			d.Keys = append(d.Keys, k)
			d.Vals = append(d.Vals, v)
		}
		_, err = p.expect(tokRBrace)
		return d, err
	}
	elems := []Node{first}
	for p.match(tokComma) {
		if p.at(tokRBrace) {
			break
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &SetNode{Elems: elems}, nil
}

// exprList parses a comma-separated expression list up to the closing token.
func (p *parser) exprList(closer tokenType) ([]Node, error) {
	var elems []Node
	if p.match(closer) {
		return elems, nil
	}
	for {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.match(tokComma) {
			if p.match(closer) {
				return elems, nil
			}
			continue
		}
		if _, err := p.expect(closer); err != nil {
			return nil, err
		}
		return elems, nil
	}
}
