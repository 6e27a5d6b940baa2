package sandbox

import (
	"fmt"
	"strconv"
	"strings"
)

// lexer turns a snippet into tokens. The surface syntax is the Python
// expression subset the trainer accepts; anything outside it produces a
// syntax rejection before validation ever runs.
type lexer struct {
	src string
	cur int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) errf(format string, args ...any) error {
	return &Error{Kind: SyntaxRejected, Reason: fmt.Sprintf(format, args...)}
}

func (l *lexer) scan() ([]token, error) {
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Type == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek() byte {
	if l.cur >= len(l.src) {
		return 0
	}
	return l.src[l.cur]
}

func (l *lexer) peekAt(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *lexer) next() (token, error) {
	for l.cur < len(l.src) && (l.src[l.cur] == ' ' || l.src[l.cur] == '\t' || l.src[l.cur] == '\r') {
		l.cur++
	}
	start := l.cur
	if l.cur >= len(l.src) {
		return token{Type: tokEOF, Pos: start}, nil
	}

	c := l.src[l.cur]
	switch {
	case c == '\n':
		l.cur++
		return token{Type: tokNewline, Pos: start}, nil
	case c >= '0' && c <= '9', c == '.' && isDigit(l.peekAt(1)):
		return l.scanNumber()
	case c == '\'' || c == '"':
		return l.scanString(false)
	case c == 'b' && (l.peekAt(1) == '\'' || l.peekAt(1) == '"'):
		l.cur++
		return l.scanString(true)
	case isIdentStart(c):
		return l.scanIdent(), nil
	}

	two := func(tt tokenType) (token, error) {
		l.cur += 2
		return token{Type: tt, Pos: start}, nil
	}
	one := func(tt tokenType) (token, error) {
		l.cur++
		return token{Type: tt, Pos: start}, nil
	}

	switch c {
	case '*':
		if l.peekAt(1) == '*' {
			return two(tokDoubleStar)
		}
		return one(tokStar)
	case '/':
		if l.peekAt(1) == '/' {
			return two(tokDoubleSlash)
		}
		return one(tokSlash)
	case '<':
		switch l.peekAt(1) {
		case '<':
			return two(tokLShift)
		case '=':
			return two(tokLtEq)
		}
		return one(tokLt)
	case '>':
		switch l.peekAt(1) {
		case '>':
			return two(tokRShift)
		case '=':
			return two(tokGtEq)
		}
		return one(tokGt)
	case '=':
		if l.peekAt(1) == '=' {
			return two(tokEq)
		}
		return one(tokAssign)
	case '!':
		if l.peekAt(1) == '=' {
			return two(tokNotEq)
		}
		return token{}, l.errf("unexpected character %q", c)
	case '+':
		return one(tokPlus)
	case '-':
		return one(tokMinus)
	case '%':
		return one(tokPercent)
	case '&':
		return one(tokAmp)
	case '|':
		return one(tokPipe)
	case '^':
		return one(tokCaret)
	case '~':
		return one(tokTilde)
	case '(':
		return one(tokLParen)
	case ')':
		return one(tokRParen)
	case '[':
		return one(tokLBracket)
	case ']':
		return one(tokRBracket)
	case '{':
		return one(tokLBrace)
	case '}':
		return one(tokRBrace)
	case ',':
		return one(tokComma)
	case ':':
		return one(tokColon)
	case ';':
		return one(tokSemi)
	case '.':
		return one(tokDot)
	}
	return token{}, l.errf("unexpected character %q", c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func (l *lexer) scanIdent() token {
	start := l.cur
	for l.cur < len(l.src) && isIdentPart(l.src[l.cur]) {
		l.cur++
	}
	name := l.src[start:l.cur]
	if tt, ok := keywords[name]; ok {
		return token{Type: tt, Text: name, Pos: start}
	}
	return token{Type: tokIdent, Text: name, Pos: start}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.cur
	isFloat := false
	for l.cur < len(l.src) {
		c := l.src[l.cur]
		switch {
		case isDigit(c) || c == '_':
			l.cur++
		case c == '.' && !isFloat:
			isFloat = true
			l.cur++
		case (c == 'e' || c == 'E') && l.cur > start:
			isFloat = true
			l.cur++
			if l.peek() == '+' || l.peek() == '-' {
				l.cur++
			}
		default:
			goto done
		}
	}
done:
	text := strings.ReplaceAll(l.src[start:l.cur], "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, l.errf("bad number literal %q", l.src[start:l.cur])
		}
		return token{Type: tokFloat, Text: text, Val: Float(f), Pos: start}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, l.errf("bad number literal %q", l.src[start:l.cur])
	}
	return token{Type: tokInt, Text: text, Val: Int(n), Pos: start}, nil
}

func (l *lexer) scanString(isBytes bool) (token, error) {
	start := l.cur
	quote := l.src[l.cur]
	l.cur++
	var b strings.Builder
	for {
		if l.cur >= len(l.src) || l.src[l.cur] == '\n' {
			return token{}, l.errf("unterminated string literal")
		}
		c := l.src[l.cur]
		if c == quote {
			l.cur++
			break
		}
		if c == '\\' {
			l.cur++
			if l.cur >= len(l.src) {
				return token{}, l.errf("unterminated string literal")
			}
			esc := l.src[l.cur]
			l.cur++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '\\', '\'', '"':
				b.WriteByte(esc)
			case 'x':
				if l.cur+2 > len(l.src) {
					return token{}, l.errf("truncated \\x escape")
				}
				n, err := strconv.ParseUint(l.src[l.cur:l.cur+2], 16, 8)
				if err != nil {
					return token{}, l.errf("bad \\x escape")
				}
				b.WriteByte(byte(n))
				l.cur += 2
			default:
				return token{}, l.errf("unsupported escape \\%c", esc)
			}
			continue
		}
		b.WriteByte(c)
		l.cur++
	}
	if isBytes {
		return token{Type: tokBytes, Text: b.String(), Val: Bytes([]byte(b.String())), Pos: start}, nil
	}
	return token{Type: tokString, Text: b.String(), Val: Str(b.String()), Pos: start}, nil
}
