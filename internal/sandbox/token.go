package sandbox

import "fmt"

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokInt
	tokFloat
	tokString
	tokBytes
	tokIdent

	// keywords
	tokAnd
	tokOr
	tokNot
	tokIn
	tokIs
	tokNone
	tokTrue
	tokFalse

	// operators and delimiters
	tokPlus
	tokMinus
	tokStar
	tokDoubleStar
	tokSlash
	tokDoubleSlash
	tokPercent
	tokAmp
	tokPipe
	tokCaret
	tokTilde
	tokLShift
	tokRShift
	tokEq
	tokNotEq
	tokLt
	tokLtEq
	tokGt
	tokGtEq
	tokAssign
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokSemi
	tokDot
)

var keywords = map[string]tokenType{
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"in":    tokIn,
	"is":    tokIs,
	"None":  tokNone,
	"True":  tokTrue,
	"False": tokFalse,
}

var tokenNames = map[tokenType]string{
	tokEOF:         "end of input",
	tokNewline:     "newline",
	tokInt:         "integer",
	tokFloat:       "float",
	tokString:      "string",
	tokBytes:       "bytes literal",
	tokIdent:       "identifier",
	tokAnd:         "'and'",
	tokOr:          "'or'",
	tokNot:         "'not'",
	tokIn:          "'in'",
	tokIs:          "'is'",
	tokNone:        "'None'",
	tokTrue:        "'True'",
	tokFalse:       "'False'",
	tokPlus:        "'+'",
	tokMinus:       "'-'",
	tokStar:        "'*'",
	tokDoubleStar:  "'**'",
	tokSlash:       "'/'",
	tokDoubleSlash: "'//'",
	tokPercent:     "'%'",
	tokAmp:         "'&'",
	tokPipe:        "'|'",
	tokCaret:       "'^'",
	tokTilde:       "'~'",
	tokLShift:      "'<<'",
	tokRShift:      "'>>'",
	tokEq:          "'=='",
	tokNotEq:       "'!='",
	tokLt:          "'<'",
	tokLtEq:        "'<='",
	tokGt:          "'>'",
	tokGtEq:        "'>='",
	tokAssign:      "'='",
	tokLParen:      "'('",
	tokRParen:      "')'",
	tokLBracket:    "'['",
	tokRBracket:    "']'",
	tokLBrace:      "'{'",
	tokRBrace:      "'}'",
	tokComma:       "','",
	tokColon:       "':'",
	tokSemi:        "';'",
	tokDot:         "'.'",
}

func (t tokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

type token struct {
	Type tokenType
	Text string // identifier name or literal text
	Val  Value  // decoded literal for Int/Float/String/Bytes
	Pos  int    // byte offset, for error messages
}
