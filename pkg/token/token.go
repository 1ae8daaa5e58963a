package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	// Grouping
	LeftParen Kind = iota
	RightParen
	LeftCurly
	RightCurly

	// Operators and punctuation
	Plus
	Minus
	Star
	DoubleStar
	Slash
	Equal
	DoubleEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	Comma
	Semicolon

	// Keywords
	Print
	Let
	Mut
	Not
	Fn
	For
	If
	While
	Else
	Return
	True
	False
	And
	Or
	From
	To
	Step
	Get
	Null

	Identifier
	Number

	EOF
)

var kindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	LeftCurly:    "LEFT_CURLY",
	RightCurly:   "RIGHT_CURLY",
	Plus:         "PLUS",
	Minus:        "MINUS",
	Star:         "STAR",
	DoubleStar:   "DOUBLE_STAR",
	Slash:        "SLASH",
	Equal:        "EQUAL",
	DoubleEqual:  "DOUBLE_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
	Comma:        "COMMA",
	Semicolon:    "SEMICOLON",
	Print:        "PRINT",
	Let:          "LET",
	Mut:          "MUT",
	Not:          "NOT",
	Fn:           "FN",
	For:          "FOR",
	If:           "IF",
	While:        "WHILE",
	Else:         "ELSE",
	Return:       "RETURN",
	True:         "TRUE",
	False:        "FALSE",
	And:          "AND",
	Or:           "OR",
	From:         "FROM",
	To:           "TO",
	Step:         "STEP",
	Get:          "GET",
	Null:         "NULL",
	Identifier:   "IDENTIFIER",
	Number:       "NUMBER",
	EOF:          "EOF",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

var keywords = map[string]Kind{
	"print":  Print,
	"let":    Let,
	"mut":    Mut,
	"not":    Not,
	"fn":     Fn,
	"for":    For,
	"if":     If,
	"while":  While,
	"else":   Else,
	"return": Return,
	"true":   True,
	"false":  False,
	"and":    And,
	"or":     Or,
	"from":   From,
	"to":     To,
	"step":   Step,
	"get":    Get,
	"null":   Null,
}

// LookupIdent maps a scanned word to its keyword kind, or Identifier.
func LookupIdent(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return Identifier
}

var symbols = map[Kind]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftCurly:    "{",
	RightCurly:   "}",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	DoubleStar:   "**",
	Slash:        "/",
	Equal:        "=",
	DoubleEqual:  "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Comma:        ",",
	Semicolon:    ";",
}

// Symbol returns the source spelling of a punctuation or keyword kind.
func (k Kind) Symbol() string {
	if sym, ok := symbols[k]; ok {
		return sym
	}
	for word, kind := range keywords {
		if kind == k {
			return word
		}
	}
	return ""
}

// Token is a single lexical unit. Literal is only meaningful for Number tokens.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal float64
	Line    int
}

func (t Token) String() string {
	if t.Kind == Number {
		return fmt.Sprintf("%s %q %g (line %d)", t.Kind, t.Lexeme, t.Literal, t.Line)
	}
	return fmt.Sprintf("%s %q (line %d)", t.Kind, t.Lexeme, t.Line)
}
