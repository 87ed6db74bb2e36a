// Package token defines the token types for JavaScript parsing.
//
// Punctuators and operators come first, keywords last, so range checks such as
// IsKeyword and IsAssignOp stay cheap.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT    // count, $, _setCount
	NUMBER   // 123, 4.5, 0xff, 1e10
	STRING   // 'a', "b"
	TEMPLATE // `a ${b} c`, raw text including backticks
	REGEXP   // /ab+c/gi

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	ELLIPSIS  // ...
	QUESTION  // ?
	OPTCHAIN  // ?.
	COLON     // :
	ARROW     // =>

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	POW      // **
	INC      // ++
	DEC      // --
	SHL      // <<
	SHR      // >>
	USHR     // >>>
	AMP      // &
	PIPE     // |
	CARET    // ^
	NOT      // !
	TILDE    // ~
	LAND     // &&
	LOR      // ||
	NULLISH  // ??
	EQ       // ==
	NE       // !=
	SEQ      // ===
	SNE      // !==
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=

	// Assignment operators
	ASSIGN         // =
	ADD_ASSIGN     // +=
	SUB_ASSIGN     // -=
	MUL_ASSIGN     // *=
	DIV_ASSIGN     // /=
	MOD_ASSIGN     // %=
	POW_ASSIGN     // **=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	USHR_ASSIGN    // >>>=
	AND_ASSIGN     // &=
	OR_ASSIGN      // |=
	XOR_ASSIGN     // ^=
	LAND_ASSIGN    // &&=
	LOR_ASSIGN     // ||=
	NULLISH_ASSIGN // ??=

	// Keywords (alphabetical)
	AWAIT
	BREAK
	CASE
	CATCH
	CLASS
	CONST
	CONTINUE
	DEBUGGER
	DEFAULT
	DELETE
	DO
	ELSE
	EXPORT
	EXTENDS
	FALSE
	FINALLY
	FOR
	FUNCTION
	IF
	IMPORT
	IN
	INSTANCEOF
	LET
	NEW
	NULL
	RETURN
	SUPER
	SWITCH
	THIS
	THROW
	TRUE
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	YIELD
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	TEMPLATE: "TEMPLATE",
	REGEXP:   "REGEXP",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	SEMICOLON: ";",
	COMMA:     ",",
	DOT:       ".",
	ELLIPSIS:  "...",
	QUESTION:  "?",
	OPTCHAIN:  "?.",
	COLON:     ":",
	ARROW:     "=>",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	POW:     "**",
	INC:     "++",
	DEC:     "--",
	SHL:     "<<",
	SHR:     ">>",
	USHR:    ">>>",
	AMP:     "&",
	PIPE:    "|",
	CARET:   "^",
	NOT:     "!",
	TILDE:   "~",
	LAND:    "&&",
	LOR:     "||",
	NULLISH: "??",
	EQ:      "==",
	NE:      "!=",
	SEQ:     "===",
	SNE:     "!==",
	LT:      "<",
	GT:      ">",
	LE:      "<=",
	GE:      ">=",

	ASSIGN:         "=",
	ADD_ASSIGN:     "+=",
	SUB_ASSIGN:     "-=",
	MUL_ASSIGN:     "*=",
	DIV_ASSIGN:     "/=",
	MOD_ASSIGN:     "%=",
	POW_ASSIGN:     "**=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",
	USHR_ASSIGN:    ">>>=",
	AND_ASSIGN:     "&=",
	OR_ASSIGN:      "|=",
	XOR_ASSIGN:     "^=",
	LAND_ASSIGN:    "&&=",
	LOR_ASSIGN:     "||=",
	NULLISH_ASSIGN: "??=",

	AWAIT:      "await",
	BREAK:      "break",
	CASE:       "case",
	CATCH:      "catch",
	CLASS:      "class",
	CONST:      "const",
	CONTINUE:   "continue",
	DEBUGGER:   "debugger",
	DEFAULT:    "default",
	DELETE:     "delete",
	DO:         "do",
	ELSE:       "else",
	EXPORT:     "export",
	EXTENDS:    "extends",
	FALSE:      "false",
	FINALLY:    "finally",
	FOR:        "for",
	FUNCTION:   "function",
	IF:         "if",
	IMPORT:     "import",
	IN:         "in",
	INSTANCEOF: "instanceof",
	LET:        "let",
	NEW:        "new",
	NULL:       "null",
	RETURN:     "return",
	SUPER:      "super",
	SWITCH:     "switch",
	THIS:       "this",
	THROW:      "throw",
	TRUE:       "true",
	TRY:        "try",
	TYPEOF:     "typeof",
	VAR:        "var",
	VOID:       "void",
	WHILE:      "while",
	YIELD:      "yield",
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{}

func init() {
	for t := AWAIT; t <= YIELD; t++ {
		keywords[tokenNames[t]] = t
	}
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a reserved word, the keyword token type is returned.
// Otherwise, IDENT is returned. Contextual words such as of, as, from, async,
// get and set are plain identifiers.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a reserved word.
func IsKeyword(t TokenType) bool {
	return t >= AWAIT && t <= YIELD
}

// IsOperator returns true if the token type is a unary or binary operator.
func IsOperator(t TokenType) bool {
	return t >= PLUS && t <= GE
}

// IsAssignOp returns true for = and every compound assignment operator.
func IsAssignOp(t TokenType) bool {
	return t >= ASSIGN && t <= NULLISH_ASSIGN
}

// BinaryOp returns the binary operator a compound assignment applies,
// e.g. MUL for MUL_ASSIGN. ok is false for plain ASSIGN and non-assignments.
func BinaryOp(t TokenType) (op TokenType, ok bool) {
	switch t {
	case ADD_ASSIGN:
		return PLUS, true
	case SUB_ASSIGN:
		return MINUS, true
	case MUL_ASSIGN:
		return STAR, true
	case DIV_ASSIGN:
		return SLASH, true
	case MOD_ASSIGN:
		return PERCENT, true
	case POW_ASSIGN:
		return POW, true
	case SHL_ASSIGN:
		return SHL, true
	case SHR_ASSIGN:
		return SHR, true
	case USHR_ASSIGN:
		return USHR, true
	case AND_ASSIGN:
		return AMP, true
	case OR_ASSIGN:
		return PIPE, true
	case XOR_ASSIGN:
		return CARET, true
	case LAND_ASSIGN:
		return LAND, true
	case LOR_ASSIGN:
		return LOR, true
	case NULLISH_ASSIGN:
		return NULLISH, true
	}
	return ILLEGAL, false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position

	// NewlineBefore is set when a line terminator separates this token from
	// the previous one. The parser uses it for automatic semicolon insertion.
	NewlineBefore bool
}
