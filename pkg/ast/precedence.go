package ast

import "github.com/leapstack-labs/labelsugar/pkg/token"

// Operator precedence levels, lowest first. The parser uses the binary levels
// as binding powers; the printer compares levels to decide where parentheses
// are required.
const (
	PrecLowest = iota
	PrecSequence
	PrecAssign // assignment, arrow functions, yield
	PrecConditional
	PrecNullish
	PrecLogicalOr
	PrecLogicalAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecExponent
	PrecPrefix
	PrecPostfix
	PrecNew
	PrecCall
	PrecPrimary
)

// BinaryPrecedence returns the precedence of a binary or logical operator,
// or PrecLowest if op is not one.
func BinaryPrecedence(op token.TokenType) int {
	switch op {
	case token.NULLISH:
		return PrecNullish
	case token.LOR:
		return PrecLogicalOr
	case token.LAND:
		return PrecLogicalAnd
	case token.PIPE:
		return PrecBitOr
	case token.CARET:
		return PrecBitXor
	case token.AMP:
		return PrecBitAnd
	case token.EQ, token.NE, token.SEQ, token.SNE:
		return PrecEquality
	case token.LT, token.GT, token.LE, token.GE, token.INSTANCEOF, token.IN:
		return PrecRelational
	case token.SHL, token.SHR, token.USHR:
		return PrecShift
	case token.PLUS, token.MINUS:
		return PrecAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return PrecMultiplicative
	case token.POW:
		return PrecExponent
	default:
		return PrecLowest
	}
}

// Precedence returns the precedence level of an expression node.
func Precedence(e Expr) int {
	switch n := e.(type) {
	case *SeqExpr:
		return PrecSequence
	case *AssignExpr, *ArrowFunc, *YieldExpr, *AssignPattern:
		return PrecAssign
	case *CondExpr:
		return PrecConditional
	case *BinaryExpr:
		return BinaryPrecedence(n.Op)
	case *UnaryExpr, *AwaitExpr:
		return PrecPrefix
	case *UpdateExpr:
		if n.Prefix {
			return PrecPrefix
		}
		return PrecPostfix
	case *NewExpr:
		if len(n.Args) == 0 {
			return PrecNew
		}
		return PrecCall
	case *CallExpr, *MemberExpr:
		return PrecCall
	case *TemplateLit:
		if n.Tag != nil {
			return PrecCall
		}
		return PrecPrimary
	default:
		return PrecPrimary
	}
}
