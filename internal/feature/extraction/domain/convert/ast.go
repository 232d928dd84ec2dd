package convert

import "github.com/shopspring/decimal"

// node is one element of a parsed conversion expression.
type node interface {
	eval(env *scope) (value, error)
}

// numberLit is a numeric literal such as 1000 or 0.5.
type numberLit struct {
	v decimal.Decimal
}

// variable refers to a name bound in the scope. Only x is bound.
type variable struct {
	name string
}

// call invokes a named unit helper with exactly one argument.
type call struct {
	fn  string
	arg node
}

// binary is an arithmetic operation over two operands.
type binary struct {
	op          byte
	left, right node
}

// negate is unary minus.
type negate struct {
	operand node
}

// value is the dynamic result of evaluating a node: either text or a decimal.
type value struct {
	num   decimal.Decimal
	text  string
	isNum bool
}

func numValue(d decimal.Decimal) value { return value{num: d, isNum: true} }
func textValue(s string) value         { return value{text: s} }

// String renders v the way it would be shown in a page.
func (v value) String() string {
	if v.isNum {
		return v.num.String()
	}
	return v.text
}
