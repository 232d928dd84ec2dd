package convert

import "github.com/shopspring/decimal"

type scope struct {
	x value
}

func (n numberLit) eval(*scope) (value, error) {
	return numValue(n.v), nil
}

func (n variable) eval(env *scope) (value, error) {
	return env.x, nil
}

func (n call) eval(env *scope) (value, error) {
	arg, err := n.arg.eval(env)
	if err != nil {
		return value{}, err
	}
	return builtins[n.fn](arg)
}

func (n negate) eval(env *scope) (value, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return value{}, err
	}
	d, err := v.number()
	if err != nil {
		return value{}, err
	}
	return numValue(d.Neg()), nil
}

func (n binary) eval(env *scope) (value, error) {
	lv, err := n.left.eval(env)
	if err != nil {
		return value{}, err
	}
	rv, err := n.right.eval(env)
	if err != nil {
		return value{}, err
	}
	l, err := lv.number()
	if err != nil {
		return value{}, err
	}
	r, err := rv.number()
	if err != nil {
		return value{}, err
	}
	switch n.op {
	case '+':
		return numValue(l.Add(r)), nil
	case '-':
		return numValue(l.Sub(r)), nil
	case '*':
		return numValue(l.Mul(r)), nil
	case '/':
		if r.IsZero() {
			return value{}, errNoValue
		}
		return numValue(l.Div(r)), nil
	}
	return value{}, errNoValue
}

// number coerces v for arithmetic; text operands are parsed like final results.
func (v value) number() (decimal.Decimal, error) {
	if v.isNum {
		return v.num, nil
	}
	return parseNumber(v.text)
}
