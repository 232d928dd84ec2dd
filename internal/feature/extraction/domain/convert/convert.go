// Package convert turns scraped text fragments into decimal values using
// small admin-authored formulas over a single variable x.
//
// A formula may use numeric literals, x, the unit helpers USD and SSI,
// the operators + - * / and parentheses. Nothing else is evaluated.
package convert

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidExpression is returned when a conversion formula does not parse.
var ErrInvalidExpression = errors.New("invalid conversion expression")

// errNoValue marks an evaluation that cannot produce a number. It never
// leaves the package: Eval reports it as an invalid NullDecimal.
var errNoValue = errors.New("no value")

var ssiUnits = map[byte]decimal.Decimal{
	'k': decimal.NewFromInt(1_000),
	'm': decimal.NewFromInt(1_000_000),
	'g': decimal.NewFromInt(1_000_000_000),
}

// ssiPattern matches a leading numeral followed by an SI unit letter, e.g. "19,123.20 M".
var ssiPattern = regexp.MustCompile(`^([0-9.,]+) *([MmGgKk])`)

// Convert evaluates expression with x bound to raw.
//
// An empty raw yields an invalid NullDecimal and no error, as does any
// evaluation or number parsing failure. Only a malformed expression is
// reported as an error.
func Convert(raw, expression string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	expr, err := Compile(expression)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return expr.Eval(raw), nil
}

// Eval runs the compiled expression with x bound to raw.
func (e *Expression) Eval(raw string) decimal.NullDecimal {
	v, err := e.root.eval(&scope{x: textValue(raw)})
	if err != nil {
		return decimal.NullDecimal{}
	}
	if v.isNum {
		return decimal.NewNullDecimal(v.num)
	}
	d, err := parseNumber(v.text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// USD strips a leading dollar sign.
func USD(s string) string {
	return usdText(s)
}

// SSI expands an SI unit suffix (k, M, G) into its multiplier. Input without
// a recognised unit is returned unchanged, thousands separators included.
func SSI(s string) string {
	v, err := ssi(textValue(s))
	if err != nil {
		return s
	}
	return v.String()
}

func usd(v value) (value, error) {
	if v.isNum {
		return v, nil
	}
	return textValue(usdText(v.text)), nil
}

func usdText(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimPrefix(s, "$")
}

func ssi(v value) (value, error) {
	s := v.String()
	m := ssiPattern.FindStringSubmatch(s)
	if m == nil {
		return v, nil
	}
	n, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return value{}, errNoValue
	}
	unit := strings.ToLower(m[2])[0]
	return numValue(n.Mul(ssiUnits[unit])), nil
}

// parseNumber strips thousands separators and parses the rest as a decimal.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Decimal{}, errNoValue
	}
	return decimal.NewFromString(s)
}
