package criteria

// Field is a column of an attribute value row a predicate can test.
type Field int

const (
	FieldAttribute Field = iota + 1
	FieldValue
)

func (f Field) String() string {
	switch f {
	case FieldAttribute:
		return "attribute"
	case FieldValue:
		return "value"
	default:
		return "unknown"
	}
}

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Expr is a node of a predicate tree: True, And, Or or Cmp.
type Expr interface {
	expr()
}

// True matches every row.
type True struct{}

// And matches when every child matches. An empty And matches every row.
type And []Expr

// Or matches when any child matches. An empty Or matches nothing.
type Or []Expr

// Cmp compares Field with Value. Value is a uint for FieldAttribute and a
// decimal.Decimal for FieldValue.
type Cmp struct {
	Field Field
	Op    Op
	Value any
}

func (True) expr() {}
func (And) expr()  {}
func (Or) expr()   {}
func (Cmp) expr()  {}
