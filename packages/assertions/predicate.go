package assertions

import "github.com/abdul-hamid-achik/unitspec/packages/value"

// Predicate is a bitmask of the three-way outcomes that count as a pass.
type Predicate uint8

const (
	Equal        Predicate = 0x01
	Less         Predicate = 0x02
	LessEqual    Predicate = Less | Equal
	Greater      Predicate = 0x04
	GreaterEqual Predicate = Greater | Equal
	NotEqual     Predicate = Less | Greater
)

// Accepts reports whether a value.Compare result satisfies p. Incomparable
// results never pass.
func (p Predicate) Accepts(result int) bool {
	switch result {
	case value.Less:
		return p&Less != 0
	case value.Equal:
		return p&Equal != 0
	case value.Greater:
		return p&Greater != 0
	default:
		return false
	}
}

// Symbol returns the operator for p, e.g. "<=".
func (p Predicate) Symbol() string {
	switch p {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	default:
		return "?"
	}
}

func (p Predicate) String() string {
	return p.Symbol()
}

// OutcomeSymbol renders a value.Compare result as the relation that holds
// between the operands.
func OutcomeSymbol(result int) string {
	switch result {
	case value.Less:
		return "<"
	case value.Equal:
		return "=="
	case value.Greater:
		return ">"
	default:
		return "?"
	}
}
