package sat

import "fmt"

// PredicateKind distinguishes the four atomic integer constraints a
// Predicate can express.
type PredicateKind uint8

const (
	GreaterOrEqual PredicateKind = iota
	LessOrEqual
	Equal
	NotEqual
)

func (k PredicateKind) String() string {
	switch k {
	case GreaterOrEqual:
		return ">="
	case LessOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	default:
		return "?"
	}
}

// Predicate is one atomic integer constraint: x >= k, x <= k, x == k or
// x != k. trivialVar marks the two constant predicates True and False, which
// carry no real domain.
type Predicate struct {
	Var   DomainId
	Kind  PredicateKind
	Value int64
}

const trivialVar DomainId = -1

// TruePredicate and FalsePredicate are the constant predicates referenced by
// They are negations of one another.
var (
	TruePredicate  = Predicate{Var: trivialVar, Kind: Equal, Value: 1}
	FalsePredicate = Predicate{Var: trivialVar, Kind: Equal, Value: 0}
)

// IsTrivial reports whether p is one of the two constant predicates.
func (p Predicate) IsTrivial() bool {
	return p.Var == trivialVar
}

// Negation returns the predicate that holds exactly when p does not:
// ≥↔≤ with ±1, =↔≠, True↔False.
func (p Predicate) Negation() Predicate {
	if p.IsTrivial() {
		if p == TruePredicate {
			return FalsePredicate
		}
		return TruePredicate
	}
	switch p.Kind {
	case GreaterOrEqual:
		return Predicate{p.Var, LessOrEqual, p.Value - 1}
	case LessOrEqual:
		return Predicate{p.Var, GreaterOrEqual, p.Value + 1}
	case Equal:
		return Predicate{p.Var, NotEqual, p.Value}
	default: // NotEqual
		return Predicate{p.Var, Equal, p.Value}
	}
}

func (p Predicate) String() string {
	if p.IsTrivial() {
		if p == TruePredicate {
			return "[true]"
		}
		return "[false]"
	}
	return fmt.Sprintf("[x%d %s %d]", p.Var, p.Kind, p.Value)
}

// GreaterOrEqualPredicate, LessOrEqualPredicate, EqualPredicate and
// NotEqualPredicate are small constructors used pervasively by propagators
// to build reasons without repeating the struct literal.
func GreaterOrEqualPredicate(x DomainId, k int64) Predicate { return Predicate{x, GreaterOrEqual, k} }
func LessOrEqualPredicate(x DomainId, k int64) Predicate    { return Predicate{x, LessOrEqual, k} }
func EqualPredicate(x DomainId, k int64) Predicate          { return Predicate{x, Equal, k} }
func NotEqualPredicate(x DomainId, k int64) Predicate       { return Predicate{x, NotEqual, k} }
