package datalayer

import "time"

// Expression is a predicate tree over a Record model M: either a single
// BasicPredicate comparing one attribute to a value, or two
// sub-expressions joined by a LogicalOperator. Built with Eq/Neq/Less/
// Greater/LessEq/GreaterEq and composed with And/Or, the same shape as
// expression.hpp's Expression<Model>.
type Expression[M Record] struct {
	basic *basicPredicate
	node  *compositeNode[M]
}

type basicPredicate struct {
	attribute string
	operator  Operator
	value     any
}

type compositeNode[M Record] struct {
	operator LogicalOperator
	left     Expression[M]
	right    Expression[M]
}

// Attribute constrains the enum-like string types each model declares
// for its own column names (e.g. VenueAttribute, ListingAttribute),
// the Go rendering of expression.hpp's per-model Attribute enum.
type Attribute interface {
	~string
}

func basic[M Record, A Attribute](attr A, op Operator, value any) Expression[M] {
	return Expression[M]{basic: &basicPredicate{attribute: string(attr), operator: op, value: value}}
}

// EqAttr builds an equality predicate. Named EqAttr (not Eq) to avoid
// colliding with the package-level Operator constant Eq.
func EqAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, Eq, value)
}

func NeqAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, Neq, value)
}

func LessAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, Less, value)
}

func GreaterAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, Greater, value)
}

func LessEqAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, LessEq, value)
}

func GreaterEqAttr[M Record, A Attribute](attr A, value any) Expression[M] {
	return basic[M](attr, GreaterEq, value)
}

// And composes e with other, both sides required to hold.
func (e Expression[M]) And(other Expression[M]) Expression[M] {
	return Expression[M]{node: &compositeNode[M]{operator: And, left: e, right: other}}
}

// Or composes e with other, either side sufficient to hold.
func (e Expression[M]) Or(other Expression[M]) Expression[M] {
	return Expression[M]{node: &compositeNode[M]{operator: Or, left: e, right: other}}
}

// IsZero reports whether e carries no predicate at all, the signal a
// Repository uses to mean "match every record."
func (e Expression[M]) IsZero() bool {
	return e.basic == nil && e.node == nil
}

// Evaluate applies the expression to one record, walking the tree the
// way expression.hpp's lexeme list is interpreted by its SQL compiler,
// except here the result is a direct boolean rather than composed SQL.
func (e Expression[M]) Evaluate(record M) bool {
	if e.IsZero() {
		return true
	}
	if e.basic != nil {
		return e.basic.evaluate(record)
	}
	switch e.node.operator {
	case Or:
		return e.node.left.Evaluate(record) || e.node.right.Evaluate(record)
	default:
		return e.node.left.Evaluate(record) && e.node.right.Evaluate(record)
	}
}

func (p *basicPredicate) evaluate(record Record) bool {
	actual, ok := record.Attribute(p.attribute)
	if !ok {
		return false
	}
	switch p.operator {
	case Eq:
		return compareEqual(actual, p.value)
	case Neq:
		return !compareEqual(actual, p.value)
	case Less, Greater, LessEq, GreaterEq:
		return compareOrdered(actual, p.value, p.operator)
	default:
		return false
	}
}

func compareEqual(actual, want any) bool {
	return actual == want
}

// compareOrdered compares two attribute values of the same underlying
// kind. Reference-data attributes are always float64, int64, string or
// time.Time (never bool, which only ever appears in equality checks),
// mirroring expression.hpp's type-overloaded less/greater free functions
// that are simply not defined for boolean attributes.
func compareOrdered(actual, want any, op Operator) bool {
	var less, greater bool
	switch a := actual.(type) {
	case float64:
		w, ok := want.(float64)
		if !ok {
			return false
		}
		less, greater = a < w, a > w
	case int64:
		w, ok := want.(int64)
		if !ok {
			return false
		}
		less, greater = a < w, a > w
	case string:
		w, ok := want.(string)
		if !ok {
			return false
		}
		less, greater = a < w, a > w
	case time.Time:
		w, ok := want.(time.Time)
		if !ok {
			return false
		}
		less, greater = a.Before(w), a.After(w)
	default:
		return false
	}
	switch op {
	case Less:
		return less
	case Greater:
		return greater
	case LessEq:
		return less || !greater
	case GreaterEq:
		return greater || !less
	default:
		return false
	}
}
