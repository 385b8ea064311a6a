// Package datalayer implements the reference-data contract of section 6:
// read/write access to Datasource, Listing, MarketPhase, PriceSeed,
// Setting and Venue records, plus the predicate algebra a caller builds
// queries with.
//
// Grounded on
// _examples/original_source/project/data_layer/include/data_layer/api/predicate/expression.hpp's
// Expression<Model> template (a predicate tree parameterized over a
// domain model, composed with AND/OR, built from type-overloaded eq/neq/
// less/greater/lessEq/greaterEq free functions) and on
// ih/pqxx/queries/venue_queries.hpp's Model/Patch/Attribute pattern,
// where a Patch carries optional fields for partial updates and an
// Attribute enum names the column a predicate or update targets.
//
// The core never talks to a real database; it depends only on the
// Repository contract in this package. internal/db/models.go's gorm
// struct-tag style is followed here so that swapping the in-memory
// Repository for a gorm.io/gorm-backed one (gorm.io/driver/postgres +
// github.com/jackc/pgx/v5, both named in go.mod) needs no change to
// model definitions, only a new Repository implementation.
package datalayer

// Record is implemented by every reference-data model so the predicate
// algebra can evaluate a BasicPredicate against it without resorting to
// reflection, the Go analogue of the C++ template's compile-time
// attribute-to-member binding.
type Record interface {
	// Attribute returns the value a predicate should compare for the
	// named column, and whether that column is known to the model.
	Attribute(name string) (value any, ok bool)
}

// Operator is a predicate's comparison operator, mirroring expression.hpp's
// BasicPredicate::Condition enumerators.
type Operator int

const (
	Eq Operator = iota
	Neq
	Less
	Greater
	LessEq
	GreaterEq
)

func (o Operator) String() string {
	switch o {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Less:
		return "<"
	case Greater:
		return ">"
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// LogicalOperator composes two sub-expressions, mirroring expression.hpp's
// SubExpressionBegin/SubExpressionEnd-bracketed AND/OR composition.
type LogicalOperator int

const (
	And LogicalOperator = iota
	Or
)
