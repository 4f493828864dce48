// Package predicate defines the filter predicate grammar the listing
// store accepts, and the single translation from search criteria into it.
//
// This is the only place predicate logic is allowed to exist: both the
// live matching count and the final search execution consume the exact
// same predicate tree, so the displayed "N matching" can never diverge
// from the executed search.
package predicate

// Predicate represents a filter condition against the listing store.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the SQL compiler.
//
// Predicate types:
//   - Equals: field = literal value
//   - In: field is a member of a literal set
//   - GTE: field >= literal value (open-ended range buckets)
//   - And: all predicates must hold
//   - Or: at least one predicate must hold (bucketed-range disjunction)
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals represents a field-equals-literal predicate.
//
// Semantics: <field> = <value>. Values are always parameterized by the
// compiler, never interpolated.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// In represents a set-membership predicate.
//
// Semantics: <field> IN (<values...>). An In with no values never
// matches; builders are expected not to emit one (a dimension with no
// selection applies no filter at all).
type In struct {
	Field  string
	Values []any
}

func (In) predicateNode() {}

// GTE represents an open-ended range predicate.
//
// Semantics: <field> >= <value>. Used for the "5 or more bedrooms"
// bucket, where the sentinel selection expands to a lower bound instead
// of an exact match.
type GTE struct {
	Field string
	Value any
}

func (GTE) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// An empty Predicates slice is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or represents a disjunction of predicates (at least one must be true).
//
// Or exists solely for the bedroom-bucket rule: exact counts and the
// open-ended "5+" bucket are alternatives within one dimension. Amenity
// flags are requirements and are always conjoined - the asymmetry is
// intentional product behavior, not an oversight.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}
