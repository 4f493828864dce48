// Package querysql compiles listing predicates to parameterized SQL for
// SQLite. Values are always parameterized, never interpolated, and every
// row-returning query carries a deterministic ORDER BY so identical
// predicates always produce identically ordered results.
package querysql

import (
	"fmt"
	"strings"

	"github.com/tenwick/lettings/internal/predicate"
)

// listingsTable is the only table predicates compile against.
const listingsTable = "listings"

// Count compiles a predicate into a COUNT query over listings.
func Count(p predicate.Predicate) (string, []any, error) {
	where, params, err := Where(p)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + listingsTable + " WHERE " + where, params, nil
}

// Select compiles a predicate into a projection query over listings.
// Columns are emitted in the order given; the caller owns the projection.
func Select(columns []string, p predicate.Predicate) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("select requires an explicit projection")
	}
	where, params, err := Where(p)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY created_at ASC, id COLLATE BINARY ASC",
		strings.Join(columns, ", "),
		listingsTable,
		where)
	return sql, params, nil
}

// Where compiles a predicate to a WHERE clause fragment.
// A nil predicate compiles to an always-true clause.
func Where(p predicate.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	switch pred := p.(type) {
	case predicate.Equals:
		return pred.Field + " = ?", []any{pred.Value}, nil
	case *predicate.Equals:
		return Where(*pred)
	case predicate.In:
		return compileIn(pred)
	case *predicate.In:
		return Where(*pred)
	case predicate.GTE:
		return pred.Field + " >= ?", []any{pred.Value}, nil
	case *predicate.GTE:
		return Where(*pred)
	case predicate.And:
		return compileJunction(pred.Predicates, " AND ")
	case *predicate.And:
		return Where(*pred)
	case predicate.Or:
		sql, params, err := compileJunction(pred.Predicates, " OR ")
		if err != nil {
			return "", nil, err
		}
		return "(" + sql + ")", params, nil
	case *predicate.Or:
		return Where(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileIn compiles set membership to "field IN (?, ?, ...)".
func compileIn(in predicate.In) (string, []any, error) {
	if len(in.Values) == 0 {
		return "", nil, fmt.Errorf("IN predicate on %q has no values", in.Field)
	}
	placeholders := strings.Repeat("?, ", len(in.Values))
	placeholders = placeholders[:len(placeholders)-2]
	return in.Field + " IN (" + placeholders + ")", in.Values, nil
}

// compileJunction joins child predicates with the given separator.
// An empty child list is vacuously true.
func compileJunction(preds []predicate.Predicate, sep string) (string, []any, error) {
	if len(preds) == 0 {
		return "1 = 1", nil, nil
	}

	var parts []string
	var allParams []any
	for _, p := range preds {
		sql, params, err := Where(p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		allParams = append(allParams, params...)
	}
	return strings.Join(parts, sep), allParams, nil
}
