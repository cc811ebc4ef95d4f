// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search compiles declarative filter conditions into
// parameterized SQL predicates and executes them as paged queries.
// Values never appear in SQL text; they always travel as bound
// arguments next to ? placeholders.
package search

import (
	"strings"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// Fragment is a parameterized piece of SQL. SQL holds ? placeholders,
// Args the values bound to them in order.
type Fragment struct {
	SQL  string
	Args []any
}

// Meta describes how one record type maps onto its table for search.
type Meta struct {
	// Entity is the record type name handlers are registered under.
	Entity string

	// Table and Alias name the FROM clause.
	Table string
	Alias string

	// IDColumn is the primary key column, appended to every ORDER BY as
	// a stable tiebreak.
	IDColumn string

	// Select is the column list of the page query, matching the scan
	// function the store pairs with this meta.
	Select string

	// Columns maps query field names to column names. Only mapped
	// fields are sortable.
	Columns map[string]string

	// DefaultSort applies when a request carries no sort elements.
	DefaultSort []types.SortElement
}

// Compile builds the WHERE predicate for conds against meta. Handlers
// registered for meta.Entity run first; conditions they decline fall
// through to the column mapping. Conditions are combined with AND, and
// an empty list compiles to a tautology.
func Compile(conds []Condition, meta Meta, reg *Registry) (Fragment, error) {
	var sb strings.Builder
	var args []any

	sb.WriteString("1=1")

	for _, cond := range conds {
		frag, err := compileCondition(cond, meta, reg)
		if err != nil {
			return Fragment{}, err
		}

		sb.WriteString(" AND ")
		if cond.Not {
			sb.WriteString("NOT ")
		}
		sb.WriteString("(")
		sb.WriteString(frag.SQL)
		sb.WriteString(")")
		args = append(args, frag.Args...)
	}

	return Fragment{SQL: sb.String(), Args: args}, nil
}

func compileCondition(cond Condition, meta Meta, reg *Registry) (*Fragment, error) {
	if handler := reg.handler(meta.Entity, cond.Field); handler != nil {
		frag, err := handler(cond, meta.Alias)
		if err != nil {
			return nil, err
		}
		if frag != nil {
			return frag, nil
		}
	}

	col, ok := meta.Columns[cond.Field]
	if !ok {
		return nil, Misconfiguredf(cond.Field, cond.Op, "no column mapping or handler for record type %s", meta.Entity)
	}
	return compileColumn(cond, meta.Alias+"."+col)
}

var comparisonOps = map[types.SearchCondition]string{
	types.ConditionGt:  ">",
	types.ConditionGte: ">=",
	types.ConditionLt:  "<",
	types.ConditionLte: "<=",
}

func compileColumn(cond Condition, col string) (*Fragment, error) {
	switch cond.Op {
	case types.ConditionEq:
		if cond.Path != nil {
			return nil, Invalidf(cond.Field, cond.Op, "a signature path is not valid for a plain column")
		}
		if cond.Scalar == nil {
			return &Fragment{SQL: col + " IS NULL"}, nil
		}
		return &Fragment{SQL: col + " = ?", Args: []any{cond.Scalar}}, nil

	case types.ConditionGt, types.ConditionGte, types.ConditionLt, types.ConditionLte:
		return &Fragment{SQL: col + " " + comparisonOps[cond.Op] + " ?", Args: []any{cond.Scalar}}, nil

	case types.ConditionAnyOf:
		if cond.Paths != nil {
			return nil, Invalidf(cond.Field, cond.Op, "path candidates are not valid for a plain column")
		}
		if len(cond.Scalars) == 0 {
			return &Fragment{SQL: "1=0"}, nil
		}
		return &Fragment{
			SQL:  col + " IN (" + Placeholders(len(cond.Scalars)) + ")",
			Args: cond.Scalars,
		}, nil

	case types.ConditionFragment:
		return &Fragment{
			SQL:  col + ` LIKE ? ESCAPE '\'`,
			Args: []any{"%" + EscapeLike(cond.Fragment) + "%"},
		}, nil

	case types.ConditionStartsWith, types.ConditionContainsSequence:
		return nil, Invalidf(cond.Field, cond.Op, "signature path conditions are not valid for a plain column")

	default:
		return nil, Invalidf(cond.Field, cond.Op, "unknown condition")
	}
}

// CompileSort renders the ORDER BY column list for sort, validating
// every field against meta's column mapping and appending the primary
// key tiebreak. Unmapped fields are rejected rather than interpolated.
func CompileSort(sort []types.SortElement, meta Meta) (string, error) {
	if len(sort) == 0 {
		sort = meta.DefaultSort
	}

	parts := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		col, ok := meta.Columns[s.Field]
		if !ok {
			return "", Invalidf(s.Field, "", "not a sortable field of record type %s", meta.Entity)
		}

		var dir string
		switch s.Direction {
		case types.SortAsc, "":
			dir = "ASC"
		case types.SortDesc:
			dir = "DESC"
		default:
			return "", Invalidf(s.Field, "", "sort direction must be asc or desc")
		}

		parts = append(parts, meta.Alias+"."+col+" "+dir)
	}

	parts = append(parts, meta.Alias+"."+meta.IDColumn+" ASC")
	return strings.Join(parts, ", "), nil
}

// Placeholders returns n comma-separated ? markers for an IN list.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// EscapeLike escapes LIKE wildcards in a user value so it matches
// literally under ESCAPE '\'.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
