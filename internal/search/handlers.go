// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"github.com/pdiddy/archive-engine/pkg/types"
)

// MembershipFilter builds a handler for many-to-many link fields such
// as tags. It matches records owning a joinTable row whose valueCol
// satisfies the condition; the outer table's primary key column is
// assumed to be id.
//
// EQ matches records linked to the value, ANY_OF records linked to any
// of the values. An empty ANY_OF list matches nothing.
func MembershipFilter(joinTable, ownerCol, valueCol string) FieldHandler {
	return func(cond Condition, alias string) (*Fragment, error) {
		prefix := "EXISTS (SELECT 1 FROM " + joinTable + " j WHERE j." +
			ownerCol + " = " + alias + ".id AND j." + valueCol

		switch cond.Op {
		case types.ConditionEq:
			if cond.Path != nil {
				return nil, Invalidf(cond.Field, cond.Op, "value must be a single primitive")
			}
			if cond.Scalar == nil {
				return nil, Invalidf(cond.Field, cond.Op, "value must not be null")
			}
			return &Fragment{SQL: prefix + " = ?)", Args: []any{cond.Scalar}}, nil

		case types.ConditionAnyOf:
			if cond.Paths != nil {
				return nil, Invalidf(cond.Field, cond.Op, "value must be an array of primitives")
			}
			if len(cond.Scalars) == 0 {
				return &Fragment{SQL: "1=0"}, nil
			}
			return &Fragment{
				SQL:  prefix + " IN (" + Placeholders(len(cond.Scalars)) + "))",
				Args: cond.Scalars,
			}, nil

		default:
			return nil, Invalidf(cond.Field, cond.Op, "only EQ and ANY_OF apply to this field")
		}
	}
}

// ExistenceFilter builds a handler for boolean link-presence fields
// such as hasParents: EQ true matches records with at least one
// joinTable row, EQ false records with none.
func ExistenceFilter(joinTable, ownerCol string) FieldHandler {
	return func(cond Condition, alias string) (*Fragment, error) {
		if cond.Op != types.ConditionEq {
			return nil, Invalidf(cond.Field, cond.Op, "only EQ applies to this field")
		}
		want, ok := cond.Scalar.(bool)
		if !ok {
			return nil, Invalidf(cond.Field, cond.Op, "value must be a boolean")
		}

		sql := "EXISTS (SELECT 1 FROM " + joinTable + " j WHERE j." +
			ownerCol + " = " + alias + ".id)"
		if !want {
			sql = "NOT " + sql
		}
		return &Fragment{SQL: sql}, nil
	}
}
