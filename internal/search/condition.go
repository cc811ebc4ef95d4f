// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math"
	"reflect"
	"time"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// Condition is a validated, typed filter condition ready for compilation.
// Exactly one value field is populated, selected by Op and the shape of
// the incoming value.
type Condition struct {
	Field string
	Op    types.SearchCondition
	Not   bool

	// Scalar carries the scalar operand of EQ, GT, GTE, LT, and LTE.
	// A nil Scalar under EQ with no Path means the SQL NULL test.
	Scalar any

	// Scalars carries the operands of ANY_OF over primitives.
	Scalars []any

	// Fragment carries the substring of FRAGMENT, unescaped.
	Fragment string

	// Path carries the path operand of EQ, STARTS_WITH, and
	// CONTAINS_SEQUENCE: a non-empty sequence of positive element IDs.
	// EQ takes this form when its value is an array, asking for exact
	// path matching on a signature field.
	Path []int64

	// Paths carries the operands of ANY_OF over signature paths.
	// Candidates are shape-checked here; content validity (non-empty,
	// positive IDs) is the matching layer's concern.
	Paths [][]int64
}

// Normalize shape-checks every query element and produces typed
// conditions. The first violation aborts with an ErrInvalidQuery
// QueryError naming the field.
func Normalize(query []types.SearchQueryElement) ([]Condition, error) {
	conds := make([]Condition, 0, len(query))
	for _, elem := range query {
		cond, err := normalizeElement(elem)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func normalizeElement(elem types.SearchQueryElement) (Condition, error) {
	if elem.Field == "" {
		return Condition{}, Invalidf(elem.Field, elem.Condition, "field name is empty")
	}

	cond := Condition{Field: elem.Field, Op: elem.Condition, Not: elem.Not}

	switch elem.Condition {
	case types.ConditionEq:
		if elem.Value == nil {
			return cond, nil
		}
		if v, ok := primitive(elem.Value); ok {
			cond.Scalar = v
			return cond, nil
		}
		// An array value under EQ is exact signature path matching.
		path, ok := intSlice(elem.Value)
		if !ok {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must be a primitive, null, or a signature path")
		}
		if err := checkPath(elem.Field, elem.Condition, path); err != nil {
			return Condition{}, err
		}
		cond.Path = path

	case types.ConditionGt, types.ConditionGte, types.ConditionLt, types.ConditionLte:
		if elem.Value == nil {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must not be null")
		}
		v, ok := primitive(elem.Value)
		if !ok {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must be a primitive")
		}
		cond.Scalar = v

	case types.ConditionAnyOf:
		items, ok := anySlice(elem.Value)
		if !ok {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must be an array")
		}
		scalars, paths, err := splitAnyOf(elem.Field, items)
		if err != nil {
			return Condition{}, err
		}
		cond.Scalars = scalars
		cond.Paths = paths

	case types.ConditionFragment:
		s, ok := elem.Value.(string)
		if !ok {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must be a string")
		}
		if s == "" {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must not be empty")
		}
		cond.Fragment = s

	case types.ConditionStartsWith, types.ConditionContainsSequence:
		path, ok := intSlice(elem.Value)
		if !ok {
			return Condition{}, Invalidf(elem.Field, elem.Condition, "value must be an array of integers")
		}
		if err := checkPath(elem.Field, elem.Condition, path); err != nil {
			return Condition{}, err
		}
		cond.Path = path

	default:
		return Condition{}, Invalidf(elem.Field, elem.Condition, "unknown condition")
	}

	return cond, nil
}

// checkPath validates a signature path operand: non-empty with
// positive element IDs throughout.
func checkPath(field string, op types.SearchCondition, path []int64) error {
	if len(path) == 0 {
		return Invalidf(field, op, "path must not be empty")
	}
	for _, id := range path {
		if id <= 0 {
			return Invalidf(field, op, "path elements must be positive")
		}
	}
	return nil
}

// splitAnyOf classifies an ANY_OF operand list as either primitives or
// signature paths. Mixing the two shapes in one list is rejected. An
// empty list comes back as empty Scalars, the match-nothing case.
func splitAnyOf(field string, items []any) (scalars []any, paths [][]int64, err error) {
	if len(items) == 0 {
		return []any{}, nil, nil
	}

	if _, isSlice := anySlice(items[0]); isSlice {
		paths = make([][]int64, 0, len(items))
		for _, item := range items {
			path, ok := intSlice(item)
			if !ok {
				return nil, nil, Invalidf(field, types.ConditionAnyOf,
					"path candidates must be arrays of integers")
			}
			paths = append(paths, path)
		}
		return nil, paths, nil
	}

	scalars = make([]any, 0, len(items))
	for _, item := range items {
		v, ok := primitive(item)
		if !ok {
			return nil, nil, Invalidf(field, types.ConditionAnyOf,
				"array elements must be primitives")
		}
		scalars = append(scalars, v)
	}
	return scalars, nil, nil
}

// primitive accepts the scalar types a condition may carry and widens
// integers to int64. JSON and YAML decoders hand numbers over as
// float64 or int; both are kept bindable as-is, except that integral
// floats are narrowed so integer columns compare cleanly.
func primitive(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return nil, false
		}
		return int64(x), true
	case float32:
		return narrowFloat(float64(x)), true
	case float64:
		return narrowFloat(x), true
	case time.Time:
		return x, true
	default:
		return nil, false
	}
}

func narrowFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int64(f)
	}
	return f
}

// anySlice flattens any slice kind (except strings and byte slices)
// into []any. Decoders produce []any directly; programmatic callers
// often pass typed slices such as []int64 or [][]int64.
func anySlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// intSlice converts a slice value to []int64, requiring every element
// to be an integer (integral floats included).
func intSlice(v any) ([]int64, bool) {
	items, ok := anySlice(v)
	if !ok {
		return nil, false
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		p, ok := primitive(item)
		if !ok {
			return nil, false
		}
		n, ok := p.(int64)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
