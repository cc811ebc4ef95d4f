// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// Path is an ordered sequence of signature element IDs, root first.
type Path []int64

// Valid reports whether the path can identify a signature: non-empty
// with positive IDs throughout.
func (p Path) Valid() bool {
	if len(p) == 0 {
		return false
	}
	for _, id := range p {
		if id <= 0 {
			return false
		}
	}
	return true
}

// Encode renders the path in its stored form, "[1,2,3]" with no spaces.
// The bracket and comma delimiters anchor the LIKE patterns below, so
// ID boundaries never blur: a prefix pattern for [1,2] cannot capture
// [1,20].
func (p Path) Encode() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, id := range p {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(id, 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParsePath decodes the stored "[1,2,3]" form.
func ParsePath(s string) (Path, error) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed signature path %q", s)
	}

	body := s[1 : len(s)-1]
	if body == "" {
		return Path{}, nil
	}

	parts := strings.Split(body, ",")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed signature path %q: %w", s, err)
		}
		path = append(path, id)
	}
	return path, nil
}

// matchExact compiles the EQ predicate: the stored path equals the
// query path element for element.
func matchExact(col string, p Path) search.Fragment {
	return search.Fragment{SQL: col + " = ?", Args: []any{p.Encode()}}
}

// matchExactAny compiles the ANY_OF predicate over candidate paths
// against col. Invalid candidates are dropped; when none survive the
// predicate matches nothing.
func matchExactAny(col string, candidates [][]int64) search.Fragment {
	var encoded []any
	for _, c := range candidates {
		if p := Path(c); p.Valid() {
			encoded = append(encoded, p.Encode())
		}
	}

	if len(encoded) == 0 {
		return search.Fragment{SQL: "1=0"}
	}
	return search.Fragment{
		SQL:  col + " IN (" + search.Placeholders(len(encoded)) + ")",
		Args: encoded,
	}
}

// matchPrefix compiles the STARTS_WITH predicate: the stored path is
// the query path itself, or extends it by at least one element.
func matchPrefix(col string, p Path) search.Fragment {
	enc := p.Encode()
	pattern := enc[:len(enc)-1] + ",%"
	return search.Fragment{
		SQL:  "(" + col + " = ? OR " + col + " LIKE ?)",
		Args: []any{enc, pattern},
	}
}

// matchContains compiles the CONTAINS_SEQUENCE predicate: the query IDs
// appear consecutively somewhere in the stored path. Four patterns cover
// the whole path and placements at its start, end, and middle.
func matchContains(col string, p Path) search.Fragment {
	enc := p.Encode()
	inner := enc[1 : len(enc)-1]
	return search.Fragment{
		SQL: "(" + col + " = ? OR " + col + " LIKE ? OR " + col + " LIKE ? OR " + col + " LIKE ?)",
		Args: []any{
			"[" + inner + "]",
			"[" + inner + ",%",
			"%," + inner + "]",
			"%," + inner + ",%",
		},
	}
}

// PathFilter builds the document search handler for a signature field
// of the given kind. EQ and ANY_OF match stored paths exactly,
// STARTS_WITH and CONTAINS_SEQUENCE position the query path within
// them. Other conditions do not apply to signature fields.
func PathFilter(kind types.SignatureKind) search.FieldHandler {
	return func(cond search.Condition, alias string) (*search.Fragment, error) {
		var inner search.Fragment

		switch cond.Op {
		case types.ConditionEq:
			if cond.Path == nil {
				return nil, search.Invalidf(cond.Field, cond.Op, "exact matching takes an array of element ids")
			}
			inner = matchExact("s.path", Path(cond.Path))

		case types.ConditionAnyOf:
			if len(cond.Scalars) > 0 {
				return nil, search.Invalidf(cond.Field, cond.Op, "candidates must be arrays of element ids")
			}
			inner = matchExactAny("s.path", cond.Paths)
			if inner.SQL == "1=0" {
				return &inner, nil
			}

		case types.ConditionStartsWith:
			inner = matchPrefix("s.path", Path(cond.Path))

		case types.ConditionContainsSequence:
			inner = matchContains("s.path", Path(cond.Path))

		default:
			return nil, search.Invalidf(cond.Field, cond.Op,
				"signature fields support EQ, ANY_OF, STARTS_WITH, and CONTAINS_SEQUENCE")
		}

		frag := &search.Fragment{
			SQL: "EXISTS (SELECT 1 FROM archive_document_signatures s WHERE s.document_id = " +
				alias + ".id AND s.kind = ? AND " + inner.SQL + ")",
			Args: append([]any{string(kind)}, inner.Args...),
		}
		return frag, nil
	}
}
