// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package signature manages the classification vocabulary documents are
// filed under: components, their elements, the parent-link graph between
// elements, and the path predicates used by document search.
package signature

import (
	"strconv"
	"strings"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// romanTokens pairs subtractive numeral tokens with their values,
// largest first.
var romanTokens = []struct {
	value int
	token string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FormatIndex renders the 1-based ordinal n in the component's index
// style. Non-positive ordinals render as the empty string for every
// style. Roman numerals cover 1 through 3999; outside that range, and
// for unknown styles, the decimal form is returned.
func FormatIndex(n int, kind types.IndexType) string {
	if n <= 0 {
		return ""
	}

	switch kind {
	case types.IndexRoman:
		return formatRoman(n)
	case types.IndexSmallChar:
		return formatLetters(n, 'a')
	case types.IndexCapChar:
		return formatLetters(n, 'A')
	default:
		return strconv.Itoa(n)
	}
}

func formatRoman(n int) string {
	if n > 3999 {
		return strconv.Itoa(n)
	}

	var sb strings.Builder
	for _, rt := range romanTokens {
		for n >= rt.value {
			sb.WriteString(rt.token)
			n -= rt.value
		}
	}
	return sb.String()
}

// formatLetters renders n in bijective base-26 over the alphabet
// starting at base: 1 through 26 are single letters, 27 is "aa".
func formatLetters(n int, base byte) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, base+byte(n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
