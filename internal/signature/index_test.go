// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/archive-engine/pkg/types"
)

func TestFormatIndex_Decimal(t *testing.T) {
	assert.Equal(t, "1", FormatIndex(1, types.IndexDec))
	assert.Equal(t, "42", FormatIndex(42, types.IndexDec))
	assert.Equal(t, "4000", FormatIndex(4000, types.IndexDec))
}

func TestFormatIndex_Roman(t *testing.T) {
	cases := map[int]string{
		1:    "I",
		2:    "II",
		3:    "III",
		4:    "IV",
		5:    "V",
		9:    "IX",
		14:   "XIV",
		40:   "XL",
		49:   "XLIX",
		90:   "XC",
		400:  "CD",
		900:  "CM",
		1000: "M",
		1987: "MCMLXXXVII",
		2026: "MMXXVI",
		3999: "MMMCMXCIX",
	}
	for n, want := range cases {
		assert.Equal(t, want, FormatIndex(n, types.IndexRoman), "n=%d", n)
	}
}

func TestFormatIndex_RomanFallsBackPast3999(t *testing.T) {
	assert.Equal(t, "4000", FormatIndex(4000, types.IndexRoman))
	assert.Equal(t, "12345", FormatIndex(12345, types.IndexRoman))
}

func TestFormatIndex_Letters(t *testing.T) {
	small := map[int]string{
		1:   "a",
		2:   "b",
		26:  "z",
		27:  "aa",
		28:  "ab",
		52:  "az",
		53:  "ba",
		702: "zz",
		703: "aaa",
	}
	for n, want := range small {
		assert.Equal(t, want, FormatIndex(n, types.IndexSmallChar), "n=%d", n)
	}

	assert.Equal(t, "A", FormatIndex(1, types.IndexCapChar))
	assert.Equal(t, "Z", FormatIndex(26, types.IndexCapChar))
	assert.Equal(t, "AA", FormatIndex(27, types.IndexCapChar))
	assert.Equal(t, "AAA", FormatIndex(703, types.IndexCapChar))
}

func TestFormatIndex_NonPositive(t *testing.T) {
	kinds := []types.IndexType{types.IndexDec, types.IndexRoman, types.IndexSmallChar, types.IndexCapChar}
	for _, kind := range kinds {
		assert.Equal(t, "", FormatIndex(0, kind), "kind=%s", kind)
		assert.Equal(t, "", FormatIndex(-3, kind), "kind=%s", kind)
	}
}

func TestFormatIndex_UnknownTypeUsesDecimal(t *testing.T) {
	assert.Equal(t, "7", FormatIndex(7, types.IndexType("hieroglyphic")))
}

// parseRoman inverts the subtractive numeral form for the round-trip
// check below.
func parseRoman(s string) int {
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}
	total := 0
	for i := 0; i < len(s); i++ {
		v := values[s[i]]
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func TestFormatIndex_RomanRoundTrip(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		s := FormatIndex(n, types.IndexRoman)
		require.Equal(t, n, parseRoman(s), "n=%d rendered %q", n, s)
	}
}

func parseLetters(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*26 + int(s[i]-'a') + 1
	}
	return n
}

func TestFormatIndex_LettersRoundTrip(t *testing.T) {
	for n := 1; n <= 2000; n++ {
		s := FormatIndex(n, types.IndexSmallChar)
		require.Equal(t, n, parseLetters(s), "n=%d rendered %q", n, s)
	}
}

func TestFormatIndex_LettersAreOrdered(t *testing.T) {
	// Bijective base-26 sorts by length first, then lexicographically.
	prev := FormatIndex(1, types.IndexSmallChar)
	for n := 2; n <= 800; n++ {
		cur := FormatIndex(n, types.IndexSmallChar)
		ok := len(cur) > len(prev) || (len(cur) == len(prev) && cur > prev)
		require.True(t, ok, "%s then %s", prev, cur)
		prev = cur
	}
}
