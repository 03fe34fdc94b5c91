package similarity

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 0.01

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "abc", "abc", 100},
		{"both empty", "", "", 100},
		{"one empty", "abc", "", 0},
		{"one substitution", "abcd", "abce", 75},
		{"trailing punctuation", "this is a test", "this is a test!", 96.5517},
		{"disjoint", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), delta)
			assert.InDelta(t, tt.want, Ratio(tt.b, tt.a), delta, "ratio is symmetric")
		})
	}
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"contained", "fuzzy", "the fuzzy wuzzy", 100},
		{"prefix", "this is a test", "this is a test!", 100},
		{"both empty", "", "", 100},
		{"one empty", "", "abc", 0},
		{"equal length both directions", "abcd", "xbcd", 85.714},
		{"no overlap", "abc", "xyz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialRatio(tt.a, tt.b), delta)
			assert.InDelta(t, tt.want, PartialRatio(tt.b, tt.a), delta)
		})
	}
}

func TestPartialRatioLongNeedle(t *testing.T) {
	needle := strings.Repeat("governance ", 8)
	haystack := "prefix " + needle + "suffix"
	assert.Equal(t, 100.0, PartialRatio(needle, haystack))
}

func TestPartialRatioLongNeedleAlignsOnBlocks(t *testing.T) {
	needle := "treasury management committee proposal to fund the arbitrum gaming catalyst program"
	haystack := "proposal to fund the arbitrum gaming catalyst program and the treasury management committee"
	require.Greater(t, len([]rune(needle)), longNeedle)

	// Only the full window at the start and the one at the right edge are
	// scored. The shorter prefix window is better but not block anchored.
	assert.InDelta(t, 63.855, PartialRatio(needle, haystack), delta)
	assert.InDelta(t, 63.855, PartialRatio(haystack, needle), delta)
	assert.InDelta(t, 77.941, Ratio(needle, haystack[:53]), delta)
}

func TestMatchingBlocks(t *testing.T) {
	tests := []struct {
		a, b string
		want []block
	}{
		{"abxcd", "abcd", []block{{0, 0, 2}, {3, 2, 2}, {5, 4, 0}}},
		{"qabxcdq", "abycdf", []block{{1, 0, 2}, {4, 3, 2}, {7, 6, 0}}},
		{"aaa", "aa", []block{{0, 0, 2}, {3, 2, 0}}},
		{"", "abc", []block{{0, 3, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, matchingBlocks([]rune(tt.a), []rune(tt.b)))
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"reordered", "fuzzy wuzzy was a bear", "wuzzy fuzzy was a bear", 100},
		{"duplicates collapse", "fuzzy was a bear", "fuzzy fuzzy was a bear", 100},
		{"subset", "gaming catalyst", "fund the gaming catalyst program", 100},
		{"one empty", "", "abc", 0},
		{"whitespace only", "   ", "abc", 0},
		{"one shared token", "a b", "a c", 66.667},
		{"nothing shared", "x", "y", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenSetRatio(tt.a, tt.b), delta)
			assert.InDelta(t, tt.want, TokenSetRatio(tt.b, tt.a), delta)
		})
	}
}

func TestCombined(t *testing.T) {
	assert.Equal(t, 100.0, Combined("abc", "abc"))

	// The partial window match wins at its discount.
	assert.InDelta(t, 95.0, Combined("fund the gaming catalyst", "gaming catalyst"), 1e-9)

	// Combined never drops below the plain ratio.
	a, b := "treasury management v2", "treasury management"
	assert.GreaterOrEqual(t, Combined(a, b), Ratio(a, b))
}

func TestLCSMatchesDynamicProgramming(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcdé ")
	random := func(n int) string {
		rs := make([]rune, n)
		for i := range rs {
			rs[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(rs)
	}

	for i := 0; i < 200; i++ {
		a, b := random(rng.Intn(150)), random(rng.Intn(150))
		assert.Equal(t, naiveLCS(a, b), LCS(a, b), "a=%q b=%q", a, b)
	}
}

func TestLCSWordBoundary(t *testing.T) {
	a := strings.Repeat("ab", 50)
	assert.Equal(t, 50, LCS(a, strings.Repeat("a", 100)))
	assert.Equal(t, 100, LCS(a, a))
	assert.Equal(t, 64, LCS(strings.Repeat("x", 64), strings.Repeat("x", 65)))
}

func naiveLCS(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
