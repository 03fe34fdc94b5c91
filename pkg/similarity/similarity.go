// Package similarity implements the 0-100 string similarity metrics used by the
// slug and title matchers: an edit-similarity ratio based on insertions and
// deletions, a best-aligning-substring ratio, and a token-set ratio.
package similarity

import (
	"sort"
	"strings"

	"github.com/agentstation/govmatch/pkg/constants"
)

// Ratio is the normalized Indel similarity of a and b: 100 means identical,
// 0 means no character in common. Two empty strings score 100.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	return ratioWith(newPattern(ra), rb)
}

func ratioWith(p *pattern, text []rune) float64 {
	lensum := p.n + len(text)
	if lensum == 0 {
		return 100
	}
	dist := lensum - 2*p.lcs(text)
	return (1 - float64(dist)/float64(lensum)) * 100
}

// PartialRatio scores the shorter string against its best aligning window in
// the longer one. Windows slide over the longer string, including the partial
// windows hanging off either end. Needles longer than 64 runes are only
// aligned on their matching blocks. When both strings have the same length the
// comparison is run in both directions.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	shorter, longer := ra, rb
	if len(ra) > len(rb) {
		shorter, longer = rb, ra
	}
	best := partialRatio(shorter, longer)
	if best != 100 && len(ra) == len(rb) {
		if other := partialRatio(longer, shorter); other > best {
			best = other
		}
	}
	return best
}

func partialRatio(needle, haystack []rune) float64 {
	n, h := len(needle), len(haystack)
	if n == 0 {
		return 0
	}
	p := newPattern(needle)
	if n > longNeedle {
		return partialRatioBlocks(p, needle, haystack)
	}
	best := 0.0

	consider := func(window []rune) bool {
		if score := ratioWith(p, window); score > best {
			best = score
		}
		return best == 100
	}

	// Windows growing in from the left edge.
	for i := 1; i < n; i++ {
		if !p.contains(haystack[i-1]) {
			continue
		}
		if consider(haystack[:i]) {
			return best
		}
	}
	// Full-length windows.
	for i := 0; i < h-n; i++ {
		if !p.contains(haystack[i+n-1]) {
			continue
		}
		if consider(haystack[i : i+n]) {
			return best
		}
	}
	// Windows shrinking towards the right edge.
	for i := h - n; i < h; i++ {
		if !p.contains(haystack[i]) {
			continue
		}
		if consider(haystack[i:]) {
			return best
		}
	}
	return best
}

// TokenSetRatio compares the deduplicated whitespace token sets of a and b,
// ignoring token order. A string whose tokens are a subset of the other's
// scores 100.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(sect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)
	abJoined := strings.Join(diffAB, " ")
	baJoined := strings.Join(diffBA, " ")
	abLen := runeLen(abJoined)
	baLen := runeLen(baJoined)
	sectLen := runeLen(strings.Join(sect, " "))

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// The shared "sect " prefix adds no distance, so sect+ab against sect+ba
	// only costs the distance between the two differences.
	dist := abLen + baLen - 2*LCS(abJoined, baJoined)
	result := normDistance(dist, sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	sectAB := normDistance(sep+abLen, sectLen+sectABLen)
	sectBA := normDistance(sep+baLen, sectLen+sectBALen)
	return max(result, sectAB, sectBA)
}

// Combined is the title score: the plain ratio, or one of the more permissive
// metrics after its discount when that is higher.
func Combined(a, b string) float64 {
	return max(
		Ratio(a, b),
		PartialRatio(a, b)*constants.PartialRatioWeight,
		TokenSetRatio(a, b)*constants.TokenSetRatioWeight,
	)
}

func normDistance(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lensum)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func runeLen(s string) int {
	return len([]rune(s))
}
