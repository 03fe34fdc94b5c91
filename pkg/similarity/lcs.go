package similarity

import "math/bits"

// pattern holds the per-rune match bitmasks of a string so its longest common
// subsequence with many texts can be computed in O(len(text) * words).
type pattern struct {
	n     int
	words int
	masks map[rune][]uint64
	state []uint64
}

func newPattern(s []rune) *pattern {
	words := (len(s) + 63) / 64
	p := &pattern{
		n:     len(s),
		words: words,
		masks: make(map[rune][]uint64, len(s)),
		state: make([]uint64, words),
	}
	for i, r := range s {
		m, ok := p.masks[r]
		if !ok {
			m = make([]uint64, words)
			p.masks[r] = m
		}
		m[i/64] |= 1 << (uint(i) % 64)
	}
	return p
}

// contains reports whether r occurs in the pattern string.
func (p *pattern) contains(r rune) bool {
	_, ok := p.masks[r]
	return ok
}

// lcs returns the length of the longest common subsequence between the
// pattern string and text (Hyyrö's bit-parallel recurrence).
func (p *pattern) lcs(text []rune) int {
	if p.n == 0 || len(text) == 0 {
		return 0
	}
	s := p.state
	for i := range s {
		s[i] = ^uint64(0)
	}
	for _, c := range text {
		m, ok := p.masks[c]
		if !ok {
			continue
		}
		var carry, borrow uint64
		for w := 0; w < p.words; w++ {
			u := s[w] & m[w]
			sum, c1 := bits.Add64(s[w], u, carry)
			diff, b1 := bits.Sub64(s[w], u, borrow)
			carry, borrow = c1, b1
			s[w] = sum | diff
		}
	}
	count := 0
	for w := 0; w < p.words; w++ {
		v := ^s[w]
		if w == p.words-1 && p.n%64 != 0 {
			v &= (uint64(1) << uint(p.n%64)) - 1
		}
		count += bits.OnesCount64(v)
	}
	return count
}

// LCS returns the length of the longest common subsequence of a and b,
// counted in runes.
func LCS(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	return newPattern(ra).lcs(rb)
}
