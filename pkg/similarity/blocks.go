package similarity

import "sort"

// longNeedle is the needle length above which PartialRatio only aligns
// windows on matching blocks instead of scanning every window.
const longNeedle = 64

// block is a run of size equal runes at a[i:] and b[j:].
type block struct {
	i, j, size int
}

// matchingBlocks returns the non-overlapping common runs of a and b in
// increasing order, found by repeatedly taking the longest match and
// recursing on both sides of it. Equal-length longest matches resolve to the
// earliest position in a, then in b. The list always ends with an empty block
// at (len(a), len(b)).
func matchingBlocks(a, b []rune) []block {
	b2j := make(map[rune][]int)
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	longest := func(alo, ahi, blo, bhi int) block {
		best := block{i: alo, j: blo}
		j2len := map[int]int{}
		for i := alo; i < ahi; i++ {
			next := map[int]int{}
			for _, j := range b2j[a[i]] {
				if j < blo {
					continue
				}
				if j >= bhi {
					break
				}
				k := j2len[j-1] + 1
				next[j] = k
				if k > best.size {
					best = block{i: i - k + 1, j: j - k + 1, size: k}
				}
			}
			j2len = next
		}
		return best
	}

	var blocks []block
	queue := [][4]int{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		m := longest(alo, ahi, blo, bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if alo < m.i && blo < m.j {
			queue = append(queue, [4]int{alo, m.i, blo, m.j})
		}
		if m.i+m.size < ahi && m.j+m.size < bhi {
			queue = append(queue, [4]int{m.i + m.size, ahi, m.j + m.size, bhi})
		}
	}
	sort.Slice(blocks, func(x, y int) bool {
		if blocks[x].i != blocks[y].i {
			return blocks[x].i < blocks[y].i
		}
		return blocks[x].j < blocks[y].j
	})

	merged := blocks[:0]
	for _, bl := range blocks {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.i+last.size == bl.i && last.j+last.size == bl.j {
				last.size += bl.size
				continue
			}
		}
		merged = append(merged, bl)
	}
	return append(merged, block{i: len(a), j: len(b)})
}

// partialRatioBlocks scores needle against one window of haystack per
// matching block, each placed so the block lines up with its position in the
// needle.
func partialRatioBlocks(p *pattern, needle, haystack []rune) float64 {
	n, h := len(needle), len(haystack)
	blocks := matchingBlocks(needle, haystack)
	for _, bl := range blocks {
		if bl.size == n {
			return 100
		}
	}

	best := 0.0
	for _, bl := range blocks {
		start := 0
		if bl.j > bl.i {
			start = bl.j - bl.i
		}
		end := min(h, start+n)
		if score := ratioWith(p, haystack[start:end]); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}
