package store

import (
	"errors"
	"sort"
)

// ranked is the part of a node that sibling ordering cares about.
type ranked struct {
	id   string
	rank string
	seq  uint64
}

func compareRanked(a, b ranked) int {
	ra, rb := normalizeRank(a.rank), normalizeRank(b.rank)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

func sortRanked(sibs []ranked) {
	sort.SliceStable(sibs, func(i, j int) bool { return compareRanked(sibs[i], sibs[j]) < 0 })
}

// planReorder computes the rank updates that move movedID to index insertAt of the
// sibling list with movedID removed. Only the moved node is re-ranked when its new
// neighbours leave room; otherwise the smallest window around the insertion point whose
// outer bounds leave room is re-ranked. When even that fails, every sibling is re-ranked.
func planReorder(sibs []ranked, movedID string, insertAt int) (map[string]string, error) {
	cur := append([]ranked(nil), sibs...)
	sortRanked(cur)

	from := -1
	for i := range cur {
		if cur[i].id == movedID {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, errors.New("reorder: node not in sibling set")
	}
	moved := cur[from]
	rest := append(append([]ranked(nil), cur[:from]...), cur[from+1:]...)

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(rest) {
		insertAt = len(rest)
	}
	if insertAt == from {
		return map[string]string{}, nil
	}

	final := make([]ranked, 0, len(cur))
	final = append(final, rest[:insertAt]...)
	final = append(final, moved)
	final = append(final, rest[insertAt:]...)

	lo, hi := insertAt, insertAt
	for !windowBoundsOrdered(final, lo, hi) {
		// Grow toward the side the node came from first; that neighbour was displaced anyway.
		if insertAt < from && hi+1 < len(final) || lo == 0 {
			hi++
		} else {
			lo--
		}
	}

	if out, ok := rerankWindow(final, lo, hi); ok {
		return out, nil
	}
	// No window around the insertion point has room; spread the whole set.
	return spreadUpdates(final), nil
}

// rerankWindow assigns fresh ranks to final[lo..hi] between their outer neighbours. ok is
// false when the bounds run out of room or a new rank would grow past rankRebalanceLen.
func rerankWindow(final []ranked, lo, hi int) (map[string]string, bool) {
	lower, upper := "", ""
	if lo > 0 {
		lower = final[lo-1].rank
	}
	if hi+1 < len(final) {
		upper = final[hi+1].rank
	}

	taken := map[string]bool{}
	for i, r := range final {
		if i < lo || i > hi {
			taken[normalizeRank(r.rank)] = true
		}
	}

	out := make(map[string]string, hi-lo+1)
	for i := lo; i <= hi; i++ {
		r, err := RankBetweenUnique(taken, lower, upper)
		if err != nil || len(r) > rankRebalanceLen {
			return nil, false
		}
		taken[r] = true
		if r != normalizeRank(final[i].rank) {
			out[final[i].id] = r
		}
		lower = r
	}
	return out, true
}

// windowBoundsOrdered reports whether the ranks just outside [lo, hi] leave room for
// new ranks. An open side has room unless the other bound is already at the edge of the
// rank space: nothing sorts before "0", and nothing fits after a maximal-length rank.
func windowBoundsOrdered(final []ranked, lo, hi int) bool {
	lower, upper := "", ""
	if lo > 0 {
		lower = normalizeRank(final[lo-1].rank)
	}
	if hi+1 < len(final) {
		upper = normalizeRank(final[hi+1].rank)
	}
	if lower != "" && upper != "" && lower >= upper {
		return false
	}
	_, err := RankBetween(lower, upper)
	return err == nil
}

// rankRebalanceLen caps rank length. Appends and moves that would exceed it re-rank the
// whole sibling set instead.
const rankRebalanceLen = 24

// spreadRanks returns n fixed-width ranks spaced evenly across the rank space, in
// ascending order, each leaving room on both sides.
func spreadRanks(n int) []string {
	if n <= 0 {
		return nil
	}
	base := int64(len(rankAlphabet))
	width, space := 1, base
	// At least a full digit of room between neighbours and before the first.
	for space < int64(n+1)*base && width < 12 {
		width++
		space *= base
	}
	step := space / int64(n+1)

	out := make([]string, n)
	buf := make([]byte, width)
	for i := 0; i < n; i++ {
		v := step * int64(i+1)
		for d := width - 1; d >= 0; d-- {
			buf[d] = rankAlphabet[v%base]
			v /= base
		}
		out[i] = string(buf)
	}
	return out
}

// spreadUpdates re-ranks every node of final, in order, with spreadRanks.
func spreadUpdates(final []ranked) map[string]string {
	ranks := spreadRanks(len(final))
	out := make(map[string]string, len(final))
	for i, r := range final {
		if ranks[i] != normalizeRank(r.rank) {
			out[r.id] = ranks[i]
		}
	}
	return out
}
