package store

import (
	"errors"
	"strings"
)

// Sibling order is kept as lexicographic ranks: lowercase base36 strings where the
// ordering is plain string comparison. New ranks are fractional midpoints, so inserting
// or moving a node only rewrites that node's rank in the common case.

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	rankMinDigit = 0
	rankMaxDigit = len(rankAlphabet) - 1
	rankMaxLen   = 256
)

var (
	errRankOrder   = errors.New("rank: lower bound must sort before upper bound")
	errRankNoSpace = errors.New("rank: no space between bounds")
	errRankInvalid = errors.New("rank: invalid character")
)

func rankDigit(c byte) (int, bool) {
	i := strings.IndexByte(rankAlphabet, c)
	return i, i >= 0
}

func normalizeRank(r string) string {
	return strings.ToLower(strings.TrimSpace(r))
}

func validRank(r string) bool {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return false
		}
	}
	return true
}

// RankBetween returns a rank strictly between lo and hi.
// Either bound may be empty, meaning unbounded on that side.
func RankBetween(lo, hi string) (string, error) {
	lo = normalizeRank(lo)
	hi = normalizeRank(hi)
	if lo != "" && hi != "" && lo >= hi {
		return "", errRankOrder
	}
	if !validRank(lo) || !validRank(hi) {
		return "", errRankInvalid
	}

	// dl is -1 once lo is exhausted; dh is one past the last digit while hi does not
	// constrain the remaining positions.
	out := make([]byte, 0, 8)
	hiOpen := hi == ""
	for i := 0; i < rankMaxLen; i++ {
		dl := -1
		if i < len(lo) {
			dl, _ = rankDigit(lo[i])
		}
		dh := rankMaxDigit + 1
		if !hiOpen {
			if i >= len(hi) {
				// out equals hi: nothing with this prefix sorts before it ("y" vs "y0").
				return "", errRankNoSpace
			}
			dh, _ = rankDigit(hi[i])
		}

		switch {
		case dh-dl > 1:
			out = append(out, rankAlphabet[(dl+dh)/2])
			return string(out), nil
		case dh == dl:
			out = append(out, rankAlphabet[dl])
		case dl < 0:
			// lo is exhausted and hi has the minimal digit here; follow hi.
			out = append(out, rankAlphabet[rankMinDigit])
		default:
			// Adjacent digits: take lo's, after which hi no longer constrains us.
			out = append(out, rankAlphabet[dl])
			hiOpen = true
		}
	}
	return "", errRankNoSpace
}

// RankAfter returns a rank that sorts after r.
func RankAfter(r string) (string, error) { return RankBetween(r, "") }

// RankInitial returns the rank used for the first node in an empty sibling set.
func RankInitial() (string, error) { return RankBetween("", "") }

// RankBetweenUnique is RankBetween, skipping ranks already present in taken.
// Keys in taken must be normalized.
func RankBetweenUnique(taken map[string]bool, lo, hi string) (string, error) {
	lo = normalizeRank(lo)
	hi = normalizeRank(hi)
	cur := lo
	for i := 0; i < rankMaxLen; i++ {
		r, err := RankBetween(cur, hi)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		cur = r
	}
	return "", errRankNoSpace
}
