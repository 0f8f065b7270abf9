package database

import "strings"

// Ranks are strings over '0'..'z' compared lexicographically. New ranks are
// always chosen strictly inside the open interval of their neighbours, so
// moving one announcement rewrites a single row.
const (
	minChar = '0'
	maxChar = 'z'
	midChar = 'U'
)

// Next returns a rank that sorts after prev.
func Next(prev string) string {
	return prev + string(midChar)
}

// IsBetween reports whether rank lies strictly between prev and next. An empty
// bound is open; with both bounds empty there is nothing to satisfy and the
// result is false so callers assign a fresh rank.
func IsBetween(prev, rank, next string) bool {
	switch {
	case prev == "" && next == "":
		return false
	case prev == "":
		return strings.Compare(rank, next) < 0
	case next == "":
		return strings.Compare(prev, rank) < 0
	}
	return strings.Compare(prev, rank) < 0 && strings.Compare(rank, next) < 0
}

// Between returns a rank strictly between prev and next. An empty next means
// "after prev", an empty prev means "before next".
func Between(prev, next string) string {
	if next == "" {
		return Next(prev)
	}

	lower := []rune(prev)
	upper := []rune(next)
	var out []rune
	for i := 0; ; i++ {
		lo := rune(minChar)
		if i < len(lower) {
			lo = lower[i]
		}
		hi := rune(maxChar)
		if i < len(upper) {
			hi = upper[i]
		}

		if lo+1 < hi {
			return string(append(out, lo+(hi-lo)/2))
		}
		// no room at this position: keep the lower character and go one deeper
		out = append(out, lo)
	}
}

// Reorder maps ids to the new ranks needed so that ranks ascend in the given
// order. Ids whose current rank already fits between their neighbours are
// left out of the result.
func Reorder(existing map[string]string, order []string) map[string]string {
	updates := make(map[string]string, len(order))
	rankOf := func(id string) string {
		if r, ok := updates[id]; ok {
			return r
		}
		return existing[id]
	}

	for i, id := range order {
		var prev, next string
		if i > 0 {
			prev = rankOf(order[i-1])
		}
		if i < len(order)-1 {
			next = rankOf(order[i+1])
		}

		current := existing[id]
		if current != "" && IsBetween(prev, current, next) {
			continue
		}
		updates[id] = Between(prev, next)
	}
	return updates
}
