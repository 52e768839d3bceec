package validate

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Near-duplicate detection thresholds. Both gates must pass: high
// Jaro-Winkler similarity alone accepts pairs like NORD-EST/NORD-OVEST
// that share a long prefix but name different things, so the edit
// distance relative to length caps how much of the string may differ.
const (
	fuzzyMinLength   = 5
	fuzzyJaroWinkler = 0.95
	fuzzyEditRatio   = 0.10
)

type fuzzyPair struct {
	a, b string
}

// nearDuplicates finds category values that are almost certainly
// misspellings of each other. Date-shaped columns are exempt: nearby
// timestamps are legitimately similar strings.
func (st *columnStats) nearDuplicates() []fuzzyPair {
	nonNull := st.total - st.empty
	if nonNull > 0 && float64(st.dateLikeHits)/float64(nonNull) >= 0.5 {
		return nil
	}
	if st.overflow || len(st.distinct) < 2 {
		return nil
	}

	values := make([]string, 0, len(st.distinct))
	for v := range st.distinct {
		if len([]rune(v)) >= fuzzyMinLength {
			values = append(values, v)
		}
	}
	sort.Strings(values)

	var pairs []fuzzyPair
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if similarValues(values[i], values[j]) {
				pairs = append(pairs, fuzzyPair{a: values[i], b: values[j]})
			}
		}
	}
	return pairs
}

func similarValues(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		// distinct raw values that fold to the same string are the
		// clearest near-duplicate of all
		return true
	}
	if smetrics.JaroWinkler(la, lb, 0.7, 4) < fuzzyJaroWinkler {
		return false
	}
	dist := smetrics.WagnerFischer(la, lb, 1, 1, 1)
	maxLen := len([]rune(la))
	if n := len([]rune(lb)); n > maxLen {
		maxLen = n
	}
	return float64(dist)/float64(maxLen) < fuzzyEditRatio
}
