package interpolation

import (
	"regexp"
	"sort"
)

// Placeholder is an interpolation variable found in a text value.
type Placeholder struct {
	Start, End int
	Value      string
}

// patterns detect interpolation variables in localized strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_]*\}`),         // ${value}
	regexp.MustCompile(`\{[0-9]+\}`),                           // {0}, {1}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %f, %2d, etc.
	regexp.MustCompile(`%%`),                                   // escaped percent literal
}

// Find returns the non-overlapping placeholders in text ordered by position.
// Where two matches overlap the longer one starting first wins.
func Find(text string) []Placeholder {
	var all []Placeholder
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, Placeholder{Start: loc[0], End: loc[1], Value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End-all[i].Start > all[j].End-all[j].Start
	})

	filtered := all[:0]
	lastEnd := -1
	for _, m := range all {
		if m.Start >= lastEnd {
			filtered = append(filtered, m)
			lastEnd = m.End
		}
	}
	return filtered
}

// Set returns the multiset of placeholder values in text, e.g. {"%s": 2}.
// Escaped percent literals are not counted.
func Set(text string) map[string]int {
	set := make(map[string]int)
	for _, p := range Find(text) {
		if p.Value == "%%" {
			continue
		}
		set[p.Value]++
	}
	return set
}

// SameSet reports whether a and b use the same placeholders the same number
// of times, in any order.
func SameSet(a, b string) bool {
	sa, sb := Set(a), Set(b)
	if len(sa) != len(sb) {
		return false
	}
	for k, n := range sa {
		if sb[k] != n {
			return false
		}
	}
	return true
}
