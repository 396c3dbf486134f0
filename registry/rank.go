package registry

import "sort"

// Rank sorts matches descending by Percentage, with ties broken by
// higher Points and then lexicographically ascending PatternID, so
// output order is fully deterministic for identical inputs.
func Rank(matches []Match) []Match {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.PatternID < b.PatternID
	})
	return matches
}
