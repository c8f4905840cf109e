package property

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns the registered names of kind that fuzzily match query, closest first.
// An empty query returns every name of kind.
func Search(query string, kind Kind) []string {
	names := Names(kind)
	if query == "" {
		return names
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})

	matches := make([]string, len(ranks))
	for i, r := range ranks {
		matches[i] = r.Target
	}
	return matches
}
