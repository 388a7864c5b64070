package news

import "sort"

// DefaultTopN is the number of articles a digest carries.
const DefaultTopN = 5

// Rank orders articles by score, highest first, and returns at most limit of them.
// The sort is stable: equal scores keep their input order. Articles with a
// non-positive score are never returned. The input slice is not modified.
func Rank(articles []Article, limit int) []Article {
	ranked := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Score > 0 {
			ranked = append(ranked, a)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
