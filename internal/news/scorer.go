package news

import "strings"

// Scorer computes relevance scores with literal, case-insensitive substring matching.
type Scorer struct {
	include      []string
	includeLower []string
	excludeLower []string
}

// FilterStats describes one Filter call.
type FilterStats struct {
	Scored   int
	Excluded int
	Zero     int
	Kept     int
}

// NewScorer builds a Scorer from the taxonomy. Keyword lists are copied,
// so later changes to tax do not affect the Scorer.
func NewScorer(tax Taxonomy) *Scorer {
	return &Scorer{
		include:      append([]string(nil), tax.Include...),
		includeLower: lowerAll(tax.Include),
		excludeLower: lowerAll(tax.Exclude),
	}
}

// Score sets a.Score and a.MatchedKeywords and returns the score.
// Any exclude keyword wins over every include match and yields ExcludedScore.
func (s *Scorer) Score(a *Article) int {
	text := strings.ToLower(a.Title + " " + a.Summary)

	for _, k := range s.excludeLower {
		if strings.Contains(text, k) {
			a.Score = ExcludedScore
			a.MatchedKeywords = nil
			return a.Score
		}
	}

	score := 0
	var matched []string
	for i, k := range s.includeLower {
		if strings.Contains(text, k) {
			score++
			matched = append(matched, s.include[i])
		}
	}

	a.Score = score
	a.MatchedKeywords = matched
	return score
}

// Filter scores every article and keeps only those with a positive score,
// preserving input order.
func (s *Scorer) Filter(articles []Article) ([]Article, FilterStats) {
	var stats FilterStats
	kept := make([]Article, 0, len(articles))

	for _, a := range articles {
		stats.Scored++
		switch score := s.Score(&a); {
		case a.Excluded():
			stats.Excluded++
		case score == 0:
			stats.Zero++
		default:
			kept = append(kept, a)
		}
	}

	stats.Kept = len(kept)
	return kept, stats
}
