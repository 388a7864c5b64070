package news

// ExcludedScore marks an article that hit an exclude keyword.
const ExcludedScore = -1

// Article is a single feed entry normalized for scoring.
// Link is the identity key used for deduplication across runs.
type Article struct {
	Title     string
	Link      string
	Summary   string
	Published string // as provided by the feed, display only
	Source    string // upper-cased source name

	Score           int
	MatchedKeywords []string
}

// Excluded reports whether the article was suppressed by an exclude keyword.
func (a Article) Excluded() bool {
	return a.Score == ExcludedScore
}

// Links returns the links of the given articles in order.
func Links(articles []Article) []string {
	links := make([]string, 0, len(articles))
	for _, a := range articles {
		links = append(links, a.Link)
	}
	return links
}
