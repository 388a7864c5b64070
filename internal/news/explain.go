package news

import "strings"

// GenericExplanation is used when an article carries no matched keywords.
const GenericExplanation = "Relevant to your focus areas"

// Annotator derives the "why read" line from matched keywords.
type Annotator struct {
	table []Explanation
}

// NewAnnotator copies the explanation table from the taxonomy.
func NewAnnotator(tax Taxonomy) *Annotator {
	table := make([]Explanation, len(tax.Explanations))
	for i, e := range tax.Explanations {
		table[i] = Explanation{Keyword: strings.ToLower(e.Keyword), Text: e.Text}
	}
	return &Annotator{table: table}
}

// Explain returns the explanation of the first table entry contained in a
// matched keyword. Keywords form the outer loop and the table the inner one.
func (an *Annotator) Explain(a Article) string {
	if len(a.MatchedKeywords) == 0 {
		return GenericExplanation
	}

	for _, kw := range a.MatchedKeywords {
		kw = strings.ToLower(kw)
		for _, e := range an.table {
			if strings.Contains(kw, e.Keyword) {
				return e.Text
			}
		}
	}

	n := len(a.MatchedKeywords)
	if n > 2 {
		n = 2
	}
	return "Matches: " + strings.Join(a.MatchedKeywords[:n], ", ")
}
