package news

// LinkSet answers whether a link has already been sent.
type LinkSet interface {
	Contains(link string) bool
}

// FilterNew keeps articles whose link is not in seen, preserving order.
// A link repeated within articles is kept only at its first occurrence.
func FilterNew(articles []Article, seen LinkSet) []Article {
	batch := make(map[string]struct{}, len(articles))
	fresh := make([]Article, 0, len(articles))

	for _, a := range articles {
		if seen != nil && seen.Contains(a.Link) {
			continue
		}
		if _, dup := batch[a.Link]; dup {
			continue
		}
		batch[a.Link] = struct{}{}
		fresh = append(fresh, a)
	}
	return fresh
}
