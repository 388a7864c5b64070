package digest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText derives the text/plain alternative of a rendered digest.
func PlainText(htmlDoc string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return "", fmt.Errorf("failed to parse digest: %w", err)
	}

	var b strings.Builder
	header := doc.Find(".header")
	b.WriteString(clean(header.Find("h2").Text()))
	b.WriteString("\n")
	b.WriteString(clean(header.Find("p").Text()))
	b.WriteString("\n")

	doc.Find(".article").Each(func(_ int, s *goquery.Selection) {
		b.WriteString("\n")
		b.WriteString(clean(s.Find(".title").Text()) + "\n")
		b.WriteString("   " + clean(s.Find(".meta").Text()) + "\n")
		b.WriteString("   " + clean(s.Find(".why-read").Text()) + "\n")
		if href, ok := s.Find("a.link").Attr("href"); ok {
			b.WriteString("   " + href + "\n")
		}
	})

	if footer := clean(doc.Find(".footer").Text()); footer != "" {
		b.WriteString("\n--\n" + footer + "\n")
	}
	return b.String(), nil
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
